package userdata

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	usersBucket    = []byte("users")
	commentsBucket = []byte("comments")

	historyBucket       = []byte("history")
	likedBucket         = []byte("likedVideos")
	subscriptionsBucket = []byte("subscriptions")
	playlistsBucket     = []byte("playlists")
)

// Path helpers mirror the document store's hierarchical key paths.
func HistoryPath(uid string) string       { return "users/" + uid + "/history" }
func LikedPath(uid string) string         { return "users/" + uid + "/likedVideos" }
func SubscriptionsPath(uid string) string { return "users/" + uid + "/subscriptions" }
func PlaylistsPath(uid string) string     { return "users/" + uid + "/playlists" }
func CommentsPath(videoID string) string  { return "comments/" + videoID }

// Store is the per-user state layer: history, likes, subscriptions,
// playlists and locally posted comments, each namespaced under the
// authenticated user id. Writes notify path watchers in write order.
type Store struct {
	db       *bolt.DB
	watchers *watcherSet
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{usersBucket, commentsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, watchers: newWatcherSet()}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// userBucket descends users/<uid>/<section>, creating as needed.
func userBucket(tx *bolt.Tx, uid string, section []byte) (*bolt.Bucket, error) {
	users := tx.Bucket(usersBucket)
	u, err := users.CreateBucketIfNotExists([]byte(uid))
	if err != nil {
		return nil, err
	}
	return u.CreateBucketIfNotExists(section)
}

// userBucketView descends users/<uid>/<section> read-only; nil when absent.
func userBucketView(tx *bolt.Tx, uid string, section []byte) *bolt.Bucket {
	users := tx.Bucket(usersBucket)
	if users == nil {
		return nil
	}
	u := users.Bucket([]byte(uid))
	if u == nil {
		return nil
	}
	return u.Bucket(section)
}

// --- History ---

// AddHistory appends a watch record under a store-generated key.
func (s *Store) AddHistory(uid string, entry HistoryEntry) (string, error) {
	key := uuid.NewString()
	path := HistoryPath(uid) + "/" + key

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := userBucket(tx, uid, historyBucket)
		if err != nil {
			return err
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return "", storeErr("write", path, err)
	}

	s.watchers.notify(path)
	return key, nil
}

// History returns all watch records, most recent first.
func (s *Store) History(uid string) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := userBucketView(tx, uid, historyBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e HistoryEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			e.Key = string(k)
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("read", HistoryPath(uid), err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].WatchedAt > entries[j].WatchedAt
	})
	return entries, nil
}

func (s *Store) RemoveHistory(uid, key string) error {
	path := HistoryPath(uid) + "/" + key
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := userBucket(tx, uid, historyBucket)
		if err != nil {
			return err
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return storeErr("remove", path, err)
	}
	s.watchers.notify(path)
	return nil
}

// ClearHistory drops every watch record for the user.
func (s *Store) ClearHistory(uid string) error {
	path := HistoryPath(uid)
	err := s.db.Update(func(tx *bolt.Tx) error {
		users := tx.Bucket(usersBucket)
		u := users.Bucket([]byte(uid))
		if u == nil || u.Bucket(historyBucket) == nil {
			return nil
		}
		return u.DeleteBucket(historyBucket)
	})
	if err != nil {
		return storeErr("remove", path, err)
	}
	s.watchers.notify(path)
	return nil
}

// --- Liked videos ---

// Like records a liked video keyed by its id.
func (s *Store) Like(uid string, video LikedVideo) error {
	path := LikedPath(uid) + "/" + video.VideoID
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := userBucket(tx, uid, likedBucket)
		if err != nil {
			return err
		}
		data, err := json.Marshal(video)
		if err != nil {
			return err
		}
		return b.Put([]byte(video.VideoID), data)
	})
	if err != nil {
		return storeErr("write", path, err)
	}
	s.watchers.notify(path)
	return nil
}

// Unlike deletes the liked record; a tombstone write in path terms.
func (s *Store) Unlike(uid, videoID string) error {
	path := LikedPath(uid) + "/" + videoID
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := userBucket(tx, uid, likedBucket)
		if err != nil {
			return err
		}
		return b.Delete([]byte(videoID))
	})
	if err != nil {
		return storeErr("remove", path, err)
	}
	s.watchers.notify(path)
	return nil
}

func (s *Store) IsLiked(uid, videoID string) (bool, error) {
	var liked bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := userBucketView(tx, uid, likedBucket)
		if b != nil {
			liked = b.Get([]byte(videoID)) != nil
		}
		return nil
	})
	if err != nil {
		return false, storeErr("read", LikedPath(uid)+"/"+videoID, err)
	}
	return liked, nil
}

// GetLiked returns the liked record, or nil when absent.
func (s *Store) GetLiked(uid, videoID string) (*LikedVideo, error) {
	var video *LikedVideo
	err := s.db.View(func(tx *bolt.Tx) error {
		b := userBucketView(tx, uid, likedBucket)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(videoID))
		if data == nil {
			return nil
		}
		var v LikedVideo
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		video = &v
		return nil
	})
	if err != nil {
		return nil, storeErr("read", LikedPath(uid)+"/"+videoID, err)
	}
	return video, nil
}

// LikedVideos returns all liked records, most recently liked first.
func (s *Store) LikedVideos(uid string) ([]LikedVideo, error) {
	var videos []LikedVideo
	err := s.db.View(func(tx *bolt.Tx) error {
		b := userBucketView(tx, uid, likedBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var lv LikedVideo
			if err := json.Unmarshal(v, &lv); err != nil {
				return err
			}
			videos = append(videos, lv)
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("read", LikedPath(uid), err)
	}

	sort.Slice(videos, func(i, j int) bool {
		return videos[i].LikedAt > videos[j].LikedAt
	})
	return videos, nil
}

// --- Subscriptions ---

func (s *Store) Subscribe(uid string, sub Subscription) error {
	path := SubscriptionsPath(uid) + "/" + sub.ChannelID
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := userBucket(tx, uid, subscriptionsBucket)
		if err != nil {
			return err
		}
		data, err := json.Marshal(sub)
		if err != nil {
			return err
		}
		return b.Put([]byte(sub.ChannelID), data)
	})
	if err != nil {
		return storeErr("write", path, err)
	}
	s.watchers.notify(path)
	return nil
}

func (s *Store) Unsubscribe(uid, channelID string) error {
	path := SubscriptionsPath(uid) + "/" + channelID
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := userBucket(tx, uid, subscriptionsBucket)
		if err != nil {
			return err
		}
		return b.Delete([]byte(channelID))
	})
	if err != nil {
		return storeErr("remove", path, err)
	}
	s.watchers.notify(path)
	return nil
}

func (s *Store) IsSubscribed(uid, channelID string) (bool, error) {
	var subscribed bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := userBucketView(tx, uid, subscriptionsBucket)
		if b != nil {
			subscribed = b.Get([]byte(channelID)) != nil
		}
		return nil
	})
	if err != nil {
		return false, storeErr("read", SubscriptionsPath(uid)+"/"+channelID, err)
	}
	return subscribed, nil
}

// Subscriptions returns all subscriptions sorted by channel title.
func (s *Store) Subscriptions(uid string) ([]Subscription, error) {
	var subs []Subscription
	err := s.db.View(func(tx *bolt.Tx) error {
		b := userBucketView(tx, uid, subscriptionsBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var sub Subscription
			if err := json.Unmarshal(v, &sub); err != nil {
				return err
			}
			subs = append(subs, sub)
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("read", SubscriptionsPath(uid), err)
	}

	sort.Slice(subs, func(i, j int) bool {
		return strings.ToLower(subs[i].Title) < strings.ToLower(subs[j].Title)
	})
	return subs, nil
}

// --- Playlists ---

// CreatePlaylist creates an empty playlist under a push key. An empty
// name is rejected before anything touches the store.
func (s *Store) CreatePlaylist(uid, name, description string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &ValidationError{Field: "playlist name", Reason: "must not be empty"}
	}

	id := uuid.NewString()
	now := time.Now().UnixMilli()
	pl := Playlist{
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Videos:      map[string]PlaylistVideo{},
	}

	path := PlaylistsPath(uid) + "/" + id
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := userBucket(tx, uid, playlistsBucket)
		if err != nil {
			return err
		}
		data, err := json.Marshal(pl)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return "", storeErr("write", path, err)
	}
	s.watchers.notify(path)
	return id, nil
}

func (s *Store) DeletePlaylist(uid, id string) error {
	path := PlaylistsPath(uid) + "/" + id
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := userBucket(tx, uid, playlistsBucket)
		if err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return storeErr("remove", path, err)
	}
	s.watchers.notify(path)
	return nil
}

// Playlists returns all playlists sorted by most recently updated.
func (s *Store) Playlists(uid string) ([]Playlist, error) {
	var playlists []Playlist
	err := s.db.View(func(tx *bolt.Tx) error {
		b := userBucketView(tx, uid, playlistsBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var pl Playlist
			if err := json.Unmarshal(v, &pl); err != nil {
				return err
			}
			pl.ID = string(k)
			if pl.Videos == nil {
				pl.Videos = map[string]PlaylistVideo{}
			}
			playlists = append(playlists, pl)
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("read", PlaylistsPath(uid), err)
	}

	sort.Slice(playlists, func(i, j int) bool {
		return playlists[i].UpdatedAt > playlists[j].UpdatedAt
	})
	return playlists, nil
}

func (s *Store) getPlaylist(tx *bolt.Tx, uid, id string) (*Playlist, error) {
	b := userBucketView(tx, uid, playlistsBucket)
	if b == nil {
		return nil, fmt.Errorf("playlist not found")
	}
	data := b.Get([]byte(id))
	if data == nil {
		return nil, fmt.Errorf("playlist not found")
	}
	var pl Playlist
	if err := json.Unmarshal(data, &pl); err != nil {
		return nil, err
	}
	pl.ID = id
	if pl.Videos == nil {
		pl.Videos = map[string]PlaylistVideo{}
	}
	return &pl, nil
}

func (s *Store) putPlaylist(tx *bolt.Tx, uid string, pl *Playlist) error {
	b, err := userBucket(tx, uid, playlistsBucket)
	if err != nil {
		return err
	}
	data, err := json.Marshal(pl)
	if err != nil {
		return err
	}
	return b.Put([]byte(pl.ID), data)
}

// AddToPlaylist inserts the video into the playlist's nested mapping,
// then bumps UpdatedAt as a second independent write. The two writes
// are deliberately not atomic; a crash in between leaves a stale
// timestamp.
func (s *Store) AddToPlaylist(uid, playlistID string, video PlaylistVideo) error {
	path := PlaylistsPath(uid) + "/" + playlistID + "/videos/" + video.VideoID

	err := s.db.Update(func(tx *bolt.Tx) error {
		pl, err := s.getPlaylist(tx, uid, playlistID)
		if err != nil {
			return err
		}
		pl.Videos[video.VideoID] = video
		return s.putPlaylist(tx, uid, pl)
	})
	if err != nil {
		return storeErr("write", path, err)
	}
	s.watchers.notify(path)

	return s.touchPlaylist(uid, playlistID)
}

// RemoveFromPlaylist deletes the video entry, then bumps UpdatedAt.
func (s *Store) RemoveFromPlaylist(uid, playlistID, videoID string) error {
	path := PlaylistsPath(uid) + "/" + playlistID + "/videos/" + videoID

	err := s.db.Update(func(tx *bolt.Tx) error {
		pl, err := s.getPlaylist(tx, uid, playlistID)
		if err != nil {
			return err
		}
		delete(pl.Videos, videoID)
		return s.putPlaylist(tx, uid, pl)
	})
	if err != nil {
		return storeErr("remove", path, err)
	}
	s.watchers.notify(path)

	return s.touchPlaylist(uid, playlistID)
}

func (s *Store) touchPlaylist(uid, playlistID string) error {
	path := PlaylistsPath(uid) + "/" + playlistID + "/updatedAt"
	err := s.db.Update(func(tx *bolt.Tx) error {
		pl, err := s.getPlaylist(tx, uid, playlistID)
		if err != nil {
			return err
		}
		pl.UpdatedAt = time.Now().UnixMilli()
		return s.putPlaylist(tx, uid, pl)
	})
	if err != nil {
		return storeErr("write", path, err)
	}
	s.watchers.notify(path)
	return nil
}

// --- Comments ---

// AddComment appends a comment for the video under a push key.
func (s *Store) AddComment(videoID string, comment Comment) (string, error) {
	key := uuid.NewString()
	path := CommentsPath(videoID) + "/" + key

	err := s.db.Update(func(tx *bolt.Tx) error {
		comments := tx.Bucket(commentsBucket)
		b, err := comments.CreateBucketIfNotExists([]byte(videoID))
		if err != nil {
			return err
		}
		data, err := json.Marshal(comment)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return "", storeErr("write", path, err)
	}
	s.watchers.notify(path)
	return key, nil
}

// Comments returns all local comments for the video, newest first.
func (s *Store) Comments(videoID string) ([]Comment, error) {
	var comments []Comment
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(commentsBucket)
		if root == nil {
			return nil
		}
		b := root.Bucket([]byte(videoID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var c Comment
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			c.Key = string(k)
			comments = append(comments, c)
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("read", CommentsPath(videoID), err)
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].Timestamp > comments[j].Timestamp
	})
	return comments, nil
}
