package userdata

import "github.com/nkoval/vtv/internal/catalog"

// VideoRef is the denormalized video summary carried by every
// user-scoped record. It is a snapshot taken at action time and is
// not kept in sync with the live catalog.
type VideoRef struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
}

// RefFromVideo snapshots the fields user records carry.
func RefFromVideo(v catalog.Video) VideoRef {
	return VideoRef{
		VideoID:      v.ID,
		Title:        v.Title,
		Thumbnail:    v.Thumbnail,
		ChannelTitle: v.ChannelTitle,
	}
}

// HistoryEntry records one watch. Key is the store-generated push key.
type HistoryEntry struct {
	Key string `json:"-"`
	VideoRef
	WatchedAt int64 `json:"watchedAt"`
	IsShort   bool  `json:"isShort,omitempty"`
}

type LikedVideo struct {
	VideoRef
	LikedAt int64 `json:"likedAt"`
	IsShort bool  `json:"isShort,omitempty"`
}

type Subscription struct {
	ChannelID    string `json:"channelId"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	SubscribedAt int64  `json:"subscribedAt"`
}

type PlaylistVideo struct {
	VideoRef
	AddedAt int64 `json:"addedAt"`
}

// Playlist holds its videos as a nested mapping keyed by video id.
type Playlist struct {
	ID          string                   `json:"-"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	CreatedAt   int64                    `json:"createdAt"`
	UpdatedAt   int64                    `json:"updatedAt"`
	Videos      map[string]PlaylistVideo `json:"videos"`
}

// Comment is a locally posted comment, keyed per video.
type Comment struct {
	Key       string `json:"-"`
	Text      string `json:"text"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto"`
	Timestamp int64  `json:"timestamp"`
	Likes     int    `json:"likes"`
}
