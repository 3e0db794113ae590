package userdata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkoval/vtv/internal/catalog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "vtv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHistoryAddAndList(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddHistory("u1", HistoryEntry{
		VideoRef:  VideoRef{VideoID: "a", Title: "First"},
		WatchedAt: 100,
	})
	require.NoError(t, err)
	_, err = s.AddHistory("u1", HistoryEntry{
		VideoRef:  VideoRef{VideoID: "b", Title: "Second"},
		WatchedAt: 200,
	})
	require.NoError(t, err)

	entries, err := s.History("u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].VideoID, "most recent first")
	assert.Equal(t, "a", entries[1].VideoID)
	assert.NotEmpty(t, entries[0].Key)
}

func TestHistoryIsolatedPerUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddHistory("u1", HistoryEntry{VideoRef: VideoRef{VideoID: "a"}, WatchedAt: 1})
	require.NoError(t, err)

	entries, err := s.History("u2")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryRemove(t *testing.T) {
	s := newTestStore(t)

	key, err := s.AddHistory("u1", HistoryEntry{VideoRef: VideoRef{VideoID: "a"}, WatchedAt: 1})
	require.NoError(t, err)

	require.NoError(t, s.RemoveHistory("u1", key))

	entries, err := s.History("u1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryClear(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := s.AddHistory("u1", HistoryEntry{VideoRef: VideoRef{VideoID: "a"}, WatchedAt: int64(i)})
		require.NoError(t, err)
	}
	require.NoError(t, s.ClearHistory("u1"))

	entries, err := s.History("u1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// clearing an already empty history is fine
	require.NoError(t, s.ClearHistory("u1"))
	require.NoError(t, s.ClearHistory("nobody"))
}

func TestLikeRoundTrip(t *testing.T) {
	s := newTestStore(t)

	video := catalog.Video{
		ID:           "dQw4w9WgXcQ",
		Title:        "Some Title",
		Thumbnail:    "https://i.ytimg.com/vi/dQw4w9WgXcQ/mqdefault.jpg",
		ChannelTitle: "Some Channel",
	}
	err := s.Like("u1", LikedVideo{VideoRef: RefFromVideo(video), LikedAt: 42})
	require.NoError(t, err)

	got, err := s.GetLiked("u1", video.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, video.ID, got.VideoID)
	assert.Equal(t, video.Title, got.Title)
	assert.Equal(t, video.Thumbnail, got.Thumbnail)
	assert.Equal(t, video.ChannelTitle, got.ChannelTitle)
	assert.Equal(t, int64(42), got.LikedAt)
}

func TestLikeUnlike(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Like("u1", LikedVideo{VideoRef: VideoRef{VideoID: "a"}, LikedAt: 1}))

	liked, err := s.IsLiked("u1", "a")
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, s.Unlike("u1", "a"))

	liked, err = s.IsLiked("u1", "a")
	require.NoError(t, err)
	assert.False(t, liked)

	got, err := s.GetLiked("u1", "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLikedVideosOrdering(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Like("u1", LikedVideo{VideoRef: VideoRef{VideoID: "old"}, LikedAt: 10}))
	require.NoError(t, s.Like("u1", LikedVideo{VideoRef: VideoRef{VideoID: "new"}, LikedAt: 20}))

	videos, err := s.LikedVideos("u1")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "new", videos[0].VideoID)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Subscribe("u1", Subscription{ChannelID: "c1", Title: "Channel"}))

	subscribed, err := s.IsSubscribed("u1", "c1")
	require.NoError(t, err)
	assert.True(t, subscribed)

	require.NoError(t, s.Unsubscribe("u1", "c1"))

	subscribed, err = s.IsSubscribed("u1", "c1")
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestSubscriptionsSortedByTitle(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Subscribe("u1", Subscription{ChannelID: "c1", Title: "zed"}))
	require.NoError(t, s.Subscribe("u1", Subscription{ChannelID: "c2", Title: "Alpha"}))

	subs, err := s.Subscriptions("u1")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Alpha", subs[0].Title)
	assert.Equal(t, "zed", subs[1].Title)
}

func TestCreatePlaylistRejectsEmptyName(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreatePlaylist("u1", "   ", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "playlist name", verr.Field)

	playlists, err := s.Playlists("u1")
	require.NoError(t, err)
	assert.Empty(t, playlists)
}

func TestPlaylistLifecycle(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreatePlaylist("u1", "Watch Later", "stuff for the weekend")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	playlists, err := s.Playlists("u1")
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Watch Later", playlists[0].Name)
	assert.NotNil(t, playlists[0].Videos)
	assert.Empty(t, playlists[0].Videos)
	assert.Equal(t, playlists[0].CreatedAt, playlists[0].UpdatedAt)

	require.NoError(t, s.DeletePlaylist("u1", id))

	playlists, err = s.Playlists("u1")
	require.NoError(t, err)
	assert.Empty(t, playlists)
}

func TestAddToPlaylist(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreatePlaylist("u1", "Mix", "")
	require.NoError(t, err)

	before, err := s.Playlists("u1")
	require.NoError(t, err)
	created := before[0].UpdatedAt

	err = s.AddToPlaylist("u1", id, PlaylistVideo{
		VideoRef: VideoRef{VideoID: "a", Title: "A"},
		AddedAt:  123,
	})
	require.NoError(t, err)

	after, err := s.Playlists("u1")
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Contains(t, after[0].Videos, "a")
	assert.Equal(t, "A", after[0].Videos["a"].Title)
	assert.GreaterOrEqual(t, after[0].UpdatedAt, created)
}

func TestAddToPlaylistOverwritesDuplicate(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreatePlaylist("u1", "Mix", "")
	require.NoError(t, err)

	require.NoError(t, s.AddToPlaylist("u1", id, PlaylistVideo{VideoRef: VideoRef{VideoID: "a", Title: "old"}}))
	require.NoError(t, s.AddToPlaylist("u1", id, PlaylistVideo{VideoRef: VideoRef{VideoID: "a", Title: "new"}}))

	playlists, err := s.Playlists("u1")
	require.NoError(t, err)
	require.Len(t, playlists[0].Videos, 1)
	assert.Equal(t, "new", playlists[0].Videos["a"].Title)
}

func TestRemoveFromPlaylist(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreatePlaylist("u1", "Mix", "")
	require.NoError(t, err)
	require.NoError(t, s.AddToPlaylist("u1", id, PlaylistVideo{VideoRef: VideoRef{VideoID: "a"}}))

	require.NoError(t, s.RemoveFromPlaylist("u1", id, "a"))

	playlists, err := s.Playlists("u1")
	require.NoError(t, err)
	assert.Empty(t, playlists[0].Videos)
}

func TestAddToPlaylistMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.AddToPlaylist("u1", "nope", PlaylistVideo{VideoRef: VideoRef{VideoID: "a"}})
	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "write", serr.Op)
}

func TestCommentsPerVideo(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddComment("vid1", Comment{Text: "first", UserID: "u1", Timestamp: 100})
	require.NoError(t, err)
	_, err = s.AddComment("vid1", Comment{Text: "second", UserID: "u1", Timestamp: 200})
	require.NoError(t, err)
	_, err = s.AddComment("vid2", Comment{Text: "elsewhere", UserID: "u1", Timestamp: 300})
	require.NoError(t, err)

	comments, err := s.Comments("vid1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text, "newest first")
	assert.NotEmpty(t, comments[0].Key)

	other, err := s.Comments("vid2")
	require.NoError(t, err)
	require.Len(t, other, 1)

	none, err := s.Comments("vid3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vtv.db")

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Like("u1", LikedVideo{VideoRef: VideoRef{VideoID: "a"}, LikedAt: 1}))
	require.NoError(t, s.Close())

	s2, err := NewStore(path)
	require.NoError(t, err)
	defer s2.Close()

	liked, err := s2.IsLiked("u1", "a")
	require.NoError(t, err)
	assert.True(t, liked)
}
