package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nkoval/vtv/internal/catalog"
	"github.com/nkoval/vtv/internal/debuglog"
	"github.com/nkoval/vtv/internal/library"
	"github.com/nkoval/vtv/internal/userdata"
)

var errNotSignedIn = errors.New("sign in first")

func (a *App) opContext() (context.Context, context.CancelFunc) {
	timeout := a.config.Catalog.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (a *App) uid() (string, error) {
	if id := a.session.Current(); id != nil {
		return id.UID, nil
	}
	return "", errNotSignedIn
}

func (a *App) loadHomeVideos() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.opContext()
		defer cancel()

		videos, err := a.catalog.GetPopularVideos(ctx, a.config.Catalog.MaxResults)
		if err != nil {
			return errorMsg{err: wrapErr("loading videos", err)}
		}
		return videosLoadedMsg{view: ViewHome, videos: videos}
	}
}

func (a *App) loadBrowse(view View) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.opContext()
		defer cancel()

		var videos []catalog.Video
		var err error
		limit := a.config.Catalog.MaxResults

		switch view {
		case ViewTrending:
			videos, err = a.catalog.GetTrendingVideos(ctx, limit)
		case ViewMusic:
			videos, err = a.catalog.GetVideosByCategory(ctx, catalog.CategoryMusic, limit)
		case ViewMovies:
			videos, err = a.catalog.GetVideosByCategory(ctx, catalog.CategoryMovies, limit)
		case ViewGaming:
			videos, err = a.catalog.GetVideosByCategory(ctx, catalog.CategoryGaming, limit)
		case ViewLive:
			videos, err = a.catalog.GetLiveVideos(ctx, limit)
		default:
			return nil
		}
		if err != nil {
			return errorMsg{err: wrapErr("loading videos", err)}
		}
		return videosLoadedMsg{view: view, videos: videos}
	}
}

// performSearch runs a catalog search. The sequence number rejects
// responses that arrive after the query changed again.
func (a *App) performSearch(query string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.opContext()
		defer cancel()

		videos, err := a.catalog.SearchVideos(ctx, query, a.config.Catalog.MaxResults)
		if err != nil {
			return errorMsg{err: wrapErr("searching", err)}
		}
		return searchResultsMsg{videos: videos, query: query, seq: seq}
	}
}

// loadVideo gathers everything the watch view shows: fresh details,
// related videos, upstream comments, local comments, and the user's
// like/subscribe state toward it.
func (a *App) loadVideo(video catalog.Video) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.opContext()
		defer cancel()

		detail := videoDetailMsg{video: video}

		if fresh, err := a.catalog.GetVideoByID(ctx, video.ID); err != nil {
			debuglog.Warnf("video detail fetch failed for %s: %v", video.ID, err)
		} else if fresh != nil {
			detail.video = *fresh
		}

		related, err := a.catalog.GetRelatedVideos(ctx, detail.video.ID, 12)
		if err != nil {
			debuglog.Warnf("related fetch failed for %s: %v", video.ID, err)
		}
		detail.related = related

		comments, err := a.catalog.GetVideoComments(ctx, video.ID, 20)
		if err != nil {
			debuglog.Warnf("comments fetch failed for %s: %v", video.ID, err)
		}
		detail.comments = comments

		if local, err := a.store.Comments(video.ID); err == nil {
			detail.localComments = local
		}

		if uid, err := a.uid(); err == nil {
			detail.liked, _ = a.store.IsLiked(uid, video.ID)
			detail.subscribed, _ = a.store.IsSubscribed(uid, video.ChannelID)
		}

		return detail
	}
}

// loadShorts fans one search per configured query and merges the
// results. A failing query is skipped; only a fully failed fan-out
// surfaces an error.
func (a *App) loadShorts() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.opContext()
		defer cancel()

		var merged []catalog.Video
		var lastErr error
		for _, query := range a.config.Shorts.Queries {
			videos, err := a.catalog.SearchVideos(ctx, query, a.config.Shorts.PerQuery)
			if err != nil {
				debuglog.Warnf("shorts query %q failed: %v", query, err)
				lastErr = err
				continue
			}
			merged = append(merged, videos...)
		}

		if len(merged) == 0 && lastErr != nil {
			return errorMsg{err: wrapErr("loading shorts", lastErr)}
		}
		return shortsLoadedMsg{videos: merged}
	}
}

// preloadShort fetches full details for an item inside the preload
// radius. The feed index is echoed back so the engine can promote it.
func (a *App) preloadShort(index int, videoID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.opContext()
		defer cancel()

		video, err := a.catalog.GetVideoByID(ctx, videoID)
		if err != nil || video == nil {
			debuglog.Debugf("shorts preload failed for %s: %v", videoID, err)
			return shortsReadyMsg{index: index, videoID: videoID}
		}
		return shortsReadyMsg{index: index, videoID: videoID, video: video}
	}
}

func (a *App) recordHistory(video catalog.Video, isShort bool) tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return nil
		}
		entry := userdata.HistoryEntry{
			VideoRef:  userdata.RefFromVideo(video),
			WatchedAt: time.Now().UnixMilli(),
			IsShort:   isShort,
		}
		if _, err := retryValue(func() (string, error) { return a.store.AddHistory(uid, entry) }); err != nil {
			return errorMsg{err: wrapErr("recording history", err)}
		}
		_ = a.library.PutHistory(entry)
		return historyRecordedMsg{videoID: video.ID}
	}
}

func (a *App) toggleLike(video catalog.Video) tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}

		liked, err := a.store.IsLiked(uid, video.ID)
		if err != nil {
			return errorMsg{err: err}
		}

		if liked {
			if err := retryOperation(func() error { return a.store.Unlike(uid, video.ID) }); err != nil {
				return errorMsg{err: err}
			}
			_ = a.library.Delete(library.KindLiked, video.ID)
			return likeToggledMsg{videoID: video.ID, liked: false}
		}

		lv := userdata.LikedVideo{
			VideoRef: userdata.RefFromVideo(video),
			LikedAt:  time.Now().UnixMilli(),
		}
		if err := retryOperation(func() error { return a.store.Like(uid, lv) }); err != nil {
			return errorMsg{err: err}
		}
		_ = a.library.PutLiked(lv)
		return likeToggledMsg{videoID: video.ID, liked: true}
	}
}

func (a *App) toggleSubscribe(channelID, channelTitle, thumbnail string) tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}
		if channelID == "" {
			return errorMsg{err: errors.New("video has no channel")}
		}

		subscribed, err := a.store.IsSubscribed(uid, channelID)
		if err != nil {
			return errorMsg{err: err}
		}

		if subscribed {
			if err := retryOperation(func() error { return a.store.Unsubscribe(uid, channelID) }); err != nil {
				return errorMsg{err: err}
			}
			return subscribeToggledMsg{channelID: channelID, subscribed: false}
		}

		sub := userdata.Subscription{
			ChannelID:    channelID,
			Title:        channelTitle,
			Thumbnail:    thumbnail,
			SubscribedAt: time.Now().UnixMilli(),
		}
		if err := retryOperation(func() error { return a.store.Subscribe(uid, sub) }); err != nil {
			return errorMsg{err: err}
		}
		return subscribeToggledMsg{channelID: channelID, subscribed: true}
	}
}

func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}
		entries, err := a.store.History(uid)
		if err != nil {
			return errorMsg{err: err}
		}
		return historyLoadedMsg{entries: entries}
	}
}

func (a *App) clearHistory() tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}
		if err := retryOperation(func() error { return a.store.ClearHistory(uid) }); err != nil {
			return errorMsg{err: err}
		}
		return historyLoadedMsg{entries: nil, cleared: true}
	}
}

func (a *App) loadLiked() tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}
		videos, err := a.store.LikedVideos(uid)
		if err != nil {
			return errorMsg{err: err}
		}
		return likedLoadedMsg{videos: videos}
	}
}

func (a *App) loadSubscriptions() tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}
		subs, err := a.store.Subscriptions(uid)
		if err != nil {
			return errorMsg{err: err}
		}
		return subscriptionsLoadedMsg{subs: subs}
	}
}

// loadUploads fetches a channel's recent uploads from its public feed.
func (a *App) loadUploads(channelID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.opContext()
		defer cancel()

		videos, err := a.channelFeed.LatestUploads(ctx, channelID, 15)
		if err != nil {
			debuglog.Warnf("uploads fetch failed for %s: %v", channelID, err)
			return nil
		}
		return uploadsLoadedMsg{channelID: channelID, videos: videos}
	}
}

func (a *App) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}
		playlists, err := a.store.Playlists(uid)
		if err != nil {
			return errorMsg{err: err}
		}
		return playlistsLoadedMsg{playlists: playlists}
	}
}

func (a *App) createPlaylist(name, description string) tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}
		id, err := a.store.CreatePlaylist(uid, name, description)
		if err != nil {
			return errorMsg{err: err}
		}
		return playlistCreatedMsg{id: id, name: strings.TrimSpace(name)}
	}
}

func (a *App) deletePlaylist(id string) tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}
		if err := retryOperation(func() error { return a.store.DeletePlaylist(uid, id) }); err != nil {
			return errorMsg{err: err}
		}
		return a.loadPlaylists()()
	}
}

func (a *App) saveToPlaylist(playlistID, playlistName string, video catalog.Video) tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}
		pv := userdata.PlaylistVideo{
			VideoRef: userdata.RefFromVideo(video),
			AddedAt:  time.Now().UnixMilli(),
		}
		if err := a.store.AddToPlaylist(uid, playlistID, pv); err != nil {
			return errorMsg{err: err}
		}
		return savedToPlaylistMsg{playlistName: playlistName}
	}
}

func (a *App) removeFromPlaylist(playlistID, videoID string) tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return errorMsg{err: err}
		}
		if err := a.store.RemoveFromPlaylist(uid, playlistID, videoID); err != nil {
			return errorMsg{err: err}
		}
		return a.loadPlaylists()()
	}
}

func (a *App) postComment(videoID, text string) tea.Cmd {
	return func() tea.Msg {
		id := a.session.Current()
		if id == nil {
			return errorMsg{err: errNotSignedIn}
		}
		if strings.TrimSpace(text) == "" {
			return errorMsg{err: errors.New("comment cannot be empty")}
		}
		comment := userdata.Comment{
			Text:      strings.TrimSpace(text),
			UserID:    id.UID,
			UserName:  id.DisplayName,
			UserPhoto: id.PhotoURL,
			Timestamp: time.Now().UnixMilli(),
		}
		if _, err := a.store.AddComment(videoID, comment); err != nil {
			return errorMsg{err: err}
		}
		local, err := a.store.Comments(videoID)
		if err != nil {
			return errorMsg{err: err}
		}
		return commentPostedMsg{videoID: videoID, comments: local}
	}
}

// playVideo hands the video to the external player and records the
// watch in history.
func (a *App) playVideo(video catalog.Video) tea.Cmd {
	record := a.recordHistory(video, false)
	return func() tea.Msg {
		if err := a.player.Play(video.ID); err != nil {
			return errorMsg{err: err}
		}
		if msg := record(); msg != nil {
			if em, ok := msg.(errorMsg); ok {
				return em
			}
		}
		return playbackStartedMsg{title: video.Title, command: a.player.Command()}
	}
}

func (a *App) searchLibrary(query string, seq int) tea.Cmd {
	return func() tea.Msg {
		results, err := a.library.Search(query, 20)
		if err != nil {
			return errorMsg{err: wrapErr("searching library", err)}
		}
		return libraryResultsMsg{results: results, seq: seq}
	}
}

// retryOperation retries a database operation up to 3 times with
// exponential backoff.
func retryOperation(operation func() error) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := operation(); err != nil {
			lastErr = err
			if i < maxRetries-1 {
				time.Sleep(baseDelay * time.Duration(1<<i))
				continue
			}
		} else {
			return nil
		}
	}
	return lastErr
}

func retryValue[T any](operation func() (T, error)) (T, error) {
	var out T
	err := retryOperation(func() error {
		var opErr error
		out, opErr = operation()
		return opErr
	})
	return out, err
}
