package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkoval/vtv/internal/appstate"
	"github.com/nkoval/vtv/internal/catalog"
	"github.com/nkoval/vtv/internal/session"
)

func update(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func TestUpdateWindowSizeResizesComponents(t *testing.T) {
	a := newTestApp(t)

	update(a, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 100, a.width)
	assert.Equal(t, 40, a.height)
	assert.Equal(t, 100, a.viewport.Width)
	assert.Equal(t, a.contentHeight(), a.viewport.Height)
	assert.Equal(t, 100, a.shorts.width)
}

func TestUpdateVideosLoaded(t *testing.T) {
	a := newTestApp(t)

	videos := []catalog.Video{
		{ID: "a", Title: "one"},
		{ID: "b", Title: "two"},
	}
	update(a, videosLoadedMsg{view: ViewHome, videos: videos})

	assert.Len(t, a.videoList.Items(), 2)
	assert.Equal(t, "› home", a.videoList.Title)
	assert.Len(t, a.state.State().Videos, 2)
	assert.Equal(t, MsgResultsCount(2), a.status)
}

func TestUpdateVideosLoadedSetsBrowseTitle(t *testing.T) {
	a := newTestApp(t)

	update(a, videosLoadedMsg{view: ViewMusic, videos: nil})
	assert.Equal(t, browseTitles[ViewMusic], a.videoList.Title)
}

func TestUpdateStaleSearchResultsDropped(t *testing.T) {
	a := newTestApp(t)
	a.searchSeq = 2

	update(a, searchResultsMsg{videos: []catalog.Video{{ID: "old"}}, seq: 1})
	assert.Empty(t, a.searchList.Items())

	update(a, searchResultsMsg{videos: []catalog.Video{{ID: "new"}}, seq: 2})
	assert.Len(t, a.searchList.Items(), 1)
	assert.Len(t, a.state.State().SearchResults, 1)
}

func TestUpdateSearchNoResultsWarns(t *testing.T) {
	a := newTestApp(t)
	a.searchSeq = 1

	update(a, searchResultsMsg{videos: nil, seq: 1})
	assert.Equal(t, MsgNoResults, a.status)
	assert.Equal(t, StatusWarn, a.statusKind)
}

func TestUpdateVideoDetailIgnoredAfterNavigation(t *testing.T) {
	a := newTestApp(t)
	a.view = ViewHome
	a.current = nil

	update(a, videoDetailMsg{video: catalog.Video{ID: "x"}, liked: true})
	assert.False(t, a.currentLiked)
	assert.Nil(t, a.current)
}

func TestUpdateVideoDetailForCurrentVideo(t *testing.T) {
	a := newTestApp(t)
	a.view = ViewWatch
	a.current = &catalog.Video{ID: "x", Title: "stub"}
	a.loadingVideo = true

	related := []catalog.Video{{ID: "r1"}}
	cmd := update(a, videoDetailMsg{
		video:   catalog.Video{ID: "x", Title: "full", Description: "d"},
		related: related,
		liked:   true,
	})

	assert.Equal(t, "full", a.current.Title)
	assert.Equal(t, related, a.currentRelated)
	assert.True(t, a.currentLiked)
	assert.False(t, a.loadingVideo)
	require.NotNil(t, a.state.State().SelectedVideo)
	assert.Equal(t, "x", a.state.State().SelectedVideo.ID)
	assert.NotNil(t, cmd)
}

func TestUpdateShortsLoaded(t *testing.T) {
	a := newTestApp(t)

	update(a, shortsLoadedMsg{videos: []catalog.Video{
		{ID: "s1"}, {ID: "s2"}, {ID: "s3"},
	}})
	assert.Equal(t, 3, a.shorts.engine.Len())
	assert.Equal(t, 0, a.shorts.engine.Cursor())
}

func TestUpdateShortsLoadedEmptyWarns(t *testing.T) {
	a := newTestApp(t)

	update(a, shortsLoadedMsg{videos: nil})
	assert.Equal(t, MsgNoResults, a.status)
}

func TestUpdateLikeToggledRefreshesCurrent(t *testing.T) {
	a := newTestApp(t)
	a.current = &catalog.Video{ID: "x"}

	update(a, likeToggledMsg{videoID: "x", liked: true})
	assert.True(t, a.currentLiked)
	assert.Equal(t, MsgLiked, a.status)

	update(a, likeToggledMsg{videoID: "other", liked: false})
	assert.True(t, a.currentLiked, "unrelated video must not touch the open one")
}

func TestUpdateStaleLibraryResultsDropped(t *testing.T) {
	a := newTestApp(t)
	a.librarySeq = 5

	update(a, libraryResultsMsg{seq: 4})
	assert.Empty(t, a.libraryList.Items())
}

func TestUpdateSignedIn(t *testing.T) {
	a := newTestApp(t)
	a.view = ViewSignIn

	cmd := update(a, signedInMsg{identity: &session.Identity{UID: "u1", DisplayName: "Nick"}})
	assert.Equal(t, ViewHome, a.view)
	require.NotNil(t, a.state.State().User)
	assert.Equal(t, "u1", a.state.State().User.UID)
	assert.NotNil(t, cmd)
}

func TestExternalSignOutReturnsToSignIn(t *testing.T) {
	a := newTestApp(t)
	a.view = ViewHome

	update(a, stateChangedMsg{state: appstate.NewState()})
	assert.Equal(t, ViewSignIn, a.view)
	assert.True(t, a.nameInput.Focused())
}

func TestUpdateErrorMapsUpstream(t *testing.T) {
	a := newTestApp(t)

	update(a, errorMsg{err: &catalog.UpstreamError{StatusCode: 403}})
	assert.Equal(t, StatusError, a.statusKind)
	assert.Contains(t, a.status, "quota")

	update(a, errorMsg{err: errors.New("boom")})
	assert.Equal(t, "boom", a.status)
}

func TestViewRendersEveryScreen(t *testing.T) {
	a := newTestApp(t)
	update(a, tea.WindowSizeMsg{Width: 80, Height: 24})

	views := []View{
		ViewHome, ViewSearch, ViewShorts, ViewHistory, ViewLiked,
		ViewSubscriptions, ViewPlaylists, ViewProfile, ViewSignIn,
		ViewLibrarySearch, ViewNewPlaylist, ViewSavePrompt,
	}
	for _, v := range views {
		a.view = v
		assert.NotPanics(t, func() { _ = a.View() }, "view %d", v)
	}
}

func TestStateChangedHelper(t *testing.T) {
	st := appstate.NewState()
	msg := StateChanged(st)
	changed, ok := msg.(stateChangedMsg)
	require.True(t, ok)
	assert.True(t, changed.state.SidebarOpen)
}
