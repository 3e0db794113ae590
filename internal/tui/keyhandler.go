package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nkoval/vtv/internal/appstate"
	"github.com/nkoval/vtv/internal/catalog"
	"github.com/nkoval/vtv/internal/config"
	"github.com/nkoval/vtv/internal/userdata"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, config: cfg, modifierKey: cfg.Keys.Modifier + "+"}
}

func (kh *KeyHandler) bind(name string) string {
	return kh.modifierKey + name
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToComponent(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch, ViewLibrarySearch:
		return kh.app.searchInput.Focused()
	case ViewComment:
		return kh.app.commentInput.Focused()
	case ViewNewPlaylist, ViewSignIn:
		return kh.app.nameInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return kh.app, tea.Quit
	case "esc":
		if kh.app.view == ViewSignIn {
			return kh.app, nil
		}
		return kh.navigateBack()
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if kh.app.view == ViewSearch && len(kh.app.searchList.Items()) > 0 {
			kh.app.searchInput.Blur()
			kh.app.searchList.Select(0)
			return kh.app, nil
		}
		if kh.app.view == ViewLibrarySearch && len(kh.app.libraryList.Items()) > 0 {
			kh.app.searchInput.Blur()
			kh.app.libraryList.Select(0)
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewSearch:
		query := strings.TrimSpace(a.searchInput.Value())
		if query == "" {
			return a, nil
		}
		a.searchSeq++
		a.setStatus(MsgSearching, StatusInfo)
		return a, a.performSearch(query, a.searchSeq)

	case ViewLibrarySearch:
		query := strings.TrimSpace(a.searchInput.Value())
		if query == "" {
			return a, nil
		}
		a.librarySeq++
		return a, a.searchLibrary(query, a.librarySeq)

	case ViewComment:
		text := strings.TrimSpace(a.commentInput.Value())
		if text == "" || a.current == nil {
			return a, nil
		}
		videoID := a.current.ID
		a.commentInput.Reset()
		a.view = ViewWatch
		return a, a.postComment(videoID, text)

	case ViewNewPlaylist:
		name := strings.TrimSpace(a.nameInput.Value())
		if name == "" {
			return a, nil
		}
		a.nameInput.Reset()
		return a, a.createPlaylist(name, "")

	case ViewSignIn:
		name := strings.TrimSpace(a.nameInput.Value())
		if name == "" {
			return a, nil
		}
		return a, func() tea.Msg {
			identity, err := a.session.SignIn(name, "")
			if err != nil {
				return errorMsg{err: err}
			}
			return signedInMsg{identity: identity}
		}

	default:
		return a, nil
	}
}

// delegateToTextInput passes the key to the focused input. Search
// input changes schedule a debounced search.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewSearch, ViewLibrarySearch:
		prev := a.searchInput.Value()
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)

		if newVal := strings.TrimSpace(a.searchInput.Value()); newVal != prev && len(newVal) > 1 {
			a.pendingSearchQuery = newVal
			a.searchSeq++
			seq := a.searchSeq
			wait := time.Duration(a.searchDebounceMillis) * time.Millisecond
			return a, tea.Batch(cmd, tea.Tick(wait, func(time.Time) tea.Msg {
				return searchDebounceFireMsg{seq: seq}
			}))
		}
		return a, cmd

	case ViewComment:
		var cmd tea.Cmd
		a.commentInput, cmd = a.commentInput.Update(msg)
		return a, cmd

	case ViewNewPlaylist, ViewSignIn:
		var cmd tea.Cmd
		a.nameInput, cmd = a.nameInput.Update(msg)
		return a, cmd

	default:
		return a, nil
	}
}

func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	b := kh.config.Keys.Bindings

	switch key {
	case "ctrl+c", b.Quit:
		return a, tea.Quit, true
	case b.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case "/":
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.bind(b.Search):
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.bind(b.Home):
		a.view = ViewHome
		return a, a.loadHomeVideos(), true
	case kh.bind(b.Shorts):
		a.view = ViewShorts
		a.setStatus(MsgLoadingShorts, StatusInfo)
		return a, a.loadShorts(), true
	case kh.bind(b.History):
		a.view = ViewHistory
		return a, a.loadHistory(), true
	case kh.bind(b.Liked):
		a.view = ViewLiked
		return a, a.loadLiked(), true
	case kh.bind(b.Subscriptions):
		a.view = ViewSubscriptions
		return a, a.loadSubscriptions(), true
	case kh.bind(b.Playlists):
		a.view = ViewPlaylists
		return a, a.loadPlaylists(), true
	case kh.bind(b.Profile):
		a.view = ViewProfile
		return a, nil, true
	case kh.bind(b.ToggleSidebar):
		a.state.Dispatch(appstate.ToggleSidebar{})
		return a, nil, true
	}

	switch a.view {
	case ViewHome, ViewTrending, ViewMusic, ViewMovies, ViewGaming, ViewLive:
		return kh.handleBrowseKeys(key)
	case ViewWatch:
		return kh.handleWatchKeys(key)
	case ViewShorts:
		return kh.handleShortsKeys(key)
	case ViewHistory:
		return kh.handleHistoryKeys(key)
	case ViewLiked:
		return kh.handleLikedKeys(key)
	case ViewPlaylists:
		return kh.handlePlaylistsKeys(key)
	case ViewSavePrompt:
		return kh.handleSavePromptKeys(key)
	case ViewProfile:
		return kh.handleProfileKeys(key)
	default:
		return a, nil, false
	}
}

func (kh *KeyHandler) handleBrowseKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	browse := map[string]View{
		"1": ViewTrending,
		"2": ViewMusic,
		"3": ViewMovies,
		"4": ViewGaming,
		"5": ViewLive,
	}
	if view, ok := browse[key]; ok {
		a.view = view
		a.setStatus(MsgLoading, StatusInfo)
		return a, a.loadBrowse(view), true
	}

	switch key {
	case kh.bind(kh.config.Keys.Bindings.Play):
		if i, ok := a.videoList.SelectedItem().(videoItem); ok {
			return a, a.playVideo(i.video), true
		}
	case kh.bind(kh.config.Keys.Bindings.Like):
		if i, ok := a.videoList.SelectedItem().(videoItem); ok {
			return a, a.toggleLike(i.video), true
		}
	case kh.bind(kh.config.Keys.Bindings.Save):
		if i, ok := a.videoList.SelectedItem().(videoItem); ok {
			return kh.openSavePrompt(i.video)
		}
	}
	return a, nil, false
}

func (kh *KeyHandler) handleWatchKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	b := kh.config.Keys.Bindings
	if a.current == nil {
		return a, nil, false
	}

	switch key {
	case kh.bind(b.Like):
		return a, a.toggleLike(*a.current), true
	case kh.bind(b.Subscribe):
		return a, a.toggleSubscribe(a.current.ChannelID, a.current.ChannelTitle, ""), true
	case kh.bind(b.Save):
		return kh.openSavePrompt(*a.current)
	case kh.bind(b.Comment):
		a.view = ViewComment
		a.commentInput.Reset()
		a.commentInput.Focus()
		return a, nil, true
	case kh.bind(b.Play):
		return a, a.playVideo(*a.current), true
	case b.Pause, " ":
		kh.togglePause()
		return a, nil, true
	case "enter":
		// open the highlighted related video
		if len(a.currentRelated) > 0 {
			return kh.openWatch(a.currentRelated[0])
		}
	}
	return a, nil, false
}

func (kh *KeyHandler) handleShortsKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	b := kh.config.Keys.Bindings

	switch key {
	case "up", "k":
		return a, a.shortsStep(-1), true
	case "down", "j":
		return a, a.shortsStep(1), true
	case kh.bind(b.Like):
		if video, ok := a.shorts.currentVideo(); ok {
			return a, a.toggleLike(video), true
		}
	case kh.bind(b.Save):
		if video, ok := a.shorts.currentVideo(); ok {
			return kh.openSavePrompt(video)
		}
	case kh.bind(b.Play):
		if video, ok := a.shorts.currentVideo(); ok {
			return a, a.playVideo(video), true
		}
	case "enter":
		if video, ok := a.shorts.currentVideo(); ok {
			return kh.openWatch(video)
		}
	case kh.bind("r"):
		a.setStatus(MsgLoadingShorts, StatusInfo)
		return a, a.loadShorts(), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleHistoryKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch key {
	case kh.bind("d"):
		return a, a.clearHistory(), true
	case kh.bind("x"):
		if i, ok := a.historyList.SelectedItem().(historyItem); ok {
			return a, func() tea.Msg {
				uid, err := a.uid()
				if err != nil {
					return errorMsg{err: err}
				}
				if err := a.store.RemoveHistory(uid, i.entry.Key); err != nil {
					return errorMsg{err: err}
				}
				return a.loadHistory()()
			}, true
		}
	}
	return a, nil, false
}

func (kh *KeyHandler) handleLikedKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if key == kh.bind(kh.config.Keys.Bindings.Like) {
		if i, ok := a.likedList.SelectedItem().(likedItem); ok {
			return a, a.toggleLike(refToVideo(i.video.VideoRef)), true
		}
	}
	return a, nil, false
}

func (kh *KeyHandler) handlePlaylistsKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch key {
	case "n":
		a.previousView = a.view
		a.view = ViewNewPlaylist
		a.nameInput.Placeholder = "Playlist name..."
		a.nameInput.Reset()
		a.nameInput.Focus()
		return a, nil, true
	case kh.bind("x"):
		if i, ok := a.playlistList.SelectedItem().(playlistItem); ok {
			return a, a.deletePlaylist(i.playlist.ID), true
		}
	}
	return a, nil, false
}

func (kh *KeyHandler) handleSavePromptKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch key {
	case "n":
		a.view = ViewNewPlaylist
		a.nameInput.Placeholder = "Playlist name..."
		a.nameInput.Reset()
		a.nameInput.Focus()
		return a, nil, true
	case "enter":
		if a.pendingSave == nil {
			return a, nil, true
		}
		if i, ok := a.saveList.SelectedItem().(playlistItem); ok {
			return a, a.saveToPlaylist(i.playlist.ID, i.playlist.Name, *a.pendingSave), true
		}
		return a, nil, true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleProfileKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch key {
	case kh.bind("d"):
		return a, a.clearHistory(), true
	case kh.bind("o"):
		return a, func() tea.Msg {
			if err := a.session.SignOut(); err != nil {
				return errorMsg{err: err}
			}
			return nil
		}, true
	}
	return a, nil, false
}

func (kh *KeyHandler) delegateToComponent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd

	switch a.view {
	case ViewHome, ViewTrending, ViewMusic, ViewMovies, ViewGaming, ViewLive:
		a.videoList, cmd = a.videoList.Update(msg)
		if msg.String() == "enter" {
			if i, ok := a.videoList.SelectedItem().(videoItem); ok {
				model, openCmd, _ := kh.openWatch(i.video)
				return model, openCmd
			}
		}
		return a, cmd

	case ViewSearch:
		if model, searchCmd, handled := kh.searchListNav(msg, &a.searchList); handled {
			return model, searchCmd
		}
		a.searchList, cmd = a.searchList.Update(msg)
		if msg.String() == "enter" && !a.searchInput.Focused() {
			if i, ok := a.searchList.SelectedItem().(videoItem); ok {
				model, openCmd, _ := kh.openWatch(i.video)
				return model, openCmd
			}
		}
		return a, cmd

	case ViewLibrarySearch:
		if model, searchCmd, handled := kh.searchListNav(msg, &a.libraryList); handled {
			return model, searchCmd
		}
		a.libraryList, cmd = a.libraryList.Update(msg)
		if msg.String() == "enter" && !a.searchInput.Focused() {
			if i, ok := a.libraryList.SelectedItem().(libraryResultItem); ok {
				video := catalog.Video{
					ID:           i.result.VideoID,
					Title:        i.result.Title,
					ChannelTitle: i.result.ChannelTitle,
				}
				model, openCmd, _ := kh.openWatch(video)
				return model, openCmd
			}
		}
		return a, cmd

	case ViewWatch:
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case ViewHistory:
		a.historyList, cmd = a.historyList.Update(msg)
		if msg.String() == "enter" {
			if i, ok := a.historyList.SelectedItem().(historyItem); ok {
				model, openCmd, _ := kh.openWatch(refToVideo(i.entry.VideoRef))
				return model, openCmd
			}
		}
		return a, cmd

	case ViewLiked:
		a.likedList, cmd = a.likedList.Update(msg)
		if msg.String() == "enter" {
			if i, ok := a.likedList.SelectedItem().(likedItem); ok {
				model, openCmd, _ := kh.openWatch(refToVideo(i.video.VideoRef))
				return model, openCmd
			}
		}
		return a, cmd

	case ViewSubscriptions:
		a.subsList, cmd = a.subsList.Update(msg)
		if msg.String() == "enter" {
			if i, ok := a.subsList.SelectedItem().(subscriptionItem); ok {
				// show the channel's recent uploads in the main list
				a.currentChannel = i.sub.ChannelID
				a.videoList.Title = "› " + i.sub.Title
				a.videoList.SetItems(videoItems(a.uploads[i.sub.ChannelID]))
				a.previousView = ViewSubscriptions
				a.view = ViewHome
				return a, a.loadUploads(i.sub.ChannelID)
			}
		}
		return a, cmd

	case ViewPlaylists:
		a.playlistList, cmd = a.playlistList.Update(msg)
		if msg.String() == "enter" {
			if i, ok := a.playlistList.SelectedItem().(playlistItem); ok {
				pl := i.playlist
				a.currentPlist = &pl
				a.refreshDetailItems()
				a.previousView = ViewPlaylists
				a.view = ViewPlaylistDetail
				return a, nil
			}
		}
		return a, cmd

	case ViewPlaylistDetail:
		a.detailList, cmd = a.detailList.Update(msg)
		switch msg.String() {
		case "enter":
			if i, ok := a.detailList.SelectedItem().(playlistVideoItem); ok {
				model, openCmd, _ := kh.openWatch(refToVideo(i.video.VideoRef))
				return model, openCmd
			}
		case kh.bind("x"):
			if i, ok := a.detailList.SelectedItem().(playlistVideoItem); ok && a.currentPlist != nil {
				return a, a.removeFromPlaylist(a.currentPlist.ID, i.video.VideoID)
			}
		}
		return a, cmd

	case ViewSavePrompt:
		a.saveList, cmd = a.saveList.Update(msg)
		return a, cmd

	default:
		return a, nil
	}
}

// searchListNav handles focus hand-off between a search input and its
// result list.
func (kh *KeyHandler) searchListNav(msg tea.KeyMsg, l *list.Model) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if a.searchInput.Focused() {
		return a, nil, false
	}
	switch msg.String() {
	case "tab", "shift+tab", "/", "i":
		a.searchInput.Focus()
		return a, nil, true
	case "up":
		if len(l.Items()) > 0 && l.Index() == 0 {
			a.searchInput.Focus()
			return a, nil, true
		}
	}
	return a, nil, false
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	a := kh.app
	a.previousView = a.view

	if a.view == ViewHistory || a.view == ViewLiked {
		a.view = ViewLibrarySearch
	} else {
		a.view = ViewSearch
	}
	a.searchInput.Reset()
	a.searchInput.Focus()
	a.pendingSearchQuery = ""
	return a, nil
}

// openWatch switches to the watch view and starts the detail load and
// the history write.
func (kh *KeyHandler) openWatch(video catalog.Video) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	a.previousView = a.view
	a.view = ViewWatch
	a.current = &video
	a.currentRelated = nil
	a.currentComments = nil
	a.localComments = nil
	a.loadingVideo = true
	a.setStatus(MsgLoadingVideo, StatusInfo)
	return a, tea.Batch(a.loadVideo(video), a.recordHistory(video, false)), true
}

func (kh *KeyHandler) openSavePrompt(video catalog.Video) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	a.previousView = a.view
	a.view = ViewSavePrompt
	v := video
	a.pendingSave = &v
	return a, a.loadPlaylists(), true
}

func (kh *KeyHandler) togglePause() {
	a := kh.app
	if !a.player.Playing() {
		return
	}
	if a.player.Paused() {
		if err := a.player.Resume(); err != nil {
			a.err = err
			return
		}
		a.setStatus(MsgResumed, StatusInfo)
		return
	}
	if err := a.player.Pause(); err != nil {
		a.err = err
		return
	}
	a.setStatus(MsgPaused, StatusInfo)
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app
	a.err = nil
	a.clearStatus()

	switch a.view {
	case ViewWatch, ViewSearch, ViewLibrarySearch, ViewSavePrompt, ViewNewPlaylist:
		a.view = a.previousView
	case ViewComment:
		a.commentInput.Blur()
		a.view = ViewWatch
	case ViewPlaylistDetail:
		a.currentPlist = nil
		a.view = ViewPlaylists
	case ViewSignIn:
		// sign-in cannot be dismissed
	default:
		a.view = ViewHome
	}
	return a, nil
}

// GetHelpForCurrentView returns the status bar hints for the view.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	m := kh.modifierKey
	switch kh.app.view {
	case ViewHome, ViewTrending, ViewMusic, ViewMovies, ViewGaming, ViewLive:
		return []string{
			"enter: watch", m + "o: play", "/: search", "1-5: browse",
			m + "v: shorts", m + "y: history", "q: quit",
		}
	case ViewSearch, ViewLibrarySearch:
		return []string{"enter: open", "tab: focus", "esc: back"}
	case ViewWatch:
		return []string{
			m + "o: play", "space: pause", m + "k: like", m + "b: subscribe",
			m + "a: save", m + "t: comment", "esc: back",
		}
	case ViewShorts:
		return []string{"↑↓: navigate", "enter: open", m + "k: like", m + "a: save", "esc: back"}
	case ViewHistory:
		return []string{"enter: open", "/: find", m + "x: remove", m + "d: clear", "esc: back"}
	case ViewLiked:
		return []string{"enter: open", "/: find", m + "k: unlike", "esc: back"}
	case ViewSubscriptions:
		return []string{"enter: uploads", "esc: back"}
	case ViewPlaylists:
		return []string{"enter: open", "n: new", m + "x: delete", "esc: back"}
	case ViewPlaylistDetail:
		return []string{"enter: watch", m + "x: remove", "esc: back"}
	case ViewProfile:
		return []string{m + "d: clear history", m + "o: sign out", "esc: back"}
	default:
		return nil
	}
}

func refToVideo(ref userdata.VideoRef) catalog.Video {
	return catalog.Video{
		ID:           ref.VideoID,
		Title:        ref.Title,
		Thumbnail:    ref.Thumbnail,
		ChannelTitle: ref.ChannelTitle,
	}
}
