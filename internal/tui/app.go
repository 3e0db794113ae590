package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nkoval/vtv/internal/appstate"
	"github.com/nkoval/vtv/internal/catalog"
	"github.com/nkoval/vtv/internal/channelrss"
	"github.com/nkoval/vtv/internal/config"
	"github.com/nkoval/vtv/internal/library"
	"github.com/nkoval/vtv/internal/player"
	"github.com/nkoval/vtv/internal/session"
	"github.com/nkoval/vtv/internal/userdata"
)

type App struct {
	config      *config.Config
	state       *appstate.Store
	store       *userdata.Store
	catalog     *catalog.Client
	channelFeed *channelrss.Fetcher
	library     *library.Index
	session     *session.Provider
	player      *player.Player
	keyHandler  *KeyHandler

	videoList    list.Model
	searchList   list.Model
	historyList  list.Model
	likedList    list.Model
	subsList     list.Model
	playlistList list.Model
	detailList   list.Model
	saveList     list.Model
	libraryList  list.Model

	searchInput  textinput.Model
	commentInput textinput.Model
	nameInput    textinput.Model
	viewport     viewport.Model
	help         help.Model

	view         View
	previousView View
	width        int
	height       int
	err          error
	status       string
	statusKind   StatusKind

	videos        []catalog.Video
	searchResults []catalog.Video

	current         *catalog.Video
	currentRelated  []catalog.Video
	currentComments []catalog.Comment
	localComments   []userdata.Comment
	currentLiked    bool
	currentSubbed   bool
	loadingVideo    bool

	history        []userdata.HistoryEntry
	liked          []userdata.LikedVideo
	subscriptions  []userdata.Subscription
	uploads        map[string][]catalog.Video
	currentChannel string
	playlists     []userdata.Playlist
	currentPlist  *userdata.Playlist
	pendingSave   *catalog.Video

	searchSeq            int
	pendingSearchQuery   string
	searchDebounceMillis int
	librarySeq           int

	shorts *shortsState

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

// Deps bundles the backends the TUI drives.
type Deps struct {
	State       *appstate.Store
	Store       *userdata.Store
	Catalog     *catalog.Client
	ChannelFeed *channelrss.Fetcher
	Library     *library.Index
	Session     *session.Provider
	Player      *player.Player
}

func newList(title string, filtering bool) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(filtering)
	l.SetShowHelp(true)
	return l
}

func NewApp(deps Deps, cfg *config.Config) *App {
	ApplyTheme(cfg.UI.Colors)

	searchList := newList("› search results", false)
	searchList.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "Search videos..."

	ci := textinput.New()
	ci.Placeholder = "Add a comment..."
	ci.CharLimit = 500

	ni := textinput.New()
	ni.Placeholder = "Name..."

	app := &App{
		config:               cfg,
		state:                deps.State,
		store:                deps.Store,
		catalog:              deps.Catalog,
		channelFeed:          deps.ChannelFeed,
		library:              deps.Library,
		session:              deps.Session,
		player:               deps.Player,
		videoList:            newList("› home", true),
		searchList:           searchList,
		historyList:          newList("› history", true),
		likedList:            newList("› liked videos", true),
		subsList:             newList("› subscriptions", true),
		playlistList:         newList("› playlists", true),
		detailList:           newList("› playlist", true),
		saveList:             newList("› save to playlist", false),
		libraryList:          newList("› my library", false),
		searchInput:          si,
		commentInput:         ci,
		nameInput:            ni,
		viewport:             viewport.New(0, 0),
		help:                 help.New(),
		view:                 ViewHome,
		previousView:         ViewHome,
		uploads:              map[string][]catalog.Video{},
		searchDebounceMillis: 300,
		shorts:               newShortsState(cfg),
	}

	app.keyHandler = NewKeyHandler(app, cfg)
	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 100 {
		wordWrapWidth = 100
	}
	if wordWrapWidth < 30 {
		wordWrapWidth = 30
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}
	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, a.loadHomeVideos()}
	if a.session.Current() == nil {
		a.view = ViewSignIn
		a.nameInput.Placeholder = "Your name..."
		a.nameInput.Focus()
	}
	return tea.Batch(cmds...)
}

func (a *App) contentHeight() int { return a.height - 3 }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		h := a.contentHeight()
		for _, l := range []*list.Model{
			&a.videoList, &a.historyList, &a.likedList, &a.subsList,
			&a.playlistList, &a.detailList, &a.saveList, &a.libraryList,
		} {
			l.SetSize(msg.Width, h)
		}
		searchListHeight := msg.Height - 10
		if searchListHeight < 5 {
			searchListHeight = 5
		}
		a.searchList.SetSize(msg.Width, searchListHeight)
		a.viewport.Width = msg.Width
		a.viewport.Height = h
		a.shorts.resize(msg.Width, h)

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		if a.view == ViewShorts {
			return a, a.handleShortsMouse(msg)
		}

	case videosLoadedMsg:
		a.err = nil
		a.currentChannel = ""
		a.videos = msg.videos
		a.state.Dispatch(appstate.SetVideos{Videos: msg.videos})
		if title, ok := browseTitles[msg.view]; ok {
			a.videoList.Title = title
		} else {
			a.videoList.Title = "› home"
		}
		a.videoList.SetItems(videoItems(msg.videos))
		a.setStatus(MsgResultsCount(len(msg.videos)), StatusInfo)

	case searchResultsMsg:
		if msg.seq != a.searchSeq {
			break
		}
		a.searchResults = msg.videos
		a.state.Dispatch(appstate.SetSearchResults{Videos: msg.videos})
		a.searchList.SetItems(videoItems(msg.videos))
		if len(msg.videos) == 0 {
			a.setStatus(MsgNoResults, StatusWarn)
		} else {
			a.setStatus(MsgResultsCount(len(msg.videos)), StatusInfo)
		}

	case videoDetailMsg:
		if a.view != ViewWatch || a.current == nil || a.current.ID != msg.video.ID {
			break
		}
		a.current = &msg.video
		a.currentRelated = msg.related
		a.currentComments = msg.comments
		a.localComments = msg.localComments
		a.currentLiked = msg.liked
		a.currentSubbed = msg.subscribed
		a.loadingVideo = false
		a.state.Dispatch(appstate.SetSelectedVideo{Video: a.current})
		cmds = append(cmds, a.renderWatchContent())

	case watchRenderedMsg:
		if a.view == ViewWatch {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}

	case shortsLoadedMsg:
		a.shorts.populate(msg.videos, a.config.Shorts.MaxItems)
		cmds = append(cmds, a.shortsAfterCursorChange()...)
		if a.shorts.engine.Len() == 0 {
			a.setStatus(MsgNoResults, StatusWarn)
		} else {
			a.clearStatus()
		}

	case shortsSettleMsg:
		a.shorts.settle(msg.seq)

	case shortsDwellMsg:
		cmds = append(cmds, a.handleShortsDwell(msg)...)

	case shortsReadyMsg:
		a.handleShortsReady(msg)

	case historyRecordedMsg:
		// history watchers refresh through the state bridge

	case likeToggledMsg:
		if a.current != nil && a.current.ID == msg.videoID {
			a.currentLiked = msg.liked
		}
		if msg.liked {
			a.setStatus(MsgLiked, StatusSuccess)
		} else {
			a.setStatus(MsgUnliked, StatusSuccess)
		}
		cmds = append(cmds, a.loadLiked())

	case subscribeToggledMsg:
		if a.current != nil && a.current.ChannelID == msg.channelID {
			a.currentSubbed = msg.subscribed
		}
		if msg.subscribed {
			a.setStatus(MsgSubscribed, StatusSuccess)
		} else {
			a.setStatus(MsgUnsubscribed, StatusSuccess)
		}
		cmds = append(cmds, a.loadSubscriptions())

	case historyLoadedMsg:
		a.history = msg.entries
		a.state.Dispatch(appstate.SetHistory{Entries: msg.entries})
		items := make([]list.Item, len(msg.entries))
		for i, e := range msg.entries {
			items[i] = historyItem{entry: e}
		}
		a.historyList.SetItems(items)
		if msg.cleared {
			a.setStatus(MsgHistoryCleared, StatusSuccess)
		}

	case likedLoadedMsg:
		a.liked = msg.videos
		a.state.Dispatch(appstate.SetLikedVideos{Videos: msg.videos})
		items := make([]list.Item, len(msg.videos))
		for i, v := range msg.videos {
			items[i] = likedItem{video: v}
		}
		a.likedList.SetItems(items)

	case subscriptionsLoadedMsg:
		a.subscriptions = msg.subs
		a.state.Dispatch(appstate.SetSubscriptions{Subscriptions: msg.subs})
		a.refreshSubsItems()
		for _, sub := range msg.subs {
			if _, have := a.uploads[sub.ChannelID]; !have {
				cmds = append(cmds, a.loadUploads(sub.ChannelID))
			}
		}

	case uploadsLoadedMsg:
		a.uploads[msg.channelID] = msg.videos
		a.refreshSubsItems()
		if a.currentChannel == msg.channelID {
			a.videoList.SetItems(videoItems(msg.videos))
		}

	case playlistsLoadedMsg:
		a.playlists = msg.playlists
		a.state.Dispatch(appstate.SetPlaylists{Playlists: msg.playlists})
		items := make([]list.Item, len(msg.playlists))
		saveItems := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
			saveItems[i] = playlistItem{playlist: pl}
		}
		a.playlistList.SetItems(items)
		a.saveList.SetItems(saveItems)
		if a.currentPlist != nil {
			for i := range msg.playlists {
				if msg.playlists[i].ID == a.currentPlist.ID {
					a.currentPlist = &msg.playlists[i]
					a.refreshDetailItems()
				}
			}
		}

	case playlistCreatedMsg:
		a.setStatus(MsgPlaylistCreated(msg.name), StatusSuccess)
		if a.view == ViewNewPlaylist {
			a.view = a.previousView
		}
		cmds = append(cmds, a.loadPlaylists())

	case savedToPlaylistMsg:
		a.pendingSave = nil
		a.setStatus(MsgSavedToPlaylist(msg.playlistName), StatusSuccess)
		if a.view == ViewSavePrompt {
			a.view = a.previousView
		}
		cmds = append(cmds, a.loadPlaylists())

	case commentPostedMsg:
		if a.current != nil && a.current.ID == msg.videoID {
			a.localComments = msg.comments
			cmds = append(cmds, a.renderWatchContent())
		}
		a.setStatus(MsgCommentPosted, StatusSuccess)

	case playbackStartedMsg:
		a.setStatus(MsgPlayingWith(msg.command, truncateEnd(msg.title, 40)), StatusSuccess)
		cmds = append(cmds, a.loadHistory())

	case libraryResultsMsg:
		if msg.seq != a.librarySeq {
			break
		}
		items := make([]list.Item, len(msg.results))
		for i, r := range msg.results {
			items[i] = libraryResultItem{result: r}
		}
		a.libraryList.SetItems(items)
		if len(msg.results) == 0 {
			a.setStatus(MsgNoResults, StatusWarn)
		} else {
			a.setStatus(MsgResultsCount(len(msg.results)), StatusInfo)
		}

	case searchDebounceFireMsg:
		if msg.seq == a.searchSeq && a.pendingSearchQuery != "" {
			if a.view == ViewLibrarySearch {
				a.librarySeq++
				cmds = append(cmds, a.searchLibrary(a.pendingSearchQuery, a.librarySeq))
			} else {
				a.state.Dispatch(appstate.SetSearchQuery{Query: a.pendingSearchQuery})
				cmds = append(cmds, a.performSearch(a.pendingSearchQuery, msg.seq))
			}
		}

	case signedInMsg:
		a.state.Dispatch(appstate.SetUser{User: msg.identity})
		a.setStatus(MsgSignedIn(msg.identity.DisplayName), StatusSuccess)
		a.view = ViewHome
		cmds = append(cmds,
			a.loadHistory(), a.loadLiked(),
			a.loadSubscriptions(), a.loadPlaylists(),
			a.rebuildLibraryIndex(),
		)

	case stateChangedMsg:
		// external store watchers push refreshed collections here
		cmds = append(cmds, a.applyExternalState(msg.state)...)

	case errorMsg:
		a.err = msg.err
		a.setStatus(friendlyError(msg.err), StatusError)
	}

	cmds = append(cmds, a.updateActiveComponent(msg))
	return a, tea.Batch(cmds...)
}

// applyExternalState absorbs a state broadcast that originated outside
// this Update loop, e.g. from a store watcher.
func (a *App) applyExternalState(state appstate.State) []tea.Cmd {
	var cmds []tea.Cmd
	if state.User == nil && a.session.Current() == nil && a.view != ViewSignIn {
		a.view = ViewSignIn
		a.nameInput.Reset()
		a.nameInput.Focus()
	}
	return cmds
}

func (a *App) updateActiveComponent(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	switch a.view {
	case ViewHome, ViewTrending, ViewMusic, ViewMovies, ViewGaming, ViewLive:
		var cmd tea.Cmd
		a.videoList, cmd = a.videoList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewSearch, ViewLibrarySearch:
		// key routing handles the input; lists update on key msgs only
	case ViewWatch:
		switch msg.(type) {
		case tea.WindowSizeMsg, tea.MouseMsg:
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	case ViewHistory:
		var cmd tea.Cmd
		a.historyList, cmd = a.historyList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewLiked:
		var cmd tea.Cmd
		a.likedList, cmd = a.likedList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewSubscriptions:
		var cmd tea.Cmd
		a.subsList, cmd = a.subsList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewPlaylists:
		var cmd tea.Cmd
		a.playlistList, cmd = a.playlistList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewPlaylistDetail:
		var cmd tea.Cmd
		a.detailList, cmd = a.detailList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewSavePrompt:
		var cmd tea.Cmd
		a.saveList, cmd = a.saveList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return tea.Batch(cmds...)
}

func videoItems(videos []catalog.Video) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v}
	}
	return items
}

func (a *App) refreshSubsItems() {
	items := make([]list.Item, len(a.subscriptions))
	for i, sub := range a.subscriptions {
		items[i] = subscriptionItem{sub: sub, uploads: a.uploads[sub.ChannelID]}
	}
	a.subsList.SetItems(items)
}

func (a *App) refreshDetailItems() {
	if a.currentPlist == nil {
		a.detailList.SetItems(nil)
		return
	}
	a.detailList.Title = "› " + a.currentPlist.Name
	videos := make([]userdata.PlaylistVideo, 0, len(a.currentPlist.Videos))
	for _, v := range a.currentPlist.Videos {
		videos = append(videos, v)
	}
	// newest additions first
	for i := 0; i < len(videos); i++ {
		for j := i + 1; j < len(videos); j++ {
			if videos[j].AddedAt > videos[i].AddedAt {
				videos[i], videos[j] = videos[j], videos[i]
			}
		}
	}
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = playlistVideoItem{video: v}
	}
	a.detailList.SetItems(items)
}

func (a *App) setStatus(msg string, kind StatusKind) {
	a.status = msg
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

// renderWatchContent rebuilds the watch view markdown through glamour.
func (a *App) renderWatchContent() tea.Cmd {
	video := a.current
	if video == nil {
		return nil
	}
	comments := a.currentComments
	local := a.localComments

	return func() tea.Msg {
		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n", video.Title)
		fmt.Fprintf(&b, "**%s**", video.ChannelTitle)
		if video.ViewCount > 0 {
			fmt.Fprintf(&b, " • %s views", formatCount(video.ViewCount))
		}
		if video.LikeCount > 0 {
			fmt.Fprintf(&b, " • %s likes", formatCount(video.LikeCount))
		}
		if age := relativeTime(video.PublishedAt); age != "" {
			fmt.Fprintf(&b, " • %s", age)
		}
		b.WriteString("\n\n---\n\n")

		if video.Description != "" {
			b.WriteString(video.Description)
			b.WriteString("\n\n")
		}

		if len(local) > 0 || len(comments) > 0 {
			b.WriteString("## Comments\n\n")
		}
		for _, c := range local {
			fmt.Fprintf(&b, "**%s** — %s\n\n%s\n\n", c.UserName,
				relativeTime(millisToTime(c.Timestamp)), c.Text)
		}
		for _, c := range comments {
			fmt.Fprintf(&b, "**%s** — %s\n\n%s\n\n", c.Author,
				relativeTime(c.PublishedAt), c.Text)
		}

		r, err := a.getRenderer()
		if err != nil {
			return watchRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}
		rendered, err := r.Render(b.String())
		if err != nil {
			return watchRenderedMsg{content: fmt.Sprintf("# Error\n\nFailed to render: %s", err.Error())}
		}
		return watchRenderedMsg{content: rendered}
	}
}

// rebuildLibraryIndex reloads the bleve index from the store.
func (a *App) rebuildLibraryIndex() tea.Cmd {
	return func() tea.Msg {
		uid, err := a.uid()
		if err != nil {
			return nil
		}
		history, err := a.store.History(uid)
		if err != nil {
			return errorMsg{err: err}
		}
		liked, err := a.store.LikedVideos(uid)
		if err != nil {
			return errorMsg{err: err}
		}
		if err := a.library.Reindex(history, liked); err != nil {
			return errorMsg{err: wrapErr("indexing library", err)}
		}
		return nil
	}
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewHome, ViewTrending, ViewMusic, ViewMovies, ViewGaming, ViewLive:
		if len(a.videoList.Items()) == 0 {
			content = renderCentered(a.width, a.contentHeight(), GetWelcomeMessage())
		} else {
			content = a.videoList.View()
		}
	case ViewSearch:
		content = a.renderSearchView("› search", a.searchList.View())
	case ViewLibrarySearch:
		content = a.renderSearchView("› my library", a.libraryList.View())
	case ViewWatch:
		if a.loadingVideo {
			content = renderCentered(a.width, a.contentHeight(),
				StatusInfoStyle.Render(MsgLoadingVideo))
		} else {
			content = a.viewport.View()
		}
	case ViewShorts:
		content = a.shorts.view(a.width, a.contentHeight())
	case ViewHistory:
		content = a.historyList.View()
	case ViewLiked:
		content = a.likedList.View()
	case ViewSubscriptions:
		content = a.subsList.View()
	case ViewPlaylists:
		content = a.playlistList.View()
	case ViewPlaylistDetail:
		content = a.detailList.View()
	case ViewSavePrompt:
		title := "video"
		if a.pendingSave != nil {
			title = truncateEnd(a.pendingSave.Title, a.width-24)
		}
		content = lipgloss.JoinVertical(
			lipgloss.Top,
			HeaderStyle.Render("› save '"+title+"'"),
			"",
			a.saveList.View(),
			HelpStyle.Render("Enter: save • n: new playlist • Esc: cancel"),
		)
	case ViewNewPlaylist:
		content = a.renderPrompt("› new playlist", a.nameInput.View(),
			"Press Enter to create, Esc to cancel")
	case ViewComment:
		title := ""
		if a.current != nil {
			title = truncateEnd(a.current.Title, a.width-20)
		}
		content = a.renderPrompt("› comment on "+title, a.commentInput.View(),
			"Press Enter to post, Esc to cancel")
	case ViewSignIn:
		content = renderCentered(a.width, a.contentHeight(),
			lipgloss.JoinVertical(
				lipgloss.Center,
				GetCompactBanner("Who is watching?"),
				"",
				a.nameInput.View(),
				"",
				HelpStyle.Render("Press Enter to sign in"),
			))
	case ViewProfile:
		content = a.renderProfile()
	}

	statusBar := a.renderStatusBar()
	if statusBar == "" {
		return content
	}

	separatorWidth := a.width - 2
	if separatorWidth < 0 {
		separatorWidth = 0
	}
	separator := StatusInfoStyle.Render("─" + strings.Repeat("─", separatorWidth))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, statusBar)
}

func (a *App) renderSearchView(header, results string) string {
	searchInputWidth := a.width - 8
	if searchInputWidth < 10 {
		searchInputWidth = a.width - 4
	}
	a.searchInput.Width = searchInputWidth

	inputBorderColor := MutedColor
	if a.searchInput.Focused() {
		inputBorderColor = AccentColor
	}
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(inputBorderColor).
		Padding(0, 1).
		Width(searchInputWidth + 4).
		Render(a.searchInput.View())

	helpText := "Type to search • Tab/↓: results • Esc: back"
	if !a.searchInput.Focused() {
		helpText = "↑↓: navigate • Enter: open • Tab: search box • Esc: back"
	}

	body := lipgloss.JoinVertical(
		lipgloss.Top,
		HeaderStyle.Render(header),
		"",
		input,
		StatusInfoStyle.Render(helpText),
		"",
		results,
	)
	return EmptyStyle.
		Width(a.width).
		Height(a.contentHeight()).
		MaxHeight(a.contentHeight()).
		Render(body)
}

func (a *App) renderPrompt(title, input, helpText string) string {
	return renderCentered(a.width, a.contentHeight(),
		lipgloss.JoinVertical(
			lipgloss.Center,
			TitleStyle.Render(title),
			"",
			input,
			"",
			HelpStyle.Render(helpText),
		))
}

func (a *App) renderProfile() string {
	id := a.session.Current()
	if id == nil {
		return renderCentered(a.width, a.contentHeight(),
			StatusInfoStyle.Render("Not signed in"))
	}

	state := a.state.State()
	lines := []string{
		HeaderStyle.Render("› profile"),
		"",
		"  " + lipgloss.NewStyle().Foreground(TextColor).Bold(true).Render(id.DisplayName),
	}
	if id.Email != "" {
		lines = append(lines, "  "+StatusInfoStyle.Render(id.Email))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("  %d watched • %d liked • %d subscriptions • %d playlists",
			len(state.History), len(state.LikedVideos),
			len(state.Subscriptions), len(state.Playlists)),
		"",
		HelpStyle.Render("ctrl+d: clear history • ctrl+o: sign out • Esc: back"),
	)
	return lipgloss.JoinVertical(lipgloss.Top, lines...)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (a *App) renderStatusBar() string {
	if a.err != nil {
		return StatusBarStyle.Width(a.width).
			Render(StatusErrorStyle.Render("✗ " + friendlyError(a.err)))
	}
	if a.status != "" {
		var style lipgloss.Style
		switch a.statusKind {
		case StatusSuccess:
			style = StatusSuccessStyle
		case StatusWarn:
			style = StatusWarnStyle
		case StatusError:
			style = StatusErrorStyle
		default:
			style = StatusInfoStyle
		}
		return StatusBarStyle.Width(a.width).Render(style.Render(a.status))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 {
		return ""
	}
	return StatusBarStyle.Width(a.width).Render(strings.Join(commands, " • "))
}

// Messages

type videosLoadedMsg struct {
	view   View
	videos []catalog.Video
}

type searchResultsMsg struct {
	videos []catalog.Video
	query  string
	seq    int
}

type searchDebounceFireMsg struct {
	seq int
}

type videoDetailMsg struct {
	video         catalog.Video
	related       []catalog.Video
	comments      []catalog.Comment
	localComments []userdata.Comment
	liked         bool
	subscribed    bool
}

type watchRenderedMsg struct {
	content string
}

type shortsLoadedMsg struct {
	videos []catalog.Video
}

type shortsSettleMsg struct {
	seq int
}

type shortsDwellMsg struct {
	seq     int
	videoID string
}

type shortsReadyMsg struct {
	index   int
	videoID string
	video   *catalog.Video
}

type historyRecordedMsg struct {
	videoID string
}

type likeToggledMsg struct {
	videoID string
	liked   bool
}

type subscribeToggledMsg struct {
	channelID  string
	subscribed bool
}

type historyLoadedMsg struct {
	entries []userdata.HistoryEntry
	cleared bool
}

type likedLoadedMsg struct {
	videos []userdata.LikedVideo
}

type subscriptionsLoadedMsg struct {
	subs []userdata.Subscription
}

type uploadsLoadedMsg struct {
	channelID string
	videos    []catalog.Video
}

type playlistsLoadedMsg struct {
	playlists []userdata.Playlist
}

type playlistCreatedMsg struct {
	id   string
	name string
}

type savedToPlaylistMsg struct {
	playlistName string
}

type commentPostedMsg struct {
	videoID  string
	comments []userdata.Comment
}

type playbackStartedMsg struct {
	title   string
	command string
}

type libraryResultsMsg struct {
	results []library.Result
	seq     int
}

type signedInMsg struct {
	identity *session.Identity
}

// stateChangedMsg carries a state snapshot pushed from outside the
// Update loop, typically by a store watcher via Program.Send.
type stateChangedMsg struct {
	state appstate.State
}

type errorMsg struct {
	err error
}

// StateChanged builds the message main wires into Program.Send for
// store watcher notifications.
func StateChanged(state appstate.State) tea.Msg {
	return stateChangedMsg{state: state}
}
