// Package appstate holds the shared application state behind a
// reducer. Every mutation is an Action run through Reduce; the Store
// broadcasts the full state to subscribers after each dispatch.
package appstate

import (
	"sync"

	"github.com/nkoval/vtv/internal/catalog"
	"github.com/nkoval/vtv/internal/session"
	"github.com/nkoval/vtv/internal/userdata"
)

// State is the complete application state. Dispatching never mutates
// a State in place; Reduce returns a shallow copy with the change
// applied.
type State struct {
	User          *session.Identity
	Loading       bool
	Videos        []catalog.Video
	SearchResults []catalog.Video
	SelectedVideo *catalog.Video
	Playlists     []userdata.Playlist
	History       []userdata.HistoryEntry
	Subscriptions []userdata.Subscription
	LikedVideos   []userdata.LikedVideo
	SidebarOpen   bool
	SearchQuery   string
}

// NewState returns the initial state: signed out, loading, sidebar open.
func NewState() State {
	return State{Loading: true, SidebarOpen: true}
}

// Action is a state mutation understood by Reduce.
type Action interface{ isAction() }

// SetUser records sign-in state and clears the loading flag.
type SetUser struct{ User *session.Identity }

type SetLoading struct{ Loading bool }

type SetVideos struct{ Videos []catalog.Video }

type SetSearchResults struct{ Videos []catalog.Video }

type SetSelectedVideo struct{ Video *catalog.Video }

type SetPlaylists struct{ Playlists []userdata.Playlist }

type SetHistory struct{ Entries []userdata.HistoryEntry }

type SetSubscriptions struct{ Subscriptions []userdata.Subscription }

type SetLikedVideos struct{ Videos []userdata.LikedVideo }

type ToggleSidebar struct{}

type SetSearchQuery struct{ Query string }

func (SetUser) isAction()          {}
func (SetLoading) isAction()       {}
func (SetVideos) isAction()        {}
func (SetSearchResults) isAction() {}
func (SetSelectedVideo) isAction() {}
func (SetPlaylists) isAction()     {}
func (SetHistory) isAction()       {}
func (SetSubscriptions) isAction() {}
func (SetLikedVideos) isAction()   {}
func (ToggleSidebar) isAction()    {}
func (SetSearchQuery) isAction()   {}

// Reduce applies one action. Unknown actions return the state unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetUser:
		state.User = a.User
		state.Loading = false
	case SetLoading:
		state.Loading = a.Loading
	case SetVideos:
		state.Videos = a.Videos
	case SetSearchResults:
		state.SearchResults = a.Videos
	case SetSelectedVideo:
		state.SelectedVideo = a.Video
	case SetPlaylists:
		state.Playlists = a.Playlists
	case SetHistory:
		state.History = a.Entries
	case SetSubscriptions:
		state.Subscriptions = a.Subscriptions
	case SetLikedVideos:
		state.LikedVideos = a.Videos
	case ToggleSidebar:
		state.SidebarOpen = !state.SidebarOpen
	case SetSearchQuery:
		state.SearchQuery = a.Query
	}
	return state
}

// SubscribeFunc receives the full state after every dispatch.
type SubscribeFunc func(State)

// Store serializes dispatches and fans the resulting state out to
// subscribers synchronously, in dispatch order.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers []SubscribeFunc
}

func NewStore() *Store {
	return &Store{state: NewState()}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces the action and notifies subscribers with the new
// state. Subscribers run outside the lock and may dispatch again.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state
	subscribers := make([]SubscribeFunc, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}
}

// Subscribe registers fn for future dispatches.
func (s *Store) Subscribe(fn SubscribeFunc) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}
