package tui

type View int

const (
	ViewHome View = iota
	ViewSearch
	ViewWatch
	ViewShorts
	ViewTrending
	ViewMusic
	ViewMovies
	ViewGaming
	ViewLive
	ViewHistory
	ViewLiked
	ViewSubscriptions
	ViewPlaylists
	ViewPlaylistDetail
	ViewSavePrompt
	ViewNewPlaylist
	ViewComment
	ViewProfile
	ViewSignIn
	ViewLibrarySearch
)

// browseCategories maps the browse views to catalog category ids.
var browseTitles = map[View]string{
	ViewTrending: "› trending",
	ViewMusic:    "› music",
	ViewMovies:   "› movies",
	ViewGaming:   "› gaming",
	ViewLive:     "› live",
}
