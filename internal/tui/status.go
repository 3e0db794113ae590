package tui

import "fmt"

// Canonical short status messages used across the app.
const (
	MsgLoading        = "Loading…"
	MsgSearching      = "Searching…"
	MsgLoadingVideo   = "Loading video…"
	MsgLoadingShorts  = "Loading shorts…"
	MsgRefreshing     = "Refreshing…"
	MsgNoResults      = "No results"
	MsgSignedOut      = "Signed out"
	MsgLiked          = "Added to liked videos"
	MsgUnliked        = "Removed from liked videos"
	MsgSubscribed     = "Subscribed"
	MsgUnsubscribed   = "Unsubscribed"
	MsgCommentPosted  = "Comment posted"
	MsgHistoryCleared = "History cleared"
	MsgPaused         = "Paused"
	MsgResumed        = "Resumed"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgSavedToPlaylist(name string) string {
	return fmt.Sprintf("Saved to '%s'", name)
}

func MsgPlaylistCreated(name string) string {
	return fmt.Sprintf("Created playlist '%s'", name)
}

func MsgPlayingWith(command, title string) string {
	return fmt.Sprintf("Playing '%s' via %s", title, command)
}

func MsgSignedIn(name string) string {
	return fmt.Sprintf("Signed in as %s", name)
}
