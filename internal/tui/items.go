package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nkoval/vtv/internal/catalog"
	"github.com/nkoval/vtv/internal/library"
	"github.com/nkoval/vtv/internal/userdata"
)

type videoItem struct {
	video catalog.Video
}

func (i videoItem) Title() string {
	if i.video.Live {
		return LiveBadgeStyle.Render("LIVE") + " " + i.video.Title
	}
	return i.video.Title
}

func (i videoItem) Description() string {
	desc := ChannelStyle.Render(i.video.ChannelTitle)
	if i.video.ViewCount > 0 {
		desc += lipgloss.NewStyle().Foreground(MutedColor).
			Render(" • " + formatCount(i.video.ViewCount) + " views")
	}
	if age := relativeTime(i.video.PublishedAt); age != "" {
		desc += TimeStyle.Render(" • " + age)
	}
	return desc
}

func (i videoItem) FilterValue() string { return i.video.Title + " " + i.video.ChannelTitle }

type historyItem struct {
	entry userdata.HistoryEntry
}

func (i historyItem) Title() string {
	if i.entry.IsShort {
		return "▸ " + i.entry.Title
	}
	return i.entry.Title
}

func (i historyItem) Description() string {
	desc := ChannelStyle.Render(i.entry.ChannelTitle)
	desc += TimeStyle.Render(" • watched " + relativeTime(millisToTime(i.entry.WatchedAt)))
	return desc
}

func (i historyItem) FilterValue() string { return i.entry.Title + " " + i.entry.ChannelTitle }

type likedItem struct {
	video userdata.LikedVideo
}

func (i likedItem) Title() string { return i.video.Title }

func (i likedItem) Description() string {
	return ChannelStyle.Render(i.video.ChannelTitle) +
		TimeStyle.Render(" • liked "+relativeTime(millisToTime(i.video.LikedAt)))
}

func (i likedItem) FilterValue() string { return i.video.Title + " " + i.video.ChannelTitle }

type subscriptionItem struct {
	sub     userdata.Subscription
	uploads []catalog.Video
}

func (i subscriptionItem) Title() string { return ChannelStyle.Render(i.sub.Title) }

func (i subscriptionItem) Description() string {
	if len(i.uploads) > 0 {
		return lipgloss.NewStyle().Foreground(MutedColor).
			Render("latest: " + truncateEnd(i.uploads[0].Title, 60))
	}
	return TimeStyle.Render("subscribed " + relativeTime(millisToTime(i.sub.SubscribedAt)))
}

func (i subscriptionItem) FilterValue() string { return i.sub.Title }

type playlistItem struct {
	playlist userdata.Playlist
}

func (i playlistItem) Title() string { return i.playlist.Name }

func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d videos", len(i.playlist.Videos))
	if i.playlist.Description != "" {
		desc += " • " + truncateEnd(i.playlist.Description, 50)
	}
	return lipgloss.NewStyle().Foreground(MutedColor).Render(desc)
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }

type playlistVideoItem struct {
	video userdata.PlaylistVideo
}

func (i playlistVideoItem) Title() string { return i.video.Title }

func (i playlistVideoItem) Description() string {
	return ChannelStyle.Render(i.video.ChannelTitle) +
		TimeStyle.Render(" • added "+relativeTime(millisToTime(i.video.AddedAt)))
}

func (i playlistVideoItem) FilterValue() string { return i.video.Title }

type libraryResultItem struct {
	result library.Result
}

func (i libraryResultItem) Title() string {
	prefix := "⟳ " // history
	if i.result.Kind == library.KindLiked {
		prefix = "♥ "
	}
	return prefix + i.result.Title
}

func (i libraryResultItem) Description() string {
	return ChannelStyle.Render(i.result.ChannelTitle)
}

func (i libraryResultItem) FilterValue() string {
	return i.result.Title + " " + i.result.ChannelTitle
}
