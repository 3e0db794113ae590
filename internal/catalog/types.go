package catalog

import "time"

// Video is an immutable snapshot of a catalog entry. Statistics and
// Duration are zero-valued when the upstream response omitted them.
type Video struct {
	ID           string
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	Thumbnail    string
	ThumbnailHi  string
	PublishedAt  time.Time
	Duration     string // ISO 8601, e.g. "PT4M13S"
	ViewCount    uint64
	LikeCount    uint64
	CommentCount uint64
	Live         bool
}

// Comment is a top-level upstream comment thread entry.
type Comment struct {
	ID          string
	Author      string
	AuthorPhoto string
	Text        string
	PublishedAt time.Time
	LikeCount   int64
}

// Channel holds the metadata shown on a channel card.
type Channel struct {
	ID          string
	Title       string
	Description string
	Thumbnail   string
	Subscribers uint64
	VideoCount  uint64
}
