package catalog

import (
	"time"

	"google.golang.org/api/youtube/v3"
)

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func thumbnails(d *youtube.ThumbnailDetails) (medium, high string) {
	if d == nil {
		return "", ""
	}
	if d.Medium != nil {
		medium = d.Medium.Url
	}
	if medium == "" && d.Default != nil {
		medium = d.Default.Url
	}
	if d.High != nil {
		high = d.High.Url
	}
	if high == "" {
		high = medium
	}
	return medium, high
}

// fromSearchItem normalizes a search result. Statistics are absent in
// search responses and stay zero until merged.
func fromSearchItem(item *youtube.SearchResult) Video {
	v := Video{}
	if item.Id != nil {
		v.ID = item.Id.VideoId
	}
	if sn := item.Snippet; sn != nil {
		v.Title = sn.Title
		v.Description = sn.Description
		v.ChannelID = sn.ChannelId
		v.ChannelTitle = sn.ChannelTitle
		v.PublishedAt = parseTimestamp(sn.PublishedAt)
		v.Thumbnail, v.ThumbnailHi = thumbnails(sn.Thumbnails)
		v.Live = sn.LiveBroadcastContent == "live"
	}
	return v
}

// fromVideoItem normalizes a full video resource.
func fromVideoItem(item *youtube.Video) Video {
	v := Video{ID: item.Id}
	if sn := item.Snippet; sn != nil {
		v.Title = sn.Title
		v.Description = sn.Description
		v.ChannelID = sn.ChannelId
		v.ChannelTitle = sn.ChannelTitle
		v.PublishedAt = parseTimestamp(sn.PublishedAt)
		v.Thumbnail, v.ThumbnailHi = thumbnails(sn.Thumbnails)
		v.Live = sn.LiveBroadcastContent == "live"
	}
	if st := item.Statistics; st != nil {
		v.ViewCount = st.ViewCount
		v.LikeCount = st.LikeCount
		v.CommentCount = st.CommentCount
	}
	if cd := item.ContentDetails; cd != nil {
		v.Duration = cd.Duration
	}
	return v
}

// mergeStatistics joins a statistics lookup onto search-derived videos
// by shared video id. Videos without a matching detail row keep zero
// statistics; the join never drops an input video.
func mergeStatistics(videos []Video, details []*youtube.Video) []Video {
	byID := make(map[string]*youtube.Video, len(details))
	for _, d := range details {
		byID[d.Id] = d
	}

	merged := make([]Video, len(videos))
	for i, v := range videos {
		if d, ok := byID[v.ID]; ok {
			if st := d.Statistics; st != nil {
				v.ViewCount = st.ViewCount
				v.LikeCount = st.LikeCount
				v.CommentCount = st.CommentCount
			}
			if cd := d.ContentDetails; cd != nil {
				v.Duration = cd.Duration
			}
		}
		merged[i] = v
	}
	return merged
}

func fromCommentThread(item *youtube.CommentThread) Comment {
	c := Comment{ID: item.Id}
	if item.Snippet == nil || item.Snippet.TopLevelComment == nil {
		return c
	}
	if sn := item.Snippet.TopLevelComment.Snippet; sn != nil {
		c.Author = sn.AuthorDisplayName
		c.AuthorPhoto = sn.AuthorProfileImageUrl
		c.Text = sn.TextDisplay
		c.PublishedAt = parseTimestamp(sn.PublishedAt)
		c.LikeCount = sn.LikeCount
	}
	return c
}

func fromChannelItem(item *youtube.Channel) Channel {
	ch := Channel{ID: item.Id}
	if sn := item.Snippet; sn != nil {
		ch.Title = sn.Title
		ch.Description = sn.Description
		ch.Thumbnail, _ = thumbnails(sn.Thumbnails)
	}
	if st := item.Statistics; st != nil {
		ch.Subscribers = st.SubscriberCount
		ch.VideoCount = st.VideoCount
	}
	return ch
}
