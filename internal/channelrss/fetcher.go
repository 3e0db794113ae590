// Package channelrss fetches a channel's recent uploads from its
// public Atom feed. The feed needs no API key and costs no quota, so
// the subscriptions view refreshes through it instead of the catalog
// API. Feeds only carry the 15 most recent uploads.
package channelrss

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/nkoval/vtv/internal/catalog"
)

const feedURLTemplate = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// Fetcher retrieves and parses channel upload feeds.
type Fetcher struct {
	client  *http.Client
	parser  *gofeed.Parser
	baseURL string
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		parser:  gofeed.NewParser(),
		baseURL: feedURLTemplate,
	}
}

// NewFetcherWithBase overrides the feed URL template, used in tests.
func NewFetcherWithBase(client *http.Client, baseURL string) *Fetcher {
	return &Fetcher{client: client, parser: gofeed.NewParser(), baseURL: baseURL}
}

// LatestUploads returns up to limit recent uploads for the channel,
// newest first, as partial catalog records. Statistics and duration
// are not present in the feed.
func (f *Fetcher) LatestUploads(ctx context.Context, channelID string, limit int) ([]catalog.Video, error) {
	feedURL := fmt.Sprintf(f.baseURL, channelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching channel feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("channel %s has no feed", channelID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("channel feed returned HTTP %d", resp.StatusCode)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing channel feed: %w", err)
	}

	videos := make([]catalog.Video, 0, len(feed.Items))
	for _, item := range feed.Items {
		id := videoIDFromItem(item)
		if id == "" {
			continue
		}
		v := catalog.Video{
			ID:           id,
			Title:        item.Title,
			ChannelID:    channelID,
			ChannelTitle: channelTitle(feed, item),
			Thumbnail:    thumbnailURL(item),
		}
		if item.PublishedParsed != nil {
			v.PublishedAt = *item.PublishedParsed
		}
		videos = append(videos, v)
		if limit > 0 && len(videos) >= limit {
			break
		}
	}
	return videos, nil
}

// videoIDFromItem prefers the yt:video: GUID, falling back to the
// watch link's v parameter.
func videoIDFromItem(item *gofeed.Item) string {
	if id, ok := strings.CutPrefix(item.GUID, "yt:video:"); ok {
		return id
	}
	if u, err := url.Parse(item.Link); err == nil {
		if v := u.Query().Get("v"); v != "" {
			return v
		}
	}
	return ""
}

func channelTitle(feed *gofeed.Feed, item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	return feed.Title
}

// thumbnailURL digs the media:group thumbnail out of the extensions.
func thumbnailURL(item *gofeed.Item) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}
	for _, group := range media["group"] {
		for _, thumb := range group.Children["thumbnail"] {
			if u := thumb.Attrs["url"]; u != "" {
				return u
			}
		}
	}
	return ""
}
