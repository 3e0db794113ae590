package catalog

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/nkoval/vtv/internal/config"
	"github.com/nkoval/vtv/internal/debuglog"
)

// Category ids used by the browse screens.
const (
	CategoryMovies = "1"
	CategoryMusic  = "10"
	CategoryGaming = "20"
)

// Client issues read requests against the video catalog API. It never
// retries; a failed call surfaces immediately as *UpstreamError. An
// empty items array is a valid empty result, not an error.
type Client struct {
	svc    *youtube.Service
	region string
}

func NewClient(ctx context.Context, cfg *config.CatalogConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("catalog api key required")
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating catalog service: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "US"
	}

	return &Client{svc: svc, region: region}, nil
}

// SearchVideos searches by relevance and joins a statistics lookup
// onto the search results by shared video id.
func (c *Client) SearchVideos(ctx context.Context, query string, limit int) ([]Video, error) {
	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("relevance").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream(err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, fromSearchItem(item))
	}

	return c.joinStatistics(ctx, videos)
}

// joinStatistics fetches statistics/contentDetails for the given
// videos in one call and merges them in.
func (c *Client) joinStatistics(ctx context.Context, videos []Video) ([]Video, error) {
	if len(videos) == 0 {
		return videos, nil
	}

	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		if v.ID != "" {
			ids = append(ids, v.ID)
		}
	}
	if len(ids) == 0 {
		return videos, nil
	}

	resp, err := c.svc.Videos.List([]string{"statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream(err)
	}

	return mergeStatistics(videos, resp.Items), nil
}

// GetVideoByID returns the video, or nil when no item matched the id.
func (c *Client) GetVideoByID(ctx context.Context, id string) (*Video, error) {
	resp, err := c.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(id).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream(err)
	}
	if len(resp.Items) == 0 {
		debuglog.Warnf("catalog: no video found with id %s", id)
		return nil, nil
	}
	v := fromVideoItem(resp.Items[0])
	return &v, nil
}

// GetPopularVideos returns the mostPopular chart for the client region.
func (c *Client) GetPopularVideos(ctx context.Context, limit int) ([]Video, error) {
	return c.chart(ctx, "", limit)
}

// GetTrendingVideos is the trending screen's source; identical chart to
// popular, kept as its own operation to match the route surface.
func (c *Client) GetTrendingVideos(ctx context.Context, limit int) ([]Video, error) {
	return c.chart(ctx, "", limit)
}

// GetVideosByCategory returns the mostPopular chart filtered to a category.
func (c *Client) GetVideosByCategory(ctx context.Context, categoryID string, limit int) ([]Video, error) {
	return c.chart(ctx, categoryID, limit)
}

func (c *Client) chart(ctx context.Context, categoryID string, limit int) ([]Video, error) {
	call := c.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Chart("mostPopular").
		RegionCode(c.region).
		MaxResults(int64(limit)).
		Context(ctx)
	if categoryID != "" {
		call = call.VideoCategoryId(categoryID)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, upstream(err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, fromVideoItem(item))
	}
	return videos, nil
}

// GetLiveVideos searches currently live broadcasts ordered by viewers,
// with the usual statistics join.
func (c *Client) GetLiveVideos(ctx context.Context, limit int) ([]Video, error) {
	resp, err := c.svc.Search.List([]string{"snippet"}).
		EventType("live").
		Type("video").
		Order("viewCount").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream(err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, fromSearchItem(item))
	}

	return c.joinStatistics(ctx, videos)
}

// GetVideoComments returns top-level upstream comment threads ordered
// by relevance.
func (c *Client) GetVideoComments(ctx context.Context, videoID string, limit int) ([]Comment, error) {
	resp, err := c.svc.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		Order("relevance").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream(err)
	}

	comments := make([]Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		comments = append(comments, fromCommentThread(item))
	}
	return comments, nil
}

// GetChannelInfo returns channel metadata, or nil when the id is unknown.
func (c *Client) GetChannelInfo(ctx context.Context, channelID string) (*Channel, error) {
	resp, err := c.svc.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream(err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	ch := fromChannelItem(resp.Items[0])
	return &ch, nil
}

// GetRelatedVideos approximates relatedness by searching the first few
// words of the video title.
func (c *Client) GetRelatedVideos(ctx context.Context, videoID string, limit int) ([]Video, error) {
	v, err := c.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []Video{}, nil
	}

	words := strings.Fields(v.Title)
	if len(words) > 3 {
		words = words[:3]
	}
	if len(words) == 0 {
		return []Video{}, nil
	}

	return c.SearchVideos(ctx, strings.Join(words, " "), limit)
}
