package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/yt-stats/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// defaultVideoCount is the number of recent videos fetched when the
	// caller does not ask for a specific count.
	defaultVideoCount = 10
	// defaultSearchResults is the number of channels returned by a
	// search when the caller does not ask for a specific count.
	defaultSearchResults = 5
	// maxResultsPerPage is the YouTube API maximum per request.
	maxResultsPerPage = 50
)

var (
	// ErrAuthentication indicates the upstream API rejected the key.
	ErrAuthentication = errors.New("YouTube API authorization failed")
	// ErrNotFound indicates an identifier that resolves to no channel.
	ErrNotFound = errors.New("channel not found")
)

var channelParts = []string{"snippet", "statistics", "contentDetails", "brandingSettings"}

// YouTubeClient wraps the YouTube Data API v3 service. The API key is
// bound at construction and stays fixed for the process lifetime.
type YouTubeClient struct {
	service *youtube.Service
}

// NewYouTubeClient creates a new YouTube client. Additional options are
// mainly useful for pointing the client at a different endpoint.
func NewYouTubeClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %v", err)
	}

	return &YouTubeClient{
		service: service,
	}, nil
}

// GetChannelStats fetches channel metadata, aggregate statistics and the
// engagement of up to videoCount recent uploads. The identifier can be a
// channel ID (UC...), a handle (@name) or a legacy username.
func (c *YouTubeClient) GetChannelStats(ctx context.Context, identifier string, videoCount int) (*models.ChannelStats, error) {
	if videoCount <= 0 {
		videoCount = defaultVideoCount
	}
	if videoCount > maxResultsPerPage {
		videoCount = maxResultsPerPage
	}

	channel, err := c.resolveChannel(ctx, identifier)
	if err != nil {
		return nil, err
	}

	stats := channelStatsFrom(channel)

	videos, err := c.recentVideos(ctx, channel, videoCount)
	if err != nil {
		// Channel stats are still useful without the upload list
		log.Printf("Failed to fetch recent videos for %s: %v", channel.Id, err)
		videos = []models.VideoSummary{}
	}
	stats.RecentVideos = videos
	stats.TotalRecentViews, stats.TotalRecentLikes, stats.TotalRecentComments = models.SumEngagement(videos)

	return stats, nil
}

// SearchChannels returns up to maxResults channels matching the query.
func (c *YouTubeClient) SearchChannels(ctx context.Context, query string, maxResults int) ([]models.ChannelSearchResult, error) {
	if maxResults <= 0 {
		maxResults = defaultSearchResults
	}
	if maxResults > maxResultsPerPage {
		maxResults = maxResultsPerPage
	}

	response, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError(err)
	}

	results := make([]models.ChannelSearchResult, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Snippet == nil {
			continue
		}
		results = append(results, models.ChannelSearchResult{
			ChannelID:   item.Id.ChannelId,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			ChannelURL:  models.ChannelURL(item.Id.ChannelId),
		})
		if len(results) == maxResults {
			break
		}
	}

	return results, nil
}

// resolveChannel looks up a channel by ID, handle or legacy username.
func (c *YouTubeClient) resolveChannel(ctx context.Context, identifier string) (*youtube.Channel, error) {
	switch {
	case strings.HasPrefix(identifier, "UC"):
		return c.lookupChannel(ctx, c.service.Channels.List(channelParts).Id(identifier))

	case strings.HasPrefix(identifier, "@"):
		channel, err := c.lookupChannel(ctx, c.service.Channels.List(channelParts).ForHandle(identifier))
		if err == nil || !errors.Is(err, ErrNotFound) {
			return channel, err
		}
		// Some handles only surface through search
		return c.channelViaSearch(ctx, strings.TrimPrefix(identifier, "@"))

	default:
		channel, err := c.lookupChannel(ctx, c.service.Channels.List(channelParts).ForUsername(identifier))
		if err == nil || !errors.Is(err, ErrNotFound) {
			return channel, err
		}
		// Legacy usernames often survive only as handles now
		return c.lookupChannel(ctx, c.service.Channels.List(channelParts).ForHandle(identifier))
	}
}

func (c *YouTubeClient) lookupChannel(ctx context.Context, call *youtube.ChannelsListCall) (*youtube.Channel, error) {
	response, err := call.MaxResults(1).Context(ctx).Do()
	if err != nil {
		return nil, classifyAPIError(err)
	}

	if len(response.Items) == 0 {
		return nil, ErrNotFound
	}

	return response.Items[0], nil
}

// channelViaSearch finds a channel ID through search and fetches the full
// channel record for it.
func (c *YouTubeClient) channelViaSearch(ctx context.Context, query string) (*youtube.Channel, error) {
	response, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError(err)
	}

	if len(response.Items) == 0 || response.Items[0].Id == nil {
		return nil, fmt.Errorf("%w: no channel matches %q", ErrNotFound, query)
	}

	return c.lookupChannel(ctx, c.service.Channels.List(channelParts).Id(response.Items[0].Id.ChannelId))
}

// recentVideos fetches up to videoCount uploads from the channel's uploads
// playlist together with their statistics, newest first.
func (c *YouTubeClient) recentVideos(ctx context.Context, channel *youtube.Channel, videoCount int) ([]models.VideoSummary, error) {
	videos := []models.VideoSummary{}

	if channel.ContentDetails == nil || channel.ContentDetails.RelatedPlaylists == nil {
		return videos, nil
	}
	playlistID := channel.ContentDetails.RelatedPlaylists.Uploads
	if playlistID == "" {
		return videos, nil
	}

	playlistResponse, err := c.service.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(int64(videoCount)).
		Context(ctx).
		Do()
	if err != nil {
		return videos, classifyAPIError(err)
	}

	var videoIDs []string
	for _, item := range playlistResponse.Items {
		if item.Snippet != nil && item.Snippet.ResourceId != nil {
			videoIDs = append(videoIDs, item.Snippet.ResourceId.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return videos, nil
	}

	videoResponse, err := c.service.Videos.List([]string{"snippet", "statistics"}).
		Id(videoIDs...).
		Context(ctx).
		Do()
	if err != nil {
		return videos, classifyAPIError(err)
	}

	for _, item := range videoResponse.Items {
		if item.Snippet == nil {
			continue
		}
		summary := models.VideoSummary{
			VideoID:     item.Id,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			PublishedAt: item.Snippet.PublishedAt,
			VideoURL:    models.VideoURL(item.Id),
		}
		if st := item.Statistics; st != nil {
			views := int64(st.ViewCount)
			likes := int64(st.LikeCount)
			comments := int64(st.CommentCount)
			summary.ViewCount = &views
			summary.LikeCount = &likes
			summary.CommentCount = &comments
		}
		videos = append(videos, summary)
	}

	// videos.list does not guarantee request order
	sort.Slice(videos, func(i, j int) bool {
		return publishedAfter(videos[i].PublishedAt, videos[j].PublishedAt)
	})

	if len(videos) > videoCount {
		videos = videos[:videoCount]
	}

	return videos, nil
}

func publishedAfter(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA != nil || errB != nil {
		return a > b
	}
	return ta.After(tb)
}

// channelStatsFrom maps an API channel record onto the stats model,
// leaving the recent-video fields for the caller to fill in.
func channelStatsFrom(channel *youtube.Channel) *models.ChannelStats {
	stats := &models.ChannelStats{
		ChannelID:    channel.Id,
		ChannelURL:   models.ChannelURL(channel.Id),
		Thumbnails:   map[string]string{},
		RecentVideos: []models.VideoSummary{},
	}

	if snippet := channel.Snippet; snippet != nil {
		stats.ChannelTitle = snippet.Title
		stats.ChannelDescription = snippet.Description
		stats.PublishedAt = snippet.PublishedAt
		stats.CustomURL = snippet.CustomUrl
		stats.Country = snippet.Country
		stats.Thumbnails = thumbnailURLs(snippet.Thumbnails)
	}

	if st := channel.Statistics; st != nil {
		stats.VideoCount = int64(st.VideoCount)
		stats.TotalViewCount = int64(st.ViewCount)
		if st.HiddenSubscriberCount {
			stats.SubscriberCountHidden = true
		} else {
			subscribers := int64(st.SubscriberCount)
			stats.SubscriberCount = &subscribers
		}
	}

	if channel.BrandingSettings != nil && channel.BrandingSettings.Channel != nil {
		stats.ChannelKeywords = channel.BrandingSettings.Channel.Keywords
	}

	return stats
}

func thumbnailURLs(details *youtube.ThumbnailDetails) map[string]string {
	urls := map[string]string{}
	if details == nil {
		return urls
	}
	for size, thumb := range map[string]*youtube.Thumbnail{
		"default":  details.Default,
		"medium":   details.Medium,
		"high":     details.High,
		"standard": details.Standard,
		"maxres":   details.Maxres,
	} {
		if thumb != nil && thumb.Url != "" {
			urls[size] = thumb.Url
		}
	}
	return urls
}

// classifyAPIError maps upstream failures onto the client's error
// taxonomy while keeping the upstream code and message visible.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: YouTube API error %d: %s", ErrAuthentication, apiErr.Code, apiErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
		}
	}
	return err
}
