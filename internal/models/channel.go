package models

// ChannelStats represents a YouTube channel with its lifetime statistics
// and the engagement of its most recent uploads. SubscriberCount is nil
// when the channel hides it.
type ChannelStats struct {
	ChannelID             string            `json:"channel_id"`
	ChannelTitle          string            `json:"channel_title"`
	ChannelDescription    string            `json:"channel_description"`
	CustomURL             string            `json:"custom_url,omitempty"`
	Country               string            `json:"country,omitempty"`
	ChannelKeywords       string            `json:"channel_keywords,omitempty"`
	PublishedAt           string            `json:"published_at"`
	ChannelURL            string            `json:"channel_url"`
	VideoCount            int64             `json:"video_count"`
	TotalViewCount        int64             `json:"total_view_count"`
	SubscriberCount       *int64            `json:"subscriber_count"`
	SubscriberCountHidden bool              `json:"subscriber_count_hidden,omitempty"`
	Thumbnails            map[string]string `json:"thumbnails"`
	RecentVideos          []VideoSummary    `json:"recent_videos"`
	TotalRecentViews      int64             `json:"total_recent_views"`
	TotalRecentLikes      int64             `json:"total_recent_likes"`
	TotalRecentComments   int64             `json:"total_recent_comments"`
}

// ChannelURL builds the canonical URL for a channel ID.
func ChannelURL(channelID string) string {
	return "https://www.youtube.com/channel/" + channelID
}
