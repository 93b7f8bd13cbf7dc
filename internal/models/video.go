package models

// VideoSummary represents one recent upload with its engagement counters.
// The counters are pointers because the API omits statistics for some
// videos.
type VideoSummary struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	PublishedAt  string `json:"published_at"`
	VideoURL     string `json:"video_url"`
	ViewCount    *int64 `json:"view_count,omitempty"`
	LikeCount    *int64 `json:"like_count,omitempty"`
	CommentCount *int64 `json:"comment_count,omitempty"`
}

// VideoURL builds the watch URL for a video ID.
func VideoURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// SumEngagement totals views, likes and comments across videos. Videos
// without counters contribute zero, and an empty slice sums to exactly
// zero.
func SumEngagement(videos []VideoSummary) (views, likes, comments int64) {
	for _, v := range videos {
		if v.ViewCount != nil {
			views += *v.ViewCount
		}
		if v.LikeCount != nil {
			likes += *v.LikeCount
		}
		if v.CommentCount != nil {
			comments += *v.CommentCount
		}
	}
	return views, likes, comments
}
