package models

// ChannelSearchResult is a single channel returned by a keyword search.
type ChannelSearchResult struct {
	ChannelID   string `json:"channel_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ChannelURL  string `json:"channel_url"`
}
