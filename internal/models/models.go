package models

// Post is one normalized feed entry. Every field is always emitted so the
// snapshot schema stays stable regardless of which source format produced it.
type Post struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	URL        string `json:"url"`
	Date       string `json:"date"`
	CoverImage string `json:"cover_image"`
}

// Snapshot is the full output record set for one run.
type Snapshot struct {
	Source    string `json:"source"`
	FeedTitle string `json:"feed_title,omitempty"`
	FeedURL   string `json:"feed_url,omitempty"`
	UpdatedAt string `json:"updated_at"`
	Posts     []Post `json:"posts"`
}
