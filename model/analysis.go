package model

import "time"

// Platform identifiers accepted on submission.
const (
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
)

// KnownPlatform reports whether p is one of the supported platforms.
func KnownPlatform(p string) bool {
	switch p {
	case PlatformYouTube, PlatformTikTok, PlatformInstagram, PlatformFacebook:
		return true
	}
	return false
}

// Submission is the transient form input for a video analysis request.
type Submission struct {
	URL         string `json:"url"`
	Platform    string `json:"platform"`
	Description string `json:"description,omitempty"`
}

// Metrics holds the four scored dimensions of an analysis. Each value is an
// integer in [0,100]. Overall is sampled independently of the other three,
// not derived from them.
type Metrics struct {
	Engagement   int `json:"engagement"`
	Retention    int `json:"retention"`
	Shareability int `json:"shareability"`
	Overall      int `json:"overall"`
}

// AnalysisRecord is one scored result for a submitted video. Records are
// immutable once created; the history ledger owns them exclusively.
type AnalysisRecord struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Platform    string    `json:"platform"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Suggestions []string  `json:"suggestions"`
	Metrics     Metrics   `json:"metrics"`
}

// DashboardStats is derived from the history ledger after every append. It is
// never authoritative on its own.
type DashboardStats struct {
	TotalVideos     int    `json:"totalVideos"`
	AverageScore    int    `json:"averageScore"`
	ImprovementRate int    `json:"improvementRate"` // placeholder, random in [0,30]
	TopPlatform     string `json:"topPlatform"`     // placeholder, random label
}
