package model

import "time"

// Video moderation status in the admin registry.
const (
	VideoStatusActive   = "active"
	VideoStatusReported = "reported"
)

// RegisteredUser is a site-wide user entry in the admin registry. The
// registry is independent of the per-session history ledger.
type RegisteredUser struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Name            string    `json:"name"`
	Role            Role      `json:"role"`
	VideosSubmitted int       `json:"videosSubmitted"`
	JoinDate        time.Time `json:"joinDate"`
	Status          string    `json:"status"`
}

// RegisteredVideo is a site-wide video entry in the admin registry.
type RegisteredVideo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	URL         string    `json:"url"`
	Platform    string    `json:"platform"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
	Score       int       `json:"score"`
}

// UserActivity is the per-user submission count used by the admin analytics
// view, sorted by video count descending.
type UserActivity struct {
	Name   string `json:"name"`
	Videos int    `json:"videos"`
}

// ScoreBucket is one bar of the virality score histogram.
type ScoreBucket struct {
	Range string `json:"score"`
	Count int    `json:"count"`
}

// RegistryOverview aggregates the admin registry collections. All fields are
// recomputed from the live collections on every read.
type RegistryOverview struct {
	TotalUsers           int            `json:"totalUsers"`
	TotalVideos          int            `json:"totalVideos"`
	ReportedVideos       int            `json:"reportedVideos"`
	PlatformDistribution map[string]int `json:"platformDistribution"`
	UserActivity         []UserActivity `json:"userActivity"`
	ScoreDistribution    []ScoreBucket  `json:"scoreDistribution"`
}
