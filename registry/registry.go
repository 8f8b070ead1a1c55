// Package registry maintains the site-wide admin collections of users and
// videos. These are deliberately separate from the per-session history
// ledger: there is no shared backend, so a dashboard submission never shows
// up here.
package registry

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sshuster/viral-video-whisperer-pro/model"
	"github.com/sshuster/viral-video-whisperer-pro/notify"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrVideoNotFound  = errors.New("video not found")
	ErrAdminProtected = errors.New("admin accounts cannot be removed")
)

// scoreBuckets are the fixed histogram edges for the virality score
// distribution, presented highest range first.
var scoreBuckets = []struct {
	label    string
	min, max int
}{
	{"90-100", 90, 100},
	{"80-89", 80, 89},
	{"70-79", 70, 79},
	{"60-69", 60, 69},
	{"50-59", 50, 59},
	{"0-49", 0, 49},
}

// Registry holds the two in-memory collections and derives the admin
// analytics views from them on every read.
type Registry struct {
	mu       sync.RWMutex
	users    []model.RegisteredUser
	videos   []model.RegisteredVideo
	notifier notify.Notifier
}

// New creates a registry seeded with the mock corpus.
func New(notifier notify.Notifier) *Registry {
	return &Registry{
		users:    seedUsers(),
		videos:   seedVideos(),
		notifier: notifier,
	}
}

func mustParse(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func seedUsers() []model.RegisteredUser {
	return []model.RegisteredUser{
		{ID: "1", Username: "muser", Name: "Mock User", Role: model.RoleUser, VideosSubmitted: 5, JoinDate: mustParse("2023-11-15T10:30:00Z"), Status: "active"},
		{ID: "2", Username: "mvc", Name: "Admin User", Role: model.RoleAdmin, VideosSubmitted: 0, JoinDate: mustParse("2023-10-01T08:15:00Z"), Status: "active"},
		{ID: "3", Username: "johndoe", Name: "John Doe", Role: model.RoleUser, VideosSubmitted: 12, JoinDate: mustParse("2023-12-05T14:45:00Z"), Status: "active"},
		{ID: "4", Username: "janedoe", Name: "Jane Doe", Role: model.RoleUser, VideosSubmitted: 8, JoinDate: mustParse("2024-01-10T09:20:00Z"), Status: "active"},
		{ID: "5", Username: "bobsmith", Name: "Bob Smith", Role: model.RoleUser, VideosSubmitted: 3, JoinDate: mustParse("2024-02-20T11:10:00Z"), Status: "active"},
	}
}

func seedVideos() []model.RegisteredVideo {
	return []model.RegisteredVideo{
		{ID: "1", UserID: "1", Username: "muser", URL: "https://www.youtube.com/watch?v=abc123", Platform: model.PlatformYouTube, Status: model.VideoStatusActive, SubmittedAt: mustParse("2024-03-01T10:30:00Z"), Score: 78},
		{ID: "2", UserID: "1", Username: "muser", URL: "https://www.tiktok.com/@user/video/123456", Platform: model.PlatformTikTok, Status: model.VideoStatusActive, SubmittedAt: mustParse("2024-03-05T15:45:00Z"), Score: 64},
		{ID: "3", UserID: "3", Username: "johndoe", URL: "https://www.youtube.com/watch?v=def456", Platform: model.PlatformYouTube, Status: model.VideoStatusActive, SubmittedAt: mustParse("2024-03-10T09:15:00Z"), Score: 82},
		{ID: "4", UserID: "3", Username: "johndoe", URL: "https://www.instagram.com/reel/123456/", Platform: model.PlatformInstagram, Status: model.VideoStatusReported, SubmittedAt: mustParse("2024-03-12T14:20:00Z"), Score: 71},
		{ID: "5", UserID: "4", Username: "janedoe", URL: "https://www.youtube.com/watch?v=ghi789", Platform: model.PlatformYouTube, Status: model.VideoStatusActive, SubmittedAt: mustParse("2024-03-15T11:30:00Z"), Score: 93},
		{ID: "6", UserID: "5", Username: "bobsmith", URL: "https://www.tiktok.com/@user/video/789012", Platform: model.PlatformTikTok, Status: model.VideoStatusActive, SubmittedAt: mustParse("2024-03-18T16:45:00Z"), Score: 56},
		{ID: "7", UserID: "4", Username: "janedoe", URL: "https://www.facebook.com/watch/?v=123456", Platform: model.PlatformFacebook, Status: model.VideoStatusActive, SubmittedAt: mustParse("2024-03-20T13:10:00Z"), Score: 68},
		{ID: "8", UserID: "3", Username: "johndoe", URL: "https://www.youtube.com/watch?v=jkl012", Platform: model.PlatformYouTube, Status: model.VideoStatusActive, SubmittedAt: mustParse("2024-03-22T10:45:00Z"), Score: 75},
	}
}

// FilterUsers returns users whose username or display name contains the
// query, case-insensitively. An empty query returns all users.
func (r *Registry) FilterUsers(query string) []model.RegisteredUser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	result := make([]model.RegisteredUser, 0, len(r.users))
	for _, u := range r.users {
		if q == "" ||
			strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Name), q) {
			result = append(result, u)
		}
	}
	return result
}

// FilterVideos returns videos whose URL, username or platform contains the
// query, case-insensitively. Any one field matching is sufficient.
func (r *Registry) FilterVideos(query string) []model.RegisteredVideo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	result := make([]model.RegisteredVideo, 0, len(r.videos))
	for _, v := range r.videos {
		if q == "" ||
			strings.Contains(strings.ToLower(v.URL), q) ||
			strings.Contains(strings.ToLower(v.Username), q) ||
			strings.Contains(strings.ToLower(v.Platform), q) {
			result = append(result, v)
		}
	}
	return result
}

// RemoveUser hard-deletes a user by id. Admin accounts are protected at this
// boundary, not merely hidden in the UI. The user's videos are untouched:
// the collections are independent.
func (r *Registry) RemoveUser(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID != id {
			continue
		}
		if u.Role == model.RoleAdmin {
			log.Warn().Str("user_id", id).Msg("Refused to remove admin account")
			return ErrAdminProtected
		}
		r.users = append(r.users[:i], r.users[i+1:]...)
		log.Info().Str("user_id", id).Str("username", u.Username).Msg("User removed")
		r.notifier.Success("User has been removed")
		return nil
	}
	return ErrUserNotFound
}

// RemoveVideo hard-deletes a video by id, unconditionally.
func (r *Registry) RemoveVideo(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, v := range r.videos {
		if v.ID != id {
			continue
		}
		r.videos = append(r.videos[:i], r.videos[i+1:]...)
		log.Info().Str("video_id", id).Str("platform", v.Platform).Msg("Video removed")
		r.notifier.Success("Video has been removed")
		return nil
	}
	return ErrVideoNotFound
}

// Overview recomputes every aggregate from the current collections. Nothing
// is cached across mutations.
func (r *Registry) Overview() model.RegistryOverview {
	r.mu.RLock()
	defer r.mu.RUnlock()

	overview := model.RegistryOverview{
		TotalUsers:           len(r.users),
		TotalVideos:          len(r.videos),
		PlatformDistribution: make(map[string]int),
	}

	for _, v := range r.videos {
		if v.Status == model.VideoStatusReported {
			overview.ReportedVideos++
		}
		overview.PlatformDistribution[v.Platform]++
	}

	for _, u := range r.users {
		overview.UserActivity = append(overview.UserActivity, model.UserActivity{
			Name:   u.Name,
			Videos: u.VideosSubmitted,
		})
	}
	sort.SliceStable(overview.UserActivity, func(i, j int) bool {
		return overview.UserActivity[i].Videos > overview.UserActivity[j].Videos
	})

	for _, bucket := range scoreBuckets {
		count := 0
		for _, v := range r.videos {
			if v.Score >= bucket.min && v.Score <= bucket.max {
				count++
			}
		}
		overview.ScoreDistribution = append(overview.ScoreDistribution, model.ScoreBucket{
			Range: bucket.label,
			Count: count,
		})
	}

	return overview
}
