package registry

import (
	"testing"

	"github.com/sshuster/viral-video-whisperer-pro/model"
	"github.com/sshuster/viral-video-whisperer-pro/notify"
)

func TestFilterUsers(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"Empty query returns all", "", []string{"1", "2", "3", "4", "5"}},
		{"Match by username", "muser", []string{"1"}},
		{"Match by display name", "doe", []string{"3", "4"}},
		{"Case insensitive", "JOHN", []string{"3"}},
		{"No match", "xyzzy", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&notify.Recorder{})

			users := r.FilterUsers(tt.query)
			if len(users) != len(tt.wantIDs) {
				t.Fatalf("FilterUsers(%q) returned %d users, want %d", tt.query, len(users), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if users[i].ID != id {
					t.Errorf("FilterUsers(%q)[%d].ID = %q, want %q", tt.query, i, users[i].ID, id)
				}
			}
		})
	}
}

func TestFilterVideos(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"Empty query returns all", "", []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"Match by platform", "tiktok", []string{"2", "6"}},
		{"Match by username", "janedoe", []string{"5", "7"}},
		{"Match by url fragment", "reel", []string{"4"}},
		{"No match", "vimeo", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&notify.Recorder{})

			videos := r.FilterVideos(tt.query)
			if len(videos) != len(tt.wantIDs) {
				t.Fatalf("FilterVideos(%q) returned %d videos, want %d", tt.query, len(videos), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if videos[i].ID != id {
					t.Errorf("FilterVideos(%q)[%d].ID = %q, want %q", tt.query, i, videos[i].ID, id)
				}
			}
		})
	}
}

func TestRemoveUser(t *testing.T) {
	t.Run("Regular_user", func(t *testing.T) {
		r := New(&notify.Recorder{})

		if err := r.RemoveUser("3"); err != nil {
			t.Fatalf("RemoveUser() error = %v", err)
		}
		if got := len(r.FilterUsers("")); got != 4 {
			t.Errorf("Users remaining = %d, want 4", got)
		}
		// The removed user's videos stay in the video collection.
		if got := len(r.FilterVideos("johndoe")); got != 3 {
			t.Errorf("Videos for removed user = %d, want 3", got)
		}
	})

	t.Run("Admin_protected", func(t *testing.T) {
		r := New(&notify.Recorder{})

		if err := r.RemoveUser("2"); err != ErrAdminProtected {
			t.Fatalf("RemoveUser(admin) error = %v, want ErrAdminProtected", err)
		}
		if got := len(r.FilterUsers("")); got != 5 {
			t.Errorf("Users remaining = %d, want 5 after refused removal", got)
		}
	})

	t.Run("Unknown_id", func(t *testing.T) {
		r := New(&notify.Recorder{})

		if err := r.RemoveUser("99"); err != ErrUserNotFound {
			t.Fatalf("RemoveUser(99) error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestRemoveVideo(t *testing.T) {
	r := New(&notify.Recorder{})

	if err := r.RemoveVideo("4"); err != nil {
		t.Fatalf("RemoveVideo() error = %v", err)
	}
	if got := len(r.FilterVideos("")); got != 7 {
		t.Errorf("Videos remaining = %d, want 7", got)
	}
	if err := r.RemoveVideo("4"); err != ErrVideoNotFound {
		t.Errorf("Second RemoveVideo(4) error = %v, want ErrVideoNotFound", err)
	}
}

func TestOverviewSeededAggregates(t *testing.T) {
	r := New(&notify.Recorder{})

	overview := r.Overview()

	if overview.TotalUsers != 5 {
		t.Errorf("TotalUsers = %d, want 5", overview.TotalUsers)
	}
	if overview.TotalVideos != 8 {
		t.Errorf("TotalVideos = %d, want 8", overview.TotalVideos)
	}
	if overview.ReportedVideos != 1 {
		t.Errorf("ReportedVideos = %d, want 1", overview.ReportedVideos)
	}

	wantPlatforms := map[string]int{
		model.PlatformYouTube:   4,
		model.PlatformTikTok:    2,
		model.PlatformInstagram: 1,
		model.PlatformFacebook:  1,
	}
	for platform, want := range wantPlatforms {
		if got := overview.PlatformDistribution[platform]; got != want {
			t.Errorf("PlatformDistribution[%q] = %d, want %d", platform, got, want)
		}
	}

	if len(overview.UserActivity) != 5 {
		t.Fatalf("UserActivity length = %d, want 5", len(overview.UserActivity))
	}
	if overview.UserActivity[0].Name != "John Doe" || overview.UserActivity[0].Videos != 12 {
		t.Errorf("UserActivity[0] = %+v, want John Doe with 12 videos", overview.UserActivity[0])
	}
	if overview.UserActivity[4].Videos != 0 {
		t.Errorf("UserActivity[4].Videos = %d, want 0", overview.UserActivity[4].Videos)
	}

	wantBuckets := []model.ScoreBucket{
		{Range: "90-100", Count: 1},
		{Range: "80-89", Count: 1},
		{Range: "70-79", Count: 3},
		{Range: "60-69", Count: 2},
		{Range: "50-59", Count: 1},
		{Range: "0-49", Count: 0},
	}
	if len(overview.ScoreDistribution) != len(wantBuckets) {
		t.Fatalf("ScoreDistribution length = %d, want %d", len(overview.ScoreDistribution), len(wantBuckets))
	}
	for i, want := range wantBuckets {
		if overview.ScoreDistribution[i] != want {
			t.Errorf("ScoreDistribution[%d] = %+v, want %+v", i, overview.ScoreDistribution[i], want)
		}
	}
}

func TestOverviewRecomputedAfterMutation(t *testing.T) {
	r := New(&notify.Recorder{})

	r.RemoveVideo("5") // the only 90-100 video

	overview := r.Overview()
	if overview.TotalVideos != 7 {
		t.Errorf("TotalVideos = %d, want 7", overview.TotalVideos)
	}
	if overview.ScoreDistribution[0].Count != 0 {
		t.Errorf("90-100 bucket = %d after removal, want 0", overview.ScoreDistribution[0].Count)
	}
	if got := overview.PlatformDistribution[model.PlatformYouTube]; got != 3 {
		t.Errorf("PlatformDistribution[youtube] = %d, want 3", got)
	}
}
