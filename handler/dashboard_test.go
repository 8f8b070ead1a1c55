package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/sshuster/viral-video-whisperer-pro/cache"
	"github.com/sshuster/viral-video-whisperer-pro/config"
	"github.com/sshuster/viral-video-whisperer-pro/dashboard"
	"github.com/sshuster/viral-video-whisperer-pro/model"
	"github.com/sshuster/viral-video-whisperer-pro/notify"
)

func newDashboardServer(t *testing.T, qrCache *cache.Cache) (*dashboard.Controller, *mux.Router) {
	t.Helper()

	ctrl := dashboard.NewController(&stubGenerator{overall: 70}, &notify.Recorder{})
	dh := NewDashboardHandler(ctrl)

	router := mux.NewRouter()
	router.HandleFunc("/api/videos", dh.SubmitVideo).Methods(http.MethodPost)
	router.HandleFunc("/api/videos", dh.GetHistory).Methods(http.MethodGet)
	router.HandleFunc("/api/videos/current", dh.GetCurrent).Methods(http.MethodGet)
	router.HandleFunc("/api/videos/{id}/select", dh.SelectVideo).Methods(http.MethodPost)
	router.HandleFunc("/api/videos/{id}/qr", dh.ShareQR(qrCache)).Methods(http.MethodGet)
	router.HandleFunc("/api/stats", dh.GetStats).Methods(http.MethodGet)
	return ctrl, router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSubmitVideoEndpoint(t *testing.T) {
	_, router := newDashboardServer(t, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/videos",
		model.Submission{URL: "https://youtube.com/watch?v=abc", Platform: model.PlatformYouTube})
	if rr.Code != http.StatusCreated {
		t.Fatalf("SubmitVideo status = %d, want 201; body %s", rr.Code, rr.Body.String())
	}

	var record model.AnalysisRecord
	if err := json.NewDecoder(rr.Body).Decode(&record); err != nil {
		t.Fatalf("Failed to decode record: %v", err)
	}
	if record.URL != "https://youtube.com/watch?v=abc" {
		t.Errorf("Record URL = %q", record.URL)
	}
	if record.Metrics.Overall != 70 {
		t.Errorf("Record overall = %d, want 70", record.Metrics.Overall)
	}
}

func TestSubmitVideoValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		sub       model.Submission
		wantField string
	}{
		{"Missing URL", model.Submission{Platform: model.PlatformYouTube}, "url"},
		{"Missing platform", model.Submission{URL: "https://youtube.com/1"}, "platform"},
		{"Unknown platform", model.Submission{URL: "https://youtube.com/1", Platform: "vimeo"}, "platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := newDashboardServer(t, nil)

			rr := doJSON(t, router, http.MethodPost, "/api/videos", tt.sub)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("SubmitVideo status = %d, want 400", rr.Code)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error: %v", err)
			}
			if resp.Field != tt.wantField {
				t.Errorf("Error field = %q, want %q", resp.Field, tt.wantField)
			}
		})
	}
}

func TestGetHistoryEndpoint(t *testing.T) {
	ctrl, router := newDashboardServer(t, nil)

	rr := doJSON(t, router, http.MethodGet, "/api/videos", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GetHistory status = %d", rr.Code)
	}
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("Empty history body = %q, want a JSON array", body)
	}

	ctrl.Submit(context.Background(), model.Submission{URL: "https://youtube.com/1", Platform: model.PlatformYouTube})
	ctrl.Submit(context.Background(), model.Submission{URL: "https://tiktok.com/2", Platform: model.PlatformTikTok})

	rr = doJSON(t, router, http.MethodGet, "/api/videos", nil)
	var history []model.AnalysisRecord
	if err := json.NewDecoder(rr.Body).Decode(&history); err != nil {
		t.Fatalf("Failed to decode history: %v", err)
	}
	if len(history) != 2 || history[0].URL != "https://tiktok.com/2" {
		t.Errorf("History = %d entries, newest %q", len(history), history[0].URL)
	}
}

func TestGetStatsEndpoint(t *testing.T) {
	ctrl, router := newDashboardServer(t, nil)
	ctrl.Submit(context.Background(), model.Submission{URL: "https://youtube.com/1", Platform: model.PlatformYouTube})

	rr := doJSON(t, router, http.MethodGet, "/api/stats", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GetStats status = %d", rr.Code)
	}

	var stats model.DashboardStats
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.TotalVideos != 1 || stats.AverageScore != 70 {
		t.Errorf("Stats = %+v, want total 1 average 70", stats)
	}
}

func TestGetCurrentEndpoint(t *testing.T) {
	ctrl, router := newDashboardServer(t, nil)

	rr := doJSON(t, router, http.MethodGet, "/api/videos/current", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("GetCurrent status = %d, want 404 with nothing selected", rr.Code)
	}

	record, _ := ctrl.Submit(context.Background(), model.Submission{URL: "https://youtube.com/1", Platform: model.PlatformYouTube})

	rr = doJSON(t, router, http.MethodGet, "/api/videos/current", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GetCurrent status = %d", rr.Code)
	}
	var current model.AnalysisRecord
	if err := json.NewDecoder(rr.Body).Decode(&current); err != nil {
		t.Fatalf("Failed to decode current: %v", err)
	}
	if current.ID != record.ID {
		t.Errorf("Current id = %q, want %q", current.ID, record.ID)
	}
}

func TestSelectVideoEndpoint(t *testing.T) {
	ctrl, router := newDashboardServer(t, nil)

	first, _ := ctrl.Submit(context.Background(), model.Submission{URL: "https://youtube.com/1", Platform: model.PlatformYouTube})
	ctrl.Submit(context.Background(), model.Submission{URL: "https://youtube.com/2", Platform: model.PlatformYouTube})

	rr := doJSON(t, router, http.MethodPost, "/api/videos/"+first.ID+"/select", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("SelectVideo status = %d", rr.Code)
	}
	if current, _ := ctrl.Current(); current.ID != first.ID {
		t.Errorf("Current after select = %q, want %q", current.ID, first.ID)
	}

	rr = doJSON(t, router, http.MethodPost, "/api/videos/no-such-id/select", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("SelectVideo miss status = %d, want 404", rr.Code)
	}
}

func TestShareQREndpoint(t *testing.T) {
	qrCache, err := cache.New(config.CacheConfig{Enabled: true, MaxSizeMB: 8, TTLSeconds: 60, CounterSize: 100000})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer qrCache.Close()

	ctrl, router := newDashboardServer(t, qrCache)
	record, _ := ctrl.Submit(context.Background(), model.Submission{URL: "https://youtube.com/watch?v=abc", Platform: model.PlatformYouTube})

	rr := doJSON(t, router, http.MethodGet, "/api/videos/"+record.ID+"/qr", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("ShareQR status = %d; body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if rr.Body.Len() == 0 {
		t.Error("ShareQR returned an empty body")
	}

	// Fetching a QR must not move the current selection.
	ctrl.Submit(context.Background(), model.Submission{URL: "https://youtube.com/other", Platform: model.PlatformYouTube})
	doJSON(t, router, http.MethodGet, "/api/videos/"+record.ID+"/qr", nil)
	if current, _ := ctrl.Current(); current.URL != "https://youtube.com/other" {
		t.Errorf("ShareQR changed the selection to %q", current.URL)
	}

	t.Run("Invalid_size", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/api/videos/"+record.ID+"/qr?size=64", nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("ShareQR size=64 status = %d, want 400", rr.Code)
		}
	})

	t.Run("Unknown_record", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/api/videos/no-such-id/qr", nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("ShareQR unknown id status = %d, want 404", rr.Code)
		}
	})
}
