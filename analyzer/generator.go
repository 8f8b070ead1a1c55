// Package analyzer produces scored virality analyses for submitted videos.
// The Generator interface isolates the placeholder scoring so a real backend
// can be substituted without touching the dashboard controller.
package analyzer

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sshuster/viral-video-whisperer-pro/model"
)

// Generator transforms a submission into an analysis record. Implementations
// perform no input validation and cannot fail; callers validate first.
type Generator interface {
	Analyze(ctx context.Context, sub model.Submission) model.AnalysisRecord
}

// Suggestions is the canned optimization advice attached to every record,
// always the same five entries in the same order.
var Suggestions = []string{
	"Add trending hashtags like #viral #trending #explore",
	"Shorten the intro to 3 seconds to improve retention",
	"Add text overlays to make it more engaging",
	"Use more vibrant color grading to stand out in feeds",
	"Add a hook in the first 5 seconds to capture attention",
}

// MockGenerator samples each metric independently and uniformly in [0,100]
// after a simulated backend round-trip. The random source and clock are
// injectable for deterministic tests.
type MockGenerator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	latency time.Duration
	now     func() time.Time
}

// NewMockGenerator creates a generator with the given simulated latency.
func NewMockGenerator(latency time.Duration) *MockGenerator {
	return &MockGenerator{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		latency: latency,
		now:     time.Now,
	}
}

// NewMockGeneratorWithSource creates a generator with a fixed random source
// and clock for tests.
func NewMockGeneratorWithSource(rng *rand.Rand, now func() time.Time) *MockGenerator {
	return &MockGenerator{rng: rng, now: now}
}

// Analyze copies the submission verbatim into a new immutable record. The
// latency wait returns early on context cancellation but still yields the
// record: there is no abort path once analysis begins.
func (g *MockGenerator) Analyze(ctx context.Context, sub model.Submission) model.AnalysisRecord {
	g.wait(ctx)

	g.mu.Lock()
	metrics := model.Metrics{
		Engagement:   g.rng.Intn(101),
		Retention:    g.rng.Intn(101),
		Shareability: g.rng.Intn(101),
		Overall:      g.rng.Intn(101),
	}
	g.mu.Unlock()

	createdAt := g.now()
	record := model.AnalysisRecord{
		ID:          strconv.FormatInt(createdAt.UnixNano(), 10),
		URL:         sub.URL,
		Platform:    sub.Platform,
		Description: sub.Description,
		CreatedAt:   createdAt,
		Suggestions: append([]string(nil), Suggestions...),
		Metrics:     metrics,
	}

	log.Debug().
		Str("record_id", record.ID).
		Str("platform", record.Platform).
		Int("overall", metrics.Overall).
		Msg("Analysis generated")

	return record
}

func (g *MockGenerator) wait(ctx context.Context) {
	if g.latency <= 0 {
		return
	}
	timer := time.NewTimer(g.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
