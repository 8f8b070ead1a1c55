// Package dashboard orchestrates the submission pipeline: validate, generate,
// prepend to the history ledger, recompute stats, select the current result.
// The ledger is session-scoped and held in memory only.
package dashboard

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sshuster/viral-video-whisperer-pro/analyzer"
	"github.com/sshuster/viral-video-whisperer-pro/model"
	"github.com/sshuster/viral-video-whisperer-pro/notify"
)

var (
	ErrURLRequired        = errors.New("Video URL is required")
	ErrPlatformRequired   = errors.New("Platform is required")
	ErrUnknownPlatform    = errors.New("Platform is not supported")
	ErrSubmissionInFlight = errors.New("a submission is already being analyzed")
)

// topPlatformLabels is the fixed label set the placeholder stat draws from.
var topPlatformLabels = []string{"YouTube", "TikTok", "Instagram Reels"}

const defaultTopPlatform = "YouTube"

// Controller owns the history ledger, the derived stats, and the currently
// selected result. A busy flag rejects re-entrant submissions so two appends
// can never race on the pre-append length.
type Controller struct {
	mu       sync.Mutex
	gen      analyzer.Generator
	notifier notify.Notifier
	rng      *rand.Rand

	history  []model.AnalysisRecord // newest first
	stats    model.DashboardStats
	current  *model.AnalysisRecord
	fieldErr string
	busy     bool

	// onSelect signals the presentation layer to scroll to the top when a
	// history entry is re-selected.
	onSelect func(model.AnalysisRecord)
}

// NewController creates a dashboard controller around the given generator.
func NewController(gen analyzer.Generator, notifier notify.Notifier) *Controller {
	return &Controller{
		gen:      gen,
		notifier: notifier,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		stats:    model.DashboardStats{TopPlatform: defaultTopPlatform},
	}
}

// SetRandSource replaces the controller's random source. Tests use this to
// pin the placeholder stats.
func (c *Controller) SetRandSource(rng *rand.Rand) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rng = rng
}

// OnSelect registers the scroll-to-top callback invoked by SelectFromHistory.
func (c *Controller) OnSelect(fn func(model.AnalysisRecord)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSelect = fn
}

// Submit validates the submission, runs the generator, prepends the result
// to the ledger and recomputes the stats. Stats are computed from the
// pre-append ledger plus the new record, never from a second read of the
// ledger after the append.
func (c *Controller) Submit(ctx context.Context, sub model.Submission) (model.AnalysisRecord, error) {
	c.mu.Lock()

	if c.busy {
		c.mu.Unlock()
		return model.AnalysisRecord{}, ErrSubmissionInFlight
	}

	if err := validate(sub); err != nil {
		c.fieldErr = err.Error()
		c.mu.Unlock()
		log.Warn().Err(err).Str("platform", sub.Platform).Msg("Submission rejected")
		return model.AnalysisRecord{}, err
	}

	c.busy = true
	priorOveralls := make([]int, len(c.history))
	for i, rec := range c.history {
		priorOveralls[i] = rec.Metrics.Overall
	}
	c.mu.Unlock()

	// Generation runs outside the lock; the busy flag keeps the ledger
	// snapshot valid until the append below.
	record := c.gen.Analyze(ctx, sub)

	c.mu.Lock()
	c.history = append([]model.AnalysisRecord{record}, c.history...)
	c.stats = c.computeStats(priorOveralls, record)
	c.current = &record
	c.fieldErr = ""
	c.busy = false
	c.mu.Unlock()

	log.Info().
		Str("record_id", record.ID).
		Str("platform", record.Platform).
		Int("total_videos", c.Stats().TotalVideos).
		Msg("Video analyzed")
	c.notifier.Success("Your video has been analyzed!")

	return record, nil
}

// computeStats derives the dashboard stats from the pre-append overall scores
// plus the newly generated record. Improvement rate and top platform are
// acknowledged placeholder data.
func (c *Controller) computeStats(priorOveralls []int, record model.AnalysisRecord) model.DashboardStats {
	total := len(priorOveralls) + 1
	sum := record.Metrics.Overall
	for _, score := range priorOveralls {
		sum += score
	}
	return model.DashboardStats{
		TotalVideos:     total,
		AverageScore:    int(math.Round(float64(sum) / float64(total))),
		ImprovementRate: c.rng.Intn(31),
		TopPlatform:     topPlatformLabels[c.rng.Intn(len(topPlatformLabels))],
	}
}

func validate(sub model.Submission) error {
	if sub.URL == "" {
		return ErrURLRequired
	}
	if sub.Platform == "" {
		return ErrPlatformRequired
	}
	if !model.KnownPlatform(sub.Platform) {
		return ErrUnknownPlatform
	}
	return nil
}

// SelectFromHistory makes a previously analyzed record the current result and
// raises the scroll signal. The ledger and stats are untouched.
func (c *Controller) SelectFromHistory(id string) (model.AnalysisRecord, bool) {
	c.mu.Lock()
	for i := range c.history {
		if c.history[i].ID == id {
			record := c.history[i]
			c.current = &record
			fn := c.onSelect
			c.mu.Unlock()
			if fn != nil {
				fn(record)
			}
			return record, true
		}
	}
	c.mu.Unlock()
	return model.AnalysisRecord{}, false
}

// Lookup finds a record in the ledger without changing the selection.
func (c *Controller) Lookup(id string) (model.AnalysisRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.history {
		if c.history[i].ID == id {
			return c.history[i], true
		}
	}
	return model.AnalysisRecord{}, false
}

// History returns a copy of the ledger, newest first.
func (c *Controller) History() []model.AnalysisRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.AnalysisRecord(nil), c.history...)
}

// Stats returns the current derived stats.
func (c *Controller) Stats() model.DashboardStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Current returns the currently selected result, if any.
func (c *Controller) Current() (model.AnalysisRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return model.AnalysisRecord{}, false
	}
	return *c.current, true
}

// FieldError returns the last validation error message, empty after a
// successful submission.
func (c *Controller) FieldError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErr
}

// Reset clears the ledger, stats and selection. Called on logout and on
// session change; the ledger never survives a session boundary.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
	c.stats = model.DashboardStats{TopPlatform: defaultTopPlatform}
	c.current = nil
	c.fieldErr = ""
	log.Debug().Msg("Dashboard state reset")
}
