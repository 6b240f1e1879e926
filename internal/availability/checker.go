package availability

import (
	"context"
	"sync"
	"time"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/observability/metrics"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

const defaultDebounce = 300 * time.Millisecond

// ConflictAPI is the live, authoritative conflict endpoint.
type ConflictAPI interface {
	CheckConflict(ctx context.Context, practitionerID string, start time.Time, durationMin int, excludeID string) (bool, error)
}

// ConflictQuery identifies one candidate interval.
type ConflictQuery struct {
	PractitionerID string
	Start          time.Time
	DurationMin    int
	ExcludeID      string
}

// ConflictResult is the settled answer for a query.
type ConflictResult struct {
	Query    ConflictQuery
	Conflict bool
	// Degraded is true when the live call failed and the answer came from
	// the cached snapshot. Degraded answers are best-effort, never
	// authoritative.
	Degraded bool
	// Err is set when even the fallback could not produce an answer.
	Err error
}

// Checker debounces conflict checks and applies only the most recent
// request's result. Rapid triggers within the debounce window coalesce into
// one call; a newer trigger supersedes a pending one.
type Checker struct {
	api      ConflictAPI
	snapshot *SnapshotCache
	debounce time.Duration
	metrics  *metrics.ConflictMetrics
	logger   *logging.Logger

	mu       sync.Mutex
	timer    *time.Timer
	seq      uint64
	pending  bool
	onResult func(ConflictResult)
}

// CheckerConfig wires a Checker.
type CheckerConfig struct {
	API      ConflictAPI
	Snapshot *SnapshotCache
	Debounce time.Duration
	Metrics  *metrics.ConflictMetrics
	Logger   *logging.Logger
	// OnResult receives every settled result for the most recent trigger.
	// Superseded results are dropped.
	OnResult func(ConflictResult)
}

// NewChecker constructs a debounced conflict checker.
func NewChecker(cfg CheckerConfig) *Checker {
	if cfg.API == nil {
		panic("availability: conflict API required")
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Checker{
		api:      cfg.API,
		snapshot: cfg.Snapshot,
		debounce: debounce,
		metrics:  cfg.Metrics,
		logger:   logger.Component("conflict"),
		onResult: cfg.OnResult,
	}
}

// Trigger schedules a check for q after the debounce window. It returns
// immediately; the result reaches OnResult unless a newer trigger supersedes
// this one first.
func (c *Checker) Trigger(ctx context.Context, q ConflictQuery) {
	c.mu.Lock()
	c.seq++
	token := c.seq
	c.pending = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.run(ctx, token, q)
	})
	c.mu.Unlock()
}

// InFlight reports whether a check is pending or running for the most
// recent trigger. Step gates block while this is true.
func (c *Checker) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Stop cancels any pending check.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = false
}

func (c *Checker) run(ctx context.Context, token uint64, q ConflictQuery) {
	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	res := c.CheckNow(ctx, q)

	c.mu.Lock()
	latest := token == c.seq
	if latest {
		c.pending = false
	}
	cb := c.onResult
	c.mu.Unlock()

	// Last write wins: a stale result for a superseded query is dropped.
	if latest && cb != nil {
		cb(res)
	}
}

// CheckNow performs one synchronous check: the live endpoint first, the
// cached snapshot as degraded fallback. The wizard's submit gate calls this
// directly to re-validate at submit time.
func (c *Checker) CheckNow(ctx context.Context, q ConflictQuery) ConflictResult {
	conflict, err := c.api.CheckConflict(ctx, q.PractitionerID, q.Start, q.DurationMin, q.ExcludeID)
	if err == nil {
		c.metrics.ObserveCheck("live", outcome(conflict))
		return ConflictResult{Query: q, Conflict: conflict}
	}

	c.logger.Warn("live conflict check failed, falling back to snapshot", "error", err)
	if c.snapshot == nil {
		c.metrics.ObserveCheck("fallback", "error")
		return ConflictResult{Query: q, Degraded: true, Err: err}
	}

	appointments, snapErr := c.snapshot.Load(ctx)
	if snapErr != nil {
		c.metrics.ObserveCheck("fallback", "error")
		return ConflictResult{Query: q, Degraded: true, Err: err}
	}

	end := q.Start.Add(time.Duration(q.DurationMin) * time.Minute)
	found := false
	for _, appt := range appointments {
		if appt.PractitionerID != q.PractitionerID {
			continue
		}
		if q.ExcludeID != "" && appt.ID == q.ExcludeID {
			continue
		}
		if HasOverlap(q.Start, end, appt.Start, appt.End()) {
			found = true
			break
		}
	}
	c.metrics.ObserveCheck("fallback", outcome(found))
	return ConflictResult{Query: q, Conflict: found, Degraded: true}
}

func outcome(conflict bool) string {
	if conflict {
		return "conflict"
	}
	return "free"
}

var _ ConflictAPI = (*api.Client)(nil)
