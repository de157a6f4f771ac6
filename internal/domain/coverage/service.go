package coverage

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	apperrors "github.com/finsight/coverage-console/pkg/errors"
)

// State describes where the refresher is in its fetch lifecycle.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateReady    State = "ready"
	StateFailed   State = "failed"
)

// Query carries the optional histogram derivation parameters forwarded to the
// upstream coverage endpoint.
type Query struct {
	FillTradingDaysWindow *int
	FillLookbackDays      *int
}

// SnapshotClient fetches the raw coverage snapshot from upstream. The raw
// response body is returned alongside the decoded snapshot for archival.
type SnapshotClient interface {
	FetchCoverage(ctx context.Context, q Query) (*RawSnapshot, []byte, error)
}

// SnapshotCache persists the last good raw snapshot. Only the raw snapshot is
// ever cached; derived structures are always recomputed from it so nothing
// can desynchronize.
type SnapshotCache interface {
	Load(ctx context.Context) (*RawSnapshot, bool, error)
	Store(ctx context.Context, snap *RawSnapshot) error
}

// HistoryRepository records coverage samples and serves them back as the
// sparkline fallback source when a snapshot carries no history of its own.
type HistoryRepository interface {
	Append(ctx context.Context, entry HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// SnapshotArchiver stores the raw upstream payload for later inspection.
type SnapshotArchiver interface {
	Archive(ctx context.Context, ts time.Time, raw []byte) error
}

// ActionRunner executes a remediation task. The engine treats task names as
// opaque strings and never interprets them.
type ActionRunner interface {
	Run(ctx context.Context, taskName string) error
}

// Config tunes the refresher.
type Config struct {
	StaleThreshold        time.Duration
	PollInterval          time.Duration
	AutoRefreshOnStale    bool
	HistoryLimit          int
	FillTradingDaysWindow *int
	FillLookbackDays      *int
}

// Service owns the current snapshot and exposes the derived view model.
type Service interface {
	// Start warm-loads the cached snapshot, performs the initial refresh and
	// then polls until ctx is done.
	Start(ctx context.Context)
	// Refresh fetches a new snapshot. Failures collapse the snapshot to nil
	// and are logged, never returned; a refresh superseded by a later one is
	// discarded.
	Refresh(ctx context.Context)
	// Configure updates the fill parameters and triggers a refresh when they
	// changed. It reports whether a refresh was triggered.
	Configure(ctx context.Context, q Query) bool
	// Overview derives the full view model from the current snapshot.
	Overview(ctx context.Context) Overview
	// Actions returns the merged remediation catalog for the current snapshot.
	Actions() []Action
	// RunAction executes a catalog task by name.
	RunAction(ctx context.Context, taskName string) error
}

type service struct {
	cfg     Config
	client  SnapshotClient
	cache   SnapshotCache
	history HistoryRepository
	archive SnapshotArchiver
	runner  ActionRunner
	logger  *slog.Logger
	now     func() time.Time

	mu           sync.Mutex
	snapshot     *RawSnapshot
	state        State
	inflight     int
	seq          uint64
	query        Query
	autoHealDone bool
}

// NewService wires up the coverage refresher.
func NewService(cfg Config, client SnapshotClient, cache SnapshotCache, history HistoryRepository, archive SnapshotArchiver, runner ActionRunner, logger *slog.Logger) Service {
	if cfg.StaleThreshold <= 0 {
		cfg.StaleThreshold = DefaultStaleThreshold
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}
	return &service{
		cfg:     cfg,
		client:  client,
		cache:   cache,
		history: history,
		archive: archive,
		runner:  runner,
		logger:  logger.With("component", "coverage.service"),
		now:     time.Now,
		state:   StateIdle,
		query: Query{
			FillTradingDaysWindow: cfg.FillTradingDaysWindow,
			FillLookbackDays:      cfg.FillLookbackDays,
		},
	}
}

func (s *service) Start(ctx context.Context) {
	s.warmStart(ctx)
	s.Refresh(ctx)

	if s.cfg.PollInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// warmStart seeds the snapshot from the cache so a restart does not present
// an empty dashboard while the first fetch is in flight.
func (s *service) warmStart(ctx context.Context) {
	if s.cache == nil {
		return
	}
	snap, ok, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.Warn("snapshot cache load failed", "error", err)
		return
	}
	if !ok {
		return
	}
	s.mu.Lock()
	if s.snapshot == nil && s.state == StateIdle {
		s.snapshot = snap
		s.state = StateReady
	}
	s.mu.Unlock()
	s.logger.Info("warm started from cached snapshot")
}

func (s *service) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.inflight++
	s.state = StateFetching
	q := s.query
	s.mu.Unlock()

	snap, raw, err := s.client.FetchCoverage(ctx, q)

	s.mu.Lock()
	s.inflight--
	superseded := seq != s.seq
	if !superseded {
		if err != nil {
			// A failed refresh never leaves a stale snapshot behind silently.
			s.snapshot = nil
			s.state = StateFailed
		} else {
			s.snapshot = snap
			s.state = StateReady
		}
	}
	s.mu.Unlock()

	if superseded {
		s.logger.Debug("refresh superseded by a newer request", "seq", seq)
		return
	}
	if err != nil {
		s.logger.Warn("coverage refresh failed", "error", err)
		return
	}

	s.afterRefresh(ctx, snap, raw)
}

// afterRefresh runs the success side effects: cache, history sample, archive.
// None of them can fail the refresh itself.
func (s *service) afterRefresh(ctx context.Context, snap *RawSnapshot, raw []byte) {
	if s.cache != nil && snap != nil {
		if err := s.cache.Store(ctx, snap); err != nil {
			s.logger.Warn("snapshot cache store failed", "error", err)
		}
	}
	if s.history != nil && snap != nil {
		if err := s.history.Append(ctx, sampleFrom(snap, s.now())); err != nil {
			s.logger.Warn("history append failed", "error", err)
		}
	}
	if s.archive != nil && len(raw) > 0 {
		if err := s.archive.Archive(ctx, s.now(), raw); err != nil {
			s.logger.Warn("snapshot archive failed", "error", err)
		}
	}
}

// sampleFrom condenses a snapshot into one history entry.
func sampleFrom(snap *RawSnapshot, now time.Time) HistoryEntry {
	ts := now.UTC().Format(time.RFC3339)
	if snap.Meta != nil && strings.TrimSpace(snap.Meta.UpdatedAt) != "" {
		ts = snap.Meta.UpdatedAt
	} else if strings.TrimSpace(snap.GeneratedAt) != "" {
		ts = snap.GeneratedAt
	}
	entry := HistoryEntry{TS: &ts}
	if snap.Status != nil {
		entry.DailyPct = snap.Status.DailyPct
		entry.M5Pct = snap.Status.M5Pct
		entry.StaleDaily = snap.Status.StaleDaily
		entry.StaleM5 = snap.Status.StaleM5
	}
	return entry
}

func (s *service) Configure(ctx context.Context, q Query) bool {
	s.mu.Lock()
	changed := !intPtrEqual(s.query.FillTradingDaysWindow, q.FillTradingDaysWindow) ||
		!intPtrEqual(s.query.FillLookbackDays, q.FillLookbackDays)
	if changed {
		s.query = q
	}
	s.mu.Unlock()

	if changed {
		s.Refresh(ctx)
	}
	return changed
}

func (s *service) Overview(ctx context.Context) Overview {
	s.mu.Lock()
	snap := s.snapshot
	state := s.state
	loading := s.inflight > 0
	s.mu.Unlock()

	hero := BuildHero(snap, s.cfg.StaleThreshold, s.now())

	// Stale-snapshot auto-heal: attempted at most once per process so a
	// permanently stale upstream cannot fan out into a refresh storm.
	if s.cfg.AutoRefreshOnStale && hero.IsSnapshotStale && !loading {
		s.mu.Lock()
		attempt := !s.autoHealDone
		s.autoHealDone = true
		s.mu.Unlock()
		if attempt {
			s.logger.Info("snapshot stale, triggering auto refresh")
			go s.Refresh(context.WithoutCancel(ctx))
		}
	}

	var status *RawStatus
	var meta *RawMeta
	if snap != nil {
		status = snap.Status
		meta = snap.Meta
	}

	var pre *Sparkline
	var kpis []KPI
	var actions []Action
	history := []HistoryEntry(nil)
	if snap != nil {
		history = snap.History
	}
	if meta != nil {
		pre = meta.Sparkline
		kpis = meta.KPIs
		actions = meta.Actions
		if len(history) == 0 {
			history = meta.History
		}
	}
	if snap != nil && pre == nil && len(history) == 0 && s.history != nil {
		recorded, err := s.history.Recent(ctx, s.cfg.HistoryLimit)
		if err != nil {
			s.logger.Warn("history lookup failed", "error", err)
		} else {
			history = recorded
		}
	}

	return Overview{
		State:       string(state),
		Loading:     loading,
		HasSnapshot: snap != nil,
		Hero:        hero,
		Sparkline:   BuildSparkline(pre, history),
		KPIs:        BuildKPIs(kpis, snap, status),
		Actions:     MergeActions(actions),
	}
}

func (s *service) Actions() []Action {
	s.mu.Lock()
	snap := s.snapshot
	s.mu.Unlock()

	var supplied []Action
	if snap != nil && snap.Meta != nil {
		supplied = snap.Meta.Actions
	}
	return MergeActions(supplied)
}

func (s *service) RunAction(ctx context.Context, taskName string) error {
	name := strings.TrimSpace(taskName)
	if name == "" {
		return apperrors.Wrap("invalid_input", "task name cannot be empty", nil)
	}

	var target *Action
	for _, action := range s.Actions() {
		if action.TaskName == name {
			a := action
			target = &a
			break
		}
	}
	if target == nil {
		return apperrors.Wrap("invalid_input", "unknown task "+name, nil)
	}
	if target.Disabled {
		return apperrors.Wrap("invalid_input", "task "+name+" is disabled", nil)
	}
	if s.runner == nil {
		return apperrors.Wrap("task_runner_unavailable", "no action runner configured", nil)
	}
	if err := s.runner.Run(ctx, name); err != nil {
		return apperrors.Wrap("upstream_error", "task "+name+" failed", err)
	}
	s.logger.Info("remediation task triggered", "task", name)
	return nil
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
