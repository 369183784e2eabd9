package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// StreakResetter clears yesterday's success flags and breaks streaks of users
// who missed the day
type StreakResetter interface {
	DailyReset(ctx context.Context) (int, error)
}

// DailyResetConfig controls the reset schedule
type DailyResetConfig struct {
	Interval     time.Duration // default 24h
	InitialDelay time.Duration // wait before the first run; negative runs at once
	Timeout      time.Duration // per-run deadline, default 5m
}

// DailyResetJob runs the streak reset on a fixed interval
type DailyResetJob struct {
	resetter     StreakResetter
	interval     time.Duration
	initialDelay time.Duration
	timeout      time.Duration
	stopCh       chan struct{}
	wg           sync.WaitGroup
	running      bool
	mu           sync.Mutex
}

// NewDailyResetJob creates a new daily reset job
func NewDailyResetJob(resetter StreakResetter, cfg DailyResetConfig) *DailyResetJob {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.InitialDelay == 0 {
		cfg.InitialDelay = untilMidnight(time.Now())
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &DailyResetJob{
		resetter:     resetter,
		interval:     cfg.Interval,
		initialDelay: max(cfg.InitialDelay, 0),
		timeout:      cfg.Timeout,
		stopCh:       make(chan struct{}),
	}
}

// untilMidnight is the wait until the next local midnight
func untilMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}

// Start begins the reset job
func (j *DailyResetJob) Start() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run()
	slog.Info("daily reset job started",
		slog.Duration("interval", j.interval),
		slog.Duration("first_run_in", j.initialDelay),
	)
}

// Stop gracefully stops the reset job and waits for an in-progress run
func (j *DailyResetJob) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	j.mu.Unlock()

	close(j.stopCh)
	j.wg.Wait()
	slog.Info("daily reset job stopped")
}

func (j *DailyResetJob) run() {
	defer j.wg.Done()

	delay := time.NewTimer(j.initialDelay)
	defer delay.Stop()
	select {
	case <-delay.C:
		j.reset()
	case <-j.stopCh:
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.reset()
		case <-j.stopCh:
			return
		}
	}
}

func (j *DailyResetJob) reset() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.RunOnce(ctx)
	if err != nil {
		slog.Error("daily reset failed", slog.Any("error", err))
		return
	}
	slog.Info("daily reset complete", slog.Int("streaks_reset", n))
}

// RunOnce runs the reset once (for testing or manual trigger)
func (j *DailyResetJob) RunOnce(ctx context.Context) (int, error) {
	return j.resetter.DailyReset(ctx)
}

// IsRunning returns whether the job is running
func (j *DailyResetJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}
