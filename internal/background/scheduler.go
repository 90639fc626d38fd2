package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"storefront-backend/pkg/logger"
)

type SchedulerConfig struct {
	WorkerCount int
	QueueSize   int
}

type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Job is a unit of background work. Unique jobs are deduplicated by name
// while one is queued or running.
type Job struct {
	Name        string
	Run         func(ctx context.Context) error
	Timeout     time.Duration
	RetryPolicy RetryPolicy
}

var (
	ErrSchedulerNotStarted = errors.New("scheduler not started")
	ErrJobAlreadyScheduled = errors.New("job already scheduled")
	errSchedulerStopping   = errors.New("scheduler is shutting down")
)

var (
	metricsOnce        sync.Once
	jobRunsTotal       *prometheus.CounterVec
	jobDurationSeconds *prometheus.HistogramVec
	jobLastSuccess     *prometheus.GaugeVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "background",
			Name:      "job_runs_total",
			Help:      "Total background job executions",
		}, []string{"job", "status"})

		jobDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "background",
			Name:      "job_duration_seconds",
			Help:      "Duration of background job executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"})

		jobLastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "background",
			Name:      "job_last_success_timestamp",
			Help:      "Unix timestamp of the last successful execution per job",
		}, []string{"job"})
	})
}

type queuedJob struct {
	job     Job
	attempt int
	unique  bool
}

type Scheduler struct {
	config SchedulerConfig

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	active  map[string]struct{}

	queue    chan queuedJob
	workerWG sync.WaitGroup
	tickerWG sync.WaitGroup
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	initMetrics()

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 32
	}

	return &Scheduler{
		config: cfg,
		queue:  make(chan queuedJob, cfg.QueueSize),
		active: make(map[string]struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	for i := 0; i < s.config.WorkerCount; i++ {
		s.workerWG.Add(1)
		go s.worker()
	}
}

func (s *Scheduler) Schedule(job Job) error {
	return s.schedule(job, false)
}

func (s *Scheduler) ScheduleUnique(job Job) error {
	return s.schedule(job, true)
}

// ScheduleEvery enqueues the job on a fixed interval until shutdown. The job
// is scheduled unique, so a slow run suppresses the next tick instead of
// stacking up.
func (s *Scheduler) ScheduleEvery(interval time.Duration, job Job) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrSchedulerNotStarted
	}
	ctx := s.ctx
	s.mu.Unlock()

	s.tickerWG.Add(1)
	go func() {
		defer s.tickerWG.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.ScheduleUnique(job); err != nil && !errors.Is(err, ErrJobAlreadyScheduled) {
					logger.Warn("Failed to enqueue periodic job", map[string]interface{}{
						"job":    job.Name,
						"reason": err.Error(),
					})
				}
			}
		}
	}()
	return nil
}

func (s *Scheduler) schedule(job Job, unique bool) error {
	if job.Name == "" {
		return errors.New("job name is required")
	}
	if job.Run == nil {
		return errors.New("job runner is required")
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrSchedulerNotStarted
	}
	if unique {
		if _, exists := s.active[job.Name]; exists {
			s.mu.Unlock()
			return ErrJobAlreadyScheduled
		}
		s.active[job.Name] = struct{}{}
	}
	s.mu.Unlock()

	queued := queuedJob{job: job, attempt: 1, unique: unique}
	select {
	case s.queue <- queued:
		return nil
	case <-s.ctx.Done():
		s.release(queued)
		return errSchedulerStopping
	}
}

func (s *Scheduler) worker() {
	defer s.workerWG.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case job := <-s.queue:
			s.execute(job)
		}
	}
}

func (s *Scheduler) execute(job queuedJob) {
	err := s.runJob(job)
	if err == nil {
		s.release(job)
		logger.Debug("Background job completed", map[string]interface{}{"job": job.job.Name, "attempt": job.attempt})
		return
	}

	if s.shouldRetry(job, err) {
		retry := job
		retry.attempt++
		if backoff := job.job.RetryPolicy.Backoff; backoff > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-s.ctx.Done():
				timer.Stop()
				s.release(job)
				return
			}
		}
		select {
		case s.queue <- retry:
		case <-s.ctx.Done():
			s.release(job)
		}
		return
	}

	s.release(job)
	logger.Error(err, "Background job finished with error", map[string]interface{}{"job": job.job.Name, "attempt": job.attempt})
}

func (s *Scheduler) runJob(job queuedJob) (runErr error) {
	start := time.Now()
	status := "success"

	ctx := s.ctx
	if job.job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.job.Timeout)
		defer cancel()
	}

	defer func() {
		jobDurationSeconds.WithLabelValues(job.job.Name).Observe(time.Since(start).Seconds())
		jobRunsTotal.WithLabelValues(job.job.Name, status).Inc()
		if status == "success" {
			jobLastSuccess.WithLabelValues(job.job.Name).Set(float64(time.Now().Unix()))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			runErr = fmt.Errorf("panic: %v", r)
			status = "failure"
			logger.Error(runErr, "Background job panicked", map[string]interface{}{"job": job.job.Name})
		}
	}()

	runErr = job.job.Run(ctx)
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			status = "canceled"
		} else {
			status = "failure"
		}
	}
	return runErr
}

func (s *Scheduler) shouldRetry(job queuedJob, err error) bool {
	if job.job.RetryPolicy.MaxRetries <= 0 {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return job.attempt <= job.job.RetryPolicy.MaxRetries
}

func (s *Scheduler) release(job queuedJob) {
	if !job.unique {
		return
	}
	s.mu.Lock()
	delete(s.active, job.job.Name)
	s.mu.Unlock()
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.tickerWG.Wait()
		s.workerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
