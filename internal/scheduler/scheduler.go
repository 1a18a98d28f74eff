package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-pipeline/internal/logger"
	"github.com/i474232898/weather-pipeline/internal/weather"
)

// Fetcher is the part of weather.Service the scheduler drives.
type Fetcher interface {
	FetchCurrent(ctx context.Context, coords *weather.Coordinates, units weather.Units, fields []weather.CurrentField) (weather.Record, error)
	FetchHourly(ctx context.Context, coords *weather.Coordinates, units weather.Units, fields []weather.HourlyField, hours int) ([]weather.Record, error)
}

// Sink receives the outcome of every scheduled fetch.
type Sink interface {
	Current(rec weather.Record)
	Hourly(recs []weather.Record)
	Failed(err *weather.FetchError)
}

// Job describes what to refresh. Empty field lists skip that fetch.
type Job struct {
	Coordinates *weather.Coordinates
	Units       weather.Units
	Current     []weather.CurrentField
	Hourly      []weather.HourlyField
	Hours       int
}

// Scheduler periodically refreshes current and hourly weather.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   Fetcher
	sink      Sink
	job       Job
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler.
func New(job Job, interval time.Duration, fetcher Fetcher, sink Sink) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		fetcher:   fetcher,
		sink:      sink,
		job:       job,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.job.Current) == 0 && len(s.job.Hourly) == 0 {
		logger.Info("scheduler: no fields configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce runs the current and hourly fetches concurrently and reports both
// outcomes to the sink. The two fetches share nothing.
func (s *Scheduler) RunOnce(ctx context.Context) {
	logger.Info("scheduler: running weather fetch job")

	var wg sync.WaitGroup
	if len(s.job.Current) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := s.fetcher.FetchCurrent(ctx, s.job.Coordinates, s.job.Units, s.job.Current)
			if err != nil {
				s.fail("current", err)
				return
			}
			s.sink.Current(rec)
		}()
	}
	if len(s.job.Hourly) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs, err := s.fetcher.FetchHourly(ctx, s.job.Coordinates, s.job.Units, s.job.Hourly, s.job.Hours)
			if err != nil {
				s.fail("hourly", err)
				return
			}
			s.sink.Hourly(recs)
		}()
	}
	wg.Wait()

	logger.Info("scheduler: completed weather fetch job")
}

func (s *Scheduler) fail(what string, err error) {
	logger.WithFields(logrus.Fields{"fetch": what, "error": err}).Error("scheduler: fetch failed")

	var fe *weather.FetchError
	if errors.As(err, &fe) {
		s.sink.Failed(fe)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
