package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

// BookingExpirer expires pending bookings whose stay has already started.
type BookingExpirer interface {
	ExpireStaleBookings(ctx context.Context) (int, error)
}

// SessionCleaner deletes long-expired login sessions.
type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

type Schedules struct {
	ExpireBookings string
	CleanSessions  string
}

// Scheduler runs the periodic housekeeping jobs.
type Scheduler struct {
	cron      *cron.Cron
	bookings  BookingExpirer
	sessions  SessionCleaner
	schedules Schedules
	log       *zap.Logger
}

func NewScheduler(bookings BookingExpirer, sessions SessionCleaner, schedules Schedules, log *zap.Logger) *Scheduler {
	log = log.With(zap.String("component", "scheduler"))
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger{log: log.Sugar()}),
		cron.SkipIfStillRunning(cronLogger{log: log.Sugar()}),
	))

	return &Scheduler{
		cron:      c,
		bookings:  bookings,
		sessions:  sessions,
		schedules: schedules,
		log:       log,
	}
}

// Start registers the jobs and starts the cron scheduler. A job with an
// empty or invalid schedule is logged and skipped.
func (s *Scheduler) Start() {
	s.register("expire_bookings", s.schedules.ExpireBookings, s.ExpireBookings)
	s.register("clean_sessions", s.schedules.CleanSessions, s.CleanSessions)

	s.cron.Start()
}

// Stop stops the scheduler; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) register(name, schedule string, job func()) {
	if schedule == "" {
		s.log.Info("Job disabled", zap.String("job", name))
		return
	}
	if _, err := s.cron.AddFunc(schedule, job); err != nil {
		s.log.Error("Failed to schedule job", zap.String("job", name), zap.String("schedule", schedule), zap.Error(err))
		return
	}
	s.log.Info("Job scheduled", zap.String("job", name), zap.String("schedule", schedule))
}

func (s *Scheduler) ExpireBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.bookings.ExpireStaleBookings(ctx); err != nil {
		s.log.Error("Expire bookings job failed", zap.Error(err))
	}
}

func (s *Scheduler) CleanSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := s.sessions.CleanExpiredSessions(ctx)
	if err != nil {
		s.log.Error("Clean sessions job failed", zap.Error(err))
		return
	}
	s.log.Info("Expired sessions cleaned", zap.Int64("removed", removed))
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
