package jobs

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeExpirer struct {
	calls int
	err   error
}

func (f *fakeExpirer) ExpireStaleBookings(ctx context.Context) (int, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("job context has no deadline")
	}
	return 3, f.err
}

type fakeCleaner struct {
	calls int
	err   error
}

func (f *fakeCleaner) CleanExpiredSessions(context.Context) (int64, error) {
	f.calls++
	return 7, f.err
}

func TestSchedulerJobs(t *testing.T) {
	bookings := &fakeExpirer{}
	sessions := &fakeCleaner{err: errors.New("db down")}
	s := NewScheduler(bookings, sessions, Schedules{}, zap.NewNop())

	s.ExpireBookings()
	s.CleanSessions()

	if bookings.calls != 1 {
		t.Errorf("expected 1 expire call, got %d", bookings.calls)
	}
	if sessions.calls != 1 {
		t.Errorf("expected 1 clean call, got %d", sessions.calls)
	}
}

func TestSchedulerRegister(t *testing.T) {
	s := NewScheduler(&fakeExpirer{}, &fakeCleaner{}, Schedules{
		ExpireBookings: "*/15 * * * *",
		CleanSessions:  "not a schedule",
	}, zap.NewNop())

	s.Start()
	<-s.Stop().Done()

	if got := len(s.cron.Entries()); got != 1 {
		t.Errorf("expected 1 registered job, got %d", got)
	}
}
