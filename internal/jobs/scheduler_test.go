package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walkpal/walkpal/internal/app/companion"
)

type fakeRoller struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRoller) Rollover(ctx context.Context) (companion.RolloverResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return companion.RolloverResult{}, f.err
	}
	return companion.RolloverResult{Rolled: true, StreakMilestone: 7}, nil
}

func (f *fakeRoller) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestScheduler_StartRunsCatchUp(t *testing.T) {
	r := &fakeRoller{}
	s := NewScheduler(r, "", time.UTC)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Equal(t, 1, r.count())
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(&fakeRoller{}, "not a cron spec", time.UTC)
	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_RunOnceSwallowsErrors(t *testing.T) {
	r := &fakeRoller{err: errors.New("disk full")}
	s := NewScheduler(r, DefaultRolloverSpec, nil)
	s.RunOnce(context.Background())
	assert.Equal(t, 1, r.count())
}

func TestLoadLocation(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Mars/Olympus_Mons"))
}
