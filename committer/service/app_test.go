package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/metrics"
	"github.com/da-committer/da-committer/testutil/mocks"
	"github.com/da-committer/da-committer/types"
)

type countingTicker struct {
	runs atomic.Int32
	err  error
}

func (c *countingTicker) Run(context.Context) error {
	c.runs.Add(1)

	return c.err
}

func newTestApp(t *testing.T, submitter, tracker ticker) (*CommitterApp, *clock.Mock) {
	cfg := config.DefaultConfigWithHome(t.TempDir())
	cfg.MaxFailedCycles = 3
	cfg.SubmitterConfig.Interval = 10 * time.Second
	cfg.TrackerConfig.PollInterval = 10 * time.Second

	connector := mocks.NewMockDAConnector(gomock.NewController(t))
	connector.EXPECT().Close().Return(nil).AnyTimes()

	clk := clock.NewMock()
	m := metrics.NewCommitterMetrics(prometheus.NewRegistry())

	return newCommitterApp(&cfg, connector, submitter, tracker, clk, m, zap.NewNop()), clk
}

func TestCommitterAppTicks(t *testing.T) {
	submitter, tracker := &countingTicker{}, &countingTicker{}
	app, clk := newTestApp(t, submitter, tracker)

	require.NoError(t, app.Start())
	require.Error(t, app.Start())
	require.True(t, app.IsRunning())

	for i := int32(1); i <= 3; i++ {
		clk.Add(10 * time.Second)
		require.Eventually(t, func() bool {
			return submitter.runs.Load() == i && tracker.runs.Load() == i
		}, 5*time.Second, 10*time.Millisecond)
	}

	require.NoError(t, app.Stop())
	require.Error(t, app.Stop())
	require.False(t, app.IsRunning())
}

func TestCommitterAppReportsCriticalError(t *testing.T) {
	submitter := &countingTicker{err: types.ErrNetwork.Wrap("rpc down")}
	tracker := &countingTicker{}
	app, clk := newTestApp(t, submitter, tracker)

	require.NoError(t, app.Start())
	defer func() {
		require.NoError(t, app.Stop())
	}()

	for i := int32(1); i <= 3; i++ {
		clk.Add(10 * time.Second)
		require.Eventually(t, func() bool {
			return submitter.runs.Load() == i
		}, 5*time.Second, 10*time.Millisecond)
	}

	select {
	case criticalErr := <-app.CriticalErr():
		require.Equal(t, submitterComponent, criticalErr.component)
		require.ErrorContains(t, criticalErr, "rpc down")
	case <-time.After(5 * time.Second):
		t.Fatal("expected a critical error")
	}
}

func TestCommitterAppRetriesNonFatalErrors(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"nothing submitted", types.ErrNothingSubmitted.Wrap("fragments [1]")},
		{"commitment", types.ErrCommitment.Wrap("payload too large")},
		{"unclassified", errors.New("connector returned an unknown fragment")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			submitter := &countingTicker{err: tc.err}
			app, clk := newTestApp(t, submitter, &countingTicker{})

			require.NoError(t, app.Start())

			// well past MaxFailedCycles
			for i := int32(1); i <= 10; i++ {
				clk.Add(10 * time.Second)
				require.Eventually(t, func() bool {
					return submitter.runs.Load() == i
				}, 5*time.Second, 10*time.Millisecond)
			}

			select {
			case criticalErr := <-app.CriticalErr():
				t.Fatalf("unexpected critical error: %v", criticalErr)
			default:
			}
			require.True(t, app.IsRunning())
			require.NoError(t, app.Stop())
		})
	}
}

func TestCommitterAppNetworkFailuresResetOnSuccess(t *testing.T) {
	submitter := &flakyTicker{}
	app, clk := newTestApp(t, submitter, &countingTicker{})

	require.NoError(t, app.Start())
	defer func() {
		require.NoError(t, app.Stop())
	}()

	// two failures, one success, repeated; never three in a row
	for i := int32(1); i <= 9; i++ {
		clk.Add(10 * time.Second)
		require.Eventually(t, func() bool {
			return submitter.runs.Load() == i
		}, 5*time.Second, 10*time.Millisecond)
	}

	select {
	case criticalErr := <-app.CriticalErr():
		t.Fatalf("unexpected critical error: %v", criticalErr)
	default:
	}
}

// flakyTicker fails with a network error on two of every three runs.
type flakyTicker struct {
	runs atomic.Int32
}

func (f *flakyTicker) Run(context.Context) error {
	if f.runs.Add(1)%3 == 0 {
		return nil
	}

	return types.ErrNetwork.Wrap("connection refused")
}
