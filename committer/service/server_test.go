package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/testutil"
	"github.com/da-committer/da-committer/types"
)

func newTestServer(t *testing.T, app *CommitterApp) (*Server, string) {
	app.cfg.Metrics.Port = testutil.AllocateUniquePort(t)

	dbCfg := config.DefaultDBConfigWithHomePath(t.TempDir())
	db, err := dbCfg.GetDBBackend()
	require.NoError(t, err)

	addr, err := app.cfg.Metrics.Address()
	require.NoError(t, err)

	return NewCommitterServer(app.cfg, testutil.GetTestLogger(t), app, db, prometheus.NewRegistry()), fmt.Sprintf("http://%s/metrics", addr)
}

func TestServerRunsUntilCanceled(t *testing.T) {
	app, _ := newTestApp(t, &countingTicker{}, &countingTicker{})
	server, metricsURL := newTestServer(t, app)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.RunUntilShutdown(ctx)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(metricsURL) //nolint:gosec,noctx
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		return resp.StatusCode == http.StatusOK && app.IsRunning()
	}, 5*time.Second, 20*time.Millisecond)

	// a second run is a no-op
	require.NoError(t, server.RunUntilShutdown(ctx))

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	require.False(t, app.IsRunning())
}

func TestServerExitsOnCriticalError(t *testing.T) {
	submitter := &countingTicker{err: types.ErrNetwork.Wrap("da node unreachable")}
	app, clk := newTestApp(t, submitter, &countingTicker{})
	server, _ := newTestServer(t, app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.RunUntilShutdown(context.Background())
	}()

	// the app may not have created its tickers yet, so keep advancing
	require.Eventually(t, func() bool {
		clk.Add(10 * time.Second)

		return submitter.runs.Load() >= 3
	}, 5*time.Second, 10*time.Millisecond)

	select {
	case err := <-errCh:
		var critErr *CriticalError
		require.ErrorAs(t, err, &critErr)
		require.Equal(t, submitterComponent, critErr.component)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not report the critical error")
	}
	require.False(t, app.IsRunning())
}
