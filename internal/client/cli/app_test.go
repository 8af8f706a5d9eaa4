package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/docproc/internal/client/client"
	"github.com/dmitrijs2005/docproc/internal/client/config"
	"github.com/dmitrijs2005/docproc/internal/client/models"
	"github.com/dmitrijs2005/docproc/internal/client/services"
	"github.com/dmitrijs2005/docproc/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLoggedIn_FollowsStoredToken(t *testing.T) {
	env := newTestEnv(t, &fakeAPI{}, &memCreds{}, services.AuthFlowToken, "")
	assert.False(t, env.app.isLoggedIn())

	env = loggedInEnv(t, &fakeAPI{}, "")
	assert.True(t, env.app.isLoggedIn())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	app := &App{logger: logging.New(&buf, "info")}

	app.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, app.getMode())
	assert.Contains(t, buf.String(), "Switched to online mode")

	buf.Reset()
	app.setMode(ModeOnline)
	assert.Empty(t, buf.String(), "no log when mode doesn't change")

	app.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, app.getMode())
	assert.Contains(t, buf.String(), "Switched to offline mode")
}

func TestGetStatus(t *testing.T) {
	env := newTestEnv(t, &fakeAPI{}, &memCreds{}, services.AuthFlowToken, "")
	assert.Equal(t, "", env.app.getStatus())

	env.app.setMode(ModeOffline)
	assert.Equal(t, "(offline)", env.app.getStatus())

	api := &fakeAPI{user: &models.User{Username: "alice"}}
	env = loggedInEnv(t, api, "")
	require.NoError(t, env.app.session.RefreshProfile(context.Background()))
	env.app.setMode(ModeOnline)
	assert.Equal(t, "(alice online)", env.app.getStatus())
}

func TestCheckOnline(t *testing.T) {
	api := &fakeAPI{}
	env := loggedInEnv(t, api, "")

	env.app.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, env.app.getMode())

	api.pingErr = client.ErrUnavailable
	env.app.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, env.app.getMode())
}

func TestStartOnlineStatusWatcher_StopsWithContext(t *testing.T) {
	env := loggedInEnv(t, &fakeAPI{}, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.app.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return env.app.getMode() == ModeOnline }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestStartOnlineStatusWatcher_ZeroIntervalReturns(t *testing.T) {
	env := loggedInEnv(t, &fakeAPI{}, "")
	env.app.StartOnlineStatusWatcher(context.Background(), 0)
	assert.Equal(t, Mode(""), env.app.getMode())
}

func TestOfflineDocumentsSwitchMode(t *testing.T) {
	api := &fakeAPI{listErr: client.ErrUnavailable}
	env := loggedInEnv(t, api, "")

	_, err := env.app.documents.LoadCached(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModeOffline, env.app.getMode())
}

func TestClose_RunsClosersOnce(t *testing.T) {
	env := loggedInEnv(t, &fakeAPI{}, "")

	calls := 0
	boom := errors.New("boom")
	env.app.closers = []func() error{
		func() error { calls++; return nil },
		func() error { calls++; return boom },
	}

	require.ErrorIs(t, env.app.Close(), boom)
	require.NoError(t, env.app.Close())
	assert.Equal(t, 2, calls)
}

func TestNewApp_WiresLocalDatabase(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.False(t, app.isLoggedIn())
	assert.Equal(t, services.AuthFlowToken, app.session.Flow())
	assert.NotNil(t, app.metrics)
}

func TestNewApp_RejectsUnknownAuthFlow(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()
	cfg.AuthFlow = "oauth"

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
}
