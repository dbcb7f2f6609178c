package launcher_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gem.dev/launcher/internal/entity"
	gemerrors "gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/launcher"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const eventTimeout = 10 * time.Second

func newSupervisor(t *testing.T) *launcher.Supervisor {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	supervisor := launcher.NewSupervisor(logger)
	t.Cleanup(func() {
		supervisor.Shutdown()
		supervisor.Wait()
	})
	return supervisor
}

func nextResult(t *testing.T, supervisor *launcher.Supervisor) launcher.Result {
	t.Helper()
	select {
	case result := <-supervisor.Events():
		return result
	case <-time.After(eventTimeout):
		t.Fatal("no session result")
	}
	return launcher.Result{}
}

func TestSessionCapturesOutput(t *testing.T) {
	defer goleak.VerifyNone(t)
	supervisor := newSupervisor(t)
	logPath := filepath.Join(t.TempDir(), "logs", "x.nes.log")

	argv := []string{"/bin/sh", "-c", "echo out; echo $GEM_VALUE >&2; exit 3"}
	session, err := supervisor.Start(launcher.Request{
		ConsoleID:   "nes",
		GameID:      "x-nes",
		Filename:    "x.nes",
		Argv:        argv,
		Environment: map[string]string{"GEM_VALUE": "from environment"},
		LogPath:     logPath,
	})
	require.NoError(t, err)

	result := nextResult(t, supervisor)
	assert.Equal(t, session.ID, result.SessionID)
	assert.Equal(t, "nes", result.ConsoleID)
	assert.Equal(t, "x-nes", result.GameID)
	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.Errored(), "a non-zero exit status is a played session")
	assert.Positive(t, result.Elapsed)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(argv, " "), lines[0])
	assert.Equal(t, []string{"out", "from environment"}, lines[1:])

	<-session.Done()
	assert.Zero(t, supervisor.Running())
	supervisor.Shutdown()
	supervisor.Wait()
}

func TestSessionSpawnFailure(t *testing.T) {
	supervisor := newSupervisor(t)
	_, err := supervisor.Start(launcher.Request{
		GameID: "x-nes",
		Argv:   []string{filepath.Join(t.TempDir(), "missing")},
	})
	require.NoError(t, err, "spawn errors are reported with the result")

	result := nextResult(t, supervisor)
	assert.True(t, result.Errored())
	assert.True(t, gemerrors.Is(result.Err, gemerrors.ErrLaunchFailed))

	game := entity.NewGame("/r/x.nes")
	assert.False(t, launcher.ApplyResult(game, result, time.Now()))
	assert.Zero(t, game.Played)
}

func TestSessionTerminate(t *testing.T) {
	defer goleak.VerifyNone(t)
	supervisor := newSupervisor(t)
	request := launcher.Request{ConsoleID: "nes", GameID: "x-nes", Argv: []string{"/bin/sh", "-c", "exec sleep 30"}}

	_, err := supervisor.Start(request)
	require.NoError(t, err)
	_, err = supervisor.Start(request)
	assert.True(t, gemerrors.Is(err, gemerrors.ErrDuplicateIdentifier))

	assert.True(t, gemerrors.Is(supervisor.Terminate("snes", "x-nes"), gemerrors.ErrUnknownIdentifier))
	require.NoError(t, supervisor.Terminate("nes", "x-nes"))
	result := nextResult(t, supervisor)
	assert.False(t, result.Errored())
	assert.Less(t, result.Elapsed, eventTimeout)

	assert.True(t, gemerrors.Is(supervisor.Terminate("nes", "x-nes"), gemerrors.ErrUnknownIdentifier))
	supervisor.Shutdown()
	supervisor.Wait()
}

func TestSameGameOnTwoConsoles(t *testing.T) {
	defer goleak.VerifyNone(t)
	supervisor := newSupervisor(t)
	for _, consoleID := range []string{"nes", "famicom"} {
		_, err := supervisor.Start(launcher.Request{
			ConsoleID: consoleID,
			GameID:    "x-nes",
			Argv:      []string{"/bin/sh", "-c", "exec sleep 30"},
		})
		require.NoError(t, err, consoleID)
	}
	assert.Equal(t, 2, supervisor.Running())

	session, ok := supervisor.Session("famicom", "x-nes")
	require.True(t, ok)
	assert.Equal(t, "famicom", session.ConsoleID)

	require.NoError(t, supervisor.Terminate("famicom", "x-nes"))
	result := nextResult(t, supervisor)
	assert.Equal(t, "famicom", result.ConsoleID)
	_, ok = supervisor.Session("nes", "x-nes")
	assert.True(t, ok)

	supervisor.Shutdown()
	supervisor.Wait()
}

func TestSessionsReportInCompletionOrder(t *testing.T) {
	supervisor := newSupervisor(t)
	_, err := supervisor.Start(launcher.Request{GameID: "slow", Argv: []string{"/bin/sh", "-c", "sleep 0.5"}})
	require.NoError(t, err)
	_, err = supervisor.Start(launcher.Request{GameID: "fast", Argv: []string{"/bin/sh", "-c", "exit 0"}})
	require.NoError(t, err)

	assert.Equal(t, "fast", nextResult(t, supervisor).GameID)
	assert.Equal(t, "slow", nextResult(t, supervisor).GameID)
}

func TestShutdownTerminatesSessions(t *testing.T) {
	defer goleak.VerifyNone(t)
	supervisor := launcher.NewSupervisor(nil)
	for _, id := range []string{"a", "b"} {
		_, err := supervisor.Start(launcher.Request{GameID: id, Argv: []string{"/bin/sh", "-c", "exec sleep 30"}})
		require.NoError(t, err)
	}

	started := time.Now()
	supervisor.Shutdown()
	supervisor.Wait()
	assert.Less(t, time.Since(started), eventTimeout)

	_, err := supervisor.Start(launcher.Request{GameID: "c", Argv: []string{"/bin/true"}})
	assert.True(t, gemerrors.Is(err, gemerrors.ErrLaunchFailed))
}

func TestApplyResult(t *testing.T) {
	game := entity.NewGame("/r/x.nes")
	game.Played = 2
	game.PlayTime = time.Hour
	today := time.Date(2024, time.March, 3, 17, 45, 0, 0, time.Local)

	applied := launcher.ApplyResult(game, launcher.Result{Elapsed: 90*time.Second + 300*time.Millisecond}, today)
	assert.True(t, applied)
	assert.Equal(t, int64(3), game.Played)
	assert.Equal(t, 90*time.Second, game.LastLaunchTime)
	assert.Equal(t, time.Hour+90*time.Second, game.PlayTime)
	assert.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.Local), game.LastLaunchDate)
}
