package launcher

import (
	"bytes"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"gem.dev/launcher/internal/entity"
	"gem.dev/launcher/internal/errors"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// Key identifies a running session. Game identifiers are unique within a
// console only.
type Key struct {
	ConsoleID string
	GameID    string
}

func (k Key) String() string {
	return k.ConsoleID + "/" + k.GameID
}

// Request describes a launch. Workers only read it.
type Request struct {
	ConsoleID string
	GameID    string
	Filename string
	Argv     []string
	// Merged over the ambient environment
	Environment map[string]string
	LogPath     string
}

func (r Request) Key() Key {
	return Key{ConsoleID: r.ConsoleID, GameID: r.GameID}
}

// Result is the single terminal event of a session
type Result struct {
	SessionID uuid.UUID
	ConsoleID string
	GameID    string
	Filename  string
	Started   time.Time
	Elapsed   time.Duration
	ExitCode  int
	// Set when the process could not run; counters are not updated
	Err error
}

// Errored reports whether the session failed to run
func (r Result) Errored() bool {
	return r.Err != nil
}

// ApplyResult updates the counters of game after a session. It reports false
// and leaves game untouched when the session errored. Elapsed time is counted
// at second granularity.
func ApplyResult(game *entity.Game, result Result, today time.Time) bool {
	if result.Errored() {
		return false
	}
	elapsed := result.Elapsed.Truncate(time.Second)
	game.Played++
	game.LastLaunchDate = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	game.LastLaunchTime = elapsed
	game.PlayTime += elapsed
	return true
}

// Session is one execution of a game
type Session struct {
	ID        uuid.UUID
	ConsoleID string
	GameID    string
	Started   time.Time

	command *exec.Cmd
	output  bytes.Buffer
	log     logrus.FieldLogger
	done    chan struct{}

	mutex      sync.Mutex
	terminated bool
}

func newSession(request Request, log logrus.FieldLogger) *Session {
	id := uuid.New()
	command := exec.Command(request.Argv[0], request.Argv[1:]...)
	command.Env = os.Environ()
	for key, value := range request.Environment {
		command.Env = append(command.Env, key+"="+value)
	}
	session := &Session{
		ID:        id,
		ConsoleID: request.ConsoleID,
		GameID:    request.GameID,
		command:   command,
		log: log.WithFields(logrus.Fields{
			"session": id.String(),
			"console": request.ConsoleID,
			"game":    request.GameID,
		}),
		done: make(chan struct{}),
	}
	// A single writer for both streams keeps their interleaving
	command.Stdout = &session.output
	command.Stderr = &session.output
	return session
}

// Done is closed once the process has exited and its log is written
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Terminate politely asks the process and its children to stop
func (s *Session) Terminate() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.command.Process == nil || s.terminated {
		return nil
	}
	select {
	case <-s.done:
		return nil
	default:
	}
	s.terminated = true
	s.log.Info("Terminating session")
	root, err := process.NewProcess(int32(s.command.Process.Pid))
	if err != nil {
		return s.command.Process.Signal(syscall.SIGTERM)
	}
	terminateTree(root, s.log)
	return nil
}

func terminateTree(root *process.Process, log logrus.FieldLogger) {
	if children, err := root.Children(); err == nil {
		for _, child := range children {
			terminateTree(child, log)
		}
	}
	if err := root.Terminate(); err != nil {
		log.Debugf("Cannot terminate process %d: %v", root.Pid, err)
	}
}

func (s *Session) start(argv []string) error {
	s.log.Infof("Launching %s", strings.Join(argv, " "))
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Started = time.Now()
	return s.command.Start()
}

// wait blocks until the process exits, unless it never started, and writes
// the session log. It never touches the game.
func (s *Session) wait(request Request, err error) (result Result) {
	result = Result{
		SessionID: s.ID,
		ConsoleID: request.ConsoleID,
		GameID:    request.GameID,
		Filename:  request.Filename,
		Started:   s.Started,
	}
	if err == nil {
		err = s.command.Wait()
	}
	result.Elapsed = time.Since(s.Started)

	var exitError *exec.ExitError
	switch {
	case err == nil:
	case stderrors.As(err, &exitError):
		// A non-zero exit status is still a played session
		result.ExitCode = exitError.ExitCode()
	default:
		// Spawn failures, out of memory included
		result.ExitCode = -1
		result.Err = errors.Wrap(errors.KindLaunchFailed, "run session", request.Key().String(), err)
	}

	if logErr := writeLog(request.LogPath, request.Argv, s.output.Bytes()); logErr != nil {
		s.log.Warnf("Cannot write session log: %v", logErr)
	}
	s.log.WithFields(logrus.Fields{
		"elapsed":  result.Elapsed.Truncate(time.Second).String(),
		"exitCode": result.ExitCode,
		"errored":  result.Errored(),
	}).Debug("Session ended")
	return
}

func writeLog(path string, argv []string, output []byte) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	content := append([]byte(strings.Join(argv, " ")+"\n"), output...)
	return os.WriteFile(path, content, 0644)
}
