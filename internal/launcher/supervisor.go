package launcher

import (
	"sync"

	"gem.dev/launcher/internal/errors"
	"github.com/sirupsen/logrus"
)

// Supervisor runs one worker per session and reports every session end on a
// single channel, in completion order
type Supervisor struct {
	log      logrus.FieldLogger
	events   chan Result
	closing  chan struct{}
	once     sync.Once
	workers  sync.WaitGroup
	mutex    sync.Mutex
	sessions map[Key]*Session
}

func NewSupervisor(log logrus.FieldLogger) *Supervisor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Supervisor{
		log:      log,
		events:   make(chan Result),
		closing:  make(chan struct{}),
		sessions: make(map[Key]*Session),
	}
}

// Events delivers the result of every session
func (s *Supervisor) Events() <-chan Result {
	return s.events
}

// Start spawns the process of request and hands it to a new worker. Spawn
// failures are not returned: they are reported through Events.
func (s *Supervisor) Start(request Request) (*Session, error) {
	const op = "start session"
	key := request.Key()
	if len(request.Argv) == 0 {
		return nil, errors.New(errors.KindMissingField, op+" "+key.String(), "argv")
	}
	select {
	case <-s.closing:
		return nil, errors.Newf(errors.KindLaunchFailed, op, key.String(), "supervisor is shut down")
	default:
	}

	s.mutex.Lock()
	if _, ok := s.sessions[key]; ok {
		s.mutex.Unlock()
		return nil, errors.New(errors.KindDuplicateIdentifier, op, key.String())
	}
	session := newSession(request, s.log)
	s.sessions[key] = session
	s.mutex.Unlock()

	err := session.start(request.Argv)
	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		result := session.wait(request, err)

		s.mutex.Lock()
		delete(s.sessions, key)
		s.mutex.Unlock()
		close(session.done)

		select {
		case s.events <- result:
		case <-s.closing:
			s.log.Debugf("Dropping result of session %s after shutdown", session.ID)
		}
	}()
	return session, nil
}

// Session returns the running session of a game of a console
func (s *Supervisor) Session(consoleID, gameID string) (*Session, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	session, ok := s.sessions[Key{ConsoleID: consoleID, GameID: gameID}]
	return session, ok
}

// Running returns the number of running sessions
func (s *Supervisor) Running() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sessions)
}

// Terminate politely stops the session of a game of a console
func (s *Supervisor) Terminate(consoleID, gameID string) error {
	session, ok := s.Session(consoleID, gameID)
	if !ok {
		return errors.New(errors.KindUnknownIdentifier, "terminate session", Key{ConsoleID: consoleID, GameID: gameID}.String())
	}
	return session.Terminate()
}

// Shutdown terminates every session and stops delivering events. It does not
// wait for the processes to exit.
func (s *Supervisor) Shutdown() {
	s.once.Do(func() {
		close(s.closing)
		s.mutex.Lock()
		sessions := make([]*Session, 0, len(s.sessions))
		for _, session := range s.sessions {
			sessions = append(sessions, session)
		}
		s.mutex.Unlock()
		for _, session := range sessions {
			if err := session.Terminate(); err != nil {
				s.log.Warnf("Cannot terminate session %s: %v", session.ID, err)
			}
		}
	})
}

// Wait blocks until every worker has returned
func (s *Supervisor) Wait() {
	s.workers.Wait()
}
