package engine

import (
	"time"

	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/launcher"
	"github.com/sirupsen/logrus"
)

// Launch starts a session of a game. The session result arrives on
// SessionEvents and must be handed to CompleteSession.
func (e *Engine) Launch(consoleID, gameID string, fullscreen bool) (*launcher.Session, error) {
	console, game, err := e.Game(consoleID, gameID)
	if err != nil {
		return nil, err
	}
	if _, running := e.supervisor.Session(console.ID(), game.ID); running {
		return nil, errors.New(errors.KindDuplicateIdentifier, "launch "+console.ID(), game.ID)
	}
	argv, err := launcher.BuildCommand(console.EmulatorFor(game), game, fullscreen)
	if err != nil {
		return nil, err
	}
	environment := make(map[string]string, len(game.Environment))
	for key, value := range game.Environment {
		environment[key] = value
	}
	session, err := e.supervisor.Start(launcher.Request{
		ConsoleID:   console.ID(),
		GameID:      game.ID,
		Filename:    game.Filename,
		Argv:        argv,
		Environment: environment,
		LogPath:     e.LogPath(game),
	})
	if err != nil {
		return nil, err
	}
	e.sessions[session.ID] = pendingSession{console: console, game: game}
	return session, nil
}

// Terminate politely stops the running session of a game
func (e *Engine) Terminate(consoleID, gameID string) error {
	return e.supervisor.Terminate(consoleID, gameID)
}

// SessionEvents delivers the result of every session, in completion order
func (e *Engine) SessionEvents() <-chan launcher.Result {
	return e.supervisor.Events()
}

// CompleteSession commits the result of a session: counters are updated and
// saved unless the session errored, cached artifacts are dropped and
// SessionEnded is emitted. The counters go to the game as currently loaded,
// so edits made while the session ran are kept.
func (e *Engine) CompleteSession(result launcher.Result) error {
	pending, ok := e.sessions[result.SessionID]
	if !ok {
		return errors.New(errors.KindUnknownIdentifier, "complete session", result.SessionID.String())
	}
	delete(e.sessions, result.SessionID)
	console := pending.console
	if current, ok := e.consoles[result.ConsoleID]; ok {
		console = current
	}
	game := pending.game
	if current, ok := console.Games[pending.game.ID]; ok {
		game = current
	}

	log := e.logger("engine").WithFields(logrus.Fields{"console": console.ID(), "game": game.ID})
	if launcher.ApplyResult(game, result, time.Now()) {
		if err := e.database.SaveCounters(game.Filename, game.Row()); err != nil {
			return err
		}
		log.Infof("Played %s for %s", game.Name, result.Elapsed.Truncate(time.Second))
	} else {
		log.Errorf("Session failed: %v", result.Err)
	}
	e.invalidateArtifacts(console.EmulatorFor(game), game)
	e.SessionEnded.Emit(SessionEnded{Result: result, Console: console, Game: game})
	return nil
}
