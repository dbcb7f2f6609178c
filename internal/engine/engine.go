// Package engine is the single entry point of the library and launch engine.
// An Engine owns the configuration stores, the metadata database and the
// session supervisor; every method except the event callbacks is meant to be
// called from one coordinating goroutine.
package engine

import (
	"gem.dev/launcher/internal/configstore"
	"gem.dev/launcher/internal/database"
	"gem.dev/launcher/internal/database/delegate"
	"gem.dev/launcher/internal/database/delegate/sqlite"
	"gem.dev/launcher/internal/entity"
	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/folder"
	"gem.dev/launcher/internal/launcher"
	"gem.dev/launcher/internal/library"
	"gem.dev/launcher/internal/settings"
	"gem.dev/launcher/pkg/eventemitter"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// Empty directories fall back to the XDG locations
	ConfigDir string
	DataDir   string
	// Schema file of the database, the installed default when empty
	SchemaPath string
	Debug      bool
	LogLevel   logrus.Level
	// Defaults to a new logger at LogLevel
	Logger *logrus.Logger
	// Defaults to the SQLite delegate
	Delegate delegate.DatabaseDelegate
}

type pendingSession struct {
	console *entity.Console
	game    *entity.Game
}

type Engine struct {
	log         *logrus.Logger
	layout      folder.Layout
	preferences settings.Preferences

	consolesStore    *configstore.Store
	emulatorsStore   *configstore.Store
	environmentStore *configstore.Store
	database         *database.Database

	loader     *library.Loader
	supervisor *launcher.Supervisor
	sessions   map[uuid.UUID]pendingSession
	artifacts  *cache.Cache

	emulators map[string]*entity.Emulator
	consoles  map[string]*entity.Console
	// Sections skipped at load, kept as they are by PersistAll
	skippedEmulators map[string]bool
	skippedConsoles  map[string]bool
	// Old emulator identifier to the renamed emulator, applied by PersistAll
	renames map[string]*entity.Emulator

	// Event emitters
	SessionEnded eventemitter.EventEmitter[SessionEnded]
	GameUpdated  eventemitter.EventEmitter[GameUpdated]
}

// SessionEnded is emitted once the result of a session is committed
type SessionEnded struct {
	Result  launcher.Result
	Console *entity.Console
	Game    *entity.Game
}

// GameUpdated is emitted when the metadata of a game changes
type GameUpdated struct {
	Console *entity.Console
	Game    *entity.Game
}

// Initialize creates the directory layout, loads the configuration and opens
// the database. When the database does not match its schema the engine is
// returned together with a MigrationRequired error: call MigrateIfNeeded.
func Initialize(options Options) (instance *Engine, err error) {
	logger := options.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(options.LogLevel)
	}
	if options.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	instance = &Engine{
		log:       logger,
		layout:    folder.NewLayout(options.ConfigDir, options.DataDir),
		sessions:  make(map[uuid.UUID]pendingSession),
		emulators: make(map[string]*entity.Emulator),
		consoles:  make(map[string]*entity.Console),
		renames:   make(map[string]*entity.Emulator),

		skippedEmulators: make(map[string]bool),
		skippedConsoles:  make(map[string]bool),
	}
	log := instance.logger("engine")
	log.Infof("Initializing in %s and %s", instance.layout.ConfigDir, instance.layout.DataDir)
	if err = instance.layout.Create(); err != nil {
		return nil, errors.Wrap(errors.KindDatabaseUnavailable, "create layout", instance.layout.DataDir, err)
	}
	if instance.preferences, err = settings.Load(instance.layout.SettingsPath(), instance.logger("settings")); err != nil {
		return nil, err
	}
	if err = instance.loadConfiguration(); err != nil {
		return nil, err
	}

	schemaPath := options.SchemaPath
	if schemaPath == "" {
		schemaPath = instance.layout.SchemaPath()
		if err = database.InstallDefaultSchema(schemaPath); err != nil {
			return nil, errors.Wrap(errors.KindSchemaMissing, "install schema", schemaPath, err)
		}
	}
	databaseDelegate := options.Delegate
	if databaseDelegate == nil {
		databaseDelegate = &sqlite.SQLiteDelegate{Debug: options.Debug}
	}
	if instance.database, err = database.Open(instance.layout.DatabasePath(), schemaPath, databaseDelegate, instance.logger("database")); err != nil {
		return nil, err
	}

	ttl := instance.preferences.ArtifactCacheDuration()
	instance.artifacts = cache.New(ttl, 2*ttl)
	instance.loader = library.NewLoader(instance.database, instance.environmentStore,
		instance.preferences.ScanChunkSize, instance.logger("library"))
	instance.supervisor = launcher.NewSupervisor(instance.logger("supervisor"))

	var ok bool
	if ok, err = instance.database.Check(); err != nil {
		return instance, err
	}
	if !ok {
		log.Warn("Database does not match its schema")
		return instance, errors.New(errors.KindMigrationRequired, "initialize", instance.layout.DatabasePath())
	}
	return instance, nil
}

func (e *Engine) logger(component string) logrus.FieldLogger {
	return e.log.WithField("component", component)
}

// loadConfiguration reads emulators then consoles, seeded with the shipped
// defaults. Invalid entries are skipped.
func (e *Engine) loadConfiguration() (err error) {
	log := e.logger("configuration")
	if e.emulatorsStore, err = configstore.Load(e.layout.EmulatorsPath()); err != nil {
		return
	}
	if e.consolesStore, err = configstore.Load(e.layout.ConsolesPath()); err != nil {
		return
	}
	if e.environmentStore, err = configstore.Load(e.layout.EnvironmentPath()); err != nil {
		return
	}
	var merged int
	if merged, err = seedDefaults(e.emulatorsStore, DefaultEmulators); err != nil {
		return
	}
	log.Debugf("Merged %d default emulator options", merged)
	if merged, err = seedDefaults(e.consolesStore, DefaultConsoles); err != nil {
		return
	}
	log.Debugf("Merged %d default console options", merged)

	for _, section := range e.emulatorsStore.Sections() {
		emulator, loadErr := entity.EmulatorFromConfig(e.emulatorsStore, section)
		if loadErr != nil {
			log.Warnf("Skipping emulator: %v", loadErr)
			e.skippedEmulators[section] = true
			continue
		}
		if _, ok := e.emulators[emulator.ID()]; ok {
			log.Warnf("Skipping emulator %s: duplicate identifier %s", section, emulator.ID())
			e.skippedEmulators[section] = true
			continue
		}
		e.emulators[emulator.ID()] = emulator
	}
	for _, section := range e.consolesStore.Sections() {
		console, loadErr := entity.ConsoleFromConfig(e.consolesStore, section, e.emulators)
		if loadErr != nil {
			log.Warnf("Skipping console: %v", loadErr)
			e.skippedConsoles[section] = true
			continue
		}
		if _, ok := e.consoles[console.ID()]; ok {
			log.Warnf("Skipping console %s: duplicate identifier %s", section, console.ID())
			e.skippedConsoles[section] = true
			continue
		}
		e.consoles[console.ID()] = console
	}
	log.Debugf("Loaded %d emulators and %d consoles", len(e.emulators), len(e.consoles))
	return nil
}

// MigrateIfNeeded brings the database in line with its schema
func (e *Engine) MigrateIfNeeded(progress database.Progress) error {
	ok, err := e.database.Check()
	if err != nil || ok {
		return err
	}
	if progress == nil {
		progress = &database.LogProgress{Log: e.logger("migration")}
	}
	return e.database.MigrateAll(database.DefaultRenamedColumns, progress)
}

func (e *Engine) Preferences() settings.Preferences {
	return e.preferences
}

// SetPreferences stores new preferences. They apply to the next loads.
func (e *Engine) SetPreferences(preferences settings.Preferences) error {
	if err := settings.Save(e.layout.SettingsPath(), preferences); err != nil {
		return err
	}
	e.preferences = preferences
	e.loader.Invalidate()
	e.loader = library.NewLoader(e.database, e.environmentStore, preferences.ScanChunkSize, e.logger("library"))
	return nil
}

func (e *Engine) Layout() folder.Layout {
	return e.layout
}

// Shutdown terminates the running sessions without waiting for them, stops
// the enumerations and closes the database
func (e *Engine) Shutdown() error {
	e.logger("engine").Info("Shutting down")
	e.supervisor.Shutdown()
	e.loader.Invalidate()
	e.artifacts.Flush()
	return e.database.Close()
}
