// Package wire provides dependency injection for the plantops application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	cliadapter "github.com/example/plantops/internal/adapters/cli"
	"github.com/example/plantops/internal/adapters/notify"
	"github.com/example/plantops/internal/adapters/sqlite"
	"github.com/example/plantops/internal/app"
	"github.com/example/plantops/internal/config"
	"github.com/example/plantops/internal/db"
	"github.com/example/plantops/internal/metrics"
	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/ports/secondary"
)

var (
	configPath string

	cfg        *config.Config
	logger     *slog.Logger
	registry   *metrics.Metrics
	dispatcher *app.NotificationDispatcher
	natsConn   *nats.Conn

	taskService      primary.TaskService
	partsService     primary.PartsService
	rosterService    primary.RosterService
	optimizerService primary.OptimizerService

	once sync.Once
)

// SetConfigPath selects an explicit config file. It must be called before
// any other function in this package to take effect.
func SetConfigPath(path string) {
	configPath = path
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the application logger.
func Logger() *slog.Logger {
	once.Do(initServices)
	return logger
}

// Metrics returns the process metrics.
func Metrics() *metrics.Metrics {
	once.Do(initServices)
	return registry
}

// TaskService returns the singleton TaskService instance.
func TaskService() primary.TaskService {
	once.Do(initServices)
	return taskService
}

// PartsService returns the singleton PartsService instance.
func PartsService() primary.PartsService {
	once.Do(initServices)
	return partsService
}

// RosterService returns the singleton RosterService instance.
func RosterService() primary.RosterService {
	once.Do(initServices)
	return rosterService
}

// OptimizerService returns the singleton OptimizerService instance.
func OptimizerService() primary.OptimizerService {
	once.Do(initServices)
	return optimizerService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	bootstrap := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	loaded, err := config.NewLoader(bootstrap).Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg = loaded
	logger = cfg.Logging.NewLogger(os.Stderr)
	registry = metrics.New()

	if cfg.Database.Path != "" {
		db.SetPath(cfg.Database.Path)
	}
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	taskRepo := sqlite.NewTaskRepository(database)
	engineerRepo := sqlite.NewEngineerRepository(database)
	holidayRepo := sqlite.NewHolidayRepository(database)
	leaveRepo := sqlite.NewLeaveRepository(database)
	partsRepo := sqlite.NewPartsRequestRepository(database)
	notificationRepo := sqlite.NewNotificationRepository(database)

	dispatcher = app.NewNotificationDispatcher(buildNotifier(notificationRepo), logger, registry)

	// Create services (primary ports implementation)
	tasks := app.NewTaskService(taskRepo, engineerRepo, dispatcher, logger)
	taskService = tasks
	partsService = app.NewPartsService(partsRepo, taskRepo, tasks, logger)
	rosterService = app.NewRosterService(engineerRepo, holidayRepo, leaveRepo, notificationRepo)
	optimizerService = app.NewOptimizerService(taskRepo, engineerRepo, holidayRepo, leaveRepo,
		dispatcher, registry, logger, cfg.Optimizer)
}

// buildNotifier fans notifications out to the in-app log, NATS when configured,
// and the application log.
func buildNotifier(repo secondary.NotificationRepository) secondary.Notifier {
	notifiers := notify.Multi{notify.NewStoreNotifier(repo)}

	if url := cfg.Notifications.NATSURL; url != "" {
		conn, err := notify.Connect(url)
		if err != nil {
			logger.Warn("NATS unavailable, notifications will not be published",
				slog.String("url", url),
				slog.String("error", err.Error()))
		} else {
			natsConn = conn
			notifiers = append(notifiers, notify.NewNATSNotifier(conn, cfg.Notifications.SubjectPrefix))
		}
	}

	if cfg.Notifications.Log {
		notifiers = append(notifiers, notify.NewLogNotifier(logger))
	}
	return notifiers
}

// Shutdown waits for in-flight notifications and releases connections.
// It is safe to call when nothing was initialized.
func Shutdown(timeout time.Duration) {
	if dispatcher != nil && !dispatcher.Drain(timeout) {
		logger.Warn("Notifications still in flight at shutdown")
	}
	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			logger.Warn("NATS drain failed", slog.String("error", err.Error()))
		}
	}
	if err := db.Close(); err != nil && logger != nil {
		logger.Warn("Database close failed", slog.String("error", err.Error()))
	}
}

// TaskAdapter returns a new TaskAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func TaskAdapter() *cliadapter.TaskAdapter {
	return TaskAdapterWithOutput(os.Stdout)
}

// TaskAdapterWithOutput returns a new TaskAdapter writing to the given output.
func TaskAdapterWithOutput(out io.Writer) *cliadapter.TaskAdapter {
	once.Do(initServices)
	return cliadapter.NewTaskAdapter(taskService, out)
}

// PartsAdapter returns a new PartsAdapter writing to stdout.
func PartsAdapter() *cliadapter.PartsAdapter {
	return PartsAdapterWithOutput(os.Stdout)
}

// PartsAdapterWithOutput returns a new PartsAdapter writing to the given output.
func PartsAdapterWithOutput(out io.Writer) *cliadapter.PartsAdapter {
	once.Do(initServices)
	return cliadapter.NewPartsAdapter(partsService, out)
}

// OptimizerAdapter returns a new OptimizerAdapter writing to stdout.
func OptimizerAdapter() *cliadapter.OptimizerAdapter {
	return OptimizerAdapterWithOutput(os.Stdout)
}

// OptimizerAdapterWithOutput returns a new OptimizerAdapter writing to the given output.
func OptimizerAdapterWithOutput(out io.Writer) *cliadapter.OptimizerAdapter {
	once.Do(initServices)
	return cliadapter.NewOptimizerAdapter(optimizerService, out)
}
