package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/application"
	applicationPostgres "github.com/frahmantamala/recruitment/internal/application/postgres"
	"github.com/frahmantamala/recruitment/internal/auth"
	authPostgres "github.com/frahmantamala/recruitment/internal/auth/postgres"
	"github.com/frahmantamala/recruitment/internal/bookmark"
	bookmarkPostgres "github.com/frahmantamala/recruitment/internal/bookmark/postgres"
	"github.com/frahmantamala/recruitment/internal/core/events"
	"github.com/frahmantamala/recruitment/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/recruitment/internal/dashboard/postgres"
	"github.com/frahmantamala/recruitment/internal/department"
	departmentPostgres "github.com/frahmantamala/recruitment/internal/department/postgres"
	"github.com/frahmantamala/recruitment/internal/job"
	jobPostgres "github.com/frahmantamala/recruitment/internal/job/postgres"
	"github.com/frahmantamala/recruitment/internal/notification"
	"github.com/frahmantamala/recruitment/internal/transport"
	"github.com/frahmantamala/recruitment/internal/transport/rest"
	"github.com/frahmantamala/recruitment/internal/transport/swagger"
	"github.com/frahmantamala/recruitment/internal/upload"
	"github.com/frahmantamala/recruitment/internal/user"
	userPostgres "github.com/frahmantamala/recruitment/internal/user/postgres"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const specPath = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Gorm       *gorm.DB
	Router     *chi.Mux
	EventBus   *events.EventBus
	Dispatcher *notification.Dispatcher
	Sender     notification.CloseableSender
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		shutdown(ctx, deps)
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

// shutdown drains in-flight event handlers before the dispatcher, then closes the sender and pool.
func shutdown(ctx context.Context, deps *Dependencies) {
	if err := deps.EventBus.Wait(ctx); err != nil {
		deps.Logger.Warn("event handlers still running at shutdown", "error", err)
	}
	if err := deps.Dispatcher.Shutdown(ctx); err != nil {
		deps.Logger.Warn("notification dispatcher did not drain", "error", err)
	}
	if err := deps.Sender.Close(); err != nil {
		deps.Logger.Error("Notification sender close error", "error", err)
	}
	if err := deps.DB.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	if _, err := swagger.LoadSpec(context.Background(), specPath); err != nil {
		return err
	}

	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(deps.Gorm), lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), cfg.Security.BCryptCost, lg)
	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokenGen, lg)
	jobService := job.NewService(jobPostgres.NewJobRepository(deps.Gorm), departmentService, lg)
	applicationService := application.NewService(applicationPostgres.NewApplicationRepository(deps.Gorm), jobService, deps.EventBus, lg)
	bookmarkService := bookmark.NewService(bookmarkPostgres.NewBookmarkRepository(deps.Gorm), jobService, lg)
	dashboardService := dashboard.NewService(dashboardPostgres.NewDashboardRepository(deps.DB), lg)

	publicURL := strings.TrimRight(cfg.Server.BaseURL, "/") + cfg.Upload.PublicPath
	uploadService := upload.NewService(upload.NewLocalStorage(cfg.Upload.Dir, publicURL), cfg.Upload.MaxSizeBytes, lg)

	renderer, err := notification.NewRenderer()
	if err != nil {
		return err
	}
	notification.NewEventHandler(userService, renderer, deps.Dispatcher, cfg.Server.BaseURL, lg).
		RegisterEventHandlers(deps.EventBus)

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:      rest.NewHealthHandler(deps.DB).WithCheck("notifications", rest.NotificationCheck(deps.Dispatcher)),
		Auth:        auth.NewHandler(authService),
		User:        user.NewHandler(userService),
		Department:  department.NewHandler(transport.NewBaseHandler(lg), departmentService),
		Job:         job.NewHandler(jobService),
		Application: application.NewHandler(applicationService),
		Bookmark:    bookmark.NewHandler(bookmarkService),
		Dashboard:   dashboard.NewHandler(dashboardService),
		Upload:      upload.NewHandler(uploadService),
	}, rest.Options{
		AllowedOrigins: cfg.Server.Origins(),
		SpecPath:       specPath,
		Upload:         cfg.Upload,
	}, lg)

	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := initLogger(config)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	sender, err := notification.NewSender(config.Notification, lg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize notification sender: %w", err)
	}

	dispatcher := notification.NewDispatcher(sender, notification.DispatcherConfig{
		Workers:   config.Notification.Workers,
		QueueSize: config.Notification.QueueSize,
	}, lg)

	return &Dependencies{
		Config:     config,
		Logger:     lg,
		DB:         db,
		Gorm:       gdb,
		Router:     chi.NewRouter(),
		EventBus:   events.NewEventBus(lg),
		Dispatcher: dispatcher,
		Sender:     sender,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm so both see the same connection limits.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
}
