package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/auth"
	"github.com/frahmantamala/hr-assistant/internal/core/clock"
	"github.com/frahmantamala/hr-assistant/internal/core/events"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
	"github.com/frahmantamala/hr-assistant/internal/dispatch"
	"github.com/frahmantamala/hr-assistant/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-assistant/internal/employee/postgres"
	"github.com/frahmantamala/hr-assistant/internal/identity"
	identityPostgres "github.com/frahmantamala/hr-assistant/internal/identity/postgres"
	"github.com/frahmantamala/hr-assistant/internal/leave"
	leavePostgres "github.com/frahmantamala/hr-assistant/internal/leave/postgres"
	"github.com/frahmantamala/hr-assistant/internal/report"
	reportPostgres "github.com/frahmantamala/hr-assistant/internal/report/postgres"
	"github.com/frahmantamala/hr-assistant/internal/salary"
	salaryPostgres "github.com/frahmantamala/hr-assistant/internal/salary/postgres"
	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/frahmantamala/hr-assistant/internal/transport/rest"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

// Dependencies is the wired application shared by the server and the CLI
// commands that act on the store.
type Dependencies struct {
	Config     *internal.Config
	DB         *gorm.DB
	Clock      clock.Clock
	Logger     *slog.Logger
	EventBus   *events.EventBus
	Sessions   *identity.SessionStore
	Employees  *employee.Service
	Leaves     *leave.Service
	Salaries   *salary.Service
	Identity   *identity.Service
	Reports    *report.Service
	Dispatcher *dispatch.Dispatcher
	Auth       *auth.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	router, err := setupRoutes(deps)
	if err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go deps.Sessions.Run(ctx, deps.Config.Session.SweepInterval)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("starting HTTP server", "address", addr, "version", Version)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) (*chi.Mux, error) {
	sqlDB, err := deps.DB.DB()
	if err != nil {
		return nil, err
	}

	base := transport.NewBaseHandler(deps.Logger)
	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlDB, deps.Sessions, rest.Handlers{
		Auth:     auth.NewHandler(base, deps.Auth),
		Dispatch: dispatch.NewHandler(base, deps.Dispatcher, Version),
		Identity: identity.NewHandler(base, deps.Identity),
		Report:   report.NewHandler(base, deps.Reports),
	}, deps.Config.Server.AllowedOrigins, deps.Logger)
	return router, nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.LoggerWrapper()

	loc, err := config.App.Location()
	if err != nil {
		return nil, err
	}
	clk := clock.Real(loc)

	db, err := store.Open(ctx, config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlxDB, err := store.SQLX(db)
	if err != nil {
		return nil, err
	}

	txm := store.NewTransactionManager(db)
	bus := events.NewEventBus(log)
	sessions := identity.NewSessionStore(config.Session.IdleTimeout, clk, log)

	employeeRepo := employeePostgres.NewEmployeeRepository(db)
	employees := employee.NewService(employeeRepo, log)
	leaves := leave.NewService(leavePostgres.NewLeaveRepository(db), txm, clk, log)
	salaries := salary.NewService(salaryPostgres.NewSalaryRepository(db), employeeRepo, txm, log)
	reports := report.NewService(reportPostgres.NewReportRepository(sqlxDB), clk, log)
	identities := identity.NewService(identityPostgres.NewIdentityRepository(db), employees, txm, sessions, bus, clk, log)

	leave.NewManagerNotifier(employees, log).Register(bus)

	registry := dispatch.NewRegistry(dispatch.Services{
		Employees: employees,
		Leave:     leaves,
		Salary:    salaries,
		Reports:   reports,
	})
	dispatcher := dispatch.New(registry, identities, sessions, txm, bus, clk, dispatch.Options{
		Timeout:     config.Dispatch.Timeout,
		ReadRetries: config.Dispatch.ReadRetries,
	}, log)

	clients := make([]auth.Client, 0, len(config.Security.Clients))
	for _, c := range config.Security.Clients {
		clients = append(clients, auth.Client{ID: c.ID, SecretHash: c.SecretHash, Scopes: c.Scopes})
	}
	tokens := auth.NewJWTTokenGenerator(config.Security.ServiceTokenSecret, config.Security.Issuer, config.Security.ServiceTokenDuration, clk)

	return &Dependencies{
		Config:     config,
		DB:         db,
		Clock:      clk,
		Logger:     log,
		EventBus:   bus,
		Sessions:   sessions,
		Employees:  employees,
		Leaves:     leaves,
		Salaries:   salaries,
		Identity:   identities,
		Reports:    reports,
		Dispatcher: dispatcher,
		Auth:       auth.NewService(clients, tokens, log),
	}, nil
}

// Close waits for in-flight event handlers and releases the database.
func (d *Dependencies) Close() {
	d.EventBus.Wait()
	if err := store.Close(d.DB); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}
