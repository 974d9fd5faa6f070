package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/walkpal/walkpal/internal/api"
	"github.com/walkpal/walkpal/internal/app/companion"
	"github.com/walkpal/walkpal/internal/app/reward"
	"github.com/walkpal/walkpal/internal/app/streak"
	"github.com/walkpal/walkpal/internal/health"
	"github.com/walkpal/walkpal/internal/infra/sqlite"
	"github.com/walkpal/walkpal/internal/jobs"
)

// Daemon is the core WalkPal runtime. It wires together all services.
type Daemon struct {
	Config    Config
	DB        *sqlite.DB
	Pets      *companion.Service
	Ledger    *reward.Ledger
	Server    *api.Server
	Health    *health.Checker
	Scheduler *jobs.Scheduler
	cancel    context.CancelFunc
	closeLog  func() error
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	closeLog, err := ConfigureLogging(cfg.Logging)
	if err != nil {
		return nil, err
	}

	// Open SQLite
	db, err := sqlite.Open(walkpalHome())
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}

	policy, _ := streak.ParsePolicy(cfg.Streak.Policy) // checked by Validate
	loc := jobs.LoadLocation(cfg.Scheduler.Timezone)

	pets := companion.New(db, policy, loc)
	pets.SetDiscountThreshold(cfg.Reward.DiscountThreshold)
	ledger := reward.NewLedger(db, cfg.Reward.Calculator())

	// Initialize API server
	srv := api.NewServer(pets, ledger)
	srv.SetTimeout(parseDuration(cfg.API.RequestTimeout, 30*time.Second))

	// Enable Prometheus /metrics if configured
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	d := &Daemon{
		Config:   cfg,
		DB:       db,
		Pets:     pets,
		Ledger:   ledger,
		Server:   srv,
		closeLog: closeLog,
	}

	// Health checker
	d.Health = health.NewChecker(db, pets, walkpalHome(), parseDuration(cfg.Telemetry.HealthInterval, health.DefaultInterval))
	srv.SetChecker(d.Health)

	// Daily cycle rollover
	if cfg.Scheduler.Enabled {
		d.Scheduler = jobs.NewScheduler(pets, cfg.Scheduler.Rollover, loc)
	}

	return d, nil
}

// Serve starts background jobs and the HTTP server and blocks until
// shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	defer cancel()

	// Health checker (always runs)
	go d.Health.Run(ctx)

	if d.Scheduler != nil {
		if err := d.Scheduler.Start(ctx); err != nil {
			return err
		}
	}

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Info("shutdown signal received")
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if d.Scheduler != nil {
			d.Scheduler.Stop()
		}
		cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", "http://"+addr).Info("WalkPal serving")
	if d.Config.Telemetry.Prometheus {
		log.WithField("url", "http://"+addr+"/metrics").Info("metrics enabled")
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
	if d.closeLog != nil {
		_ = d.closeLog()
	}
}
