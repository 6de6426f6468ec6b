package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reconcile/internal/shared"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "reconcile",
		Usage:   "Reconcile track & playlist catalogs against a database",
		Version: "0.1.0",
		Writer:  r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override log.level (debug, info, warn, error)",
			},
		},
		Before:   r.loadConfig,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){setupCommand, syncCommand, runsCommand} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig replaces the runner's config with the --config file when it exists and applies the log level.
func (r *Runner) loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path != "" {
		r.configPath = path
	}

	config, err := shared.LoadConfig(r.configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Debug("config file not found, using current settings", "path", r.configPath)
	case err != nil:
		return ctx, fmt.Errorf("failed to load %s: %w", r.configPath, err)
	default:
		r.config = config
		r.logger.Debug("loaded config", "path", r.configPath)
	}

	level := r.config.Log.Level
	if override := cmd.String("log-level"); override != "" {
		level = override
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// connection bundles the handles a command needs for the configured database.
//
// sql is set for sqlite only; gorm only when the gorm backend was requested.
type connection struct {
	sql  *sql.DB
	gorm *gorm.DB
}

func (c *connection) Close() error {
	if c.sql != nil {
		return c.sql.Close()
	}
	if c.gorm != nil {
		db, err := c.gorm.DB()
		if err != nil {
			return err
		}
		return db.Close()
	}
	return nil
}

// connect opens the configured database for backend, applying pending sqlite migrations.
func (r *Runner) connect(backend string) (*connection, error) {
	cfg := r.config.Database
	conn := &connection{}

	switch {
	case cfg.Driver == shared.DriverSQLite:
		db, err := r.openSQLite(true)
		if err != nil {
			return nil, err
		}
		conn.sql = db
	case backend == shared.BackendSQL:
		return nil, fmt.Errorf("%w: backend %q requires the sqlite driver, got %s", shared.ErrInvalidFlag, backend, cfg.Driver)
	}

	if backend == shared.BackendGorm {
		gdb, err := shared.NewGormDB(cfg, conn.sql, r.logger)
		if err != nil {
			conn.Close()
			return nil, err
		}
		conn.gorm = gdb
	}

	return conn, nil
}

// openSQLite opens database.path, applying pending migrations when migrate is set.
func (r *Runner) openSQLite(migrate bool) (*sql.DB, error) {
	path := r.config.Database.Path

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if !migrate {
		return db, nil
	}

	applied, err := shared.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		r.logger.Info("applied migrations", "count", applied, "path", path)
	}
	return db, nil
}

// requireSQLite opens the sqlite database for commands that only work against migrations or the journal.
func (r *Runner) requireSQLite(migrate bool) (*sql.DB, error) {
	if r.config.Database.Driver != shared.DriverSQLite {
		return nil, fmt.Errorf("%w: migrations and the sync run journal require sqlite, got %s", shared.ErrUnsupportedDriver, r.config.Database.Driver)
	}
	return r.openSQLite(migrate)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}

// closeQuietly closes c and logs a failure instead of returning it.
func (r *Runner) closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		r.logger.Warn("failed to close database", "error", err)
	}
}
