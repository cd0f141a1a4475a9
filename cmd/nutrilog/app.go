package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/nutritrack/backend/config"
	"github.com/pageza/nutritrack/backend/internal/logging"
	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/storage"
)

// app holds the stores opened for one invocation.
type app struct {
	dbPath  string
	verbose bool

	log        *zap.Logger
	backend    *storage.Backend
	identity   *service.IdentityStore
	profiles   *service.ProfileStore
	foodLog    *service.FoodLogStore
	recognizer service.Recognizer
	session    *service.Session
	loc        *time.Location
	now        func() time.Time
}

// run executes one command line and releases the database afterwards.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{now: time.Now}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "nutrilog",
		Short: "Track meals, macros and body metrics",
		Long: `nutrilog keeps a personal food log with estimated nutrition values.

Register and log in once; the session is remembered in the database file
until you log out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.dbPath, "db", "nutrilog.db", "SQLite database file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProfileCmd(a),
		newFoodCmd(a),
		newStatsCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	cfg.StorageBackend = config.StorageSQLite
	cfg.SQLitePath = a.dbPath

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	if a.log, err = logging.New(config.GetEnvironment(), level); err != nil {
		return err
	}

	if a.loc, err = cfg.Location(); err != nil {
		return err
	}

	images, err := imageStore(ctx, cfg, a.log)
	if err != nil {
		return err
	}

	if a.backend, err = storage.Open(ctx, cfg, a.log); err != nil {
		return fmt.Errorf("failed to open %s: %w", a.dbPath, err)
	}

	a.identity = service.NewIdentityStore(a.backend.Store, a.log, service.WithSessionPersistence())
	a.profiles = service.NewProfileStore(a.identity, a.log)
	a.foodLog = service.NewFoodLogStore(a.backend.Store, a.log,
		service.WithImageStore(images),
		service.WithLocation(a.loc),
		service.WithFoodLogClock(a.now))
	a.recognizer = service.NewMockRecognizer(a.log, service.WithDelay(cfg.RecognitionDelay))

	a.session, err = a.identity.Restore(ctx)
	return err
}

func imageStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.ImageStore, error) {
	if cfg.ImageStorage != config.ImageStorageS3 {
		return service.InlineImageStore{}, nil
	}
	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return service.NewS3ImageStore(s3Config, log), nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}

// parseDay reads a YYYY-MM-DD flag value, defaulting to today.
func (a *app) parseDay(value string) (time.Time, error) {
	if value == "" {
		return a.now().In(a.loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}
