package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/techtrack/internal/config"
	"github.com/idilsaglam/techtrack/internal/logging"
	"github.com/idilsaglam/techtrack/internal/model"
	"github.com/idilsaglam/techtrack/internal/store"
	"github.com/idilsaglam/techtrack/internal/store/jsonstore"
	"github.com/idilsaglam/techtrack/internal/store/sqlitestore"
	"github.com/idilsaglam/techtrack/internal/ui"
	"github.com/idilsaglam/techtrack/internal/view"
)

// App carries root flags and the resources commands share.
type App struct {
	ConfigPath string
	Dir        string
	Backend    string
	Theme      string
	Verbose    bool
	NoColor    bool

	In  io.Reader
	Out io.Writer
	Err io.Writer
	Now func() time.Time

	// Context bounds long-running commands such as watch; nil means
	// context.Background.
	Context context.Context

	cfg     *config.Config
	log     *zap.Logger
	closers []func() error
}

// usageError marks bad invocations (exit code 2).
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string) int {
	return run(args, &App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr, Now: time.Now})
}

func run(args []string, app *App) int {
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetIn(app.In)
	cmd.SetOut(app.Out)
	cmd.SetErr(app.Err)

	ctx := app.Context
	if ctx == nil {
		ctx = context.Background()
	}
	err := cmd.ExecuteContext(ctx)
	app.close()
	if err == nil {
		return 0
	}

	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		ui.Fail(app.Err, err.Error())
		fmt.Fprintln(app.Err, "Run `techtrack --help` for usage.")
		return 2
	}
	ui.Fail(app.Err, err.Error())
	return 1
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "techtrack",
		Short:         "Track the technologies you are learning",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive tracker
  techtrack

  # What is in progress and mentions hooks?
  techtrack ls --filter in-progress --search hooks

  # Advance item 4 and write a note on it
  techtrack cycle 4
  techtrack notes 4 "nested routes, loaders"

  # Pick something new to learn and start it
  techtrack random --start
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.log != nil {
				_ = app.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return runTUI(app)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TECHTRACK_CONFIG", config.DefaultPath()), "Path to config.yaml")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data directory (default: storage.dir from config, else the working directory)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (json|sqlite)")
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", "", "Output theme (classic|neon|mono)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newCycleCmd(app))
	cmd.AddCommand(newNotesCmd(app))
	cmd.AddCommand(newCompleteAllCmd(app))
	cmd.AddCommand(newResetAllCmd(app))
	cmd.AddCommand(newRandomCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newWatchCmd(app))

	return cmd
}

// setup loads config (defaults < file < env < flags) and builds the logger.
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if a.Dir != "" {
		cfg.Storage.Dir = a.Dir
	}
	if a.Backend != "" {
		cfg.Storage.Backend = a.Backend
	}
	if a.Theme != "" {
		cfg.UI.Theme = a.Theme
	}
	if a.NoColor {
		cfg.UI.NoColor = true
	}
	if a.Verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return usageError{msg: err.Error()}
	}
	a.cfg = cfg

	ui.SetTheme(cfg.UI.Theme)
	if cfg.UI.NoColor {
		ui.SetColorForcing(false, true)
	}

	interactive := cmd.Name() == "tui" || !cmd.HasParent()
	if interactive {
		a.log, err = logging.ForTUI(cfg.Logging.Level, cfg.Logging.File)
	} else {
		a.log, err = logging.New(cfg.Logging.Level, cfg.Logging.File)
	}
	if err != nil {
		return err
	}
	return nil
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

func (a *App) dataDir() (string, error) {
	if a.cfg.Storage.Dir != "" {
		return a.cfg.Storage.Dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return wd, nil
}

// openBackend opens the configured storage and reports the file that
// changes when it is written.
func (a *App) openBackend() (store.Backend, string, error) {
	dir, err := a.dataDir()
	if err != nil {
		return nil, "", err
	}
	switch a.cfg.Storage.Backend {
	case config.BackendSQLite:
		s, err := sqlitestore.Open(context.Background(), filepath.Join(dir, sqlitestore.FileName))
		if err != nil {
			return nil, "", err
		}
		a.closers = append(a.closers, s.Close)
		return s, s.Path(), nil
	default:
		s, err := jsonstore.New(dir)
		if err != nil {
			return nil, "", err
		}
		return s, s.Path(a.cfg.Storage.Key), nil
	}
}

// openStore opens the backend and loads the collection.
func (a *App) openStore() (*store.Store, error) {
	b, _, err := a.openBackend()
	if err != nil {
		return nil, err
	}
	st := store.New(b,
		store.WithKey(a.cfg.Storage.Key),
		store.WithLogger(a.log),
		store.WithClock(a.Now),
	)
	st.Load()
	st.Subscribe(func(items []model.TrackedItem) {
		s := view.Compute(items)
		a.log.Debug("collection changed",
			zap.Int("completed", s.Completed),
			zap.Int("total", s.Total),
			zap.Int("progress", s.Progress))
	})
	return st, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil {
		return 0, usagef("not a technology id: %s", s)
	}
	return id, nil
}

// usageArgs turns cobra's argument validation failures into usage errors.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError{msg: fmt.Sprintf("%s: %v (usage: %s)", cmd.Name(), err, cmd.UseLine())}
		}
		return nil
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
