// Command ozi converts OziExplorer waypoint files and keeps them in a
// waypoint store.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ozikit/ozi/internal/config"
	"github.com/ozikit/ozi/internal/logging"
	"github.com/ozikit/ozi/internal/storage"
	"github.com/spf13/cobra"
)

// ToolName prefixes log file names.
const ToolName = "ozi"

// app holds the state shared by all commands of one invocation.
type app struct {
	configDir string
	logLevel  string
	logFile   string

	logs    *logging.SlogManager
	logOut  *os.File
	started time.Time

	// newBackend opens the configured waypoint store
	newBackend func(cfg config.StorageConfig, logs *logging.SlogManager) (storage.Backend, error)
}

func newApp() *app {
	return &app{
		logs:       logging.NewSlogManager(),
		newBackend: createStorageBackend,
	}
}

func (a *app) logger() *slog.Logger {
	return a.logs.Logger()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           ToolName,
		Short:         "convert and store OziExplorer waypoint files",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configDir, "config", "", "directory containing "+config.FileName)
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default from config)")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file; stderr keeps warnings and errors")

	root.AddCommand(
		a.showCmd(),
		a.importCmd(),
		a.exportCmd(),
		a.listCmd(),
		a.deleteCmd(),
		a.geojsonCmd(),
		a.buildCmd(),
		a.nstCmd(),
		a.trackCmd(),
	)
	return root
}

// setup loads the configuration and starts logging.
func (a *app) setup(cmd *cobra.Command) error {
	a.started = time.Now()

	if err := config.Load(a.configDir); err != nil {
		return err
	}

	level := a.logLevel
	if level == "" {
		level = config.GetString("logLevel")
	}

	path := a.logFile
	if path == "" {
		if dir := config.GetString("logsDir"); dir != "" {
			path = logging.LogFilePath(dir, ToolName, cmd.Name(), a.started)
		}
	}

	var out io.Writer
	if path != "" {
		f, err := logging.OpenLogFile(path)
		if err != nil {
			return err
		}
		a.logOut = f
		out = f
	}

	name := cmd.Name()
	a.logs.Setup(out, level, func() []slog.Attr {
		return []slog.Attr{slog.String("cmd", name)}
	})
	return nil
}

func (a *app) teardown() error {
	a.logger().Debug("Done", "duration", time.Since(a.started))
	if a.logOut == nil {
		return nil
	}
	err := a.logOut.Close()
	a.logOut = nil
	return err
}

// withBackend opens the configured store for the duration of fn.
func (a *app) withBackend(fn func(storage.Backend) error) (err error) {
	cfg := config.GetStorageConfig()
	backend, err := a.newBackend(cfg, a.logs)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		backend.Close()
		return fmt.Errorf("failed to initialize %s storage: %w", cfg.Type, err)
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(backend)
}

func main() {
	a := newApp()
	if err := a.rootCmd().Execute(); err != nil {
		a.logger().Error("Command failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		a.teardown()
		os.Exit(1)
	}
}
