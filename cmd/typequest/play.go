package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nathoo/typequest/cli"
	"github.com/nathoo/typequest/engine"
	"github.com/nathoo/typequest/loader"
	"github.com/nathoo/typequest/persistence"
	"github.com/nathoo/typequest/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [game_directory]",
	Short: "Load a game and play",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	log, err := newLogger(viper.GetString("log_level"))
	if err != nil {
		return err
	}
	defer log.Sync()

	catalog, err := loader.Load(gameDir(args))
	if err != nil {
		return fmt.Errorf("loading game: %w", err)
	}

	store, err := openStore(log)
	if err != nil {
		return fmt.Errorf("opening save store: %w", err)
	}
	defer store.Close()

	// Resume from whatever tier answers; a corrupt or missing save starts
	// fresh.
	data, err := store.Get()
	if err != nil && err != persistence.ErrNotFound {
		log.Warn("reading save", zap.Error(err))
	}
	eng := engine.Resume(catalog, data, nil)

	saver := persistence.NewAutosaver(eng.Marshal, store, persistence.DefaultDebounce, log)
	defer saver.Close()
	eng.AttachSaver(saver)

	if viper.GetBool("plain") || !isTerminal() {
		c := cli.New(eng, catalog)
		c.Saver = saver
		c.Run()
		return nil
	}
	return tui.Run(eng, catalog, saver)
}

// openStore builds the tiered save store: SQLite primary, flat file
// fallback.
func openStore(log *zap.Logger) (persistence.Store, error) {
	dir := saveDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fallback := persistence.NewFileStore(filepath.Join(dir, "save.json"))

	primary, err := persistence.OpenSQLite(filepath.Join(dir, "saves.db"))
	if err != nil {
		// Degrade to the file tier rather than refusing to run.
		log.Warn("primary save store unavailable", zap.Error(err))
		return persistence.NewTiered(nil, fallback, log), nil
	}
	return persistence.NewTiered(primary, fallback, log), nil
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
