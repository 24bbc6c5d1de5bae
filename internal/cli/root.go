// Package cli implements the tutorchat CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/averyli/tutorchat/internal/memory"
	"github.com/averyli/tutorchat/internal/mode"
)

var (
	dbPath      string
	formatFlag  string
	userFlag    string
	catalogPath string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "tutorchat",
	Short: "Mode-based AI chat with normalized, step-segmented replies",
	Long:  "A chat client core that routes prompts to hosted LLM backends by mode, remembers recent context, and cleans raw replies into structured blocks.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $TUTORCHAT_DB or ~/.tutorchat/chat.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "local", "User identity for memory and history")
	RootCmd.PersistentFlags().StringVar(&catalogPath, "modes-file", "", "TOML file overriding the built-in mode catalog")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("TUTORCHAT_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tutorchat", "chat.db")
}

func openStore() (*memory.SQLiteStore, error) {
	return memory.NewSQLiteStore(getDBPath())
}

func loadCatalog() (mode.Catalog, error) {
	if catalogPath == "" {
		return mode.Default(), nil
	}
	return mode.Load(catalogPath)
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if os.Getenv("TUTORCHAT_DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
