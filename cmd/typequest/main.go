// TypeQuest is a narrative typing-practice game: a data-driven progression
// engine wrapped in terminal hosts.
// Usage: typequest [play|validate|reset|version] [flags] [game_directory]
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "typequest [game_directory]",
	Short: "A life sim you play with your keyboard",
	Long: `TypeQuest loads a Lua-authored game catalog, tracks your typing
progress through its chapters, and saves automatically.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("game-dir", "", "directory with the game's .lua files")
	rootCmd.PersistentFlags().String("save-dir", "", "directory for save data (default ~/.typequest)")
	rootCmd.PersistentFlags().Bool("plain", false, "use the plain line-based interface")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	viper.BindPFlag("game_dir", rootCmd.PersistentFlags().Lookup("game-dir"))
	viper.BindPFlag("save_dir", rootCmd.PersistentFlags().Lookup("save-dir"))
	viper.BindPFlag("plain", rootCmd.PersistentFlags().Lookup("plain"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(playCmd, validateCmd, resetCmd, versionCmd)
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".typequest")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("typequest")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}
}

// gameDir resolves the content directory: positional arg, then config, then
// the bundled game.
func gameDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if dir := viper.GetString("game_dir"); dir != "" {
		return dir
	}
	return filepath.Join("games", "keyquest")
}

// saveDir resolves where save data lives.
func saveDir() string {
	if dir := viper.GetString("save_dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".typequest"
	}
	return filepath.Join(home, ".typequest")
}
