// retrocade is a terminal hub for playing retro-style games.
//
// Usage:
//
//	retrocade list              - List available games
//	retrocade play <game>       - Play a game
//	retrocade menu              - Start menu to pick games interactively
//	retrocade serve             - Start SSH server for remote play
//	retrocade scores <game>     - Show high scores for a game
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.retrocade/scores.db)
//	--no-sound      - Disable sound effects
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vkazanov/retrocade/internal/games/invaders"
	_ "github.com/vkazanov/retrocade/internal/games/pong"
	_ "github.com/vkazanov/retrocade/internal/games/snake"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagNoSound bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "retrocade",
	Short: "Retrocade - Play retro games in your terminal",
	Long: `Retrocade is a terminal-based gaming hub that lets you play
classic-style games directly in your terminal.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  retrocade list
  retrocade play invaders
  retrocade menu
  retrocade serve --ssh :2222
  retrocade scores invaders`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.retrocade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().BoolVar(&flagNoSound, "no-sound", false, "Disable sound effects")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
