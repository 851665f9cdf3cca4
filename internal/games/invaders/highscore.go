package invaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// highScoreFile is the plain-text high score location in the user's home
// directory. It holds a single integer.
const highScoreFile = ".invaders_highscore.txt"

// HighScorePath resolves the high score file location. Falls back to the
// working directory when the home directory is unknown.
func HighScorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return highScoreFile
	}
	return filepath.Join(home, highScoreFile)
}

// LoadHighScore reads the stored high score. A missing file is a normal
// first run and yields 0 silently; any other failure is logged and also
// degrades to 0 rather than interfering with play.
func LoadHighScore(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("failed to read high score file", "path", path, "err", err)
		}
		return 0
	}

	score, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || score < 0 {
		log.Warn("ignoring corrupt high score file", "path", path)
		return 0
	}
	return score
}

// SaveHighScore writes the high score back. Best effort: failures are
// logged and swallowed so a read-only home directory never crashes a game
// over sequence.
func SaveHighScore(path string, score int) {
	if err := os.WriteFile(path, []byte(fmt.Sprintf("%d\n", score)), 0o644); err != nil {
		log.Warn("failed to save high score", "path", path, "err", err)
	}
}
