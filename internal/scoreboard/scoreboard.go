// Package scoreboard persists the number of matches won by each side across runs, in a small YAML file.
package scoreboard

import (
	"os"
	"path/filepath"

	. "github.com/hexcat/trapcat/internal/state"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// DefaultPath is the scoreboard file used if none is given, relative to the user's home directory.
const DefaultPath = ".trapcat/scoreboard.yaml"

// Scoreboard holds the win counters. The zero value is a valid empty scoreboard, not associated to a file.
type Scoreboard struct {
	// PlayerWins counts the matches won by the player placing the fences.
	PlayerWins int `yaml:"player_wins"`

	// CatWins counts the matches won by the cat.
	CatWins int `yaml:"cat_wins"`

	path string
}

// DefaultFilePath returns DefaultPath joined to the user's home directory.
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to find user's home directory for the scoreboard")
	}
	return filepath.Join(home, DefaultPath), nil
}

// Load the scoreboard from path. A missing file is not an error, it loads a scoreboard with zero wins,
// that will be created on Save.
func Load(path string) (*Scoreboard, error) {
	sb := &Scoreboard{path: path}
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			klog.V(1).Infof("Scoreboard %q not found, starting a new one", path)
			return sb, nil
		}
		return nil, errors.Wrapf(err, "failed to read scoreboard from %q", path)
	}
	if err = yaml.Unmarshal(contents, sb); err != nil {
		return nil, errors.Wrapf(err, "failed to parse scoreboard in %q", path)
	}
	if sb.PlayerWins < 0 || sb.CatWins < 0 {
		return nil, errors.Errorf("invalid negative counters in scoreboard %q: player_wins=%d, cat_wins=%d",
			path, sb.PlayerWins, sb.CatWins)
	}
	return sb, nil
}

// Path where the scoreboard is saved.
func (sb *Scoreboard) Path() string {
	return sb.path
}

// Record a match won by winner. It does not save the scoreboard.
func (sb *Scoreboard) Record(winner Side) error {
	switch winner {
	case SideFence:
		sb.PlayerWins++
	case SideCat:
		sb.CatWins++
	default:
		return errors.Errorf("cannot record a win for %s", winner)
	}
	return nil
}

// Save the scoreboard to its path, creating the directory if needed. The file is written to a temporary file
// first and then renamed, so an interrupted save never leaves a truncated scoreboard.
func (sb *Scoreboard) Save() error {
	if sb.path == "" {
		return errors.New("scoreboard has no associated file, it must be created with Load")
	}
	contents, err := yaml.Marshal(sb)
	if err != nil {
		return errors.Wrap(err, "failed to encode scoreboard")
	}
	dir := filepath.Dir(sb.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory %q for scoreboard", dir)
	}
	tmpFile, err := os.CreateTemp(dir, filepath.Base(sb.path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file for scoreboard in %q", dir)
	}
	tmpPath := tmpFile.Name()
	_, err = tmpFile.Write(contents)
	if closeErr := tmpFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to write scoreboard to %q", tmpPath)
	}
	if err = os.Rename(tmpPath, sb.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to rename scoreboard %q to %q", tmpPath, sb.path)
	}
	klog.V(1).Infof("Scoreboard saved to %q: player_wins=%d, cat_wins=%d", sb.path, sb.PlayerWins, sb.CatWins)
	return nil
}
