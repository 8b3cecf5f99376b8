package scoreboard

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/hexcat/trapcat/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "scoreboard.yaml")
	sb, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, sb.PlayerWins)
	assert.Equal(t, 0, sb.CatWins)
	assert.Equal(t, path, sb.Path())
}

func TestRecordAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "scoreboard.yaml")
	sb, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, sb.Record(SideFence))
	require.NoError(t, sb.Record(SideCat))
	require.NoError(t, sb.Record(SideCat))
	assert.Error(t, sb.Record(SideNone))
	require.NoError(t, sb.Save())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "player_wins: 1\ncat_wins: 2\n", string(contents))

	// No temporary files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.PlayerWins)
	assert.Equal(t, 2, reloaded.CatWins)

	// Saving again overwrites the counters.
	require.NoError(t, reloaded.Record(SideFence))
	require.NoError(t, reloaded.Save())
	reloaded, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.PlayerWins)
	assert.Equal(t, 2, reloaded.CatWins)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player_wins: [1, 2]\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("player_wins: -1\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	var sb Scoreboard
	assert.Error(t, sb.Save())
}
