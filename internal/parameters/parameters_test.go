package parameters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigString(t *testing.T) {
	params := NewFromConfigString("minimax, max_depth=4,randomness=0.5,,path=a=b")
	assert.Equal(t, Params{
		"minimax":    "",
		"max_depth":  "4",
		"randomness": "0.5",
		"path":       "a=b",
	}, params)
	assert.Equal(t, []string{"max_depth", "minimax", "path", "randomness"}, params.Keys())
	assert.Empty(t, NewFromConfigString(""))
}

func TestGetParamOr(t *testing.T) {
	params := NewFromConfigString("ab,max_depth=4,randomness=0.5,seed=17,name=x,verbose=false,bad=z")

	ab, err := GetParamOr(params, "ab", false)
	require.NoError(t, err)
	assert.True(t, ab)

	verbose, err := GetParamOr(params, "verbose", true)
	require.NoError(t, err)
	assert.False(t, verbose)

	depth, err := GetParamOr(params, "max_depth", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, depth)

	missing, err := GetParamOr(params, "missing", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, missing)

	randomness, err := GetParamOr(params, "randomness", float32(0))
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), randomness)

	randomness64, err := GetParamOr(params, "randomness", 0.0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, randomness64)

	seed, err := GetParamOr(params, "seed", uint64(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(17), seed)

	name, err := GetParamOr(params, "name", "")
	require.NoError(t, err)
	assert.Equal(t, "x", name)

	params["max_time"] = "1m30s"
	maxTime, err := GetParamOr(params, "max_time", time.Duration(0))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, maxTime)

	_, err = GetParamOr(params, "bad", 1)
	assert.Error(t, err)
	_, err = GetParamOr(params, "bad", false)
	assert.Error(t, err)

	// Keys without value for non-bool types keep the default.
	depth, err = GetParamOr(params, "ab", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, depth)
}

func TestPopParamOr(t *testing.T) {
	params := NewFromConfigString("minimax,max_depth=2")
	depth, err := PopParamOr(params, "max_depth", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)
	assert.Equal(t, []string{"minimax"}, params.Keys())

	// Failed parsing leaves the parameter in place.
	params = NewFromConfigString("max_depth=x")
	_, err = PopParamOr(params, "max_depth", 3)
	assert.Error(t, err)
	assert.Len(t, params, 1)
}
