// Package players provides a factory of AI players from configuration strings.
// It also allows player providers to register themselves.
package players

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hexcat/trapcat/internal/generics"
	"github.com/hexcat/trapcat/internal/parameters"
	. "github.com/hexcat/trapcat/internal/state"
	"github.com/pkg/errors"
)

// Player is anything that is able to play the game, for either side.
type Player interface {
	fmt.Stringer

	// Play returns the action chosen for side and the score of the position predicted by the player.
	// It doesn't change the given state.
	//
	// If there are no actions available it returns NoAction.
	Play(ctx context.Context, s *GameState, side Side) (action Action, score int, err error)

	// Finalize is called at the end of a match.
	Finalize()
}

// Module must implement NewPlayer called at the start of a match.
//
// Modules should pop (see parameters.PopParamOr) the parameters they use from params: any
// parameters left are reported as unknown.
type Module interface {
	NewPlayer(params parameters.Params) (Player, error)
}

var (
	// Registered external modules.
	keywordToModules = make(map[string]Module)
)

// RegisterModule so it can be used by any of the front-ends to play.
func RegisterModule(name string, module Module) {
	keywordToModules[name] = module
}

// RegisteredModules returns the sorted names of the registered modules.
func RegisteredModules() []string {
	return slices.Collect(generics.SortedKeys(keywordToModules))
}

var (
	// DefaultPlayerConfig is used if no configuration was given to the AI. The value may be changed by the
	// UI built.
	DefaultPlayerConfig = "minimax,max_depth=3"
)

// New creates a new AI player given the configuration string.
//
// Args:
//
//   - config: a comma-separated list of parameters with optional values associated. Exactly one of the parameters
//     must be the name of a registered module (e.g. "minimax", "ab" or "random"), the others are passed to
//     the module. If empty, the default is given by DefaultPlayerConfig.
//     E.g.: "ab,max_depth=4,randomness=0.1".
//
// More details on the config are dependent on the module used.
func New(config string) (Player, error) {
	if config == "" {
		config = DefaultPlayerConfig
	}
	if len(keywordToModules) == 0 {
		return nil, errors.New("no registered modules. Perhaps you need to import _ \"github.com/hexcat/trapcat/internal/players/default\" to your binary ?")
	}
	params := parameters.NewFromConfigString(config)

	// Find module.
	var moduleName string
	for _, key := range params.Keys() {
		if _, found := keywordToModules[key]; !found {
			continue
		}
		if moduleName != "" {
			return nil, errors.Errorf("multiple AI modules (%q and %q) defined in configuration %q",
				moduleName, key, config)
		}
		moduleName = key
	}
	if moduleName == "" {
		return nil, errors.Errorf("no known AI module defined in configuration %q, registered modules are: %s",
			config, strings.Join(RegisteredModules(), ", "))
	}
	if params[moduleName] != "" {
		return nil, errors.Errorf("AI module %q doesn't take a value in configuration %q", moduleName, config)
	}
	delete(params, moduleName)

	player, err := keywordToModules[moduleName].NewPlayer(params)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create AI player %q", moduleName)
	}

	// Check that all parameters were processed.
	if len(params) > 0 {
		return nil, errors.Errorf("unknown AI parameters \"%s\" passed to %q",
			strings.Join(params.Keys(), "\", \""), moduleName)
	}
	return player, nil
}
