package arena

import (
	"fmt"
	"path/filepath"
)

// #region registry
// Built-in arena backends. Each entry assumes an arena checkout under the
// arena root at its id, with an engine entry point honoring the Spec
// command protocol.
var registry = map[string]Spec{
	"gomoku": {
		ID:               "gomoku",
		Command:          []string{"python", "engine.py"},
		Submission:       "main.py",
		TimeoutSeconds:   600,
		ForfeitOnTimeout: true,
	},
	"figgie": {
		ID:               "figgie",
		Command:          []string{"python", "engine.py"},
		Submission:       "main.py",
		TimeoutSeconds:   600,
		ForfeitOnTimeout: true,
	},
	"texasholdem": {
		ID:               "texasholdem",
		Command:          []string{"python", "engine.py"},
		Submission:       "main.py",
		TimeoutSeconds:   600,
		ForfeitOnTimeout: true,
	},
	"corewar": {
		ID:               "corewar",
		Command:          []string{"python", "engine.py"},
		Submission:       "warrior.red",
		TimeoutSeconds:   600,
		ForfeitOnTimeout: true,
	},
	"chess": {
		ID:               "chess",
		Command:          []string{"python", "engine.py"},
		Submission:       "main.py",
		TimeoutSeconds:   1200,
		ForfeitOnTimeout: true,
	},
	"halite3": {
		ID:               "halite3",
		Command:          []string{"python", "engine.py"},
		Submission:       "MyBot.py",
		TimeoutSeconds:   1800,
		ForfeitOnTimeout: false,
	},
	"battlecode24": {
		ID:               "battlecode24",
		Command:          []string{"python", "engine.py"},
		Submission:       "src/mysubmission/RobotPlayer.java",
		TimeoutSeconds:   3600,
		ForfeitOnTimeout: false,
	},
	"bridge": {
		ID:               "bridge",
		Command:          []string{"python", "engine.py"},
		Submission:       "main.py",
		TimeoutSeconds:   900,
		ForfeitOnTimeout: false,
	},
}

// Resolve returns the Spec for an arena id, rooted under arenaRoot.
func Resolve(id, arenaRoot string) (Spec, error) {
	spec, ok := registry[id]
	if !ok {
		return Spec{}, fmt.Errorf("unknown arena %q", id)
	}
	spec.Dir = filepath.Join(arenaRoot, id)
	return spec, nil
}

// IDs lists the registered arena ids.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	return ids
}

// #endregion registry
