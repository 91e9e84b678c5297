// Package heuristic selects the best account to switch to from batch usage
// results.
//
// The selection algorithm is a pluggable strategy: implementations register
// under a name and the configuration picks one at startup. The default
// strategy maximizes weekly urgency.
package heuristic

import (
	"fmt"
	"sort"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
)

// Config carries the tunable parameters for account selection.
type Config struct {
	// RollingUnusablePct filters out accounts whose rolling window has this
	// much or less remaining; they are not usable right now.
	RollingUnusablePct int
	// UnknownResetTTRSec is the time-to-reset assumed for windows with no
	// known reset timestamp. Large by default, so an unknown reset never
	// wins on urgency.
	UnknownResetTTRSec int64
}

// Defaults for Config.
const (
	DefaultRollingUnusablePct = 5
	DefaultUnknownResetTTRSec = 315360000 // ten years
)

// DefaultConfig returns the default selection parameters.
func DefaultConfig() Config {
	return Config{
		RollingUnusablePct: DefaultRollingUnusablePct,
		UnknownResetTTRSec: DefaultUnknownResetTTRSec,
	}
}

// Chooser picks an account name from usage candidates. An empty return means
// no account could be chosen.
type Chooser interface {
	Choose(candidates []models.Candidate, nowTS int64, cfg Config) string
}

// DefaultName selects the built-in weekly-urgency strategy.
const DefaultName = "weekly-urgency"

var registry = map[string]Chooser{
	DefaultName: WeeklyUrgency{},
}

// Register makes a Chooser selectable by name. Registering an existing name
// replaces it.
func Register(name string, c Chooser) {
	registry[name] = c
}

// Lookup returns the Chooser registered under the given name. An empty name
// selects the default strategy.
func Lookup(name string) (Chooser, error) {
	if name == "" {
		name = DefaultName
	}
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q (registered: %v)", name, Names())
	}
	return c, nil
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
