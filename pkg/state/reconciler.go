package state

import (
	"fmt"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/identity"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/logger"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/store"
)

// PromptFunc obtains an account name for a live credential the state does not
// know about. The CLI layer injects an interactive prompt here.
type PromptFunc func() (string, error)

// Reconciler repairs the persisted state against the live credential.
//
// A user may log in outside the switcher, leaving the state pointing at an
// account the live credential no longer belongs to. Reconciliation detects
// this by identity rather than by name, so a silently swapped credential is
// never backed up under the wrong account.
type Reconciler struct {
	store  *store.Store
	file   *File
	prompt PromptFunc
}

// NewReconciler creates a Reconciler. prompt may be nil, in which case an
// unknown live credential surfaces as an error instead of a prompt.
func NewReconciler(s *store.Store, f *File, prompt PromptFunc) *Reconciler {
	return &Reconciler{store: s, file: f, prompt: prompt}
}

// Resolve returns the reconciled state, persisting any repairs.
//
// Transitions, in order:
//   - Live credential's identity matches a saved account by identity: that
//     name becomes current (previous takes the old current) if it differs.
//   - Current is set but its saved credential's identity differs from the
//     live one: current is stale and is cleared.
//   - Current is empty while a live credential exists: the prompt collaborator
//     names it, and it is saved and established as current.
//   - No live credential: the persisted state is returned as-is.
func (r *Reconciler) Resolve() (models.SessionState, error) {
	st := r.file.Load()

	if r.store.LiveAuthExists() {
		liveID := identity.FromFile(r.store.LiveAuthPath())
		if liveID != "" {
			if matched := r.store.MatchByIdentity(liveID); matched != "" {
				if st.Current != matched {
					logger.Info("live credential matches saved account, updating state",
						"matched", matched, "was", st.Current)
					st.Previous = st.Current
					st.Current = matched
					if err := r.file.Save(st); err != nil {
						return st, fmt.Errorf("persist reconciled state: %w", err)
					}
				}
				return st, nil
			}

			if st.Current != "" {
				savedID := identity.FromFile(r.store.Path(st.Current))
				if savedID != "" && savedID != liveID {
					logger.Info("live credential does not match saved current, clearing",
						"current", st.Current)
					st.Current = ""
				}
			}
		}
	}

	if st.Current == "" && r.store.LiveAuthExists() {
		if r.prompt == nil {
			return st, fmt.Errorf("current account is unknown; a name is required")
		}
		name, err := r.prompt()
		if err != nil {
			return st, err
		}
		if err := r.store.SaveCurrent(name); err != nil {
			return st, err
		}
		st = models.SessionState{Current: name}
		if err := r.file.Save(st); err != nil {
			return st, fmt.Errorf("persist established state: %w", err)
		}
	}

	return st, nil
}
