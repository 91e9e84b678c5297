package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/cache"
	sqlitecache "github.com/jeremyhon/codex-cli-account-switcher/pkg/cache/sqlite"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/config"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/heuristic"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/resolver"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/state"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/store"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/usage"
)

// app wires the configured collaborators for one command invocation.
type app struct {
	cfg   *config.Config
	store *store.Store
	state *state.File
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:   cfg,
		store: store.New(cfg.DataDir, cfg.LiveAuthPath),
		state: state.NewFile(cfg.StatePath),
	}, nil
}

// reconciler builds a state reconciler with an interactive prompt bound to
// the command's streams.
func (a *app) reconciler(in io.Reader, out io.Writer) *state.Reconciler {
	return state.NewReconciler(a.store, a.state, promptAccountName(in, out))
}

func (a *app) fetcher() *usage.Fetcher {
	return usage.NewFetcher(a.cfg.BaseURL, a.cfg.Usage.Timeout)
}

// openCache opens the SQLite usage cache. The caller owns Close.
func (a *app) openCache() (cache.Cache, error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.CachePath), 0o750); err != nil {
		return nil, fmt.Errorf("ensure cache dir: %w", err)
	}
	return sqlitecache.New(a.cfg.CachePath, a.cfg.Usage.CacheTTL)
}

func (a *app) resolver(c cache.Cache) *resolver.Resolver {
	return resolver.New(a.store, a.fetcher(), c, a.cfg.Usage.Concurrency)
}

func (a *app) heuristicConfig() heuristic.Config {
	return heuristic.Config{
		RollingUnusablePct: a.cfg.Selection.RollingUnusablePct,
		UnknownResetTTRSec: a.cfg.Selection.UnknownResetTTRSec,
	}
}

// requireLiveAuth fails with a login hint when no live credential exists.
func (a *app) requireLiveAuth() error {
	if a.store.LiveAuthExists() {
		return nil
	}
	return fmt.Errorf("%s not found. You likely haven't logged in yet.\nRun: codex login", a.store.LiveAuthPath())
}

// promptAccountName asks for a name for the currently logged-in account.
func promptAccountName(in io.Reader, out io.Writer) state.PromptFunc {
	return func() (string, error) {
		fmt.Fprint(out, "Enter a name for the CURRENT logged-in account (e.g., personal, work): ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read account name: %w", err)
		}
		name := strings.TrimSpace(line)
		if name == "" {
			return "", errors.New("account name cannot be empty")
		}
		return name, nil
	}
}
