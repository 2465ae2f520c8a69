package protection

import (
	"context"
	"sort"

	"github.com/teamsched/schedule-manager/internal/platform/logging"
)

// FlagStore is the slice of the grid backend the gate needs: per-surface
// protection flags.
type FlagStore interface {
	SetProtected(ctx context.Context, surface string, protected bool) error
	IsProtected(ctx context.Context, surface string) (bool, error)
}

// Gate serializes writes to protected surfaces. Surfaces stay protected
// against direct writes; a gated function runs with protection suspended
// and the previous flags restored afterwards, panic or not.
type Gate struct {
	flags  FlagStore
	logger *logging.Logger
}

func NewGate(flags FlagStore, logger *logging.Logger) *Gate {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gate{flags: flags, logger: logger}
}

// With suspends protection on every named surface, runs fn, and restores
// the flags it changed. Surfaces are sorted and deduplicated so multi-
// surface callers always acquire in the same order. Restore failures are
// logged and never mask fn's error.
func (g *Gate) With(ctx context.Context, surfaces []string, fn func(ctx context.Context) error) error {
	names := dedupeSorted(surfaces)

	suspended := make([]string, 0, len(names))
	defer func() {
		for i := len(suspended) - 1; i >= 0; i-- {
			name := suspended[i]
			if err := g.flags.SetProtected(ctx, name, true); err != nil {
				g.logger.ErrorContext(ctx, "restore surface protection failed",
					"surface", name,
					"error", err,
				)
			}
		}
	}()

	for _, name := range names {
		protected, err := g.flags.IsProtected(ctx, name)
		if err != nil {
			return err
		}
		if !protected {
			continue
		}
		if err := g.flags.SetProtected(ctx, name, false); err != nil {
			return err
		}
		suspended = append(suspended, name)
	}

	return fn(ctx)
}

func dedupeSorted(surfaces []string) []string {
	seen := make(map[string]struct{}, len(surfaces))
	out := make([]string, 0, len(surfaces))
	for _, s := range surfaces {
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
