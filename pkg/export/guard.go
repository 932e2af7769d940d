// Package export implements the DOT, D3-JSON, CSV, and N-Triples export
// formats (spec layer L7), all gated by the same node-count size guard.
package export

import (
	"fmt"

	"github.com/codeprop/codeprop/internal/logging"
	"github.com/codeprop/codeprop/pkg/graph"
)

// SizeGuard holds the node-count thresholds checkSize enforces. A zero
// field (or the whole zero value) falls back to DefaultSizeGuard's
// threshold; callers can also convert a pkg/config.SizeGuard.
type SizeGuard struct {
	WarnAt   int
	RefuseAt int
}

// DefaultSizeGuard matches the thresholds pkg/config.Default() sets: warn
// past 10,000 nodes, refuse past 100,000.
var DefaultSizeGuard = SizeGuard{WarnAt: 10_000, RefuseAt: 100_000}

// resolve fills in zero fields from DefaultSizeGuard, so a caller that only
// cares about loosening one threshold doesn't have to restate the other.
func (g SizeGuard) resolve() SizeGuard {
	if g.WarnAt <= 0 {
		g.WarnAt = DefaultSizeGuard.WarnAt
	}
	if g.RefuseAt <= 0 {
		g.RefuseAt = DefaultSizeGuard.RefuseAt
	}
	return g
}

// checkSize enforces the §4.8 size guard: silent under guard.WarnAt, a
// warning on the logger between the two thresholds, and a refusal above
// guard.RefuseAt.
func checkSize(g *graph.Graph, logger *logging.Logger, format string, guard SizeGuard) error {
	guard = guard.resolve()
	n := g.NodeCount()
	if n > guard.RefuseAt {
		return &graph.InvalidOperationError{
			Reason: fmt.Sprintf("%s export refused: %d nodes exceeds the %d node limit", format, n, guard.RefuseAt),
		}
	}
	if n > guard.WarnAt {
		if logger == nil {
			logger = logging.New("[export] ")
		}
		logger.Warnf("%s export of %d nodes exceeds the recommended %d node threshold", format, n, guard.WarnAt)
	}
	return nil
}
