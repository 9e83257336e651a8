// Package generation defines the boundary between the planner core and the
// external plan-generation capability (an LLM in production). The core hands
// the generator a read-only state snapshot and a target date and gets back a
// reasoning/tasks pair, or an error it recovers from locally.
package generation

import (
	"context"

	"github.com/studyloop/studyloop-api/internal/domain"
)

// GeneratedPlan is the raw output of a plan generator before the core
// validates its task references against the user's state.
type GeneratedPlan struct {
	Reasoning string
	Tasks     []domain.PlannedTask
}

// PlanGenerator defines the interface for producing daily plan proposals.
// This interface serves as a boundary between the application core and
// external AI/LLM services; the core never constructs prompts or parses
// model output.
type PlanGenerator interface {
	// GeneratePlan proposes a plan for the given target date based on the
	// provided state snapshot. Implementations must not mutate the snapshot.
	//
	// Returns an error from this package's sentinel set if generation fails
	// for any reason; callers are expected to fall back to a locally
	// computed plan rather than surfacing the failure.
	GeneratePlan(ctx context.Context, state *domain.UserState, date string) (*GeneratedPlan, error)
}
