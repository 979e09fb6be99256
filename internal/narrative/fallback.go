package narrative

import (
	"context"
	"log/slog"
)

// WithFallback tries primary and falls back to the deterministic local
// generator on any error, so callers always get a narrative.
type WithFallback struct {
	Primary Generator
	local   Local
}

func NewWithFallback(primary Generator) *WithFallback {
	return &WithFallback{Primary: primary}
}

func (g *WithFallback) PlanNarrative(ctx context.Context, plan PlanContext) (string, error) {
	if g.Primary != nil {
		text, err := g.Primary.PlanNarrative(ctx, plan)
		if err == nil {
			return text, nil
		}
		slog.WarnContext(ctx, "Remote narrative failed, using local fallback",
			"trip", plan.TripName,
			"error", err)
	}
	return g.local.PlanNarrative(ctx, plan)
}
