// Package narrative turns a computed budget plan into a short plain-text
// summary. A remote text-generation service can be plugged in; the local
// generator is deterministic and always available as a fallback.
package narrative

import (
	"context"
	"strconv"
	"strings"

	"tripsplit/internal/core"
)

// PlanContext is everything a generator may mention about a plan.
type PlanContext struct {
	TripName   string
	Budget     float64
	Days       int
	PerDay     float64
	Categories []core.CategoryAmount
	Notes      []string
}

// Generator produces a narrative for a plan. Implementations must not
// mutate the context.
type Generator interface {
	PlanNarrative(ctx context.Context, plan PlanContext) (string, error)
}

// Local renders the plan as fixed-format text with no external calls.
type Local struct{}

func (Local) PlanNarrative(_ context.Context, plan PlanContext) (string, error) {
	var b strings.Builder
	b.WriteString("Per-day budget: ")
	b.WriteString(formatAmount(plan.PerDay))
	b.WriteString(" over ")
	b.WriteString(strconv.Itoa(plan.Days))
	b.WriteString(" days")
	if len(plan.Categories) > 0 {
		b.WriteString("\nCategory allocations:")
		for _, c := range plan.Categories {
			b.WriteString("\n- ")
			b.WriteString(c.Name)
			b.WriteString(": ")
			b.WriteString(formatAmount(c.Amount))
		}
	}
	if len(plan.Notes) > 0 {
		b.WriteString("\nAlerts:")
		for _, n := range plan.Notes {
			b.WriteString("\n- ")
			b.WriteString(n)
		}
	}
	return b.String(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
