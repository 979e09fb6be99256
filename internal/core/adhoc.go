package core

// Ad-hoc planning accepts free-form categories carrying either a percentage
// or a raw amount, the shape the budget planner endpoint receives, and turns
// them into concrete per-category amounts.

type (
	// CategoryInput is one free-form planning category. Percent is a pointer
	// so "no percentage given" is distinguishable from an explicit zero.
	CategoryInput struct {
		Name    string
		Amount  float64
		Percent *float64
	}

	// CategoryAmount is a resolved category allocation.
	CategoryAmount struct {
		Name   string
		Amount float64
	}

	// AdHocAllocation is the result of resolving free-form category inputs
	// against a total budget.
	AdHocAllocation struct {
		Categories   []CategoryAmount
		AllocatedSum float64
		Difference   float64
		Notes        []string
	}
)

// AllocateAdHoc resolves free-form categories against totalBudget:
//
//   - If any category carries a percentage and the percentages sum within 0.5
//     of 100, they are applied directly; otherwise all percentages are
//     normalized by their sum before allocating.
//   - If only raw amounts are given and their sum differs from the budget by
//     more than a cent, every amount is rescaled by totalBudget/sum; matching
//     sums are used as-is.
//   - If categories exist but every input resolves to ~0, the budget is
//     distributed evenly in integer cents: floor(totalCents/n) each, with one
//     extra cent to the first (totalCents mod n) categories in input order,
//     so the amounts sum exactly to the budget with no floating residue.
//
// Difference is totalBudget minus the allocated sum; a note is attached when
// it exceeds a cent in either direction.
func AllocateAdHoc(totalBudget float64, categories []CategoryInput) AdHocAllocation {
	resolved := make([]CategoryAmount, len(categories))

	hasPercents := false
	var percentSum float64
	for _, c := range categories {
		if c.Percent != nil {
			hasPercents = true
			percentSum += *c.Percent
		}
	}

	if hasPercents {
		direct := absFloat(percentSum-100) < 0.5
		divisor := percentSum
		if divisor == 0 {
			divisor = 1
		}
		for i, c := range categories {
			var p float64
			if c.Percent != nil {
				p = *c.Percent
			}
			if direct {
				resolved[i] = CategoryAmount{Name: c.Name, Amount: Round2(totalBudget * p / 100)}
			} else {
				resolved[i] = CategoryAmount{Name: c.Name, Amount: Round2(totalBudget * p / divisor)}
			}
		}
	} else {
		var amountSum float64
		for _, c := range categories {
			amountSum += c.Amount
		}
		if absFloat(amountSum-totalBudget) > centEpsilon && amountSum > 0 {
			factor := totalBudget / amountSum
			for i, c := range categories {
				resolved[i] = CategoryAmount{Name: c.Name, Amount: Round2(c.Amount * factor)}
			}
		} else {
			for i, c := range categories {
				resolved[i] = CategoryAmount{Name: c.Name, Amount: Round2(c.Amount)}
			}
		}
	}

	allocatedSum := sumAmounts(resolved)

	// Categories entered without any amounts or percentages: distribute the
	// budget evenly in integer cents so nothing is lost to rounding.
	if len(resolved) > 0 && absFloat(allocatedSum) < centEpsilon {
		totalCents := Cents(totalBudget)
		n := int64(len(resolved))
		base := totalCents / n
		remainder := totalCents - base*n
		for i := range resolved {
			extra := int64(0)
			if remainder > 0 {
				extra = 1
				remainder--
			}
			if resolved[i].Name == "" {
				resolved[i].Name = "category"
			}
			resolved[i].Amount = FromCents(base + extra)
		}
		allocatedSum = sumAmounts(resolved)
	}

	difference := Round2(totalBudget - allocatedSum)
	var notes []string
	if difference < -centEpsilon {
		notes = append(notes, "Allocated categories exceed total budget")
	}
	if difference > centEpsilon {
		notes = append(notes, "Some budget unallocated")
	}

	return AdHocAllocation{
		Categories:   resolved,
		AllocatedSum: Round2(allocatedSum),
		Difference:   difference,
		Notes:        notes,
	}
}

func sumAmounts(categories []CategoryAmount) float64 {
	var sum float64
	for _, c := range categories {
		sum += c.Amount
	}
	return sum
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
