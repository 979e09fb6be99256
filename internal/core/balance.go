package core

// AggregateBalances folds a trip's expenses into one net position per
// participant. Every participant appears in the result, including those with
// no expenses (net 0). Expenses paid by someone outside the participant list
// are skipped entirely.
//
// Aggregation is a commutative fold: processing expenses in any order yields
// identical balances. The output order follows the participant input order.
func AggregateBalances(expenses []Expense, participants []Participant) []Balance {
	type position struct {
		paid float64
		owed float64
	}
	positions := make(map[string]*position, len(participants))
	for _, p := range participants {
		positions[p.ID] = &position{}
	}

	for _, exp := range expenses {
		payer, ok := positions[exp.PayerID]
		if !ok {
			continue
		}
		payer.paid += exp.Amount
		for _, split := range exp.Splits {
			if pos, ok := positions[split.ParticipantID]; ok {
				pos.owed += split.Amount
			}
		}
	}

	balances := make([]Balance, len(participants))
	for i, p := range participants {
		pos := positions[p.ID]
		balances[i] = Balance{
			ParticipantID: p.ID,
			Name:          p.Name,
			TotalPaid:     Round2(pos.paid),
			TotalOwed:     Round2(pos.owed),
			Net:           Round2(pos.paid - pos.owed),
		}
	}
	return balances
}

// TotalSpent sums expense amounts in the base currency.
func TotalSpent(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return Round2(total)
}
