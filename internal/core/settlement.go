package core

import "sort"

// PlanSettlements converts net balances into an ordered list of payer-to-payee
// transfers using largest-first greedy matching:
//
//  1. Partition into creditors (net > 1 cent) and debtors (net < -1 cent);
//     balances within a cent of zero are treated as already settled.
//  2. Sort both sides descending by absolute net.
//  3. Repeatedly transfer min(creditor remaining, debtor remaining) between
//     the current largest pair, advancing past either side once its remainder
//     falls within a cent of zero.
//
// The transfers sum to exactly the total positive imbalance and applying them
// drives every net to within a cent of zero. The greedy heuristic emits at
// most max(creditors, debtors) transfers, typically n-1; it is a practical
// approximation, not a minimum-cardinality solution.
func PlanSettlements(balances []Balance) []Settlement {
	var creditors, debtors []Balance
	for _, b := range balances {
		switch {
		case b.Net > centEpsilon:
			creditors = append(creditors, b)
		case b.Net < -centEpsilon:
			b.Net = -b.Net
			debtors = append(debtors, b)
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].Net > creditors[j].Net })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].Net > debtors[j].Net })

	var settlements []Settlement
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor, debtor := &creditors[i], &debtors[j]

		amount := creditor.Net
		if debtor.Net < amount {
			amount = debtor.Net
		}
		amount = Round2(amount)

		if amount > centEpsilon {
			settlements = append(settlements, Settlement{
				FromParticipantID: debtor.ParticipantID,
				ToParticipantID:   creditor.ParticipantID,
				Amount:            amount,
			})
		}

		creditor.Net = Round2(creditor.Net - amount)
		debtor.Net = Round2(debtor.Net - amount)

		if creditor.Net < centEpsilon {
			i++
		}
		if debtor.Net < centEpsilon {
			j++
		}
	}
	return settlements
}
