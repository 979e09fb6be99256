package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestPlanSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		want     []Settlement
	}{
		{
			name: "two debtors one creditor",
			balances: []Balance{
				{ParticipantID: "a", Net: 200},
				{ParticipantID: "b", Net: -100},
				{ParticipantID: "c", Net: -100},
			},
			want: []Settlement{
				{FromParticipantID: "b", ToParticipantID: "a", Amount: 100},
				{FromParticipantID: "c", ToParticipantID: "a", Amount: 100},
			},
		},
		{
			name: "largest matched first",
			balances: []Balance{
				{ParticipantID: "a", Net: 30},
				{ParticipantID: "b", Net: 70},
				{ParticipantID: "c", Net: -100},
			},
			want: []Settlement{
				{FromParticipantID: "c", ToParticipantID: "b", Amount: 70},
				{FromParticipantID: "c", ToParticipantID: "a", Amount: 30},
			},
		},
		{
			name: "near-zero balances treated as settled",
			balances: []Balance{
				{ParticipantID: "a", Net: 0.005},
				{ParticipantID: "b", Net: -0.005},
			},
			want: nil,
		},
		{
			name:     "no balances",
			balances: nil,
			want:     nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PlanSettlements(tc.balances)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d settlements %v, want %d", len(got), got, len(tc.want))
			}
			for i, w := range tc.want {
				if got[i] != w {
					t.Errorf("settlement[%d] = %+v, want %+v", i, got[i], w)
				}
			}
		})
	}
}

func TestPlanSettlementsDoesNotMutateInput(t *testing.T) {
	balances := []Balance{
		{ParticipantID: "a", Net: 50},
		{ParticipantID: "b", Net: -50},
	}
	PlanSettlements(balances)
	if balances[0].Net != 50 || balances[1].Net != -50 {
		t.Errorf("input balances mutated: %+v", balances)
	}
}

// Settlement conservation: transfers sum to the total positive imbalance and
// applying them drives every net to within a cent of zero.
func TestPlanSettlementsConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 25; trial++ {
		n := 2 + rng.Intn(6)
		balances := make([]Balance, n)
		var runningSum float64
		for i := 0; i < n-1; i++ {
			net := Round2(rng.Float64()*400 - 200)
			balances[i] = Balance{ParticipantID: string(rune('a' + i)), Net: net}
			runningSum += net
		}
		// Force the set to be zero-sum like real balances.
		balances[n-1] = Balance{ParticipantID: string(rune('a' + n - 1)), Net: Round2(-runningSum)}

		var positiveTotal float64
		for _, b := range balances {
			if b.Net > 0.01 {
				positiveTotal += b.Net
			}
		}

		settlements := PlanSettlements(balances)

		var transferred float64
		remaining := make(map[string]float64, n)
		for _, b := range balances {
			remaining[b.ParticipantID] = b.Net
		}
		for _, s := range settlements {
			transferred += s.Amount
			remaining[s.FromParticipantID] += s.Amount
			remaining[s.ToParticipantID] -= s.Amount
		}

		if math.Abs(transferred-positiveTotal) > 0.02 {
			t.Errorf("trial %d: transferred %v, positive imbalance %v", trial, transferred, positiveTotal)
		}
		for id, net := range remaining {
			if math.Abs(net) > 0.02 {
				t.Errorf("trial %d: %s left with net %v after settlements", trial, id, net)
			}
		}
		if len(settlements) > n-1 {
			t.Errorf("trial %d: %d settlements for %d participants", trial, len(settlements), n)
		}
	}
}
