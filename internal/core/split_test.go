package core

import (
	"errors"
	"math"
	"testing"
)

func splitSum(splits []Split) float64 {
	var sum float64
	for _, s := range splits {
		sum += s.Amount
	}
	return Round2(sum)
}

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		participants []string
		want         []float64
	}{
		{
			name:         "100 among three",
			total:        100.00,
			participants: []string{"a", "b", "c"},
			want:         []float64{33.33, 33.33, 33.34},
		},
		{
			name:         "even division",
			total:        90.00,
			participants: []string{"a", "b", "c"},
			want:         []float64{30.00, 30.00, 30.00},
		},
		{
			name:         "single participant",
			total:        42.50,
			participants: []string{"a"},
			want:         []float64{42.50},
		},
		{
			name:         "zero total",
			total:        0,
			participants: []string{"a", "b"},
			want:         []float64{0, 0},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			splits, err := EqualSplit(tc.total, tc.participants)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(splits) != len(tc.want) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tc.want))
			}
			for i, w := range tc.want {
				if splits[i].Amount != w {
					t.Errorf("split[%d] = %v, want %v", i, splits[i].Amount, w)
				}
			}
			if got := splitSum(splits); got != Round2(tc.total) {
				t.Errorf("splits sum to %v, want %v", got, tc.total)
			}
		})
	}
}

func TestEqualSplitNoParticipants(t *testing.T) {
	if _, err := EqualSplit(100, nil); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants, got %v", err)
	}
}

// Exact-sum law: splits always sum to the total regardless of how unevenly
// cents distribute.
func TestEqualSplitExactSum(t *testing.T) {
	totals := []float64{0.01, 0.10, 1, 7.77, 10, 99.99, 100, 123.45, 1000.01}
	for n := 1; n <= 9; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		for _, total := range totals {
			splits, err := EqualSplit(total, ids)
			if err != nil {
				t.Fatalf("n=%d total=%v: %v", n, total, err)
			}
			if got := splitSum(splits); got != Round2(total) {
				t.Errorf("n=%d total=%v: splits sum to %v", n, total, got)
			}
		}
	}
}

func TestUnequalSplit(t *testing.T) {
	t.Run("valid amounts used as-is", func(t *testing.T) {
		splits, err := UnequalSplit(100, []string{"a", "b", "c"}, []float64{50, 30, 20})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, want := range []float64{50, 30, 20} {
			if splits[i].Amount != want {
				t.Errorf("split[%d] = %v, want %v", i, splits[i].Amount, want)
			}
		}
	})

	t.Run("mismatch reports both sums", func(t *testing.T) {
		_, err := UnequalSplit(100, []string{"a", "b", "c"}, []float64{40, 40, 10})
		var mismatch *SplitMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected SplitMismatchError, got %v", err)
		}
		if mismatch.Want != 100 || mismatch.Got != 90 {
			t.Errorf("mismatch = {Want:%v Got:%v}, want {Want:100 Got:90}", mismatch.Want, mismatch.Got)
		}
	})

	t.Run("within one cent tolerance", func(t *testing.T) {
		if _, err := UnequalSplit(100, []string{"a", "b"}, []float64{50.00, 49.99}); err != nil {
			t.Fatalf("0.01 difference should be tolerated: %v", err)
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		if _, err := UnequalSplit(100, []string{"a", "b"}, []float64{100}); !errors.Is(err, ErrSplitCountMismatch) {
			t.Fatalf("expected ErrSplitCountMismatch, got %v", err)
		}
	})
}

func TestPercentageSplit(t *testing.T) {
	t.Run("250 at 40/30/30", func(t *testing.T) {
		splits, err := PercentageSplit(250, []string{"a", "b", "c"}, []float64{40, 30, 30})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, want := range []float64{100.00, 75.00, 75.00} {
			if splits[i].Amount != want {
				t.Errorf("split[%d] = %v, want %v", i, splits[i].Amount, want)
			}
		}
	})

	t.Run("last absorbs remainder", func(t *testing.T) {
		splits, err := PercentageSplit(100, []string{"a", "b", "c"}, []float64{33.33, 33.33, 33.34})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := splitSum(splits); got != 100 {
			t.Errorf("splits sum to %v, want 100", got)
		}
	})

	t.Run("percentages not summing to 100", func(t *testing.T) {
		_, err := PercentageSplit(100, []string{"a", "b"}, []float64{60, 50})
		var mismatch *PercentageMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected PercentageMismatchError, got %v", err)
		}
		if mismatch.Got != 110 {
			t.Errorf("mismatch.Got = %v, want 110", mismatch.Got)
		}
	})

	t.Run("0.1 tolerance accepted", func(t *testing.T) {
		if _, err := PercentageSplit(100, []string{"a", "b"}, []float64{50.05, 50.05}); err != nil {
			t.Fatalf("sum of 100.1 should be tolerated: %v", err)
		}
	})
}

func TestPercentageSplitExactSum(t *testing.T) {
	totals := []float64{10, 99.99, 250, 333.33}
	percentages := []float64{17.5, 22.5, 11, 49}
	ids := []string{"a", "b", "c", "d"}
	for _, total := range totals {
		splits, err := PercentageSplit(total, ids, percentages)
		if err != nil {
			t.Fatalf("total=%v: %v", total, err)
		}
		if got := splitSum(splits); math.Abs(got-Round2(total)) > 0 {
			t.Errorf("total=%v: splits sum to %v", total, got)
		}
	}
}
