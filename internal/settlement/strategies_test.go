package settlement

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairs strips profiles so expectations stay short.
func pairs(settlements []Settlement) []Settlement {
	out := make([]Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = Settlement{From: s.From, To: s.To, Amount: s.Amount}
	}
	return out
}

func TestSolveExact(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		want     []Settlement
	}{
		{
			name:     "direct matches clear everything",
			balances: []Balance{bal("A", -10), bal("B", -20), bal("C", 10), bal("D", 20)},
			want: []Settlement{
				{From: "B", To: "D", Amount: 20},
				{From: "A", To: "C", Amount: 10},
			},
		},
		{
			name:     "direct matches kept before pairing the rest",
			balances: []Balance{bal("A", -10), bal("B", 10), bal("C", -30), bal("D", 20), bal("E", 10)},
			want: []Settlement{
				{From: "A", To: "B", Amount: 10},
				{From: "C", To: "D", Amount: 20},
				{From: "C", To: "E", Amount: 10},
			},
		},
		{
			name:     "chain pairs largest credit with largest debt",
			balances: []Balance{bal("A", -70), bal("B", 45), bal("C", 25)},
			want: []Settlement{
				{From: "A", To: "B", Amount: 45},
				{From: "A", To: "C", Amount: 25},
			},
		},
		{
			name:     "amounts rounded before matching",
			balances: []Balance{bal("A", -19.999), bal("B", 20.001)},
			want: []Settlement{
				{From: "A", To: "B", Amount: 20},
			},
		},
		{
			name:     "single cents still settle",
			balances: []Balance{bal("A", -0.01), bal("B", -0.01), bal("C", 0.02)},
			want: []Settlement{
				{From: "A", To: "C", Amount: 0.01},
				{From: "B", To: "C", Amount: 0.01},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := solveExact(tt.balances)
			assert.Equal(t, tt.want, pairs(got))
			requireSettles(t, tt.balances, got)
		})
	}
}

func TestSolveHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		want     []Settlement
	}{
		{
			name:     "exact matches first",
			balances: []Balance{bal("A", -25), bal("B", -10), bal("C", 10), bal("D", 25)},
			want: []Settlement{
				{From: "A", To: "D", Amount: 25},
				{From: "B", To: "C", Amount: 10},
			},
		},
		{
			name:     "two-pointer sweep",
			balances: []Balance{bal("A", -30), bal("B", -20), bal("C", 10), bal("D", 40)},
			want: []Settlement{
				{From: "A", To: "D", Amount: 30},
				{From: "B", To: "D", Amount: 10},
				{From: "B", To: "C", Amount: 10},
			},
		},
		{
			name: "exact match below the extremes",
			balances: []Balance{
				bal("A", -40), bal("B", -25), bal("C", -10),
				bal("D", 30), bal("E", 25), bal("F", 20),
			},
			want: []Settlement{
				{From: "B", To: "E", Amount: 25},
				{From: "A", To: "D", Amount: 30},
				{From: "A", To: "F", Amount: 10},
				{From: "C", To: "F", Amount: 10},
			},
		},
		{
			name:     "single cents still settle",
			balances: []Balance{bal("A", -0.01), bal("B", -0.01), bal("C", 0.02)},
			want: []Settlement{
				{From: "A", To: "C", Amount: 0.01},
				{From: "B", To: "C", Amount: 0.01},
			},
		},
		{
			name:     "no debtors",
			balances: []Balance{bal("A", 10), bal("B", 20)},
			want:     []Settlement{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := solveHeuristic(tt.balances)
			assert.Equal(t, tt.want, pairs(got))
		})
	}
}

func TestSolveHeuristic_CopiesProfiles(t *testing.T) {
	got := solveHeuristic([]Balance{bal("A", -5), bal("B", 5)})
	require.Len(t, got, 1)
	assert.Equal(t, "profile-A", got[0].FromProfile)
	assert.Equal(t, "profile-B", got[0].ToProfile)
}

func TestPartition(t *testing.T) {
	mk := func(n int) []Balance {
		out := make([]Balance, n)
		for i := range out {
			out[i] = bal(string(rune('A'+i)), float64(n-i))
		}
		return out
	}

	tests := []struct {
		n, count int
		want     []int
	}{
		{7, 3, []int{3, 3, 1}},
		{9, 3, []int{3, 3, 3}},
		{12, 3, []int{4, 4, 4}},
		{10, 1, []int{10}},
		{5, 0, []int{5}},
	}

	for _, tt := range tests {
		clusters := partition(mk(tt.n), tt.count)
		sizes := make([]int, len(clusters))
		for i, c := range clusters {
			sizes[i] = len(c)
		}
		assert.Equal(t, tt.want, sizes, "partition(%d, %d)", tt.n, tt.count)
	}
}

func TestSolveClustered(t *testing.T) {
	balances := []Balance{
		bal("A", -100), bal("B", 90), bal("C", -60), bal("D", 55),
		bal("E", -20), bal("F", 25), bal("G", 10),
	}

	got := solveClustered(balances, 3, false)
	requireSettles(t, balances, got)

	t.Run("cent residuals cross clusters", func(t *testing.T) {
		balances := []Balance{bal("A", 0.08)}
		for _, id := range []string{"B", "C", "D", "E", "F", "G", "H", "I"} {
			balances = append(balances, bal(id, -0.01))
		}

		got := solveClustered(balances, 3, false)
		assert.Len(t, got, 8)
		requireSettles(t, balances, got)
	})
}

func TestSolveClustered_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for n := 7; n <= 12; n++ {
		balances := randomBalances(rng, n)
		sequential := solveClustered(balances, 3, false)
		parallel := solveClustered(balances, 3, true)
		assert.Equal(t, sequential, parallel, "n=%d", n)
	}
}

func TestSolveOptimal(t *testing.T) {
	tests := []struct {
		name      string
		balances  []Balance
		wantCount int
	}{
		{
			name:      "two zero-sum triples",
			balances:  []Balance{bal("A", -1), bal("B", -4), bal("C", 5), bal("D", -2), bal("E", -3), bal("F", 5)},
			wantCount: 4,
		},
		{
			name:      "independent pairs",
			balances:  []Balance{bal("A", -10), bal("B", 10), bal("C", -20), bal("D", 20)},
			wantCount: 2,
		},
		{
			name:      "one group",
			balances:  []Balance{bal("A", -30), bal("B", -20), bal("C", 50)},
			wantCount: 2,
		},
		{
			name:      "dust and zero ignored",
			balances:  []Balance{bal("A", -5), bal("B", 0), bal("C", 0.001), bal("D", 5)},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := solveOptimal(tt.balances)
			assert.Len(t, got, tt.wantCount)
			requireSettles(t, tt.balances, got)
		})
	}
}

func TestSolveOptimal_Unbalanced(t *testing.T) {
	got := solveOptimal([]Balance{bal("A", -10), bal("B", 15)})
	assert.Equal(t, []Settlement{{From: "A", To: "B", Amount: 10}}, pairs(got))
}

func TestSolveOptimal_NeverWorseThanExact(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for n := 2; n <= 8; n++ {
		for round := 0; round < 25; round++ {
			balances := randomBalances(rng, n)
			// Reuse amounts so zero-sum subsets actually occur
			for i := range balances {
				balances[i].Amount = float64(rng.Intn(7)-3) * 5
			}
			var total float64
			for _, b := range balances[:n-1] {
				total += b.Amount
			}
			balances[n-1].Amount = -total

			optimal := solveOptimal(balances)
			exact := solveExact(balances)
			assert.LessOrEqual(t, len(optimal), len(exact), "balances %+v", balances)
			requireSettles(t, balances, optimal)
		}
	}
}
