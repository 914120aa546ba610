package settlement

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// solveClustered handles medium groups. Balances are sorted by magnitude and cut into
// clusterCount consecutive chunks, each chunk is settled on its own with the heuristic,
// and whatever the chunks could not clear is settled in one final heuristic pass.
//
// When parallel is set the chunks are solved concurrently; results are merged in
// chunk order so the output matches the sequential path.
func solveClustered(balances []Balance, clusterCount int, parallel bool) []Settlement {
	sorted := rounded(balances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Amount) > math.Abs(sorted[j].Amount)
	})

	clusters := partition(sorted, clusterCount)
	results := make([][]Settlement, len(clusters))

	if parallel {
		var g errgroup.Group
		for i, cluster := range clusters {
			i, cluster := i, cluster // per-iteration copies (go 1.21 loop semantics)
			g.Go(func() error {
				results[i] = solveHeuristic(cluster)
				return nil
			})
		}
		_ = g.Wait() // cluster solves never fail
	} else {
		for i, cluster := range clusters {
			results[i] = solveHeuristic(cluster)
		}
	}

	var settlements []Settlement
	for _, r := range results {
		settlements = append(settlements, r...)
	}

	// Residual: whatever the clusters left unsettled, across cluster boundaries
	after := Apply(sorted, settlements)
	var residual []Balance
	for _, b := range sorted {
		if amount := after[b.UserID]; !IsDust(amount) {
			b.Amount = amount
			residual = append(residual, b)
		}
	}

	return append(settlements, solveHeuristic(residual)...)
}

// partition cuts sorted balances into chunks of ceil(n/count) consecutive entries.
func partition(sorted []Balance, count int) [][]Balance {
	if count < 1 {
		count = 1
	}
	size := (len(sorted) + count - 1) / count
	if size < 1 {
		return nil
	}

	var clusters [][]Balance
	for start := 0; start < len(sorted); start += size {
		end := min(start+size, len(sorted))
		clusters = append(clusters, sorted[start:end])
	}
	return clusters
}
