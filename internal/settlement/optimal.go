package settlement

import (
	"math"
	"math/bits"
)

// MaxOptimalParticipants bounds the subset search. Above it the optimal strategy
// falls back to solveExact.
const MaxOptimalParticipants = 16

// solveOptimal returns a minimum-size settlement list for small groups.
//
// A group of k balances that sums to zero can always be cleared with k-1 payments,
// so the fewest payments overall is n minus the largest number of disjoint zero-sum
// subsets. That number is found with a DP over bitmasks in integer cents:
//
//	best[mask] = max over i in mask of best[mask without i] + (sum[mask] == 0 ? 1 : 0)
//
// Walking the DP back from the full mask yields the subsets, each of which is then
// cleared by the two-pointer sweep. O(2^n * n) time and space.
func solveOptimal(balances []Balance) []Settlement {
	var active []Balance
	for _, b := range rounded(balances) {
		if !IsDust(b.Amount) {
			active = append(active, b)
		}
	}
	n := len(active)
	if n < 2 {
		return nil
	}
	if n > MaxOptimalParticipants {
		return solveExact(active)
	}

	cents := make([]int64, n)
	for i, b := range active {
		cents[i] = int64(math.Floor(b.Amount*100 + 0.5))
	}

	full := 1<<n - 1
	sum := make([]int64, full+1)
	best := make([]int, full+1)
	for mask := 1; mask <= full; mask++ {
		low := bits.TrailingZeros(uint(mask))
		sum[mask] = sum[mask&(mask-1)] + cents[low]

		for m := mask; m != 0; m &= m - 1 {
			i := bits.TrailingZeros(uint(m))
			if v := best[mask&^(1<<i)]; v > best[mask] {
				best[mask] = v
			}
		}
		if sum[mask] == 0 {
			best[mask]++
		}
	}

	var settlements []Settlement
	for _, group := range zeroSumGroups(full, sum, best) {
		members := make([]Balance, 0, bits.OnesCount(uint(group)))
		for m := group; m != 0; m &= m - 1 {
			members = append(members, active[bits.TrailingZeros(uint(m))])
		}
		settlements = append(settlements, solveHeuristic(members)...)
	}
	return settlements
}

// zeroSumGroups walks the DP from the full mask down to the empty one, removing one
// element per step along an optimal path. Every zero-sum mask on the path closes a
// group. A leftover non-zero group is returned last when the input is unbalanced.
func zeroSumGroups(full int, sum []int64, best []int) []int {
	var groups []int
	mask, boundary := full, full
	for mask != 0 {
		next := -1
		for m := mask; m != 0; m &= m - 1 {
			i := bits.TrailingZeros(uint(m))
			cand := mask &^ (1 << i)
			if next < 0 || best[cand] > best[next] {
				next = cand
			}
		}
		mask = next
		if mask == 0 || sum[mask] == 0 {
			if group := boundary &^ mask; group != 0 {
				groups = append(groups, group)
			}
			boundary = mask
		}
	}

	// Groups were collected from the top down; the first one may be the unbalanced
	// remainder, so report it last.
	for l, r := 0, len(groups)-1; l < r; l, r = l+1, r-1 {
		groups[l], groups[r] = groups[r], groups[l]
	}
	return groups
}
