package settlement

import (
	"math"
	"sort"
)

// solveExact handles small groups. It first looks for debtors and creditors whose
// amounts cancel exactly, and if that does not clear everything it repeatedly pairs
// the largest creditor with the largest debtor until no pair remains.
//
// Despite the name this is greedy, not a proven minimum. Ties between equal
// magnitudes go to whichever balance appears first, so output order can depend on
// input order.
func solveExact(balances []Balance) []Settlement {
	sorted := rounded(balances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Amount) > math.Abs(sorted[j].Amount)
	})

	settlements, remaining := directMatches(sorted)
	if len(remaining) == 0 {
		return settlements
	}
	return append(settlements, pairExtremes(remaining)...)
}

// directMatches pairs each debtor with the first unused creditor of equal magnitude,
// to within half a cent.
// It returns the matched settlements and the non-dust balances left unmatched.
func directMatches(sorted []Balance) ([]Settlement, []Balance) {
	used := make([]bool, len(sorted))
	var settlements []Settlement

	for i, debtor := range sorted {
		if used[i] || !isDebt(debtor.Amount) {
			continue
		}
		for j, creditor := range sorted {
			if used[j] || !isCredit(creditor.Amount) {
				continue
			}
			if nearlyEqual(-debtor.Amount, creditor.Amount) {
				amount := math.Min(-debtor.Amount, creditor.Amount)
				settlements = append(settlements, newSettlement(debtor, creditor, amount))
				used[i], used[j] = true, true
				break
			}
		}
	}

	var remaining []Balance
	for i, b := range sorted {
		if !used[i] && !IsDust(b.Amount) {
			remaining = append(remaining, b)
		}
	}
	return settlements, remaining
}

// pairExtremes settles the largest credit against the largest debt until one side
// runs out. Balances that reach zero are dropped from the working list.
func pairExtremes(working []Balance) []Settlement {
	working = append([]Balance(nil), working...)
	var settlements []Settlement

	for {
		maxIdx, minIdx := -1, -1
		for i, b := range working {
			if maxIdx < 0 || b.Amount > working[maxIdx].Amount {
				maxIdx = i
			}
			if minIdx < 0 || b.Amount < working[minIdx].Amount {
				minIdx = i
			}
		}
		if maxIdx < 0 || !isCredit(working[maxIdx].Amount) || !isDebt(working[minIdx].Amount) {
			return settlements
		}

		creditor, debtor := working[maxIdx], working[minIdx]
		amount := Round(math.Min(creditor.Amount, -debtor.Amount))
		if amount <= 0 {
			return settlements
		}
		settlements = append(settlements, newSettlement(debtor, creditor, amount))

		working[maxIdx].Amount = Round(creditor.Amount - amount)
		working[minIdx].Amount = Round(debtor.Amount + amount)

		next := working[:0]
		for _, b := range working {
			if !IsDust(b.Amount) {
				next = append(next, b)
			}
		}
		working = next
	}
}
