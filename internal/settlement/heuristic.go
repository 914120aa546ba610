package settlement

import (
	"math"
	"sort"
)

// solveHeuristic settles any number of balances in O(n log n).
//
// Algorithm:
// - Split into debtors (most negative first) and creditors (most positive first)
// - Exact-match pass: walk both sides from the largest magnitude down and pair any
//   debtor and creditor whose amounts agree to within half a cent
// - Two-pointer pass: match the current debtor with the current creditor for the
//   smaller of the two amounts, advancing whichever side is settled
//
// The result always clears the balances but is not guaranteed minimal.
func solveHeuristic(balances []Balance) []Settlement {
	var debtors, creditors []Balance
	for _, b := range rounded(balances) {
		if isDebt(b.Amount) {
			debtors = append(debtors, b)
		} else if isCredit(b.Amount) {
			creditors = append(creditors, b)
		}
	}
	if len(debtors) == 0 || len(creditors) == 0 {
		return nil
	}

	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].Amount < debtors[j].Amount })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].Amount > creditors[j].Amount })

	var settlements []Settlement

	// Exact matches settle both sides in a single payment. Both lists run from the
	// largest magnitude down, so the side with the bigger amount cannot match anything
	// further along the other side and is skipped.
	for i, j := 0, 0; i < len(debtors) && j < len(creditors); {
		owed, due := -debtors[i].Amount, creditors[j].Amount
		switch {
		case nearlyEqual(owed, due):
			settlements = append(settlements, newSettlement(debtors[i], creditors[j], math.Min(owed, due)))
			debtors[i].Amount = 0
			creditors[j].Amount = 0
			i++
			j++
		case owed > due:
			i++
		default:
			j++
		}
	}

	// Greedy: match largest debts with largest credits
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		if IsDust(debtors[i].Amount) {
			i++
			continue
		}
		if IsDust(creditors[j].Amount) {
			j++
			continue
		}

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := Round(math.Min(-debtors[i].Amount, creditors[j].Amount))
		if amount <= 0 {
			break
		}
		settlements = append(settlements, newSettlement(debtors[i], creditors[j], amount))

		debtors[i].Amount = Round(debtors[i].Amount + amount)
		creditors[j].Amount = Round(creditors[j].Amount - amount)

		// Both pointers move when the amounts were equal
		if IsDust(debtors[i].Amount) {
			i++
		}
		if IsDust(creditors[j].Amount) {
			j++
		}
	}

	return settlements
}
