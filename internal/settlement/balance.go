// Package settlement computes the payments that clear a household's net balances.
//
// Callers supply one Balance per member (already netted from expenses, splits and
// prior settlements) and receive a list of Settlements that, once paid, bring every
// balance to within one cent of zero. The package holds no state between calls.
package settlement

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the settlement threshold. Balances smaller than this are dust.
const Epsilon = 0.01

// ErrInvalidInput is returned when a balance list cannot be settled meaningfully.
var ErrInvalidInput = errors.New("invalid input")

// Balance is one member's net position at settlement time.
type Balance struct {
	// UserID identifies the member. Unique per input set.
	UserID string

	// Amount is the signed net balance in major units.
	// Negative = owes money, positive = is owed money.
	Amount float64

	// Profile is display data carried through to the result untouched.
	Profile any
}

// Settlement is one suggested payment from a debtor to a creditor.
type Settlement struct {
	From   string  // Debtor paying
	To     string  // Creditor receiving
	Amount float64 // Always positive, rounded to cents

	FromProfile any
	ToProfile   any
}

// Round rounds an amount to cents, half up.
func Round(amount float64) float64 {
	return math.Floor(amount*100+0.5) / 100
}

// IsDust reports whether the amount is below the settlement threshold.
func IsDust(amount float64) bool {
	return math.Abs(amount) < Epsilon
}

// isDebt and isCredit classify a balance that still needs settling.
func isDebt(amount float64) bool { return amount < 0 && !IsDust(amount) }
func isCredit(amount float64) bool { return amount > 0 && !IsDust(amount) }

// nearlyEqual compares cent amounts, absorbing float noise but not a whole cent.
func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon/2
}

// Validate rejects balances with non-finite amounts, empty ids, or duplicate ids.
func Validate(balances []Balance) error {
	seen := make(map[string]struct{}, len(balances))
	for i, b := range balances {
		if b.UserID == "" {
			return fmt.Errorf("%w: balance %d has empty user id", ErrInvalidInput, i)
		}
		if math.IsNaN(b.Amount) || math.IsInf(b.Amount, 0) {
			return fmt.Errorf("%w: non-finite amount for user %s", ErrInvalidInput, b.UserID)
		}
		if _, dup := seen[b.UserID]; dup {
			return fmt.Errorf("%w: duplicate user id %s", ErrInvalidInput, b.UserID)
		}
		seen[b.UserID] = struct{}{}
	}
	return nil
}

// Apply replays settlements against the balances and returns the resulting
// per-user amounts, rounded to cents. Users not present in balances are added.
func Apply(balances []Balance, settlements []Settlement) map[string]float64 {
	result := make(map[string]float64, len(balances))
	for _, b := range balances {
		result[b.UserID] = Round(b.Amount)
	}
	for _, s := range settlements {
		// Paying raises the debtor's balance, receiving lowers the creditor's
		result[s.From] = Round(result[s.From] + s.Amount)
		result[s.To] = Round(result[s.To] - s.Amount)
	}
	return result
}

// newSettlement builds a settlement between two balances, copying their profiles.
func newSettlement(debtor, creditor Balance, amount float64) Settlement {
	return Settlement{
		From:        debtor.UserID,
		To:          creditor.UserID,
		Amount:      Round(amount),
		FromProfile: debtor.Profile,
		ToProfile:   creditor.Profile,
	}
}

// rounded returns a working copy with every amount rounded to cents.
func rounded(balances []Balance) []Balance {
	out := make([]Balance, len(balances))
	for i, b := range balances {
		b.Amount = Round(b.Amount)
		out[i] = b
	}
	return out
}
