// Package api defines the wire messages and Connect bindings for the settlement service.
//
// Messages are plain Go structs encoded as JSON. Amounts are decimals so clients may
// send either `12.5` or `"12.50"`; responses always carry decimal strings with
// two fixed places.
package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Balance is one member's net position.
type Balance struct {
	// UserID identifies the member. Must be unique within a request.
	UserID string `json:"user_id"`

	// Amount is the signed net balance. Negative = owes, positive = is owed.
	Amount decimal.Decimal `json:"amount"`

	// Profile is opaque display data (name, avatar) echoed back on settlements.
	Profile json.RawMessage `json:"profile,omitempty"`
}

// Settlement is one suggested payment.
type Settlement struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	FromProfile json.RawMessage `json:"from_profile,omitempty"`
	ToProfile   json.RawMessage `json:"to_profile,omitempty"`
}

// MarshalJSON writes the amount with exactly two decimal places.
func (s Settlement) MarshalJSON() ([]byte, error) {
	type settlement Settlement
	return json.Marshal(struct {
		settlement
		Amount string `json:"amount"`
	}{settlement(s), s.Amount.StringFixed(2)})
}

// ComputeSettlementsRequest carries the balances to settle. Order does not matter.
type ComputeSettlementsRequest struct {
	Balances []Balance `json:"balances"`
}

// ComputeSettlementsResponse carries the suggested payments.
type ComputeSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`

	// Strategy names the algorithm that produced the settlements.
	Strategy string `json:"strategy"`

	// Participants is the number of non-dust balances considered.
	Participants int `json:"participants"`
}
