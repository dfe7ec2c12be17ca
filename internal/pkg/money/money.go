// Package money computes the platform commission split for a booking.
//
// Amounts are currency minor units (cents). The split is deterministic and
// exact: commission is the half-up rounding of price*rate and the payout is
// whatever remains, so the two always sum back to the price.
package money

import (
	"errors"
	"math/big"
)

// ErrInvalidInput is returned for a negative price or a rate outside [0, 1).
// Inputs are never clamped.
var ErrInvalidInput = errors.New("invalid price or commission rate")

// Breakdown is the commission split frozen onto a booking at creation time.
type Breakdown struct {
	Commission int64 `json:"commission"`
	Payout     int64 `json:"payout"`
}

// Split divides price between the platform and the provider.
// price is in minor units, rate is a fraction in [0, 1).
func Split(price int64, rate float64) (Breakdown, error) {
	if price < 0 || rate < 0 || rate >= 1 {
		return Breakdown{}, ErrInvalidInput
	}

	rat := new(big.Rat).SetFloat64(rate)
	if rat == nil {
		return Breakdown{}, ErrInvalidInput
	}
	rat.Mul(rat, new(big.Rat).SetInt64(price))

	commission := roundHalfUp(rat)
	return Breakdown{
		Commission: commission,
		Payout:     price - commission,
	}, nil
}

// roundHalfUp rounds a non-negative rational to the nearest integer,
// with .5 rounding up.
func roundHalfUp(r *big.Rat) int64 {
	num := new(big.Int).Mul(r.Num(), big.NewInt(2))
	num.Add(num, r.Denom())
	den := new(big.Int).Mul(r.Denom(), big.NewInt(2))
	return new(big.Int).Div(num, den).Int64()
}
