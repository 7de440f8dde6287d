package rounds

import (
	"math/big"

	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
)

// Prize arithmetic runs in math/big so a pool multiplied by a percentage can
// never overflow int64 before the final truncation.

var percent = big.NewInt(100)

// TierPrize is a tier's slice of the pool: floor(pool * share / 100).
func TierPrize(pool int64, tier int) int64 {
	amount := new(big.Int).Mul(big.NewInt(pool), big.NewInt(rty.PrizeShare[tier]))
	amount.Quo(amount, percent)
	return amount.Int64()
}

// TierWinnerPrize divides a tier's prize evenly among its quota, truncating.
// The division remainder stays with the pool and is not redistributed.
func TierWinnerPrize(pool int64, tier int, quota int64) int64 {
	if quota <= 0 {
		return 0
	}
	amount := new(big.Int).Mul(big.NewInt(pool), big.NewInt(rty.PrizeShare[tier]))
	amount.Quo(amount, percent)
	amount.Quo(amount, big.NewInt(quota))
	return amount.Int64()
}

// ProportionalPayout is a winning stake's share of the entire pool:
// floor(stake * totalPool / sidePool). A zero side pool pays nothing.
func ProportionalPayout(stake, totalPool, sidePool int64) int64 {
	if sidePool <= 0 {
		return 0
	}
	amount := new(big.Int).Mul(big.NewInt(stake), big.NewInt(totalPool))
	amount.Quo(amount, big.NewInt(sidePool))
	return amount.Int64()
}
