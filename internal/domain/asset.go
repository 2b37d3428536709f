package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Asset is one candidate instrument as served by the asset catalog.
// Immutable for the duration of a single optimization call.
type Asset struct {
	Symbol         string
	Price          float64
	ExpectedReturn float64
	// Risk is a volatility-like scalar, >= 0
	Risk float64
}

func (a Asset) PriceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(a.Price)
}

// RankedAsset is an Asset plus its derived efficiency score. Slices of
// RankedAsset are always ordered efficiency-descending, ties broken by
// symbol ascending.
type RankedAsset struct {
	Asset
	Efficiency float64
}

// Holding is a concrete whole-share purchase produced by an allocator.
type Holding struct {
	Symbol         string
	Price          float64
	ExpectedReturn float64
	Risk           float64
	Shares         int64
	Investment     decimal.Decimal
	// Weight = Investment / totalInvested, populated by the summarizer
	Weight float64
}

func (h Holding) String() string {
	return fmt.Sprintf("%s x%d ($%s)", h.Symbol, h.Shares, h.Investment.StringFixed(2))
}
