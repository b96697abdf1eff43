package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetPrice struct {
	Symbol string
	Price  decimal.Decimal
	Date   time.Time
}

// EquityPoint is one mark-to-market sample of a simulated portfolio.
type EquityPoint struct {
	Date  time.Time
	Value decimal.Decimal
}
