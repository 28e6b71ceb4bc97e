package domain

import "github.com/shopspring/decimal"

// SecurityType classifies a tradable instrument.
type SecurityType string

const (
	SecurityTypeEquity SecurityType = "equity"
	SecurityTypeBond   SecurityType = "bond"
	SecurityTypeFund   SecurityType = "fund"
)

// Security is a tradable instrument with its current market price.
type Security struct {
	Symbol string
	Name   string
	Type   SecurityType
	Price  decimal.Decimal
}
