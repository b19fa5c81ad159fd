package wealth

import (
	"errors"
	"fmt"
)

// PriceFetchError reports that a quote could not be obtained from a provider.
type PriceFetchError struct {
	Symbol string
	Cause  error
}

func (e *PriceFetchError) Error() string {
	return fmt.Sprintf("cannot fetch price for %s: %v", e.Symbol, e.Cause)
}

func (e *PriceFetchError) Unwrap() error { return e.Cause }

// MissingPriceError reports a holding valuated without a quote.
type MissingPriceError struct {
	Symbol string
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no price for %s", e.Symbol)
}

// EmptyPortfolioError reports an allocation computed on a portfolio worth nothing.
type EmptyPortfolioError struct{}

func (*EmptyPortfolioError) Error() string { return "add holdings to compute allocation" }

// ErrEmptyPortfolio is returned when the portfolio total value is zero.
var ErrEmptyPortfolio error = &EmptyPortfolioError{}

var (
	ErrInvalidAmount    = errors.New("investment amount must be positive")
	ErrInvalidRatio     = errors.New("target high-risk ratio must be within [0%, 100%]")
	ErrInvalidTolerance = errors.New("tolerance must be positive or zero")
	ErrInvalidHolding   = errors.New("invalid holding")
	ErrDuplicateSymbol  = errors.New("duplicate symbol")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)
