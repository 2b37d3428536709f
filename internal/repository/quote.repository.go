package repository

import (
	"fmt"

	"github.com/piquette/finance-go/quote"
)

// QuoteRepository serves live market prices. A failed lookup is a hard
// error - callers never substitute a made-up price.
type QuoteRepository interface {
	GetLatestPrice(symbol string) (float64, error)
}

type quoteRepositoryHandler struct{}

func NewQuoteRepository() QuoteRepository {
	return quoteRepositoryHandler{}
}

func (h quoteRepositoryHandler) GetLatestPrice(symbol string) (float64, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	if q == nil {
		return 0, fmt.Errorf("no quote returned for %s", symbol)
	}
	if q.RegularMarketPrice <= 0 {
		return 0, fmt.Errorf("quote for %s has non-positive price %f", symbol, q.RegularMarketPrice)
	}

	return q.RegularMarketPrice, nil
}
