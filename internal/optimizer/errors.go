package optimizer

import (
	"fmt"
	"strings"
	"time"
)

// InvalidParameterError - a request parameter is outside its documented
// domain, e.g. riskTolerance outside [0, 1] or a non-positive budget.
type InvalidParameterError struct {
	Name   string
	Reason string
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Name, e.Reason)
}

// InvalidAssetError - a candidate asset cannot be scored, e.g. its price
// is not strictly positive.
type InvalidAssetError struct {
	Symbol string
	Reason string
}

func (e InvalidAssetError) Error() string {
	return fmt.Sprintf("invalid asset %s: %s", e.Symbol, e.Reason)
}

// AssetNotFoundError lists every requested symbol the catalog could not
// resolve. Unresolved symbols fail the whole request - they are never
// silently dropped.
type AssetNotFoundError struct {
	Symbols []string
}

func (e AssetNotFoundError) Error() string {
	return fmt.Sprintf("assets not found: %s", strings.Join(e.Symbols, ", "))
}

// TimeoutError - the exact strategy exceeded the caller's deadline. No
// partial allocation accompanies it.
type TimeoutError struct {
	Elapsed time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("optimization timed out after %s", e.Elapsed)
}
