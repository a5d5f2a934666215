// AngelaMos | 2026
// errors.go

package market

import (
	"errors"
)

var (
	ErrUnknownCode    = errors.New("unknown market code")
	ErrInvalidCatalog = errors.New("invalid market catalog")
	ErrSignalMissing  = errors.New("signal not available")
)

// Fails to compile when allCodes and numCodes drift apart.
var (
	_ [numCodes - len(allCodes)]struct{}
	_ [len(allCodes) - numCodes]struct{}
)
