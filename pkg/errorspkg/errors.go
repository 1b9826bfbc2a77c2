// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates a storage or other infrastructure failure that is not
// the caller's fault.
var ErrInternal = errors.New("internal")
