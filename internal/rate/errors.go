package rate

import "errors"

// ErrStoreUnavailable wraps counter store I/O failures. The gateway fails
// closed on it: a request whose limit cannot be checked is not forwarded.
var ErrStoreUnavailable = errors.New("rate limit store unavailable")
