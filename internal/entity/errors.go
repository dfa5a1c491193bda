package entity

import "errors"

// ErrMalformedRecord marks capture rows rejected at load time; the comparison
// core assumes validated input and never sees these.
var ErrMalformedRecord = errors.New("malformed request record")
