package jsonfrag

import "errors"

// ErrNotParsed is returned when decoding a Raw result.
var ErrNotParsed = errors.New("jsonfrag: no JSON fragment found")
