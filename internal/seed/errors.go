package seed

import "errors"

// ErrUnknownResource is returned for fixture keys that name no content type.
var ErrUnknownResource = errors.New("unknown resource")
