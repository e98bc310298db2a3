package domain

import "errors"

// ErrNotFound is returned by repositories when a referenced document no
// longer exists. Fanout treats it as an empty audience, never a failure.
var ErrNotFound = errors.New("not found")
