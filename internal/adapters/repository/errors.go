package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNotLoaded = errors.New("sheet not loaded")
	ErrLoad      = errors.New("load sheet failed")
	ErrEmpty     = errors.New("sheet export has no rows")
)
