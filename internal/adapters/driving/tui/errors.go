package tui

import "errors"

// ErrMissingFindService is returned when the find service is not provided.
var ErrMissingFindService = errors.New("tui: find service is required")

// ErrMissingPage is returned when there is no page to render.
var ErrMissingPage = errors.New("tui: page is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
