package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoSeeds is returned when neither the command line nor the
	// configuration file provides a seed URL.
	ErrNoSeeds = errors.New("no seed URL specified: pass one as an argument or set seeds in the config file")

	// ErrInvalidPageBudget is returned when the page budget is not positive.
	ErrInvalidPageBudget = errors.New("invalid page budget: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
