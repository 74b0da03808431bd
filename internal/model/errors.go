package model

import "errors"

// Pipeline error classes. Adapters wrap underlying errors with one of these
// so callers can branch with errors.Is.
var (
	// ErrRetrieval covers transport failures and non-200 responses.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrParse means expected markup or fields were absent.
	ErrParse = errors.New("unexpected response format")
	// ErrDataIntegrity means derived columns do not line up.
	ErrDataIntegrity = errors.New("data integrity violation")
	// ErrDataUnavailable means the provider returned no rows.
	ErrDataUnavailable = errors.New("no data available")
)
