// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors
	ErrEmptyTarget   = errors.New("target cannot be empty")
	ErrInvalidDomain = errors.New("invalid domain format")

	// Wordlist errors
	ErrSourceNotFound = errors.New("wordlist not found or unreadable")
	ErrSourceRead     = errors.New("wordlist read failed")

	// Sink errors
	ErrSinkOpen  = errors.New("result sink could not be opened")
	ErrSinkWrite = errors.New("result sink write failed")
	ErrSinkClose = errors.New("result sink close failed")

	// Scan errors
	ErrScanCanceled = errors.New("scan was canceled")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)
