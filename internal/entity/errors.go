package entity

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidMode     = errors.New("invalid session mode")
	ErrWrongMode       = errors.New("operation not allowed in current mode")

	// File errors
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyFiles      = errors.New("too many files")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrTotalSizeTooLarge = errors.New("total file size too large")

	// Ingestion / index errors
	ErrEmptyBatch      = errors.New("upload batch produced no text")
	ErrIndexBuild      = errors.New("knowledge index build failed")
	ErrArtifactMissing = errors.New("chart artifact not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
