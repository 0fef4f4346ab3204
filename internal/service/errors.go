package service

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicateCity        = errors.New("city already exists")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrNothingImported      = errors.New("no new or valid city found to import")
	ErrExportFailed         = errors.New("export failed")
)
