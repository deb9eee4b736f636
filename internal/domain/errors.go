package domain

import "errors"

var (
	// ErrInvalidFilenameFormat is fatal for a document: no year/week can be derived.
	ErrInvalidFilenameFormat = errors.New("invalid bulletin filename format")

	// ErrMalformedBlock marks a notice block that never reached its source line.
	ErrMalformedBlock = errors.New("malformed notice block")

	// ErrMalformedHeader marks a block whose first line is neither a number nor a bullet.
	ErrMalformedHeader = errors.New("malformed notice header")

	ErrMalformedPositionLine = errors.New("malformed position line")
	ErrMalformedChartEntry   = errors.New("malformed chart entry")

	// ErrAreaMismatch flags local and English area chains of different depth.
	ErrAreaMismatch = errors.New("area name count mismatch")

	// ErrOrphanTranslation marks a Translation block with no notice to attach to.
	ErrOrphanTranslation = errors.New("translation block without preceding notice")
)
