package domain

import (
	"log/slog"
)

// ParseBulletin runs the whole weekly-bulletin pipeline: segment the text,
// pair translations with their notices and assemble one template per notice.
// A malformed block skips that notice only. Recoverable problems are logged
// and returned as warnings.
func ParseBulletin(b RawBulletin, logger *slog.Logger) ImportResult {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	diag := NewDiagnostics(logger.With("file", b.Filename))
	result := ImportResult{Bulletin: b}

	for _, pair := range PairBlocks(Segment(b.Text), diag) {
		notice, err := AssembleNotice(pair, b, diag)
		if err != nil {
			diag.Warn(pair.Primary.FirstLine(), err)
			result.Skipped++
			continue
		}
		result.Notices = append(result.Notices, notice)
	}

	result.Warnings = diag.Warnings
	logger.Debug("bulletin parsed",
		"file", b.Filename,
		"notices", len(result.Notices),
		"skipped", result.Skipped,
		"warnings", len(result.Warnings),
	)
	return result
}

// ParseActiveBulletin extracts the active-notice identifiers of a companion bulletin.
func ParseActiveBulletin(b RawBulletin) ImportResult {
	return ImportResult{
		Bulletin: b,
		Active:   ExtractActiveIDs(b.Text, b.Year),
	}
}

// Parse dispatches on the bulletin kind.
func Parse(b RawBulletin, logger *slog.Logger) ImportResult {
	if b.Kind == BulletinActive {
		return ParseActiveBulletin(b)
	}
	return ParseBulletin(b, logger)
}
