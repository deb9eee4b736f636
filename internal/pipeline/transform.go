package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/ntm-import/internal/domain"
	"github.com/google/uuid"
)

// TextExtractor turns a bulletin file into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// BulletinTransformer implements Transformer. The filename picks the bulletin
// kind and supplies year and week; the payload is run through the extractor
// unless it is already plain text. Every result gets a fresh import ID.
type BulletinTransformer struct {
	extractor TextExtractor
	logger    *slog.Logger
}

// NewTransformer creates a BulletinTransformer.
func NewTransformer(extractor TextExtractor, logger *slog.Logger) *BulletinTransformer {
	return &BulletinTransformer{
		extractor: extractor,
		logger:    logger,
	}
}

func (t *BulletinTransformer) Transform(ctx context.Context, raw domain.RawDocument) (domain.ImportResult, error) {
	filename := raw.Filename()
	importID := uuid.NewString()

	// Reject bad names before paying for extraction.
	if _, err := domain.NewBulletin(filename, ""); err != nil {
		return domain.ImportResult{}, err
	}

	text, err := t.text(ctx, filename, raw.Value)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("extract %q: %w", filename, err)
	}

	b, err := domain.NewBulletin(filename, text)
	if err != nil {
		return domain.ImportResult{}, err
	}
	result := domain.Parse(b, t.logger.With("import_id", importID))
	result.ImportID = importID
	return result, nil
}

func (t *BulletinTransformer) text(ctx context.Context, filename string, content []byte) (string, error) {
	if domain.IsPlainText(filename) {
		return string(content), nil
	}
	return t.extractor.ExtractText(ctx, content)
}
