// Package pdf turns bulletin PDFs into the line-oriented text the notice parser reads.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned for a zero-length payload.
var ErrEmptyDocument = errors.New("empty pdf content")

const (
	defaultRowTolerance = 2.0
	// Gap between glyphs, as a fraction of the font size, that reads as a space.
	wordGapRatio = 0.2
)

// Extractor implements pipeline.TextExtractor for PDF bulletins.
// Glyphs are grouped into rows by their baseline so each printed line of the
// bulletin becomes one line of output.
type Extractor struct {
	rowTolerance float64
}

// NewExtractor creates a PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{rowTolerance: defaultRowTolerance}
}

// ExtractText returns the text of every page in order, one printed line per line.
func (e *Extractor) ExtractText(ctx context.Context, content []byte) (text string, err error) {
	if len(content) == 0 {
		return "", ErrEmptyDocument
	}

	// The reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, line := range e.layoutRows(page.Content().Text) {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

type row struct {
	y     float64
	texts []pdf.Text
}

// layoutRows groups glyphs sharing a baseline (within rowTolerance) into rows,
// top of page first, and renders each row left to right.
func (e *Extractor) layoutRows(texts []pdf.Text) []string {
	var rows []*row
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		var target *row
		for _, r := range rows {
			if math.Abs(r.y-t.Y) <= e.rowTolerance {
				target = r
				break
			}
		}
		if target == nil {
			target = &row{y: t.Y}
			rows = append(rows, target)
		}
		target.texts = append(target.texts, t)
	}

	// PDF coordinates grow upwards.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, renderRow(r.texts))
	}
	return lines
}

func renderRow(texts []pdf.Text) string {
	sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

	var sb strings.Builder
	end := math.Inf(-1)
	for _, t := range texts {
		gap := t.X - end
		if sb.Len() > 0 && gap > t.FontSize*wordGapRatio && !strings.HasSuffix(sb.String(), " ") && t.S != " " {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		end = t.X + t.W
	}
	return strings.TrimRight(sb.String(), " ")
}
