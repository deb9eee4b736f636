package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// BlockKind tags a segmented block as a notice or its English translation.
type BlockKind int

const (
	BlockPrimary BlockKind = iota
	BlockTranslation
)

func (k BlockKind) String() string {
	if k == BlockTranslation {
		return "translation"
	}
	return "primary"
}

// TextBlock is the ordered run of raw lines belonging to one notice occurrence.
// Complete is set when the block ended on its source line.
type TextBlock struct {
	Kind     BlockKind
	Lines    []string
	Complete bool
}

// FirstLine returns the trimmed first line, for diagnostics.
func (b TextBlock) FirstLine() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return strings.TrimSpace(b.Lines[0])
}

const translationMarker = "Translation"

// Page footers repeated on every page of the bulletin.
const (
	footerLocal   = "Efterretninger for Søfarende"
	footerEnglish = "Notices to Mariners"
)

var (
	// noticeStartRe matches a leading series number, e.g. "12. (T) Kattegat...".
	noticeStartRe = regexp.MustCompile(`^[0-9]+\.`)

	// pageNumberRe matches the "- 3 -" page counters between footers.
	pageNumberRe = regexp.MustCompile(`^-\s*\d+\s*-$`)
)

// bulletMarks are the tokens meaning "original information". PDFs set in the
// Symbol font extract the bullet as U+F0B7.
var bulletMarks = []string{"*", "\u2022", "\uf0b7"}

func isBullet(s string) bool {
	for _, b := range bulletMarks {
		if s == b {
			return true
		}
	}
	return false
}

// cutBullet strips a leading bullet token from s.
func cutBullet(s string) (string, bool) {
	for _, b := range bulletMarks {
		if rest, ok := strings.CutPrefix(s, b); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return s, false
}

func isFooter(trimmed string) bool {
	return trimmed == footerLocal || trimmed == footerEnglish || pageNumberRe.MatchString(trimmed)
}

// Segment splits whole-document text into one block per notice occurrence.
// Text outside blocks (front matter, indexes) is ignored. A block closes on
// its first parenthesised line; a block still open at the end of the text is
// returned with Complete unset.
func Segment(text string) []TextBlock {
	var (
		blocks []TextBlock
		cur    *TextBlock
	)

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)

		if cur == nil {
			switch {
			case trimmed == translationMarker:
				cur = &TextBlock{Kind: BlockTranslation, Lines: []string{line}}
			case noticeStartRe.MatchString(trimmed) || isBullet(trimmed):
				cur = &TextBlock{Kind: BlockPrimary, Lines: []string{line}}
			}
			continue
		}

		if isFooter(trimmed) {
			continue
		}
		cur.Lines = append(cur.Lines, line)

		if sourceLineRe.MatchString(trimmed) {
			cur.Complete = true
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// BlockPair couples a notice with the Translation block that follows it.
type BlockPair struct {
	Primary     TextBlock
	Translation *TextBlock
}

// PairBlocks attaches each Translation block to the Primary block directly
// before it. The bulletin carries no explicit link, so the pairing is purely
// positional. Translations with nothing to attach to are reported and dropped.
func PairBlocks(blocks []TextBlock, diag *Diagnostics) []BlockPair {
	pairs := make([]BlockPair, 0, len(blocks))
	for i := range blocks {
		b := blocks[i]
		if b.Kind == BlockPrimary {
			pairs = append(pairs, BlockPair{Primary: b})
			continue
		}

		if len(pairs) == 0 || pairs[len(pairs)-1].Translation != nil {
			diag.Warn(b.FirstLine(), fmt.Errorf("%w at block %d", ErrOrphanTranslation, i+1))
			continue
		}
		pairs[len(pairs)-1].Translation = &b
	}
	return pairs
}
