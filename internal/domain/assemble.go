package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type assemblerState int

const (
	stateAwaitingHeader assemblerState = iota
	stateInField
	stateClosed
)

// assembler consumes the lines of one block and fills in a notice template.
// The open field and its buffer are the only state; a labelled line commits
// the buffer and opens the next field, an unlabelled line extends the buffer.
type assembler struct {
	notice *NoticeTemplate
	lang   Language
	diag   *Diagnostics

	state assemblerState
	field LineType
	buf   []string
}

// AssembleNotice builds the template for a Primary block and, when present,
// merges its Translation. A Primary block without a source line fails with
// ErrMalformedBlock. A malformed Translation is reported and dropped, keeping
// the Danish notice.
func AssembleNotice(pair BlockPair, b RawBulletin, diag *Diagnostics) (NoticeTemplate, error) {
	n := NoticeTemplate{
		Year:       b.Year,
		Week:       b.Week,
		Authority:  Authority,
		Type:       NoticePermanent,
		SourceFile: b.Filename,
		ImportedAt: clock.Now(),
	}
	if diag != nil {
		diag.Notice = 0
	}

	local := &assembler{notice: &n, lang: Local, diag: diag}
	if err := local.run(pair.Primary); err != nil {
		return NoticeTemplate{}, err
	}
	n.ID = noticeID(n.Year, n.SeriesNumber)

	if pair.Translation == nil {
		return n, nil
	}

	translated := n.clone()
	english := &assembler{notice: &translated, lang: English, diag: diag}
	if err := english.run(*pair.Translation); err != nil {
		diag.Warn(pair.Translation.FirstLine(), err)
		return n, nil
	}
	return translated, nil
}

func (a *assembler) run(block TextBlock) error {
	if len(block.Lines) == 0 {
		return fmt.Errorf("%w: empty block", ErrMalformedBlock)
	}

	next, err := a.readHeader(block)
	if err != nil {
		return err
	}

	for _, line := range block.Lines[next:] {
		c := Classify(line, a.lang)
		if c.Continuation {
			a.buf = append(a.buf, c.Text)
			continue
		}

		a.commit()
		a.state = stateInField
		a.field = c.Type
		a.buf = []string{c.Text}

		if c.Type == LineSource {
			a.commit()
			a.state = stateClosed
			return nil
		}
	}

	return fmt.Errorf("notice %d (%s): %w: no source line", a.notice.SeriesNumber, block.Kind, ErrMalformedBlock)
}

// readHeader opens the header buffer and returns the index of the first line
// after the header start. When the first line holds only a number or bullet,
// the next non-blank line is the real header.
func (a *assembler) readHeader(block TextBlock) (int, error) {
	a.state = stateAwaitingHeader
	a.buf = nil

	var head string
	if block.Kind == BlockPrimary {
		first := strings.TrimSpace(block.Lines[0])
		if _, bullet := cutBullet(first); !bullet && !noticeStartRe.MatchString(first) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedHeader, first)
		}
		var err error
		if head, err = a.stripHeaderPrefix(first); err != nil {
			return 0, err
		}
	}

	next := 1
	if head == "" {
		for next < len(block.Lines) && strings.TrimSpace(block.Lines[next]) == "" {
			next++
		}
		if next < len(block.Lines) && !a.isLabelled(block.Lines[next]) {
			var err error
			if head, err = a.stripHeaderPrefix(strings.TrimSpace(block.Lines[next])); err != nil {
				return 0, err
			}
			next++
		}
	}

	if head != "" {
		a.buf = append(a.buf, head)
	}
	return next, nil
}

func (a *assembler) isLabelled(line string) bool {
	return !Classify(line, a.lang).Continuation
}

// stripHeaderPrefix removes the leading series number and bullet from a
// header line, recording both on the local pass.
func (a *assembler) stripHeaderPrefix(line string) (string, error) {
	if loc := noticeStartRe.FindStringIndex(line); loc != nil {
		if a.lang == Local && a.notice.SeriesNumber == 0 {
			n, err := strconv.Atoi(line[:loc[1]-1])
			if err != nil {
				return "", fmt.Errorf("%w: series number in %q: %w", ErrMalformedHeader, line, err)
			}
			a.notice.SeriesNumber = n
			if a.diag != nil {
				a.diag.Notice = n
			}
		}
		line = strings.TrimSpace(line[loc[1]:])
	}
	if rest, ok := cutBullet(line); ok {
		if a.lang == Local {
			a.notice.OriginalInformation = true
		}
		line = rest
	}
	return line, nil
}

func (a *assembler) commit() {
	switch a.state {
	case stateAwaitingHeader:
		a.applyHeader(joinLines(a.buf, " "))
	case stateInField:
		a.applyField(a.field, joinLines(a.buf, a.field.Joiner()))
	}
	a.buf = nil
}

// applyHeader splits "(T) Danmark. Kattegat. Ændret bøje." into type, area
// and title.
func (a *assembler) applyHeader(text string) {
	typ, rest := splitTypeMarker(text)
	areaPhrase, title := splitAreaTitle(rest)
	a.notice.Title.set(a.lang, title)

	if a.lang == Local {
		a.notice.Type = typ
		a.notice.Area = BuildAreaChain(areaPhrase)
		return
	}

	switch {
	case a.notice.Area == nil && areaPhrase != "":
		a.diag.Warn(text, fmt.Errorf("%w: no local area for %q", ErrAreaMismatch, areaPhrase))
	case a.notice.Area != nil && a.notice.Area.ApplyEnglish(areaPhrase):
		a.diag.Warn(text, fmt.Errorf("%w: %d local names, English %q", ErrAreaMismatch, a.notice.Area.Depth(), areaPhrase))
	}
}

func (a *assembler) applyField(field LineType, text string) {
	n := a.notice
	switch field {
	case LinePosition:
		a.applyPositions(text)
	case LineCharts:
		// Chart numbers are language independent; the translation repeats them.
		if a.lang == Local {
			n.Charts = append(n.Charts, ParseCharts(text, a.diag)...)
		}
	case LineDetails:
		appendText(&n.Description, a.lang, text)
	case LineTime:
		appendText(&n.Time, a.lang, text)
	case LineReference:
		appendText(&n.Reference, a.lang, text)
	case LinePrevious:
		appendText(&n.Previous, a.lang, text)
	case LineNote:
		appendText(&n.Note, a.lang, text)
	case LinePublication:
		appendText(&n.Publication, a.lang, text)
	case LineSource:
		n.Source.set(a.lang, text)
	}
}

// applyPositions adds points on the local pass. The English pass only
// contributes point descriptions, matched by point index.
func (a *assembler) applyPositions(text string) {
	points := ParsePositions(text, a.lang, a.diag)
	if a.lang == Local {
		a.notice.Location = NewLocation(append(a.notice.Points(), points...))
		return
	}
	if a.notice.Location == nil {
		return
	}
	for _, ep := range points {
		if ep.Description.English == "" {
			continue
		}
		for i := range a.notice.Location.Points {
			if a.notice.Location.Points[i].Index == ep.Index {
				a.notice.Location.Points[i].Description.English = ep.Description.English
			}
		}
	}
}

func appendText(l *Localized, lang Language, text string) {
	if text == "" {
		return
	}
	if prev := l.Get(lang); prev != "" {
		text = prev + "\n" + text
	}
	l.set(lang, text)
}

// splitTypeMarker finds the first "(T)" or "(P)" marker. No marker means permanent.
func splitTypeMarker(text string) (NoticeType, string) {
	t, p := strings.Index(text, "(T)"), strings.Index(text, "(P)")

	var (
		i   int
		typ NoticeType
	)
	switch {
	case t >= 0 && (p < 0 || t < p):
		i, typ = t, NoticeTemporary
	case p >= 0:
		i, typ = p, NoticePreliminary
	default:
		return NoticePermanent, strings.TrimSpace(text)
	}
	return typ, strings.TrimSpace(text[:i] + " " + text[i+len("(T)"):])
}

// splitAreaTitle splits at the last period before the end of the line: the
// area phrase comes before it, the title after.
func splitAreaTitle(text string) (string, string) {
	text = strings.TrimSuffix(strings.TrimSpace(text), ".")
	i := strings.LastIndex(text, ".")
	if i < 0 {
		return "", strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
}

// joinLines trims each buffered line and joins them with sep. A space join
// drops blank lines; a newline join keeps inner paragraph breaks.
func joinLines(lines []string, sep string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" && sep == " " {
			continue
		}
		parts = append(parts, l)
	}
	return strings.TrimSpace(strings.Join(parts, sep))
}
