package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Authority is the publishing authority recorded on every notice.
const Authority = "DMA"

// BulletinKind tells the weekly bulletin apart from the active-notice list.
type BulletinKind string

const (
	BulletinWeekly BulletinKind = "weekly"
	BulletinActive BulletinKind = "active"
)

var (
	// weeklyFilenameRe matches "<year> PogT <week>.pdf", e.g. "2024 PogT 05.pdf".
	weeklyFilenameRe = regexp.MustCompile(`^(\d{4}) PogT (\d{1,2})\.(?:pdf|txt)$`)

	// activeFilenameRe matches "<year> PogT (<week>).pdf", e.g. "2024 PogT (05).pdf".
	activeFilenameRe = regexp.MustCompile(`^(\d{4}) PogT \((\d{1,2})\)\.(?:pdf|txt)$`)
)

// RawBulletin is the extracted text of one bulletin plus the metadata derived
// from its filename.
type RawBulletin struct {
	Filename string       `json:"filename"`
	Kind     BulletinKind `json:"kind"`
	Year     int          `json:"year"`
	Week     int          `json:"week"`
	Text     string       `json:"-"`
}

// RawDocument is an unprocessed bulletin file read from the source topic.
// The message key carries the original filename, the value the PDF bytes.
type RawDocument struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Filename returns the bulletin filename, preferring the "filename" header
// over the message key.
func (d RawDocument) Filename() string {
	if name := d.Headers["filename"]; name != "" {
		return name
	}
	return string(d.Key)
}

// NewRawBulletin builds a weekly bulletin, deriving year and week from the filename.
func NewRawBulletin(filename, text string) (RawBulletin, error) {
	year, week, err := ParseBulletinFilename(filename)
	if err != nil {
		return RawBulletin{}, err
	}
	return RawBulletin{Filename: filepath.Base(filename), Kind: BulletinWeekly, Year: year, Week: week, Text: text}, nil
}

// NewActiveBulletin builds an active-notice list bulletin.
func NewActiveBulletin(filename, text string) (RawBulletin, error) {
	year, week, err := ParseActiveFilename(filename)
	if err != nil {
		return RawBulletin{}, err
	}
	return RawBulletin{Filename: filepath.Base(filename), Kind: BulletinActive, Year: year, Week: week, Text: text}, nil
}

// NewBulletin picks the bulletin kind from the filename pattern.
func NewBulletin(filename, text string) (RawBulletin, error) {
	if _, _, err := ParseActiveFilename(filename); err == nil {
		return NewActiveBulletin(filename, text)
	}
	return NewRawBulletin(filename, text)
}

// ParseBulletinFilename derives (year, week) from "<year> PogT <week>.pdf".
func ParseBulletinFilename(filename string) (int, int, error) {
	return matchFilename(weeklyFilenameRe, filename)
}

// ParseActiveFilename derives (year, week) from "<year> PogT (<week>).pdf".
func ParseActiveFilename(filename string) (int, int, error) {
	return matchFilename(activeFilenameRe, filename)
}

func matchFilename(re *regexp.Regexp, filename string) (int, int, error) {
	base := filepath.Base(strings.TrimSpace(filename))
	m := re.FindStringSubmatch(base)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidFilenameFormat, filename)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidFilenameFormat, filename)
	}
	week, err := strconv.Atoi(m[2])
	if err != nil || week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("%w: week out of range in %q", ErrInvalidFilenameFormat, filename)
	}
	return year, week, nil
}

// IsPlainText reports whether the bulletin payload is already extracted text.
func IsPlainText(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".txt")
}
