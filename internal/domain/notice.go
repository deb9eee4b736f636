package domain

import (
	"fmt"
	"log/slog"
	"time"
)

// NoticeType classifies how long a notice stays in force.
type NoticeType string

const (
	NoticePermanent   NoticeType = "PERMANENT"
	NoticeTemporary   NoticeType = "TEMPORARY"
	NoticePreliminary NoticeType = "PRELIMINARY"
)

// Localized holds the Danish and English renditions of one text field.
type Localized struct {
	Local   string `json:"local,omitempty"`
	English string `json:"english,omitempty"`
}

func (l *Localized) set(lang Language, value string) {
	if lang == English {
		l.English = value
		return
	}
	l.Local = value
}

// Get returns the text for the given language.
func (l Localized) Get(lang Language) string {
	if lang == English {
		return l.English
	}
	return l.Local
}

// Area is one level of the area hierarchy. Each node owns its parent, so the
// notice only references the deepest node.
type Area struct {
	Name        string `json:"name"`
	EnglishName string `json:"english_name,omitempty"`
	Parent      *Area  `json:"parent,omitempty"`
}

// ChartReference is a national chart number with an optional INT cross-reference.
type ChartReference struct {
	Number              string `json:"number"`
	InternationalNumber *int   `json:"international_number,omitempty"`
}

// GeoPoint is one WGS-84 position of a notice, numbered from 1.
type GeoPoint struct {
	Index       int       `json:"index"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Description Localized `json:"description,omitzero"`
}

// ShapeKind is derived from the number of points.
type ShapeKind string

const (
	ShapePoint    ShapeKind = "POINT"
	ShapePolyline ShapeKind = "POLYLINE"
	ShapePolygon  ShapeKind = "POLYGON"
)

// Location is the geometry of a notice.
type Location struct {
	Kind   ShapeKind  `json:"kind"`
	Points []GeoPoint `json:"points"`
}

// NewLocation derives the shape from the point count. Zero points yield nil.
func NewLocation(points []GeoPoint) *Location {
	var kind ShapeKind
	switch n := len(points); {
	case n == 0:
		return nil
	case n == 1:
		kind = ShapePoint
	case n == 2:
		kind = ShapePolyline
	default:
		kind = ShapePolygon
	}
	return &Location{Kind: kind, Points: points}
}

// NoticeTemplate is one notice as recovered from a bulletin, before it is
// reconciled against the message store downstream.
type NoticeTemplate struct {
	ID                  string     `json:"id,omitempty"`
	SeriesNumber        int        `json:"series_number"`
	Year                int        `json:"year"`
	Week                int        `json:"week"`
	Authority           string     `json:"authority"`
	OriginalInformation bool       `json:"original_information"`
	Type                NoticeType `json:"type"`
	Area                *Area      `json:"area,omitempty"`

	Title       Localized `json:"title"`
	Description Localized `json:"description"`
	Time        Localized `json:"time"`
	Reference   Localized `json:"reference"`
	Previous    Localized `json:"previous"`
	Note        Localized `json:"note"`
	Publication Localized `json:"publication"`
	Source      Localized `json:"source"`

	Charts   []ChartReference `json:"charts,omitempty"`
	Location *Location        `json:"location,omitempty"`

	SourceFile string    `json:"source_file"`
	ImportedAt time.Time `json:"imported_at"`
}

// Points returns the notice positions, or nil when it has no location.
func (n NoticeTemplate) Points() []GeoPoint {
	if n.Location == nil {
		return nil
	}
	return n.Location.Points
}

// clone deep-copies the parts a translation pass mutates in place.
func (n NoticeTemplate) clone() NoticeTemplate {
	c := n
	c.Area = cloneArea(n.Area)
	if n.Location != nil {
		loc := *n.Location
		loc.Points = append([]GeoPoint(nil), n.Location.Points...)
		c.Location = &loc
	}
	c.Charts = append([]ChartReference(nil), n.Charts...)
	return c
}

func cloneArea(a *Area) *Area {
	if a == nil {
		return nil
	}
	c := *a
	c.Parent = cloneArea(a.Parent)
	return &c
}

func noticeID(year, number int) string {
	if number <= 0 {
		return ""
	}
	return fmt.Sprintf("%s-%d-%d", Authority, year, number)
}

// ActiveNoticeID identifies a notice still in force.
type ActiveNoticeID struct {
	Year      int    `json:"year"`
	Number    int    `json:"number"`
	Authority string `json:"authority"`
}

// Warning is a recoverable problem met while parsing a bulletin.
type Warning struct {
	Notice  int    `json:"notice,omitempty"`
	Line    string `json:"line,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// ImportResult is the best-effort outcome of parsing one bulletin.
// ImportID is assigned by the caller to correlate everything published for one run.
type ImportResult struct {
	ImportID string           `json:"import_id,omitempty"`
	Bulletin RawBulletin      `json:"bulletin"`
	Notices  []NoticeTemplate `json:"notices,omitempty"`
	Active   []ActiveNoticeID `json:"active,omitempty"`
	Skipped  int              `json:"skipped"`
	Warnings []Warning        `json:"warnings,omitempty"`
}

// Diagnostics collects warnings for one bulletin and logs them as they occur.
// A nil *Diagnostics discards everything.
type Diagnostics struct {
	// Notice is the series number of the block being parsed, for context.
	Notice   int
	Warnings []Warning
	logger   *slog.Logger
}

// NewDiagnostics creates a collector that also logs through logger (may be nil).
func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

// Warn records a recoverable problem with the given source line.
func (d *Diagnostics) Warn(line string, err error) {
	if d == nil {
		return
	}
	d.Warnings = append(d.Warnings, Warning{
		Notice:  d.Notice,
		Line:    line,
		Message: err.Error(),
		Err:     err,
	})
	if d.logger != nil {
		d.logger.Warn("bulletin parse warning",
			"notice", d.Notice,
			"line", line,
			"error", err,
		)
	}
}
