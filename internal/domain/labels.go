package domain

import (
	"regexp"
	"strings"
)

// Language selects which half of the bilingual label table applies.
type Language int

const (
	Local Language = iota
	English
)

func (l Language) String() string {
	if l == English {
		return "en"
	}
	return "da"
}

// LineType is the field a labelled notice line opens.
type LineType int

const (
	LinePrevious LineType = iota
	LineReference
	LineTime
	LinePosition
	LineDetails
	LineNote
	LineCharts
	LinePublication
	LineSource
)

type label struct {
	name    string
	local   string
	english string
	joiner  string
}

// labels is indexed by LineType. Source has no label word: it is the
// parenthesised line itself.
var labels = [...]label{
	LinePrevious:    {name: "previous", local: "Tidligere EfS.", english: "Former NtM.", joiner: " "},
	LineReference:   {name: "reference", local: "Henvisning.", english: "Reference.", joiner: " "},
	LineTime:        {name: "time", local: "Tid.", english: "Time.", joiner: "\n"},
	LinePosition:    {name: "position", local: "Position.", english: "Position.", joiner: "\n"},
	LineDetails:     {name: "details", local: "Detaljer.", english: "Details.", joiner: "\n"},
	LineNote:        {name: "note", local: "Note.", english: "Note.", joiner: "\n"},
	LineCharts:      {name: "charts", local: "Søkort.", english: "Charts.", joiner: " "},
	LinePublication: {name: "publication", local: "Publikation.", english: "Publication.", joiner: "\n"},
	LineSource:      {name: "source", local: "(", english: "(", joiner: " "},
}

// sourceLineRe matches the parenthesised source line that closes every block.
var sourceLineRe = regexp.MustCompile(`^\((.+)\)$`)

func (t LineType) String() string {
	if t < 0 || int(t) >= len(labels) {
		return "unknown"
	}
	return labels[t].name
}

// Label returns the leading marker for the given language.
func (t LineType) Label(lang Language) string {
	if lang == English {
		return labels[t].english
	}
	return labels[t].local
}

// Joiner is the separator used when a continuation line extends the field.
func (t LineType) Joiner() string {
	return labels[t].joiner
}

// Classified is the result of classifying one line.
type Classified struct {
	Type LineType
	// Text is the remainder after the label, or the whole line for a continuation.
	Text         string
	Continuation bool
}

// Classify matches the trimmed line against each label in priority order.
// Unlabelled lines come back as continuations carrying the original line.
func Classify(line string, lang Language) Classified {
	trimmed := strings.TrimSpace(line)
	for t := LinePrevious; t < LineSource; t++ {
		l := t.Label(lang)
		if strings.HasPrefix(trimmed, l) {
			return Classified{Type: t, Text: strings.TrimSpace(strings.TrimPrefix(trimmed, l))}
		}
	}
	if m := sourceLineRe.FindStringSubmatch(trimmed); m != nil {
		return Classified{Type: LineSource, Text: strings.TrimSpace(m[1])}
	}
	return Classified{Text: line, Continuation: true}
}
