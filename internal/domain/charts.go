package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// chartEntryRe matches one chart list entry: a national chart number with an
// optional international cross-reference, e.g. "456 (INT 789)".
var chartEntryRe = regexp.MustCompile(`^([0-9A-Za-z][0-9A-Za-z/-]*)(?:\s*\(INT\s+(\d+)\))?$`)

// ParseCharts parses a comma-separated chart list such as "123, 456 (INT 789)."
// Entries that do not parse are reported and skipped.
func ParseCharts(text string, diag *Diagnostics) []ChartReference {
	text = strings.TrimSuffix(strings.TrimSpace(text), ".")
	if text == "" {
		return nil
	}

	var charts []ChartReference
	for _, entry := range strings.Split(text, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		ref, err := parseChartEntry(entry)
		if err != nil {
			diag.Warn(entry, err)
			continue
		}
		charts = append(charts, ref)
	}
	return charts
}

func parseChartEntry(entry string) (ChartReference, error) {
	m := chartEntryRe.FindStringSubmatch(entry)
	if m == nil {
		return ChartReference{}, fmt.Errorf("%w: %q", ErrMalformedChartEntry, entry)
	}
	ref := ChartReference{Number: m[1]}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return ChartReference{}, fmt.Errorf("%w: INT number %q: %w", ErrMalformedChartEntry, m[2], err)
		}
		ref.InternationalNumber = &n
	}
	return ref, nil
}
