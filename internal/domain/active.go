package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// activeNoticeRe matches a line of the active-notice list, e.g.
// "-12/345 (T) Kattegat. Ændret bøje." where 345 is the series number.
var activeNoticeRe = regexp.MustCompile(`^[-0-9]+/(\d+) \([TP]\) .*`)

// ExtractActiveIDs scans the active-notice bulletin line by line and returns
// the series identifier of every listed notice, in document order.
func ExtractActiveIDs(text string, year int) []ActiveNoticeID {
	var ids []ActiveNoticeID
	for _, line := range splitLines(text) {
		m := activeNoticeRe.FindStringSubmatch(strings.TrimLeft(line, " \t"))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		ids = append(ids, ActiveNoticeID{Year: year, Number: n, Authority: Authority})
	}
	return ids
}
