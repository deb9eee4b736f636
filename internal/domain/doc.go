// Package domain models Notice-to-Mariners (NtM) records recovered from the
// weekly Danish bulletin PDFs.
//
// # Data Source
//
// The bulletins are published weekly as PDF files. Text is extracted upstream
// (see the pdf adapter) and handed to this package as one UTF-8 string per
// document. Two kinds of bulletin exist, told apart only by filename:
//
//	"2024 PogT 05.pdf"    weekly bulletin, year 2024, week 5
//	"2024 PogT (05).pdf"  companion list of notices still in force
//
// # Bulletin Layout
//
// Each notice is a block of lines in Danish, optionally followed by an English
// block that starts with the single word "Translation":
//
//	12. (T) Danmark. Kattegat. Anholt. Ændret bøje.
//	Tid. Fra 1. marts 2024.
//	Position. 56 12,34 N 011 34,56 E.
//	Detaljer. Bøjen er fjernet.
//	Søkort. 123, 124 (INT 1234).
//	(Forsvaret)
//	Translation
//	(T) Denmark. Kattegat. Anholt. Buoy changed.
//	Time. From 1 March 2024.
//	Details. The buoy has been removed.
//	(Defence)
//
// The header line carries the series number, an optional "(T)" temporary or
// "(P)" preliminary marker (absent means permanent), the dot-separated area
// hierarchy and, after the last period, the title. A bullet ("*" or the PDF
// bullet glyph) right after the number marks original information.
//
// Fields are identified only by leading label words (see [LineType]). Lines
// without a label continue the previous field. The parenthesised source line
// always closes the block.
//
// Coordinates are degrees and decimal minutes with a comma decimal separator:
//
//	"56 12,34 N 011 34,56 E"     → 56.2057, 11.5760
//	"2) 56 12,34 N 011 34,56 E, Anholt Havn"   explicit point index and description
//
// # Active Notices
//
// The companion bulletin lists notices still in force as "-12/345 (T) ...",
// where 345 is the series number. Only the number is extracted; see
// [ExtractActiveIDs].
//
// # ID Generation
//
// Numbered notices get the deterministic ID "<authority>-<year>-<number>",
// which lets downstream consumers upsert without coordination. Notices
// published without a fresh number (bullet-only header) have no ID.
package domain
