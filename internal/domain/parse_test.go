package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weeklyBulletin = `Efterretninger for Søfarende
Uge 5 2024

1. (T) Kattegat. Ændret bøje.
Tid. jan.
Position. 56 12,34 N 012 34,56 E.
Detaljer. Bøjen er fjernet.
Søkort. 123.
(Forsvaret)
Translation
(T) Kattegat. Changed buoy.
Time. Jan.
Position. 56 12,34 N 012 34,56 E.
Details. The buoy has been removed.
Charts. 123.
(Defence)

2. * (P) Danmark. Storebælt. Sprogø. Arbejde ved broen.
Position.
1) 55 20,00 N 010 58,00 E, vestlige pille
2) 55 20,50 N 011 00,00 E
3) 55 21,00 N 011 01,00 E
Detaljer. Der udføres arbejde
ved broens piller.
Notices to Mariners
- 3 -
Søkort. 141, 143 (INT 1234), ??
(Vejdirektoratet)
Translation
(P) Denmark. Great Belt. Sprogø. Work at the bridge.
Position.
1) 55 20,00 N 010 58,00 E, western pier
Details. Work is carried out
at the bridge piers.
(Road Directorate)

3. Østersøen. Nyt fyr.
Detaljer. Fyret er tændt.
`

func TestParseBulletin(t *testing.T) {
	fixed := time.Date(2024, 2, 1, 6, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	b, err := NewRawBulletin(testWeeklyFile, weeklyBulletin)
	require.NoError(t, err)

	result := ParseBulletin(b, discardLogger())

	require.Len(t, result.Notices, 2)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, b, result.Bulletin)

	first := result.Notices[0]
	assert.Equal(t, "DMA-2024-1", first.ID)
	assert.Equal(t, NoticeTemporary, first.Type)
	assert.Equal(t, "Ændret bøje", first.Title.Local)
	assert.Equal(t, "Changed buoy", first.Title.English)
	assert.Equal(t, []ChartReference{{Number: "123"}}, first.Charts)
	assert.Len(t, first.Points(), 1)
	assert.Equal(t, fixed, first.ImportedAt)
	assert.Equal(t, 5, first.Week)

	second := result.Notices[1]
	assert.Equal(t, 2, second.SeriesNumber)
	assert.True(t, second.OriginalInformation)
	assert.Equal(t, NoticePreliminary, second.Type)
	assert.Equal(t, []string{"Danmark", "Storebælt", "Sprogø"}, second.Area.Path())
	assert.Equal(t, "Great Belt", second.Area.Parent.EnglishName)
	assert.Equal(t, "Denmark", second.Area.Parent.Parent.EnglishName)
	assert.Equal(t, Localized{Local: "Arbejde ved broen", English: "Work at the bridge"}, second.Title)
	assert.Equal(t, "Der udføres arbejde\nved broens piller.", second.Description.Local)
	assert.Equal(t, "Work is carried out\nat the bridge piers.", second.Description.English)
	assert.Equal(t, []ChartReference{
		{Number: "141"},
		{Number: "143", InternationalNumber: intPtr(1234)},
	}, second.Charts)
	require.NotNil(t, second.Location)
	assert.Equal(t, ShapePolygon, second.Location.Kind)
	assert.Equal(t, "western pier", second.Points()[0].Description.English)

	require.Len(t, result.Warnings, 2)
	assert.ErrorIs(t, result.Warnings[0].Err, ErrMalformedChartEntry)
	assert.Equal(t, 2, result.Warnings[0].Notice)
	assert.ErrorIs(t, result.Warnings[1].Err, ErrMalformedBlock)
	assert.Equal(t, 3, result.Warnings[1].Notice)
}

func TestParseBulletin_Empty(t *testing.T) {
	b, err := NewRawBulletin(testWeeklyFile, "")
	require.NoError(t, err)

	result := ParseBulletin(b, nil)

	assert.Empty(t, result.Notices)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Warnings)
}

func TestParse_DispatchesOnKind(t *testing.T) {
	active, err := NewBulletin("2024 PogT (05).pdf", "-12/345 (T) Kattegat. Bøje.\n")
	require.NoError(t, err)

	result := Parse(active, discardLogger())
	assert.Empty(t, result.Notices)
	assert.Equal(t, []ActiveNoticeID{{Year: 2024, Number: 345, Authority: Authority}}, result.Active)

	empty, err := NewBulletin("2024 PogT (05).pdf", "")
	require.NoError(t, err)
	assert.Empty(t, Parse(empty, nil).Active)

	weekly, err := NewBulletin(testWeeklyFile, weeklyBulletin)
	require.NoError(t, err)
	assert.Len(t, Parse(weekly, discardLogger()).Notices, 2)
}
