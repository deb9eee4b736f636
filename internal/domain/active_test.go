package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractActiveIDs(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		ids := ExtractActiveIDs("-12/345 (T) description", 2024)
		require.Len(t, ids, 1)
		assert.Equal(t, ActiveNoticeID{Year: 2024, Number: 345, Authority: Authority}, ids[0])
	})

	t.Run("mixed document", func(t *testing.T) {
		text := "Gældende midlertidige og foreløbige efterretninger\n" +
			"  12/101 (T) Kattegat. Bøje.\n" +
			"3/7 (P) Østersøen. Arbejde.\n" +
			"12/102 (X) ukendt type\n" +
			"12/103 (T)\n" +
			"Side 2\n" +
			"2023-45/900 (T) Skagerrak. Vrag.\n"

		ids := ExtractActiveIDs(text, 2024)

		numbers := make([]int, 0, len(ids))
		for _, id := range ids {
			numbers = append(numbers, id.Number)
			assert.Equal(t, 2024, id.Year)
			assert.Equal(t, Authority, id.Authority)
		}
		assert.Equal(t, []int{101, 7, 900}, numbers)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, ExtractActiveIDs("", 2024))
	})
}
