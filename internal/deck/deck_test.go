// internal/deck/deck_test.go
package deck

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyricbingo/internal/models"
)

func testPools() (main, center []string) {
	for i := 0; i < 30; i++ {
		main = append(main, fmt.Sprintf("phrase-%02d", i))
	}
	center = []string{"center-a", "center-b"}
	return main, center
}

func TestNewValidatesPools(t *testing.T) {
	main, center := testPools()

	_, err := New(main, nil)
	assert.ErrorIs(t, err, ErrCenterPoolEmpty)

	_, err = New(main[:23], center)
	assert.ErrorIs(t, err, ErrMainPoolTooSmall)

	_, err = New(append(main, "center-a"), center)
	assert.ErrorIs(t, err, ErrPoolOverlap)

	d, err := New(main, center)
	require.NoError(t, err)
	assert.Equal(t, 30, d.MainPoolSize())
	assert.Equal(t, 2, d.CenterPoolSize())
}

func TestMakeCardShape(t *testing.T) {
	main, center := testPools()
	d, err := New(main, center)
	require.NoError(t, err)

	mainSet := make(map[string]bool, len(main))
	for _, id := range main {
		mainSet[id] = true
	}
	centerSet := map[string]bool{"center-a": true, "center-b": true}

	// Repeated deals to cover the random paths.
	for i := 0; i < 50; i++ {
		card := d.MakeCard()
		require.Len(t, card.Grid, models.CardSize)
		require.Len(t, card.Marks, models.CardSize)

		assert.True(t, centerSet[card.Grid[models.CenterIndex]],
			"center cell must come from the center pool, got %q", card.Grid[models.CenterIndex])

		seen := make(map[string]bool, models.CardSize-1)
		for idx, id := range card.Grid {
			if idx == models.CenterIndex {
				continue
			}
			assert.True(t, mainSet[id], "cell %d holds non-main phrase %q", idx, id)
			assert.False(t, seen[id], "phrase %q dealt twice", id)
			seen[id] = true
		}

		for idx, marked := range card.Marks {
			assert.False(t, marked, "cell %d should start unmarked", idx)
		}
	}
}

func TestMakeCardAutoMarkCenter(t *testing.T) {
	main, center := testPools()
	d, err := New(main, center, WithAutoMarkCenter())
	require.NoError(t, err)

	card := d.MakeCard()
	assert.True(t, card.Marks[models.CenterIndex])
	for idx, marked := range card.Marks {
		if idx == models.CenterIndex {
			continue
		}
		assert.False(t, marked)
	}
}

func TestDefaultDeck(t *testing.T) {
	d := Default()
	assert.GreaterOrEqual(t, d.MainPoolSize(), 24)
	assert.GreaterOrEqual(t, d.CenterPoolSize(), 1)

	card := d.MakeCard()
	require.Len(t, card.Grid, models.CardSize)
}
