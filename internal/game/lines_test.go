// internal/game/lines_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyricbingo/internal/models"
)

func marksWith(indices ...int) []bool {
	marks := make([]bool, models.CardSize)
	for _, i := range indices {
		marks[i] = true
	}
	return marks
}

func TestFindWinningLineRows(t *testing.T) {
	for r := 0; r < 5; r++ {
		base := r * 5
		line := FindWinningLine(marksWith(base, base+1, base+2, base+3, base+4))
		require.NotNil(t, line, "row %d should win", r)
		assert.Equal(t, []int{base, base + 1, base + 2, base + 3, base + 4}, line)
	}
}

func TestFindWinningLineColumns(t *testing.T) {
	for c := 0; c < 5; c++ {
		line := FindWinningLine(marksWith(c, c+5, c+10, c+15, c+20))
		require.NotNil(t, line, "column %d should win", c)
		assert.Equal(t, []int{c, c + 5, c + 10, c + 15, c + 20}, line)
	}
}

func TestFindWinningLineDiagonals(t *testing.T) {
	assert.Equal(t, []int{0, 6, 12, 18, 24}, FindWinningLine(marksWith(0, 6, 12, 18, 24)))
	assert.Equal(t, []int{4, 8, 12, 16, 20}, FindWinningLine(marksWith(4, 8, 12, 16, 20)))
}

func TestFindWinningLineNone(t *testing.T) {
	assert.Nil(t, FindWinningLine(make([]bool, models.CardSize)))
	// Four of five is not a line.
	assert.Nil(t, FindWinningLine(marksWith(0, 1, 2, 3)))
	// Scattered marks spanning several lines, none complete.
	assert.Nil(t, FindWinningLine(marksWith(0, 1, 2, 3, 5, 7, 11, 13, 21, 23)))
}

func TestFindWinningLineOrderPrecedence(t *testing.T) {
	// Row 0 and column 0 both complete; the row wins the tie.
	both := marksWith(0, 1, 2, 3, 4, 5, 10, 15, 20)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, FindWinningLine(both))

	// Column 4 and the anti-diagonal both complete; the column wins.
	colAndDiag := marksWith(4, 9, 14, 19, 24, 8, 12, 16, 20)
	assert.Equal(t, []int{4, 9, 14, 19, 24}, FindWinningLine(colAndDiag))

	// Row 1 beats row 3 when both are complete.
	twoRows := marksWith(5, 6, 7, 8, 9, 15, 16, 17, 18, 19)
	assert.Equal(t, []int{5, 6, 7, 8, 9}, FindWinningLine(twoRows))

	// Both diagonals complete; the main diagonal is reported.
	diags := marksWith(0, 6, 12, 18, 24, 4, 8, 16, 20)
	assert.Equal(t, []int{0, 6, 12, 18, 24}, FindWinningLine(diags))
}

func TestFindWinningLineFullBoard(t *testing.T) {
	full := make([]bool, models.CardSize)
	for i := range full {
		full[i] = true
	}
	// Every line is complete; row 0 is first in the fixed order.
	assert.Equal(t, []int{0, 1, 2, 3, 4}, FindWinningLine(full))
}

func TestFindWinningLineWrongLength(t *testing.T) {
	assert.Nil(t, FindWinningLine(nil))
	assert.Nil(t, FindWinningLine(make([]bool, 24)))
	assert.Nil(t, FindWinningLine(make([]bool, 26)))
}
