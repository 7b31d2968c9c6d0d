// internal/game/lines.go
package game

import "lyricbingo/internal/models"

// lineSets enumerates every winning line on a 5x5 board in the fixed
// evaluation order: the 5 rows (ascending), the 5 columns (ascending), the
// main diagonal, then the anti-diagonal. The order is a deterministic
// tie-break: a board completing several lines at once always claims the
// first one here.
var lineSets = buildLineSets()

func buildLineSets() [][5]int {
	lines := make([][5]int, 0, 12)
	for r := 0; r < 5; r++ {
		base := r * 5
		lines = append(lines, [5]int{base, base + 1, base + 2, base + 3, base + 4})
	}
	for c := 0; c < 5; c++ {
		lines = append(lines, [5]int{c, c + 5, c + 10, c + 15, c + 20})
	}
	lines = append(lines, [5]int{0, 6, 12, 18, 24})
	lines = append(lines, [5]int{4, 8, 12, 16, 20})
	return lines
}

// FindWinningLine returns the indices of the first fully-marked line on the
// board, or nil if no row, column, or diagonal is complete. marks must hold
// exactly 25 entries.
func FindWinningLine(marks []bool) []int {
	if len(marks) != models.CardSize {
		return nil
	}
	for _, line := range lineSets {
		complete := true
		for _, idx := range line {
			if !marks[idx] {
				complete = false
				break
			}
		}
		if complete {
			return []int{line[0], line[1], line[2], line[3], line[4]}
		}
	}
	return nil
}
