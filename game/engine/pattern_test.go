package engine

import (
	"testing"
)

// fixedCard builds a deterministic card: column col holds the first five
// numbers of its range, top to bottom, with the usual FREE center.
func fixedCard() BingoCard {
	var card BingoCard
	for row := 0; row < CardSize; row++ {
		for col := 0; col < CardSize; col++ {
			if row == FreeRow && col == FreeCol {
				card[row][col] = Cell{Free: true, Marked: true}
				continue
			}
			card[row][col] = Cell{Number: ColumnRanges[col].Min + row}
		}
	}
	return card
}

// numbersAt returns the non-FREE numbers at the given positions.
func numbersAt(card BingoCard, positions [][2]int) []int {
	var numbers []int
	for _, p := range positions {
		cell := card[p[0]][p[1]]
		if !cell.Free {
			numbers = append(numbers, cell.Number)
		}
	}
	return numbers
}

func TestIsWinner_Patterns(t *testing.T) {
	card := fixedCard()

	tests := []struct {
		name    string
		pattern Pattern
		cells   [][2]int
	}{
		{"four corners", PatternFourCorners, [][2]int{{0, 0}, {0, 4}, {4, 0}, {4, 4}}},
		{"small square", PatternSmallSquare, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
		{"letter x", PatternLetterX, append(append([][2]int{}, mainDiagonal...), antiDiagonal...)},
		{"top row", PatternTopRow, rowCells(0)},
		{"middle row", PatternMiddleRow, rowCells(2)},
		{"bottom row", PatternBottomRow, rowCells(4)},
		{"cross", PatternCross, append(rowCells(2), colCells(2)...)},
		{"left l", PatternLeftL, append(colCells(0), rowCells(4)...)},
		{"right l", PatternRightL, append(colCells(4), rowCells(0)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := numbersAt(card, tt.cells)

			if !IsWinner(card, called, tt.pattern) {
				t.Errorf("expected %s to win with its exact cells called", tt.pattern)
			}

			// Dropping any one number must break the win.
			if len(called) > 1 {
				if IsWinner(card, called[1:], tt.pattern) {
					t.Errorf("%s should not win with a required number missing", tt.pattern)
				}
			}
		})
	}
}

func TestIsWinner_AnyLine(t *testing.T) {
	card := fixedCard()

	// A full row wins.
	if !IsWinner(card, numbersAt(card, rowCells(1)), PatternAnyLine) {
		t.Error("any_line should win on a complete row")
	}
	// A full column wins.
	if !IsWinner(card, numbersAt(card, colCells(3)), PatternAnyLine) {
		t.Error("any_line should win on a complete column")
	}
	// A diagonal wins, and the FREE cell counts toward it.
	if !IsWinner(card, numbersAt(card, mainDiagonal), PatternAnyLine) {
		t.Error("any_line should win on the main diagonal")
	}
	// Scattered numbers do not win.
	scattered := []int{card[0][0].Number, card[1][2].Number, card[3][4].Number}
	if IsWinner(card, scattered, PatternAnyLine) {
		t.Error("any_line should not win on scattered cells")
	}
}

func TestIsWinner_FullHouse(t *testing.T) {
	card := fixedCard()

	var all []int
	for row := 0; row < CardSize; row++ {
		all = append(all, numbersAt(card, rowCells(row))...)
	}

	if !IsWinner(card, all, PatternFullHouse) {
		t.Error("full_house should win with every number called")
	}
	if IsWinner(card, all[:len(all)-1], PatternFullHouse) {
		t.Error("full_house should not win with one number missing")
	}
}

func TestIsWinner_UnknownPattern(t *testing.T) {
	card := fixedCard()

	var all []int
	for row := 0; row < CardSize; row++ {
		all = append(all, numbersAt(card, rowCells(row))...)
	}

	if IsWinner(card, all, Pattern("blackout_supreme")) {
		t.Error("unknown pattern should never win")
	}
}

func TestIsWinner_MonotonicInCalledNumbers(t *testing.T) {
	card := fixedCard()
	winning := numbersAt(card, rowCells(0))

	if !IsWinner(card, winning, PatternTopRow) {
		t.Fatal("expected top row win")
	}

	// Any superset of a winning set still wins.
	superset := append(append([]int{}, winning...), 33, 48, 62)
	if !IsWinner(card, superset, PatternTopRow) {
		t.Error("win must be monotonic in the called set")
	}
}

func TestIsWinner_IgnoresMarkedFlag(t *testing.T) {
	card := fixedCard()
	called := numbersAt(card, rowCells(0))

	// Marking cells must not create a win the call history does not support.
	marked := card
	for col := 0; col < CardSize; col++ {
		marked[4][col].Marked = true
	}
	if IsWinner(marked, called, PatternBottomRow) {
		t.Error("marked flags must not influence win evaluation")
	}

	// And unmarked cells must not prevent a win the call history supports.
	if !IsWinner(card, called, PatternTopRow) {
		t.Error("win evaluation should not require cells to be marked")
	}
}
