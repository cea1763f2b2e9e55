package engine

// satisfied reports whether a cell counts toward a pattern: the FREE cell
// always does, every other cell requires its number in the call history.
// The player-facing marked flag is not consulted; wins are decided by what
// was called, not by what was clicked.
func satisfied(cell Cell, called []int) bool {
	if cell.Free {
		return true
	}
	for _, n := range called {
		if n == cell.Number {
			return true
		}
	}
	return false
}

// cellsSatisfied reports whether every (row, col) position is satisfied.
func cellsSatisfied(card BingoCard, called []int, positions [][2]int) bool {
	for _, p := range positions {
		if !satisfied(card[p[0]][p[1]], called) {
			return false
		}
	}
	return true
}

func rowCells(row int) [][2]int {
	cells := make([][2]int, 0, CardSize)
	for col := 0; col < CardSize; col++ {
		cells = append(cells, [2]int{row, col})
	}
	return cells
}

func colCells(col int) [][2]int {
	cells := make([][2]int, 0, CardSize)
	for row := 0; row < CardSize; row++ {
		cells = append(cells, [2]int{row, col})
	}
	return cells
}

var (
	mainDiagonal = [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}
	antiDiagonal = [][2]int{{0, 4}, {1, 3}, {2, 2}, {3, 1}, {4, 0}}
	fourCorners  = [][2]int{{0, 0}, {0, 4}, {4, 0}, {4, 4}}
	smallSquare  = [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
)

// IsWinner decides whether card wins pattern against the called-number
// history. It is pure and deterministic; an unknown pattern never wins.
func IsWinner(card BingoCard, called []int, pattern Pattern) bool {
	switch pattern {
	case PatternAnyLine:
		for i := 0; i < CardSize; i++ {
			if cellsSatisfied(card, called, rowCells(i)) {
				return true
			}
		}
		for j := 0; j < CardSize; j++ {
			if cellsSatisfied(card, called, colCells(j)) {
				return true
			}
		}
		return cellsSatisfied(card, called, mainDiagonal) ||
			cellsSatisfied(card, called, antiDiagonal)

	case PatternFourCorners:
		return cellsSatisfied(card, called, fourCorners)

	case PatternCross:
		return cellsSatisfied(card, called, rowCells(FreeRow)) &&
			cellsSatisfied(card, called, colCells(FreeCol))

	case PatternLetterX:
		return cellsSatisfied(card, called, mainDiagonal) &&
			cellsSatisfied(card, called, antiDiagonal)

	case PatternSmallSquare:
		return cellsSatisfied(card, called, smallSquare)

	case PatternTopRow:
		return cellsSatisfied(card, called, rowCells(0))

	case PatternMiddleRow:
		return cellsSatisfied(card, called, rowCells(2))

	case PatternBottomRow:
		return cellsSatisfied(card, called, rowCells(4))

	case PatternLeftL:
		return cellsSatisfied(card, called, colCells(0)) &&
			cellsSatisfied(card, called, rowCells(4))

	case PatternRightL:
		return cellsSatisfied(card, called, colCells(4)) &&
			cellsSatisfied(card, called, rowCells(0))

	case PatternFullHouse:
		for row := 0; row < CardSize; row++ {
			if !cellsSatisfied(card, called, rowCells(row)) {
				return false
			}
		}
		return true

	default:
		return false
	}
}
