package engine

import "math/rand"

// columnRange is the inclusive numeric range for one B-I-N-G-O column.
type columnRange struct {
	Min, Max int
}

// ColumnRanges maps column index to its legal number range:
// B 1-15, I 16-30, N 31-45, G 46-60, O 61-75.
var ColumnRanges = [CardSize]columnRange{
	{1, 15},
	{16, 30},
	{31, 45},
	{46, 60},
	{61, 75},
}

// randomNumbersInRange draws count distinct integers from [min, max].
// Every column range holds 15 candidates for 5 draws, so this always
// terminates quickly.
func randomNumbersInRange(count, min, max int) []int {
	seen := make(map[int]bool, count)
	numbers := make([]int, 0, count)
	for len(numbers) < count {
		n := rand.Intn(max-min+1) + min
		if seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	return numbers
}

// NewCard generates a randomized bingo card. Each column holds 5 distinct
// numbers from its range; the card is built column-major and transposed so
// card[row][col] lands in column col's range. The center cell is the fixed
// FREE cell, the number drawn for that slot is discarded.
func NewCard() BingoCard {
	var columns [CardSize][CardSize]Cell
	for col := 0; col < CardSize; col++ {
		numbers := randomNumbersInRange(CardSize, ColumnRanges[col].Min, ColumnRanges[col].Max)
		for row := 0; row < CardSize; row++ {
			if col == FreeCol && row == FreeRow {
				columns[col][row] = Cell{Free: true, Marked: true}
				continue
			}
			columns[col][row] = Cell{Number: numbers[row]}
		}
	}

	// Transpose to row-major so columns read B-I-N-G-O left to right.
	var card BingoCard
	for row := 0; row < CardSize; row++ {
		for col := 0; col < CardSize; col++ {
			card[row][col] = columns[col][row]
		}
	}
	return card
}
