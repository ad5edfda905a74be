package tictactoe

// Mark is the content of a board cell.
type Mark int

const (
	Empty Mark = iota
	MarkX
	MarkO
)

// BoardSize is the board dimension.
const BoardSize = 3

// Board holds the nine cells in row-major order.
type Board [BoardSize * BoardSize]Mark

// WinningLines lists every row, column, and diagonal by cell index.
var WinningLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Place puts m on an empty cell. Returns false if the cell is taken or out of range.
func (b *Board) Place(idx int, m Mark) bool {
	if idx < 0 || idx >= len(b) || b[idx] != Empty {
		return false
	}
	b[idx] = m
	return true
}

// Wins reports whether m occupies a full winning line, and which.
func (b Board) Wins(m Mark) ([3]int, bool) {
	for _, line := range WinningLines {
		if b[line[0]] == m && b[line[1]] == m && b[line[2]] == m {
			return line, true
		}
	}
	return [3]int{}, false
}

// Full reports whether every cell is taken.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Index converts a cursor position to a cell index.
func Index(col, row int) int {
	return row*BoardSize + col
}
