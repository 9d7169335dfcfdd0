/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package tictactoe

// Mark is a participant's assigned symbol. The zero value is an empty cell.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

func (m Mark) Valid() bool {
	return m == X || m == O
}

// Other returns the opposing mark. Empty stays empty.
func (m Mark) Other() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

// Outcome is the result of a finished round.
type Outcome string

const (
	NoOutcome Outcome = ""
	WinX      Outcome = "X"
	WinO      Outcome = "O"
	Draw      Outcome = "Draw"
)

func (o Outcome) Valid() bool {
	return o == WinX || o == WinO || o == Draw
}

const Cells = 9

// Board holds the nine cells in row-major order.
type Board [Cells]Mark

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Outcome evaluates the board. The second return is false while the round
// can still continue.
func (b *Board) Outcome() (Outcome, bool) {
	for _, l := range lines {
		m := b[l[0]]
		if m != Empty && b[l[1]] == m && b[l[2]] == m {
			return Outcome(m), true
		}
	}

	for _, m := range b {
		if m == Empty {
			return NoOutcome, false
		}
	}

	return Draw, true
}

// Blank reports whether no cell has been played.
func (b *Board) Blank() bool {
	for _, m := range b {
		if m != Empty {
			return false
		}
	}
	return true
}
