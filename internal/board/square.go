// Package board implements the chess position representation and legal
// move generator: a 10x12 mailbox kept in lockstep with per-piece
// bitboards, stack-based undo, and perft.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mailbox is an index into the padded 10x12 board (0-119): two guard
// ranks below and above the real board and one guard file on each side,
// so that a single offset addition followed by an OnBoard check detects
// every off-board destination. A1 maps to 21, H8 to 98.
type Mailbox int8

// MailboxSize is the number of entries in the padded board.
const MailboxSize = 10 * 12

// Mailbox returns the padded 10x12 index of the square.
func (sq Square) Mailbox() Mailbox {
	return Mailbox((sq.Rank()+2)*10 + sq.File() + 1)
}

// Square converts a padded index back to the compact form.
// Returns NoSquare for guard entries.
func (m Mailbox) Square() Square {
	if !m.OnBoard() {
		return NoSquare
	}
	return NewSquare(int(m)%10-1, int(m)/10-2)
}

// OnBoard returns true if the padded index lies on the real 8x8 board.
func (m Mailbox) OnBoard() bool {
	file := int(m) % 10
	rank := int(m) / 10
	return file >= 1 && file <= 8 && rank >= 2 && rank <= 9
}

// Direction is one of the eight compass directions. The first four are
// the rook directions, the last four the bishop directions; queens and
// kings use all eight.
type Direction uint8

const (
	North Direction = iota
	West
	East
	South
	NorthWest
	NorthEast
	SouthWest
	SouthEast
)

var mailboxDeltas = [8]Mailbox{10, -1, 1, -10, 9, 11, -11, -9}
var squareDeltas = [8]int{8, -1, 1, -8, 7, 9, -9, -7}

// MailboxDelta returns the padded-index offset of one step in the direction.
func (d Direction) MailboxDelta() Mailbox {
	return mailboxDeltas[d]
}

// SquareDelta returns the compact-index offset of one step in the direction.
// Only meaningful when the step does not wrap around the board edge.
func (d Direction) SquareDelta() int {
	return squareDeltas[d]
}

// Direction groups for the sliding pieces.
var (
	rookDirections   = []Direction{North, West, East, South}
	bishopDirections = []Direction{NorthWest, NorthEast, SouthWest, SouthEast}
	allDirections    = []Direction{North, West, East, South, NorthWest, NorthEast, SouthWest, SouthEast}
)
