package board

import "fmt"

// Move describes a single half-move. Castling carries the rook shift as
// an Auxiliary move owned by the outer move; the pair is applied as one
// logical move.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType // NoPieceType unless the move promotes

	IsCastling       bool
	IsEnPassant      bool
	IsDoublePawnPush bool

	// EnPassantFile is the file (0-7) made capturable by a double pawn
	// push, -1 otherwise.
	EnPassantFile int8

	// Auxiliary is the rook half of a castling move. It is owned by the
	// containing move; never shared.
	Auxiliary *Move
}

// NewMove creates a plain move between two squares.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType, EnPassantFile: -1}
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promotion: promo, EnPassantFile: -1}
}

// SameBase reports whether two moves agree on from, to, and promotion.
// Flag fields are ignored; this is the equality used to match user or
// engine input against generated moves.
func (m Move) SameBase(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String returns the move in coordinate notation (e.g., "e2e4", "a7a8q").
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	switch m.Promotion {
	case Bishop:
		s += "b"
	case Knight:
		s += "n"
	case Rook:
		s += "r"
	case Queen:
		s += "q"
	}
	return s
}

// ParseMove parses coordinate notation into a base move. Flags are not
// reconstructed; match the result against generated moves with SameBase
// to obtain the full move.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}

	m := NewMove(from, to)
	if len(s) == 5 {
		switch s[4] {
		case 'b':
			m.Promotion = Bishop
		case 'n':
			m.Promotion = Knight
		case 'r':
			m.Promotion = Rook
		case 'q':
			m.Promotion = Queen
		default:
			return Move{}, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}
	return m, nil
}
