package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FromFEN creates a board from a FEN string.
func FromFEN(fen string) (*Board, error) {
	b := NewBoard()
	if err := b.LoadFEN(fen); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFEN replaces the position with the one encoded in the FEN string
// and resets the undo stack. On a parse error the board contents are
// unspecified; discard or reload.
func (b *Board) LoadFEN(fen string) error {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	b.state = newBoardState()
	b.undo = b.undo[:0]

	if err := b.parsePiecePlacement(parts[0]); err != nil {
		return err
	}

	switch parts[1] {
	case "w":
		b.state.colorToMove = White
	case "b":
		b.state.colorToMove = Black
	default:
		return fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := b.parseCastlingRights(parts[2]); err != nil {
		return err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		b.state.enPassantTarget = sq
		switch sq.Rank() {
		case 2: // white pushed, black may capture
			b.state.enPassantVictim = sq + 8
		case 5: // black pushed, white may capture
			b.state.enPassantVictim = sq - 8
		default:
			return fmt.Errorf("invalid en passant square: %s", parts[3])
		}
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		b.state.halfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		b.state.fullMoveNumber = fmn
	}

	if DebugChecks {
		b.checkCoherence()
	}
	return nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func (b *Board) parsePiecePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				b.PlacePiece(NewSquare(file, rank), piece)
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func (b *Board) parseCastlingRights(castling string) error {
	if castling == "-" {
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			b.state.canCastleRight[White] = true
		case 'Q':
			b.state.canCastleLeft[White] = true
		case 'k':
			b.state.canCastleRight[Black] = true
		case 'q':
			b.state.canCastleLeft[Black] = true
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return nil
}

// FEN returns the FEN representation of the position.
func (b *Board) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.At(NewSquare(file, rank))
			if p == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(p.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.state.colorToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	rights := ""
	if b.state.canCastleRight[White] {
		rights += "K"
	}
	if b.state.canCastleLeft[White] {
		rights += "Q"
	}
	if b.state.canCastleRight[Black] {
		rights += "k"
	}
	if b.state.canCastleLeft[Black] {
		rights += "q"
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	sb.WriteByte(' ')
	sb.WriteString(b.state.enPassantTarget.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.state.halfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.state.fullMoveNumber))

	return sb.String()
}
