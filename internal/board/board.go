package board

import (
	"errors"
	"fmt"
)

// DebugChecks enables the expensive programmer-error assertions:
// placing onto an occupied square, removing from an empty one, and
// mailbox/bitboard desync detection after every applied move. With the
// flag off those misuses are undefined behavior, as in a release build.
var DebugChecks = false

// ErrNoMoveToUndo is returned by RewindMove when the undo stack is empty.
var ErrNoMoveToUndo = errors.New("no move to undo")

// boardState is one full snapshot of the position. The undo stack holds
// values of this type, so rewinding is a single copy.
type boardState struct {
	// squares is the padded 10x12 mailbox. Guard entries hold OffBoard.
	squares [MailboxSize]Piece

	// pieces holds one bitboard per (type, color) pair, indexed by Piece.
	// all is their union and must match at every observable moment.
	pieces [12]Bitboard
	all    Bitboard

	colorToMove    Color
	canCastleLeft  [2]bool // queen side, indexed by Color
	canCastleRight [2]bool // king side, indexed by Color

	// enPassantTarget is the square a capturing pawn would move to,
	// enPassantVictim the square the captured pawn occupies. Both are
	// NoSquare unless the previous half-move was a double pawn push.
	enPassantTarget Square
	enPassantVictim Square

	halfMoveClock  int
	fullMoveNumber int
}

func newBoardState() boardState {
	s := boardState{
		enPassantTarget: NoSquare,
		enPassantVictim: NoSquare,
		fullMoveNumber:  1,
	}
	for i := range s.squares {
		s.squares[i] = OffBoard
	}
	for sq := A1; sq <= H8; sq++ {
		s.squares[sq.Mailbox()] = NoPiece
	}
	return s
}

// Board is the full position: mailbox, bitboards, side to move, castling
// rights, en passant state, and the undo stack. It is not synchronized;
// concurrent users must clone it.
type Board struct {
	state boardState
	undo  []boardState
}

// NewBoard creates an empty board with white to move and no castling
// rights. Populate it with LoadFEN or PlacePiece.
func NewBoard() *Board {
	return &Board{state: newBoardState()}
}

// Clone returns a copy of the board with an empty undo stack.
func (b *Board) Clone() *Board {
	return &Board{state: b.state}
}

// At returns the piece at the given square.
func (b *Board) At(sq Square) Piece {
	return b.state.squares[sq.Mailbox()]
}

// AtMailbox returns the mailbox entry at the given padded index;
// OffBoard for guard entries.
func (b *Board) AtMailbox(m Mailbox) Piece {
	return b.state.squares[m]
}

// IsOccupied returns true if the square holds a piece.
func (b *Board) IsOccupied(sq Square) bool {
	return b.state.all.IsSet(sq)
}

// IsFriendly returns true if the piece on the square belongs to the
// side to move. The square must be occupied; IsFriendly does not check.
func (b *Board) IsFriendly(sq Square) bool {
	return b.At(sq).Color() == b.state.colorToMove
}

// PlacePiece puts a piece onto an empty square, updating the mailbox
// and the owning bitboard. Placing onto an occupied square is a
// programmer error (checked only when DebugChecks is on).
func (b *Board) PlacePiece(sq Square, p Piece) {
	if DebugChecks {
		if p >= NoPiece {
			panic(fmt.Sprintf("board: placing invalid piece %d on %v", p, sq))
		}
		if b.IsOccupied(sq) {
			panic(fmt.Sprintf("board: placing %v on occupied square %v", p, sq))
		}
	}
	b.state.squares[sq.Mailbox()] = p
	b.state.pieces[p] = b.state.pieces[p].Set(sq)
	b.state.all = b.state.all.Set(sq)
}

// RemovePiece removes the piece from a square. Removing from an empty
// square is a programmer error (checked only when DebugChecks is on).
func (b *Board) RemovePiece(sq Square) {
	p := b.At(sq)
	if DebugChecks && p >= NoPiece {
		panic(fmt.Sprintf("board: removing piece from empty square %v", sq))
	}
	b.state.squares[sq.Mailbox()] = NoPiece
	b.state.pieces[p] = b.state.pieces[p].Clear(sq)
	b.state.all = b.state.all.Clear(sq)
}

// movePiece relocates a piece in mailbox and bitboards. The destination
// must be empty; captures are removed beforehand.
func (b *Board) movePiece(from, to Square) {
	p := b.state.squares[from.Mailbox()]
	b.state.squares[from.Mailbox()] = NoPiece
	b.state.squares[to.Mailbox()] = p
	b.state.pieces[p] = b.state.pieces[p].Clear(from).Set(to)
	b.state.all = b.state.all.Clear(from).Set(to)
}

// applyMovePieces performs the piece-relocation part of a move: en
// passant or ordinary capture, the move itself, promotion, and the
// auxiliary rook shift of castling. Returns the captured piece, if any.
func (b *Board) applyMovePieces(m Move) Piece {
	captured := NoPiece

	if m.IsEnPassant {
		captured = b.At(b.state.enPassantVictim)
		b.RemovePiece(b.state.enPassantVictim)
	} else if b.At(m.To) != NoPiece {
		captured = b.At(m.To)
		b.RemovePiece(m.To)
	}

	b.movePiece(m.From, m.To)

	if m.Promotion != NoPieceType {
		c := b.At(m.To).Color()
		b.RemovePiece(m.To)
		b.PlacePiece(m.To, NewPiece(m.Promotion, c))
	}

	if m.IsCastling && m.Auxiliary != nil {
		b.applyMovePieces(*m.Auxiliary)
	}

	return captured
}

// ApplyMove makes a move and updates the full game state. The pre-move
// position is pushed onto the undo stack first, so a caller observing a
// panic mid-application can RewindMove to recover.
//
// Self-captures and moves of the wrong color are excluded by the move
// generator and undefined here.
func (b *Board) ApplyMove(m Move) {
	b.undo = append(b.undo, b.state)

	mover := b.At(m.From)
	captured := b.applyMovePieces(m)

	// Castling rights: a king move clears both sides for its color, a
	// rook leaving its corner clears that side, and a capture on a
	// corner clears the opponent's corresponding side.
	if mover.Type() == King {
		b.state.canCastleLeft[mover.Color()] = false
		b.state.canCastleRight[mover.Color()] = false
	}
	b.removeCastlings(m.From)
	b.removeCastlings(m.To)

	if m.IsDoublePawnPush {
		b.state.enPassantTarget = Square((int(m.From) + int(m.To)) / 2)
		b.state.enPassantVictim = m.To
	} else {
		b.state.enPassantTarget = NoSquare
		b.state.enPassantVictim = NoSquare
	}

	if mover.Type() == Pawn || captured != NoPiece {
		b.state.halfMoveClock = 0
	} else {
		b.state.halfMoveClock++
	}
	if b.state.colorToMove == Black {
		b.state.fullMoveNumber++
	}
	b.state.colorToMove = b.state.colorToMove.Other()

	if DebugChecks {
		b.checkCoherence()
	}
}

// ApplyMoveStatic relocates pieces without touching side to move,
// castling rights, en passant state, or the undo stack. Used for
// hypothetical placement.
func (b *Board) ApplyMoveStatic(m Move) {
	b.applyMovePieces(m)
	if DebugChecks {
		b.checkCoherence()
	}
}

// RewindMove restores the position before the last ApplyMove. Returns
// ErrNoMoveToUndo if there is nothing to rewind; the board is unchanged.
func (b *Board) RewindMove() error {
	if len(b.undo) == 0 {
		return ErrNoMoveToUndo
	}
	b.state = b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	return nil
}

// HistoryLen returns the number of rewindable moves.
func (b *Board) HistoryLen() int {
	return len(b.undo)
}

// removeCastlings clears the castling rights invalidated by a piece
// moving from, or being captured on, the given square.
func (b *Board) removeCastlings(sq Square) {
	switch sq {
	case A1:
		b.state.canCastleLeft[White] = false
	case H1:
		b.state.canCastleRight[White] = false
	case A8:
		b.state.canCastleLeft[Black] = false
	case H8:
		b.state.canCastleRight[Black] = false
	}
}

// SwitchPerspective flips the side to move without moving any pieces.
func (b *Board) SwitchPerspective() {
	b.state.colorToMove = b.state.colorToMove.Other()
}

// ColorToMove returns the side to move.
func (b *Board) ColorToMove() Color {
	return b.state.colorToMove
}

// CanCastleLeft returns the queen-side castling right for a color.
func (b *Board) CanCastleLeft(c Color) bool {
	return b.state.canCastleLeft[c]
}

// CanCastleRight returns the king-side castling right for a color.
func (b *Board) CanCastleRight(c Color) bool {
	return b.state.canCastleRight[c]
}

// EnPassantTarget returns the square a pawn would move to when
// capturing en passant, or NoSquare.
func (b *Board) EnPassantTarget() Square {
	return b.state.enPassantTarget
}

// EnPassantVictim returns the square of the pawn that would be captured
// en passant, or NoSquare.
func (b *Board) EnPassantVictim() Square {
	return b.state.enPassantVictim
}

// HalfMoveClock returns the number of half-moves since the last pawn
// move or capture.
func (b *Board) HalfMoveClock() int {
	return b.state.halfMoveClock
}

// FullMoveNumber returns the full-move counter, starting at 1.
func (b *Board) FullMoveNumber() int {
	return b.state.fullMoveNumber
}

// PieceBitboard returns the bitboard holding the given piece.
func (b *Board) PieceBitboard(p Piece) Bitboard {
	return b.state.pieces[p]
}

// AllPieces returns the union of all piece bitboards.
func (b *Board) AllPieces() Bitboard {
	return b.state.all
}

// ColorPieces returns the union of one side's piece bitboards.
func (b *Board) ColorPieces(c Color) Bitboard {
	var bb Bitboard
	for pt := Pawn; pt <= King; pt++ {
		bb |= b.state.pieces[NewPiece(pt, c)]
	}
	return bb
}

// KingSquare returns the square of a color's king, or NoSquare if the
// board has none (only reachable through hand-built positions).
func (b *Board) KingSquare(c Color) Square {
	return b.state.pieces[NewPiece(King, c)].LSB()
}

// String returns a diagram of the position.
func (b *Board) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			p := b.At(NewSquare(file, rank))
			if p == NoPiece {
				s += ". "
			} else {
				s += p.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n"
	return s
}

// checkCoherence verifies that the mailbox and the bitboards agree on
// every square and that the all-piece bitboard is their exact union.
func (b *Board) checkCoherence() {
	var union Bitboard
	popSum := 0
	for p := WhitePawn; p <= BlackKing; p++ {
		union |= b.state.pieces[p]
		popSum += b.state.pieces[p].PopCount()
	}
	if union != b.state.all {
		panic("board: all-piece bitboard out of sync with piece bitboards")
	}
	if popSum != b.state.all.PopCount() {
		panic("board: piece bitboards overlap")
	}
	for sq := A1; sq <= H8; sq++ {
		p := b.At(sq)
		if p == NoPiece {
			if b.state.all.IsSet(sq) {
				panic(fmt.Sprintf("board: bitboard occupied but mailbox empty at %v", sq))
			}
			continue
		}
		if !b.state.pieces[p].IsSet(sq) {
			panic(fmt.Sprintf("board: mailbox holds %v at %v but bitboard bit is clear", p, sq))
		}
	}
}
