package board

// maxMovesPerPosition bounds the number of legal moves in any reachable
// chess position; used to size move slices up front.
const maxMovesPerPosition = 218

// MoveGenerator produces the exact set of legal moves for a board's
// side to move. Generation runs in two phases: GenerateAttackData
// computes the opponent's attacked squares, checkers, and absolute
// pins; emission then produces pseudo-legal moves and filters them
// against that data. A generator carries scratch state and is not safe
// for concurrent use; give each goroutine its own.
type MoveGenerator struct {
	pseudo   []Move
	filtered int

	attacked       Bitboard
	attackedBishop Bitboard
	attackedRook   Bitboard
	pinned         Bitboard
	checkers       Bitboard

	kingSquare  Square
	inCheck     bool
	doubleCheck bool

	// DebugBitboard is scratch space for surfacing an arbitrary square
	// set in a UI. The generator never reads it.
	DebugBitboard Bitboard
}

// NewMoveGenerator creates a generator with preallocated scratch space.
func NewMoveGenerator() *MoveGenerator {
	return &MoveGenerator{pseudo: make([]Move, 0, maxMovesPerPosition)}
}

// AttackedSquares returns the squares attacked by the opponent of the
// side to move, computed by the last GenerateAttackData call. The
// friendly king is treated as transparent, so squares x-rayed through
// it are included.
func (g *MoveGenerator) AttackedSquares() Bitboard {
	return g.attacked
}

// AttackedSquaresBishop returns the squares on the diagonal rays of the
// enemy bishops and queens. Pawn attacks are not included.
func (g *MoveGenerator) AttackedSquaresBishop() Bitboard {
	return g.attackedBishop
}

// AttackedSquaresRook returns the squares on the orthogonal rays of the
// enemy rooks and queens.
func (g *MoveGenerator) AttackedSquaresRook() Bitboard {
	return g.attackedRook
}

// PinnedPieces returns the friendly pieces absolutely pinned to the
// friendly king.
func (g *MoveGenerator) PinnedPieces() Bitboard {
	return g.pinned
}

// Checkers returns the enemy pieces currently giving check.
func (g *MoveGenerator) Checkers() Bitboard {
	return g.checkers
}

// InCheck returns true if the side to move was in check at the last
// GenerateAttackData call.
func (g *MoveGenerator) InCheck() bool {
	return g.inCheck
}

// InDoubleCheck returns true if two pieces give check simultaneously.
func (g *MoveGenerator) InDoubleCheck() bool {
	return g.doubleCheck
}

// FilteredMoves returns how many pseudo-legal moves the last
// GenerateAllMoves call rejected during legality filtering.
func (g *MoveGenerator) FilteredMoves() int {
	return g.filtered
}

// GenerateAllMoves returns every legal move in the position for its
// side to move. The returned slice is freshly allocated and remains
// valid across further generator calls.
func (g *MoveGenerator) GenerateAllMoves(b *Board) []Move {
	g.GenerateAttackData(b)

	g.pseudo = g.pseudo[:0]
	g.generateSlidingMoves(b)
	g.generateKnightMoves(b)
	g.generateKingMoves(b)
	g.generatePawnMoves(b)

	g.filtered = 0
	legal := make([]Move, 0, len(g.pseudo))
	for _, m := range g.pseudo {
		if g.isLegal(b, m) {
			legal = append(legal, m)
		} else {
			g.filtered++
		}
	}
	return legal
}

// pawnCaptureDirections returns the two diagonal attack directions of a
// pawn of the given color.
func pawnCaptureDirections(c Color) [2]Direction {
	if c == White {
		return [2]Direction{NorthWest, NorthEast}
	}
	return [2]Direction{SouthWest, SouthEast}
}

// slidesInDirection returns true if a piece type attacks along the
// given compass direction.
func slidesInDirection(pt PieceType, d Direction) bool {
	switch pt {
	case Queen:
		return true
	case Rook:
		return d <= South
	case Bishop:
		return d >= NorthWest
	}
	return false
}

// GenerateAttackData computes the attacked-square sets, the checker
// set, and the pinned-piece set for the board's side to move.
func (g *MoveGenerator) GenerateAttackData(b *Board) {
	g.attacked = 0
	g.attackedBishop = 0
	g.attackedRook = 0
	g.pinned = 0
	g.checkers = 0

	us := b.ColorToMove()
	them := us.Other()
	g.kingSquare = b.KingSquare(us)

	// Pawns.
	pawns := b.PieceBitboard(NewPiece(Pawn, them))
	for pawns.More() {
		sq := pawns.PopLSB()
		for _, d := range pawnCaptureDirections(them) {
			if t := sq.Mailbox() + d.MailboxDelta(); t.OnBoard() {
				target := t.Square()
				g.attacked = g.attacked.Set(target)
				if target == g.kingSquare {
					g.checkers = g.checkers.Set(sq)
				}
			}
		}
	}

	// Knights.
	knights := b.PieceBitboard(NewPiece(Knight, them))
	for knights.More() {
		sq := knights.PopLSB()
		targets := KnightTargets(sq)
		g.attacked |= targets
		if g.kingSquare != NoSquare && targets.IsSet(g.kingSquare) {
			g.checkers = g.checkers.Set(sq)
		}
	}

	// Enemy king.
	if esq := b.KingSquare(them); esq != NoSquare {
		g.attacked |= KingTargets(esq)
	}

	// Sliders, with the friendly king transparent so that squares
	// x-rayed through it stay marked when the king retreats along the
	// checking ray.
	for _, s := range []struct {
		pt   PieceType
		dirs []Direction
	}{
		{Rook, rookDirections},
		{Bishop, bishopDirections},
		{Queen, allDirections},
	} {
		sliders := b.PieceBitboard(NewPiece(s.pt, them))
		for sliders.More() {
			from := sliders.PopLSB()
			for _, d := range s.dirs {
				r := &raySquares[from][d]
				for i := 0; i < r.n; i++ {
					target := r.squares[i]
					g.attacked = g.attacked.Set(target)
					if d <= South {
						g.attackedRook = g.attackedRook.Set(target)
					} else {
						g.attackedBishop = g.attackedBishop.Set(target)
					}
					p := b.At(target)
					if p == NoPiece {
						continue
					}
					if target == g.kingSquare {
						g.checkers = g.checkers.Set(from)
						continue
					}
					break
				}
			}
		}
	}

	g.inCheck = g.kingSquare != NoSquare && g.attacked.IsSet(g.kingSquare)
	g.doubleCheck = g.checkers.PopCount() > 1

	// Pins: walk outward from the king; a single friendly piece between
	// the king and an enemy slider of the matching axis is pinned.
	if g.kingSquare != NoSquare {
		for _, d := range allDirections {
			candidate := NoSquare
			r := &raySquares[g.kingSquare][d]
			for i := 0; i < r.n; i++ {
				sq := r.squares[i]
				p := b.At(sq)
				if p == NoPiece {
					continue
				}
				if p.Color() == us {
					if candidate != NoSquare {
						break // two friendly blockers, no pin
					}
					candidate = sq
					continue
				}
				if candidate != NoSquare && slidesInDirection(p.Type(), d) {
					g.pinned = g.pinned.Set(candidate)
				}
				break
			}
		}
	}
}

func (g *MoveGenerator) emit(m Move) {
	g.pseudo = append(g.pseudo, m)
}

// emitPawn emits a pawn move, fanning out into the four promotion moves
// when it reaches the last rank.
func (g *MoveGenerator) emitPawn(m Move, promoRank int) {
	if m.To.Rank() != promoRank {
		g.emit(m)
		return
	}
	for _, pt := range PromotionTypes {
		promo := m
		promo.Promotion = pt
		g.emit(promo)
	}
}

// generateSlidingMoves emits pseudo-legal rook, bishop, and queen moves.
func (g *MoveGenerator) generateSlidingMoves(b *Board) {
	us := b.ColorToMove()

	for _, s := range []struct {
		pt   PieceType
		dirs []Direction
	}{
		{Rook, rookDirections},
		{Bishop, bishopDirections},
		{Queen, allDirections},
	} {
		pieces := b.PieceBitboard(NewPiece(s.pt, us))
		for pieces.More() {
			from := pieces.PopLSB()
			for _, d := range s.dirs {
				r := &raySquares[from][d]
				for i := 0; i < r.n; i++ {
					to := r.squares[i]
					p := b.At(to)
					if p == NoPiece {
						g.emit(NewMove(from, to))
						continue
					}
					if p.Color() != us {
						g.emit(NewMove(from, to)) // capture
					}
					break
				}
			}
		}
	}
}

// generateKnightMoves emits pseudo-legal knight moves.
func (g *MoveGenerator) generateKnightMoves(b *Board) {
	us := b.ColorToMove()
	own := b.ColorPieces(us)

	knights := b.PieceBitboard(NewPiece(Knight, us))
	for knights.More() {
		from := knights.PopLSB()
		targets := KnightTargets(from) &^ own
		for targets.More() {
			g.emit(NewMove(from, targets.PopLSB()))
		}
	}
}

// generateKingMoves emits pseudo-legal king steps plus castling moves
// whose geometric preconditions hold (rights held, path empty, rook on
// its corner). The attacked-square constraints are applied during
// legality filtering.
func (g *MoveGenerator) generateKingMoves(b *Board) {
	us := b.ColorToMove()
	from := b.KingSquare(us)
	if from == NoSquare {
		return
	}

	own := b.ColorPieces(us)
	targets := KingTargets(from) &^ own
	for targets.More() {
		g.emit(NewMove(from, targets.PopLSB()))
	}

	fm := from.Mailbox()

	if b.CanCastleRight(us) &&
		b.AtMailbox(fm+1) == NoPiece &&
		b.AtMailbox(fm+2) == NoPiece &&
		b.AtMailbox(fm+3) == NewPiece(Rook, us) {
		m := NewMove(from, (fm + 2).Square())
		m.IsCastling = true
		aux := NewMove((fm + 3).Square(), (fm + 1).Square())
		m.Auxiliary = &aux
		g.emit(m)
	}

	if b.CanCastleLeft(us) &&
		b.AtMailbox(fm-1) == NoPiece &&
		b.AtMailbox(fm-2) == NoPiece &&
		b.AtMailbox(fm-3) == NoPiece &&
		b.AtMailbox(fm-4) == NewPiece(Rook, us) {
		m := NewMove(from, (fm - 2).Square())
		m.IsCastling = true
		aux := NewMove((fm - 4).Square(), (fm - 1).Square())
		m.Auxiliary = &aux
		g.emit(m)
	}
}

// generatePawnMoves emits pseudo-legal pawn pushes, double pushes,
// captures, en passant captures, and promotions.
func (g *MoveGenerator) generatePawnMoves(b *Board) {
	us := b.ColorToMove()

	var dir Mailbox
	var baseRank, promoRank int
	if us == White {
		dir = North.MailboxDelta()
		baseRank, promoRank = 1, 7
	} else {
		dir = South.MailboxDelta()
		baseRank, promoRank = 6, 0
	}

	pawns := b.PieceBitboard(NewPiece(Pawn, us))
	for pawns.More() {
		from := pawns.PopLSB()
		fm := from.Mailbox()

		if one := fm + dir; b.AtMailbox(one) == NoPiece {
			g.emitPawn(NewMove(from, one.Square()), promoRank)

			if two := one + dir; from.Rank() == baseRank && b.AtMailbox(two) == NoPiece {
				m := NewMove(from, two.Square())
				m.IsDoublePawnPush = true
				m.EnPassantFile = int8(m.To.File())
				g.emit(m)
			}
		}

		for _, capDelta := range [2]Mailbox{dir - 1, dir + 1} {
			t := fm + capDelta
			p := b.AtMailbox(t)
			if p != NoPiece && p != OffBoard && p.Color() != us {
				g.emitPawn(NewMove(from, t.Square()), promoRank)
			} else if ep := b.EnPassantTarget(); ep != NoSquare && p == NoPiece && t.Square() == ep {
				m := NewMove(from, ep)
				m.IsEnPassant = true
				g.emit(m)
			}
		}
	}
}

// isLegal applies the check, pin, and king-safety rules to a
// pseudo-legal move.
func (g *MoveGenerator) isLegal(b *Board, m Move) bool {
	kingSq := g.kingSquare
	if kingSq == NoSquare {
		return true // no king to defend; positions like this are test scaffolding
	}

	if m.From == kingSq {
		if m.IsCastling {
			if g.inCheck {
				return false
			}
			// Every square the king touches, start and end inclusive,
			// must be safe.
			step := 1
			if m.To < m.From {
				step = -1
			}
			for sq := int(m.From); ; sq += step {
				if g.attacked.IsSet(Square(sq)) {
					return false
				}
				if Square(sq) == m.To {
					break
				}
			}
			return true
		}
		return !g.attacked.IsSet(m.To)
	}

	if g.doubleCheck {
		return false // only the king may move
	}

	if m.IsEnPassant {
		// Removing two pawns from one rank can expose a horizontal
		// slider attack that pin detection cannot see; verify against
		// the applied position.
		return g.enPassantKeepsKingSafe(b, m)
	}

	if g.pinned.IsSet(m.From) && !Aligned(m.From, kingSq, m.To) {
		return false
	}

	if g.inCheck {
		checker := g.checkers.LSB()
		mask := g.checkers | Obstructed(checker, kingSq)
		if !mask.IsSet(m.To) {
			return false
		}
	}

	return true
}

// enPassantKeepsKingSafe applies the capture hypothetically and tests
// whether the friendly king is attacked afterwards.
func (g *MoveGenerator) enPassantKeepsKingSafe(b *Board, m Move) bool {
	us := b.ColorToMove()
	b.ApplyMove(m)
	safe := !squareAttacked(b, g.kingSquare, us.Other())
	if err := b.RewindMove(); err != nil {
		panic("board: rewind after hypothetical en passant failed")
	}
	return safe
}

// squareAttacked reports whether the given color attacks the square in
// the board's current occupancy. Unlike the generator's attack data it
// has no king transparency; it answers for the position as it stands.
func squareAttacked(b *Board, sq Square, by Color) bool {
	// A pawn of color `by` attacks sq from one step opposite its own
	// capture direction.
	for _, d := range pawnCaptureDirections(by) {
		if t := sq.Mailbox() - d.MailboxDelta(); t.OnBoard() && b.AtMailbox(t) == NewPiece(Pawn, by) {
			return true
		}
	}

	if KnightTargets(sq)&b.PieceBitboard(NewPiece(Knight, by)) != 0 {
		return true
	}

	if esq := b.KingSquare(by); esq != NoSquare && KingTargets(sq).IsSet(esq) {
		return true
	}

	for _, d := range allDirections {
		r := &raySquares[sq][d]
		for i := 0; i < r.n; i++ {
			p := b.At(r.squares[i])
			if p == NoPiece {
				continue
			}
			if p.Color() == by && slidesInDirection(p.Type(), d) {
				return true
			}
			break
		}
	}

	return false
}
