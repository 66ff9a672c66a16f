package board

import (
	"math/rand"
	"testing"
)

func moveStrings(moves []Move) map[string]bool {
	set := make(map[string]bool, len(moves))
	for _, m := range moves {
		set[m.String()] = true
	}
	return set
}

func TestStartingPositionMoveCount(t *testing.T) {
	b := mustFromFEN(t, StartFEN)
	gen := NewMoveGenerator()

	moves := gen.GenerateAllMoves(b)
	if len(moves) != 20 {
		t.Fatalf("starting position has %d moves, want 20 (%v)", len(moves), moves)
	}
}

func TestBlockedPawnHasNoMoves(t *testing.T) {
	// After 1. e4 e5 the e4 pawn is blocked and has no captures.
	b := mustFromFEN(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
	gen := NewMoveGenerator()

	moves := gen.GenerateAllMoves(b)
	for _, m := range moves {
		if m.From == E4 {
			t.Errorf("blocked e4 pawn produced move %v", m)
		}
	}

	findMove(t, moves, "d2d4")
}

func TestCastlingKingSide(t *testing.T) {
	b := mustFromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	gen := NewMoveGenerator()

	m := findMove(t, gen.GenerateAllMoves(b), "e1g1")
	if !m.IsCastling {
		t.Fatalf("e1g1 not flagged as castling")
	}
	if m.Auxiliary == nil {
		t.Fatalf("castling move missing auxiliary rook move")
	}
	if m.Auxiliary.From != H1 || m.Auxiliary.To != F1 {
		t.Errorf("auxiliary move %v, want h1f1", *m.Auxiliary)
	}

	b.ApplyMove(m)
	if got := b.At(G1); got != WhiteKing {
		t.Errorf("At(g1) = %v, want white king", got)
	}
	if got := b.At(F1); got != WhiteRook {
		t.Errorf("At(f1) = %v, want white rook", got)
	}
	if b.At(E1) != NoPiece || b.At(H1) != NoPiece {
		t.Errorf("e1/h1 not vacated by castling")
	}
	if b.CanCastleLeft(White) || b.CanCastleRight(White) {
		t.Errorf("white castling rights survived castling")
	}
	if !b.CanCastleLeft(Black) || !b.CanCastleRight(Black) {
		t.Errorf("black castling rights lost by white castling")
	}
}

func TestCastlingQueenSide(t *testing.T) {
	b := mustFromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")
	gen := NewMoveGenerator()

	m := findMove(t, gen.GenerateAllMoves(b), "e8c8")
	b.ApplyMove(m)

	if got := b.At(C8); got != BlackKing {
		t.Errorf("At(c8) = %v, want black king", got)
	}
	if got := b.At(D8); got != BlackRook {
		t.Errorf("At(d8) = %v, want black rook", got)
	}
}

func TestCastlingBlockedByAttack(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
	}{
		{"through attacked square", "r3k2r/8/8/8/8/5r2/8/R3K2R w KQkq - 0 1", "e1g1"},
		{"out of check", "r3k2r/8/8/8/8/4r3/8/R3K2R w KQkq - 0 1", "e1g1"},
		{"into attacked square", "r3k2r/8/8/8/8/6r1/8/R3K2R w KQkq - 0 1", "e1g1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustFromFEN(t, tc.fen)
			gen := NewMoveGenerator()
			if moveStrings(gen.GenerateAllMoves(b))[tc.move] {
				t.Errorf("%s generated in %s", tc.move, tc.fen)
			}
		})
	}
}

func TestCastlingBlockedByPiece(t *testing.T) {
	// Queen-side path occupied on b1: long castling needs b1, c1, d1 empty.
	b := mustFromFEN(t, "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1")
	gen := NewMoveGenerator()
	if moveStrings(gen.GenerateAllMoves(b))["e1c1"] {
		t.Errorf("e1c1 generated over an occupied b1")
	}
}

func TestEnPassantCapture(t *testing.T) {
	b := mustFromFEN(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2")
	gen := NewMoveGenerator()

	m := findMove(t, gen.GenerateAllMoves(b), "e5d6")
	if !m.IsEnPassant {
		t.Fatalf("e5d6 not flagged as en passant")
	}

	b.ApplyMove(m)
	if got := b.At(D6); got != WhitePawn {
		t.Errorf("At(d6) = %v, want white pawn", got)
	}
	if got := b.At(D5); got != NoPiece {
		t.Errorf("At(d5) = %v, want empty (captured pawn removed)", got)
	}
	if got := b.At(E5); got != NoPiece {
		t.Errorf("At(e5) = %v, want empty", got)
	}
}

func TestEnPassantIllegalHorizontalPin(t *testing.T) {
	// Capturing en passant would remove both pawns from the fourth rank
	// and expose the black king on a4 to the rook on h4.
	b := mustFromFEN(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	gen := NewMoveGenerator()

	moves := gen.GenerateAllMoves(b)
	for _, m := range moves {
		if m.IsEnPassant {
			t.Errorf("en passant %v generated despite horizontal exposure", m)
		}
	}
	if len(moves) != 6 {
		t.Errorf("position has %d moves, want 6 (%v)", len(moves), moves)
	}
}

func TestPromotionFansOut(t *testing.T) {
	b := mustFromFEN(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	gen := NewMoveGenerator()

	moves := gen.GenerateAllMoves(b)
	var promos []Move
	for _, m := range moves {
		if m.From == A7 && m.To == A8 {
			promos = append(promos, m)
		}
	}

	if len(promos) != 4 {
		t.Fatalf("a7a8 produced %d moves, want 4 promotions (%v)", len(promos), promos)
	}
	seen := map[PieceType]bool{}
	for _, m := range promos {
		seen[m.Promotion] = true
	}
	for _, pt := range PromotionTypes {
		if !seen[pt] {
			t.Errorf("missing promotion to %v", pt)
		}
	}
}

func TestCapturePromotion(t *testing.T) {
	b := mustFromFEN(t, "1n6/P7/8/8/8/8/8/k6K w - - 0 1")
	gen := NewMoveGenerator()

	moves := gen.GenerateAllMoves(b)
	count := 0
	for _, m := range moves {
		if m.From == A7 && m.To == B8 {
			count++
		}
	}
	if count != 4 {
		t.Errorf("a7xb8 produced %d moves, want 4 promotions", count)
	}
}

func TestPinnedPieceStaysOnRay(t *testing.T) {
	// Black piece on e7 is pinned by the e2 rook.
	b := mustFromFEN(t, "4k3/8/8/8/8/8/4R3/4K3 b - - 0 1")
	b.PlacePiece(E7, BlackPawn)
	gen := NewMoveGenerator()

	gen.GenerateAttackData(b)
	if !gen.PinnedPieces().IsSet(E7) {
		t.Fatalf("e7 pawn not detected as pinned")
	}

	for _, m := range gen.GenerateAllMoves(b) {
		if m.From != E7 {
			continue
		}
		if m.To.File() != 4 {
			t.Errorf("pinned pawn left the e-file: %v", m)
		}
	}
}

func TestPinnedKnightCannotMove(t *testing.T) {
	b := mustFromFEN(t, "4k3/8/8/8/8/8/4R3/4K3 b - - 0 1")
	b.PlacePiece(E7, BlackKnight)
	gen := NewMoveGenerator()

	for _, m := range gen.GenerateAllMoves(b) {
		if m.From == E7 {
			t.Errorf("pinned knight produced move %v", m)
		}
	}
	if gen.FilteredMoves() == 0 {
		t.Errorf("expected the knight's pseudo-legal moves to be filtered")
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Knight on f6 and bishop on b5 both give check.
	b := mustFromFEN(t, "4k3/8/5N2/1B6/8/8/8/4K3 b - - 0 1")
	gen := NewMoveGenerator()

	gen.GenerateAttackData(b)
	if !gen.InDoubleCheck() {
		t.Fatalf("double check not detected (checkers=%v)", gen.Checkers().Squares())
	}

	for _, m := range gen.GenerateAllMoves(b) {
		if m.From != E8 {
			t.Errorf("non-king move %v generated in double check", m)
		}
	}
}

func TestSingleCheckCaptureOrInterpose(t *testing.T) {
	// White king on e1 checked by the rook on e8; the rook on a4 can
	// interpose on e4 and the knight on c7 can capture the checker.
	b := mustFromFEN(t, "4r3/2N5/8/8/R7/8/8/4K3 w - - 0 1")
	gen := NewMoveGenerator()

	gen.GenerateAttackData(b)
	if !gen.InCheck() || gen.InDoubleCheck() {
		t.Fatalf("expected a single check")
	}

	for _, m := range gen.GenerateAllMoves(b) {
		if m.From == E1 {
			continue // king moves are constrained separately
		}
		capturesChecker := m.To == E8
		interposes := m.To.File() == 4 && m.To.Rank() < 7 && m.To.Rank() > 0
		if !capturesChecker && !interposes {
			t.Errorf("move %v neither captures the checker nor interposes", m)
		}
	}

	strs := moveStrings(gen.GenerateAllMoves(b))
	if !strs["c7e8"] {
		t.Errorf("knight capture of the checker not generated")
	}
	if !strs["a4e4"] {
		t.Errorf("rook interposition a4e4 not generated")
	}
}

func TestCheckDetectionMatchesAttackedSquares(t *testing.T) {
	fens := []string{
		StartFEN,
		"4k3/8/8/8/8/8/4R3/4K3 b - - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
	}

	for _, fen := range fens {
		b := mustFromFEN(t, fen)
		gen := NewMoveGenerator()
		gen.GenerateAttackData(b)

		kingSq := b.KingSquare(b.ColorToMove())
		if got, want := gen.InCheck(), gen.AttackedSquares().IsSet(kingSq); got != want {
			t.Errorf("%s: InCheck()=%v but attacked-set says %v", fen, got, want)
		}
	}
}

func TestAttackDataKingTransparency(t *testing.T) {
	// Rook checks along the e-file; the squares behind the king must be
	// attacked too so the king cannot retreat along the ray.
	b := mustFromFEN(t, "4k3/8/8/8/4r3/8/4K3/8 w - - 0 1")
	gen := NewMoveGenerator()

	moves := gen.GenerateAllMoves(b)
	strs := moveStrings(moves)
	if strs["e2e1"] || strs["e2e3"] {
		t.Errorf("king may not step along the checking ray, away from or toward the rook")
	}
	if !strs["e2d2"] || !strs["e2f2"] {
		t.Errorf("sideways king moves missing: %v", moves)
	}
}

// TestNoDuplicateBaseMoves and the two properties after it exercise the
// generator over random walks from the starting position.
func TestNoDuplicateBaseMoves(t *testing.T) {
	b := mustFromFEN(t, StartFEN)
	gen := NewMoveGenerator()
	rng := rand.New(rand.NewSource(11))

	for ply := 0; ply < 150; ply++ {
		moves := gen.GenerateAllMoves(b)
		if len(moves) == 0 {
			break
		}

		for i := 0; i < len(moves); i++ {
			for j := i + 1; j < len(moves); j++ {
				if moves[i].SameBase(moves[j]) {
					t.Fatalf("duplicate base move %v at ply %d", moves[i], ply)
				}
			}
		}

		b.ApplyMove(moves[rng.Intn(len(moves))])
	}
}

func TestGeneratedMovesBelongToSideToMove(t *testing.T) {
	b := mustFromFEN(t, StartFEN)
	gen := NewMoveGenerator()
	rng := rand.New(rand.NewSource(13))

	for ply := 0; ply < 150; ply++ {
		moves := gen.GenerateAllMoves(b)
		if len(moves) == 0 {
			break
		}

		for _, m := range moves {
			p := b.At(m.From)
			if p == NoPiece {
				t.Fatalf("move %v from empty square at ply %d", m, ply)
			}
			if p.Color() != b.ColorToMove() {
				t.Fatalf("move %v of %v piece with %v to move", m, p.Color(), b.ColorToMove())
			}
		}

		b.ApplyMove(moves[rng.Intn(len(moves))])
	}
}

func TestMailboxBitboardCoherenceDuringWalk(t *testing.T) {
	b := mustFromFEN(t, StartFEN)
	gen := NewMoveGenerator()
	rng := rand.New(rand.NewSource(17))

	for ply := 0; ply < 200; ply++ {
		// checkCoherence panics on desync; DebugChecks also runs it
		// inside every ApplyMove.
		b.checkCoherence()

		moves := gen.GenerateAllMoves(b)
		if len(moves) == 0 {
			break
		}
		b.ApplyMove(moves[rng.Intn(len(moves))])
	}
}
