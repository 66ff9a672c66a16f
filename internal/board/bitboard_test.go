package board

import "testing"

func TestBitboardSetClear(t *testing.T) {
	var bb Bitboard

	bb = bb.Set(E4).Set(A1).Set(H8)
	if !bb.IsSet(E4) || !bb.IsSet(A1) || !bb.IsSet(H8) {
		t.Fatalf("expected e4, a1, h8 set, got\n%v", bb)
	}
	if bb.PopCount() != 3 {
		t.Errorf("PopCount = %d, want 3", bb.PopCount())
	}

	bb = bb.Clear(A1)
	if bb.IsSet(A1) {
		t.Errorf("a1 still set after Clear")
	}
	if bb.PopCount() != 2 {
		t.Errorf("PopCount = %d, want 2", bb.PopCount())
	}
}

func TestBitboardLSB(t *testing.T) {
	tests := []struct {
		bb   Bitboard
		want Square
	}{
		{SquareBB(A1), A1},
		{SquareBB(H8), H8},
		{SquareBB(E4) | SquareBB(H8), E4},
		{Rank2, A2},
		{FileH, H1},
	}

	for _, tc := range tests {
		if got := tc.bb.LSB(); got != tc.want {
			t.Errorf("LSB of %016x = %v, want %v", uint64(tc.bb), got, tc.want)
		}
	}

	if got := EmptyBB.LSB(); got != NoSquare {
		t.Errorf("LSB of empty bitboard = %v, want NoSquare", got)
	}
}

func TestBitboardPopLSBAscending(t *testing.T) {
	bb := SquareBB(C3) | SquareBB(A1) | SquareBB(H8) | SquareBB(E4)
	want := []Square{A1, C3, E4, H8}

	var got []Square
	for bb.More() {
		got = append(got, bb.PopLSB())
	}

	if len(got) != len(want) {
		t.Fatalf("popped %d squares, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pop %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBitboardSquares(t *testing.T) {
	bb := Rank1
	squares := bb.Squares()
	if len(squares) != 8 {
		t.Fatalf("Rank1 has %d squares, want 8", len(squares))
	}
	for i, sq := range squares {
		if sq != Square(i) {
			t.Errorf("square %d: got %v, want %v", i, sq, Square(i))
		}
	}
}
