package board

// Precomputed lookup tables, all pure functions of square indices and
// filled once at package load.
var (
	// knightTargets and kingTargets hold the on-board destination squares
	// per origin square.
	knightTargets [64]Bitboard
	kingTargets   [64]Bitboard

	// raySquares lists, per square and direction, the squares reachable
	// by a slider walking that direction until the board edge.
	raySquares [64][8]ray

	// obstructedBB[a][b] is the set of squares strictly between a and b
	// when they share a rank, file, or diagonal; empty otherwise.
	obstructedBB [64][64]Bitboard

	// lineBB[a][b] is the full line through a and b (endpoints included)
	// when they are aligned; empty otherwise.
	lineBB [64][64]Bitboard
)

// ray is one precomputed sliding direction from a square: the number of
// squares to the edge and their indices in walking order.
type ray struct {
	n       int
	squares [7]Square
}

// knightMailboxDeltas are the eight knight jumps as 10x12 offsets
// (composed from the compass deltas, e.g. N+NE = 10+11).
var knightMailboxDeltas = [8]Mailbox{21, 19, 12, 8, -8, -12, -19, -21}

func init() {
	initRays()
	initLeaperTargets()
	initObstructed()
	initLines()
}

func initRays() {
	for sq := A1; sq <= H8; sq++ {
		for _, d := range allDirections {
			r := &raySquares[sq][d]
			target := sq.Mailbox() + d.MailboxDelta()
			for target.OnBoard() {
				r.squares[r.n] = target.Square()
				r.n++
				target += d.MailboxDelta()
			}
		}
	}
}

func initLeaperTargets() {
	for sq := A1; sq <= H8; sq++ {
		for _, delta := range knightMailboxDeltas {
			if target := sq.Mailbox() + delta; target.OnBoard() {
				knightTargets[sq] = knightTargets[sq].Set(target.Square())
			}
		}
		for _, d := range allDirections {
			if target := sq.Mailbox() + d.MailboxDelta(); target.OnBoard() {
				kingTargets[sq] = kingTargets[sq].Set(target.Square())
			}
		}
	}
}

func initObstructed() {
	for sq1 := A1; sq1 <= H8; sq1++ {
		for sq2 := A1; sq2 <= H8; sq2++ {
			df := sign(sq2.File() - sq1.File())
			dr := sign(sq2.Rank() - sq1.Rank())
			if df == 0 && dr == 0 {
				continue
			}
			if df != 0 && dr != 0 && abs(sq2.File()-sq1.File()) != abs(sq2.Rank()-sq1.Rank()) {
				continue // not on a diagonal
			}

			var between Bitboard
			f, r := sq1.File()+df, sq1.Rank()+dr
			for f != sq2.File() || r != sq2.Rank() {
				between = between.Set(NewSquare(f, r))
				f += df
				r += dr
			}
			obstructedBB[sq1][sq2] = between
		}
	}
}

func initLines() {
	for sq1 := A1; sq1 <= H8; sq1++ {
		for sq2 := A1; sq2 <= H8; sq2++ {
			if sq1 == sq2 {
				continue
			}
			df := sign(sq2.File() - sq1.File())
			dr := sign(sq2.Rank() - sq1.Rank())
			if df != 0 && dr != 0 && abs(sq2.File()-sq1.File()) != abs(sq2.Rank()-sq1.Rank()) {
				continue
			}

			var line Bitboard

			f, r := sq1.File(), sq1.Rank()
			for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				line = line.Set(NewSquare(f, r))
				f -= df
				r -= dr
			}

			f, r = sq1.File()+df, sq1.Rank()+dr
			for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				line = line.Set(NewSquare(f, r))
				f += df
				r += dr
			}

			lineBB[sq1][sq2] = line
		}
	}
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// KnightTargets returns the on-board knight destinations from a square.
func KnightTargets(sq Square) Bitboard {
	return knightTargets[sq]
}

// KingTargets returns the on-board king destinations from a square.
func KingTargets(sq Square) Bitboard {
	return kingTargets[sq]
}

// Obstructed returns the squares strictly between two aligned squares,
// or the empty bitboard if they do not share a rank, file, or diagonal.
func Obstructed(sq1, sq2 Square) Bitboard {
	return obstructedBB[sq1][sq2]
}

// Aligned returns true if sq3 lies on the line through sq1 and sq2.
func Aligned(sq1, sq2, sq3 Square) bool {
	return lineBB[sq1][sq2].IsSet(sq3)
}
