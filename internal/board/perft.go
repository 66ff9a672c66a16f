package board

import (
	"fmt"
	"io"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf positions reachable in exactly depth half-moves.
// At the top level, each is invoked (when non-nil) with every root move
// and the node count of its subtree. The second return value is the
// total number of pseudo-legal moves the generator rejected during
// legality filtering across the whole tree, for diagnostic output.
func Perft(b *Board, gen *MoveGenerator, depth int, each func(Move, int64)) (int64, int64) {
	if depth <= 0 {
		return 1, 0
	}

	moves := gen.GenerateAllMoves(b)
	filtered := int64(gen.FilteredMoves())

	var nodes int64
	for _, m := range moves {
		b.ApplyMove(m)
		sub, subFiltered := Perft(b, gen, depth-1, nil)
		if err := b.RewindMove(); err != nil {
			panic("board: perft rewind failed")
		}
		nodes += sub
		filtered += subFiltered
		if each != nil {
			each(m, sub)
		}
	}
	return nodes, filtered
}

// Divide writes the per-move subtree counts in the conventional format,
// one "<move>: <count>" line per root move followed by the total:
//
//	a2a3: 380
//	...
//	Nodes searched: 8902
func Divide(w io.Writer, b *Board, gen *MoveGenerator, depth int) (int64, int64) {
	nodes, filtered := Perft(b, gen, depth, func(m Move, sub int64) {
		fmt.Fprintf(w, "%s: %d\n", m, sub)
	})
	fmt.Fprintf(w, "Nodes searched: %d\n", nodes)
	return nodes, filtered
}

// ParallelPerft distributes the root moves across workers, each with
// its own cloned Board and MoveGenerator (the core itself is strictly
// single-threaded). workers <= 0 uses GOMAXPROCS.
func ParallelPerft(b *Board, depth, workers int) int64 {
	if depth <= 0 {
		return 1
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rootMoves := NewMoveGenerator().GenerateAllMoves(b)
	if depth == 1 {
		return int64(len(rootMoves))
	}

	var nodes atomic.Int64
	var g errgroup.Group
	g.SetLimit(workers)

	for _, m := range rootMoves {
		m := m
		g.Go(func() error {
			child := b.Clone()
			child.ApplyMove(m)
			sub, _ := Perft(child, NewMoveGenerator(), depth-1, nil)
			nodes.Add(sub)
			return nil
		})
	}
	// Workers never return errors; Wait only serves as the barrier.
	_ = g.Wait()

	return nodes.Load()
}
