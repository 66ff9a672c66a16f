package analyze

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/Robotino04/ChessBot/internal/board"
)

// Report is the result of one perft divide run: the subtree count per
// root move (keyed by coordinate notation) and the total.
type Report struct {
	Moves map[string]int64
	Nodes int64
}

var (
	moveLineRE  = regexp.MustCompile(`^([a-h][1-8][a-h][1-8][bnrq]?): (\d+)$`)
	totalLineRE = regexp.MustCompile(`^Nodes searched: (\d+)$`)
)

// ParseDivideLine matches one engine output line against the divide
// formats. Unrelated protocol chatter returns ok=false.
func (r *Report) ParseDivideLine(line string) (done bool, ok bool) {
	if m := moveLineRE.FindStringSubmatch(line); m != nil {
		count, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return false, false
		}
		r.Moves[m[1]] = count
		return false, true
	}
	if m := totalLineRE.FindStringSubmatch(line); m != nil {
		count, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return false, false
		}
		r.Nodes = count
		return true, true
	}
	return false, false
}

// ReferencePerft runs "go perft" on the external engine for one
// position and parses the divide output.
func ReferencePerft(ctx context.Context, enginePath, fen string, depth int) (*Report, error) {
	eng, err := Start(ctx, enginePath)
	if err != nil {
		return nil, fmt.Errorf("starting reference engine: %w", err)
	}
	defer eng.Close()

	if err := eng.Send("position fen " + fen); err != nil {
		return nil, err
	}
	if err := eng.Send(fmt.Sprintf("go perft %d", depth)); err != nil {
		return nil, err
	}
	if err := eng.Send("quit"); err != nil {
		return nil, err
	}

	report := &Report{Moves: make(map[string]int64)}
	scanner := eng.Scanner()
	for scanner.Scan() {
		if done, _ := report.ParseDivideLine(scanner.Text()); done {
			return report, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading reference engine output: %w", err)
	}
	return nil, fmt.Errorf("reference engine produced no perft total for %q", fen)
}

// localPerft produces the same report shape from our own generator.
func localPerft(b *board.Board, gen *board.MoveGenerator, depth int) *Report {
	report := &Report{Moves: make(map[string]int64)}
	nodes, _ := board.Perft(b, gen, depth, func(m board.Move, sub int64) {
		report.Moves[m.String()] = sub
	})
	report.Nodes = nodes
	return report
}

// Compare runs perft locally and on the reference engine, reports the
// sorted symmetric difference of the root move sets, and recursively
// descends into every divergent subtree until depth 1. Returns true if
// the two engines agreed completely.
func Compare(ctx context.Context, w io.Writer, b *board.Board, gen *board.MoveGenerator, enginePath string, depth int) (bool, error) {
	agree, err := compareLevel(ctx, w, b, gen, enginePath, depth, depth)
	if err != nil {
		return false, err
	}
	if agree {
		fmt.Fprintf(w, "Results are identical.\n")
	} else {
		fmt.Fprintf(w, "Results are different.\n")
	}
	return agree, nil
}

func compareLevel(ctx context.Context, w io.Writer, b *board.Board, gen *board.MoveGenerator, enginePath string, depth, originalDepth int) (bool, error) {
	if depth == 0 {
		return true, nil
	}

	indent := ""
	for i := 0; i < originalDepth-depth; i++ {
		indent += "\t"
	}

	local := localPerft(b, gen, depth)
	reference, err := ReferencePerft(ctx, enginePath, b.FEN(), depth)
	if err != nil {
		return false, err
	}

	// Sorted union of both move sets; a move diverges when it is
	// missing on one side or the subtree counts differ.
	seen := make(map[string]bool)
	var union []string
	for mv := range local.Moves {
		if !seen[mv] {
			seen[mv] = true
			union = append(union, mv)
		}
	}
	for mv := range reference.Moves {
		if !seen[mv] {
			seen[mv] = true
			union = append(union, mv)
		}
	}
	sort.Strings(union)

	agree := true
	for _, mv := range union {
		localCount, inLocal := local.Moves[mv]
		refCount, inRef := reference.Moves[mv]
		if inLocal && inRef && localCount == refCount {
			continue
		}
		agree = false

		if inLocal {
			fmt.Fprintf(w, "%s[local]     %s: %d\n", indent, mv, localCount)
		}
		if inRef {
			fmt.Fprintf(w, "%s[reference] %s: %d\n", indent, mv, refCount)
		}

		if !inLocal {
			fmt.Fprintf(w, "%s\tmove not generated locally\n", indent)
			continue
		}
		if depth > 1 {
			parsed, err := board.ParseMove(mv)
			if err != nil {
				return false, err
			}
			full, found := matchGenerated(b, gen, parsed)
			if !found {
				fmt.Fprintf(w, "%s\tmove vanished on regeneration\n", indent)
				continue
			}
			b.ApplyMove(full)
			if _, err := compareLevel(ctx, w, b, gen, enginePath, depth-1, originalDepth); err != nil {
				return false, err
			}
			if err := b.RewindMove(); err != nil {
				return false, err
			}
		}
	}

	if depth == originalDepth {
		fmt.Fprintf(w, "Reference searched %d moves (%d nodes)\n", len(reference.Moves), reference.Nodes)
		fmt.Fprintf(w, "Local searched %d moves (%d nodes)\n", len(local.Moves), local.Nodes)
	}

	return agree, nil
}

// matchGenerated finds the generated move equal to the parsed base move.
func matchGenerated(b *board.Board, gen *board.MoveGenerator, base board.Move) (board.Move, bool) {
	for _, m := range gen.GenerateAllMoves(b) {
		if m.SameBase(base) {
			return m, true
		}
	}
	return board.Move{}, false
}
