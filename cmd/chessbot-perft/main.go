// chessbot-perft runs batch perft counts, divide output, and
// differential analysis against an external reference engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/Robotino04/ChessBot/internal/analyze"
	"github.com/Robotino04/ChessBot/internal/board"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "FEN string (defaults to the starting position)")
	depth := flag.Int("depth", 0, "perft depth (required)")
	divide := flag.Bool("divide", false, "print per-move node counts at the root")
	parallel := flag.Int("parallel", 0, "split root moves across N workers (0 = serial)")
	doAnalyze := flag.Bool("analyze", false, "diff the perft tree against a reference engine")
	engine := flag.String("engine", "stockfish", "reference engine binary for -analyze")
	logPath := flag.String("log", "", "also write the divide output to this file")
	cpuProf := flag.String("cpuprofile", "", "write a CPU profile to this file")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	b, err := board.FromFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid FEN: %v\n", err)
		os.Exit(2)
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpu profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "starting cpu profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	gen := board.NewMoveGenerator()

	switch {
	case *doAnalyze:
		agree, err := analyze.Compare(context.Background(), os.Stdout, b, gen, *engine, *depth)
		if err != nil {
			fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
			os.Exit(1)
		}
		if !agree {
			os.Exit(1)
		}

	case *divide:
		out := io.Writer(os.Stdout)
		var logFile *os.File
		if *logPath != "" {
			logFile, err = os.Create(*logPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "unable to open logfile: %v\n", err)
				os.Exit(1)
			}
			defer logFile.Close()
			out = io.MultiWriter(os.Stdout, logFile)
		}

		start := time.Now()
		nodes, filtered := board.Divide(out, b, gen, *depth)
		elapsed := time.Since(start)
		fmt.Printf("Filtered %d moves\n", filtered)
		report(nodes, elapsed)

	case *parallel > 0:
		start := time.Now()
		nodes := board.ParallelPerft(b, *depth, *parallel)
		elapsed := time.Since(start)
		fmt.Printf("Nodes searched: %d\n", nodes)
		report(nodes, elapsed)

	default:
		start := time.Now()
		nodes, filtered := board.Perft(b, gen, *depth, nil)
		elapsed := time.Since(start)
		fmt.Printf("Nodes searched: %d\n", nodes)
		fmt.Printf("Filtered %d moves\n", filtered)
		report(nodes, elapsed)
	}
}

func report(nodes int64, elapsed time.Duration) {
	nps := float64(nodes) / elapsed.Seconds()
	fmt.Printf("Time: %s (%.0f nodes/s)\n", elapsed.Round(time.Millisecond), nps)
}
