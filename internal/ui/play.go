// Package ui implements the interactive terminal play mode: a tcell
// rendering of the board with bitboard overlays and a command line for
// moves, undo, FEN loading, perft, and reference analysis.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Robotino04/ChessBot/internal/analyze"
	"github.com/Robotino04/ChessBot/internal/board"
	"github.com/Robotino04/ChessBot/internal/storage"
)

// OverlayMode selects which bitboard is highlighted on the board.
type OverlayMode int

const (
	OverlayNone OverlayMode = iota
	OverlayAllPieces
	OverlayDebug
	OverlayPinned
	OverlayAttacked
	OverlayPiece
)

const helpText = "Enter a move (e2e4), a square to preview, or: undo, flip, fen <FEN>, perft <D>, analyze <D>, show <what>, exit"

// Game holds the state of one interactive session.
type Game struct {
	screen tcell.Screen
	b      *board.Board
	gen    *board.MoveGenerator

	store *storage.Storage // may be nil; history is then not recorded
	prefs *storage.Preferences

	input    []rune
	message  string
	selected board.Square

	overlay      OverlayMode
	overlayPiece board.Piece
}

// Run starts the interactive session and blocks until the user exits.
func Run(store *storage.Storage, prefs *storage.Preferences) error {
	b := board.NewBoard()
	if err := b.LoadFEN(prefs.StartFEN); err != nil {
		if err := b.LoadFEN(board.StartFEN); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault)

	g := &Game{
		screen:   screen,
		b:        b,
		gen:      board.NewMoveGenerator(),
		store:    store,
		prefs:    prefs,
		message:  helpText,
		selected: board.NoSquare,
	}

	for {
		g.draw()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return nil
			case tcell.KeyEnter:
				cmd := strings.TrimSpace(string(g.input))
				g.input = g.input[:0]
				if cmd == "" {
					continue
				}
				if !g.execute(cmd) {
					return nil
				}
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(g.input) > 0 {
					g.input = g.input[:len(g.input)-1]
				}
			case tcell.KeyRune:
				g.input = append(g.input, ev.Rune())
			}
		}
	}
}

// execute runs one command line. Returns false when the session ends.
func (g *Game) execute(cmd string) bool {
	fields := strings.Fields(cmd)

	switch fields[0] {
	case "exit", "quit":
		return false

	case "help":
		g.message = helpText

	case "undo":
		if err := g.b.RewindMove(); err != nil {
			if errors.Is(err, board.ErrNoMoveToUndo) {
				g.message = "No move to undo."
			} else {
				g.message = err.Error()
			}
		} else {
			g.message = "Undid move."
			g.selected = board.NoSquare
		}

	case "flip":
		g.b.SwitchPerspective()
		g.message = "Flipped color to move."

	case "fen":
		if len(fields) < 2 {
			g.message = "Usage: fen <FEN>"
			break
		}
		fen := strings.TrimSpace(strings.TrimPrefix(cmd, "fen"))
		if err := g.b.LoadFEN(fen); err != nil {
			g.message = fmt.Sprintf("Invalid FEN string: %v", err)
			break
		}
		g.selected = board.NoSquare
		g.message = "Loaded position from FEN."
		g.prefs.StartFEN = fen
		g.savePreferences()

	case "perft":
		g.runPerft(fields)

	case "analyze":
		g.runAnalyze(fields)

	case "show":
		g.handleShow(fields)

	default:
		g.handleMoveInput(cmd)
	}

	return true
}

func (g *Game) runPerft(fields []string) {
	depth, err := parseDepth(fields)
	if err != nil {
		g.message = err.Error()
		return
	}

	start := time.Now()
	var out strings.Builder
	nodes, filtered := board.Divide(&out, g.b, g.gen, depth)
	elapsed := time.Since(start)

	g.message = fmt.Sprintf("%sFiltered %d moves\n(%s)", out.String(), filtered, elapsed.Round(time.Millisecond))
	g.recordRun(depth, nodes, filtered, elapsed)
}

func (g *Game) runAnalyze(fields []string) {
	depth, err := parseDepth(fields)
	if err != nil {
		g.message = err.Error()
		return
	}

	start := time.Now()
	var out strings.Builder
	agree, err := analyze.Compare(context.Background(), &out, g.b, g.gen, g.prefs.EnginePath, depth)
	if err != nil {
		g.message = fmt.Sprintf("Analysis failed: %v", err)
		return
	}
	elapsed := time.Since(start)

	g.message = out.String()
	if agree {
		g.message += fmt.Sprintf("(%s)", elapsed.Round(time.Millisecond))
	}
}

func parseDepth(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("usage: %s <depth>", fields[0])
	}
	depth, err := strconv.Atoi(fields[1])
	if err != nil || depth < 1 {
		return 0, fmt.Errorf("invalid depth %q", fields[1])
	}
	return depth, nil
}

func (g *Game) handleShow(fields []string) {
	if len(fields) < 2 {
		g.message = "Usage: show none|all|debug|pinned|attacked|<color> <piece>"
		return
	}

	switch fields[1] {
	case "none":
		g.overlay = OverlayNone
	case "all":
		g.overlay = OverlayAllPieces
	case "debug":
		g.overlay = OverlayDebug
	case "pin", "pinned":
		g.overlay = OverlayPinned
	case "attacked":
		g.overlay = OverlayAttacked
	default:
		piece, err := parsePieceSelector(fields[1:])
		if err != nil {
			g.message = err.Error()
			return
		}
		g.overlay = OverlayPiece
		g.overlayPiece = piece
	}
	g.message = "Showing " + overlayName(g.overlay, g.overlayPiece)
}

var colorNames = map[string]board.Color{
	"white": board.White, "w": board.White,
	"black": board.Black, "b": board.Black,
}

var pieceTypeNames = map[string]board.PieceType{
	"pawn": board.Pawn, "p": board.Pawn,
	"knight": board.Knight, "n": board.Knight,
	"bishop": board.Bishop, "b": board.Bishop,
	"rook": board.Rook, "r": board.Rook,
	"queen": board.Queen, "q": board.Queen,
	"king": board.King, "k": board.King,
}

func parsePieceSelector(fields []string) (board.Piece, error) {
	if len(fields) < 2 {
		return board.NoPiece, fmt.Errorf("usage: show <color> <piece>")
	}
	c, ok := colorNames[fields[0]]
	if !ok {
		return board.NoPiece, fmt.Errorf("invalid color %q", fields[0])
	}
	pt, ok := pieceTypeNames[fields[1]]
	if !ok {
		return board.NoPiece, fmt.Errorf("invalid piece %q", fields[1])
	}
	return board.NewPiece(pt, c), nil
}

func overlayName(mode OverlayMode, piece board.Piece) string {
	switch mode {
	case OverlayAllPieces:
		return "bitboard for all pieces"
	case OverlayDebug:
		return "debug bitboard"
	case OverlayPinned:
		return "pinned pieces"
	case OverlayAttacked:
		return "attacked squares"
	case OverlayPiece:
		return "bitboard for " + piece.Color().String() + " " + piece.Type().String()
	default:
		return "no bitboard"
	}
}

// handleMoveInput treats the input either as a square to preview or as
// a move in coordinate notation.
func (g *Game) handleMoveInput(cmd string) {
	if len(cmd) == 2 {
		sq, err := board.ParseSquare(cmd)
		if err != nil {
			g.message = "Invalid command or move!"
			return
		}
		g.selected = sq

		count := 0
		for _, m := range g.gen.GenerateAllMoves(g.b) {
			if m.From == sq {
				count++
			}
		}
		g.message = fmt.Sprintf("Number of moves from %v: %d", sq, count)
		return
	}

	// A trailing F forces the move without legality checking: applied
	// fully when it is the mover's turn, as a bare piece relocation
	// otherwise.
	if strings.HasSuffix(cmd, "F") {
		g.forceMove(strings.TrimSuffix(cmd, "F"))
		return
	}

	parsed, err := board.ParseMove(cmd)
	if err != nil {
		g.message = "Invalid command or move!"
		return
	}

	// Apply the generated move rather than the parsed one so the flags
	// and the castling auxiliary come along.
	for _, m := range g.gen.GenerateAllMoves(g.b) {
		if m.SameBase(parsed) {
			g.b.ApplyMove(m)
			g.selected = board.NoSquare
			g.message = "Played " + m.String() + "."
			return
		}
	}
	g.message = "Invalid move!"
}

// forceMove applies a move without consulting the generator.
func (g *Game) forceMove(cmd string) {
	parsed, err := board.ParseMove(cmd)
	if err != nil {
		g.message = "Invalid command or move!"
		return
	}
	if !g.b.IsOccupied(parsed.From) {
		g.message = "No piece on " + parsed.From.String() + "."
		return
	}

	if g.b.IsFriendly(parsed.From) {
		g.b.ApplyMove(parsed)
	} else {
		g.b.ApplyMoveStatic(parsed)
	}
	g.selected = board.NoSquare
	g.message = "Forced move."
}

func (g *Game) savePreferences() {
	if g.store == nil {
		return
	}
	if err := g.store.SavePreferences(g.prefs); err != nil {
		g.message += fmt.Sprintf(" (saving preferences failed: %v)", err)
	}
}

func (g *Game) recordRun(depth int, nodes, filtered int64, elapsed time.Duration) {
	if g.store == nil {
		return
	}
	rec := storage.RunRecord{
		FEN:      g.b.FEN(),
		Depth:    depth,
		Nodes:    nodes,
		Filtered: filtered,
		Duration: elapsed,
		When:     time.Now(),
	}
	if err := g.store.RecordRun(rec); err != nil {
		g.message += fmt.Sprintf(" (recording run failed: %v)", err)
	}
}
