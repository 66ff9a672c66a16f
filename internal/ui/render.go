package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/Robotino04/ChessBot/internal/board"
)

// Board geometry on screen: each square is two cells wide, one tall.
const (
	boardLeft = 3
	boardTop  = 1
)

var (
	lightSquare    = tcell.StyleDefault.Background(tcell.NewRGBColor(255, 210, 153)).Foreground(tcell.ColorBlack)
	darkSquare     = tcell.StyleDefault.Background(tcell.NewRGBColor(130, 77, 39)).Foreground(tcell.ColorBlack)
	selectedStyle  = tcell.StyleDefault.Background(tcell.NewRGBColor(247, 92, 255)).Foreground(tcell.ColorBlack)
	moveStyle      = tcell.StyleDefault.Background(tcell.NewRGBColor(82, 255, 220)).Foreground(tcell.ColorBlack)
	overlayStyle   = tcell.StyleDefault.Background(tcell.NewRGBColor(255, 242, 0)).Foreground(tcell.ColorBlack)
	legendStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle    = tcell.StyleDefault
	messageStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	inputLineStyle = tcell.StyleDefault.Bold(true)
)

var unicodePieces = map[board.Piece]rune{
	board.WhitePawn: '♙', board.WhiteKnight: '♘', board.WhiteBishop: '♗',
	board.WhiteRook: '♖', board.WhiteQueen: '♕', board.WhiteKing: '♔',
	board.BlackPawn: '♟', board.BlackKnight: '♞', board.BlackBishop: '♝',
	board.BlackRook: '♜', board.BlackQueen: '♛', board.BlackKing: '♚',
}

func (g *Game) pieceRune(p board.Piece) rune {
	if p == board.NoPiece {
		return ' '
	}
	if g.prefs.UnicodePieces {
		return unicodePieces[p]
	}
	return rune(p.String()[0])
}

func (g *Game) drawText(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		g.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// overlayBits returns the bitboard selected by the show command.
func (g *Game) overlayBits() board.Bitboard {
	switch g.overlay {
	case OverlayAllPieces:
		return g.b.AllPieces()
	case OverlayDebug:
		return g.gen.DebugBitboard
	case OverlayPinned:
		g.gen.GenerateAttackData(g.b)
		return g.gen.PinnedPieces()
	case OverlayAttacked:
		g.gen.GenerateAttackData(g.b)
		return g.gen.AttackedSquares()
	case OverlayPiece:
		return g.b.PieceBitboard(g.overlayPiece)
	default:
		return 0
	}
}

// destinations returns the target squares of the legal moves from the
// selected square.
func (g *Game) destinations() board.Bitboard {
	if g.selected == board.NoSquare {
		return 0
	}
	var bb board.Bitboard
	for _, m := range g.gen.GenerateAllMoves(g.b) {
		if m.From == g.selected {
			bb = bb.Set(m.To)
		}
	}
	return bb
}

func (g *Game) draw() {
	g.screen.Clear()

	overlay := g.overlayBits()
	dests := g.destinations()

	// Files legend above and below the board.
	for file := 0; file < 8; file++ {
		x := boardLeft + file*2
		g.drawText(x, boardTop-1, legendStyle, string(rune('a'+file)))
		g.drawText(x, boardTop+8, legendStyle, string(rune('a'+file)))
	}

	for rank := 7; rank >= 0; rank-- {
		y := boardTop + (7 - rank)
		g.drawText(boardLeft-2, y, legendStyle, fmt.Sprintf("%d", rank+1))

		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)

			style := darkSquare
			if (file+rank)%2 == 1 {
				style = lightSquare
			}
			switch {
			case sq == g.selected:
				style = selectedStyle
			case dests.IsSet(sq):
				style = moveStyle
			case overlay.IsSet(sq):
				style = overlayStyle
			}

			x := boardLeft + file*2
			g.screen.SetContent(x, y, g.pieceRune(g.b.At(sq)), nil, style)
			g.screen.SetContent(x+1, y, ' ', nil, style)
		}
	}

	g.drawStatus()

	// Message block under the board, then the input line.
	y := boardTop + 10
	for _, line := range strings.Split(strings.TrimRight(g.message, "\n"), "\n") {
		g.drawText(0, y, messageStyle, line)
		y++
	}
	g.drawText(0, y+1, inputLineStyle, "> "+string(g.input))
	g.screen.ShowCursor(2+len(g.input), y+1)

	g.screen.Show()
}

// drawStatus renders the position summary to the right of the board.
func (g *Game) drawStatus() {
	x := boardLeft + 20

	g.drawText(x, boardTop, statusStyle, g.b.ColorToMove().String()+" to move.")

	castling := func(left, right bool) string {
		s := ""
		if right {
			s += "[K]"
		} else {
			s += " - "
		}
		if left {
			s += "[Q]"
		} else {
			s += " - "
		}
		return s
	}
	g.drawText(x, boardTop+1, statusStyle,
		"Castling: White "+castling(g.b.CanCastleLeft(board.White), g.b.CanCastleRight(board.White))+
			"  Black "+castling(g.b.CanCastleLeft(board.Black), g.b.CanCastleRight(board.Black)))

	if ep := g.b.EnPassantTarget(); ep != board.NoSquare {
		g.drawText(x, boardTop+2, statusStyle, "En passant: "+ep.String())
	}

	g.drawText(x, boardTop+3, statusStyle, overlayName(g.overlay, g.overlayPiece))
	g.drawText(x, boardTop+5, messageStyle, "FEN: "+g.b.FEN())
}
