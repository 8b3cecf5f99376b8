// Package cli implements a command-line UI for the game: it renders the hexagonal board and reads the
// fence placements of the player.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hexcat/trapcat/internal/generics"
	"github.com/hexcat/trapcat/internal/match"
	"github.com/hexcat/trapcat/internal/scoreboard"
	. "github.com/hexcat/trapcat/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

const (
	// CharsPerCell is the width of each cell in the rendered board. Odd rows are shifted by half of it.
	CharsPerCell = 4

	// rowLabelWidth is the width of the row number printed at the start of each line.
	rowLabelWidth = 3
)

var (
	// ErrQuit is returned by ReadFence when the user asks to quit.
	ErrQuit = errors.New("user quit")

	positionParser = regexp.MustCompile(`^\s*(-?\d+)[\s,]+(-?\d+)[\s,]*$`)
	quitParser     = regexp.MustCompile(`^\s*(?i:q|quit|exit)\s*$`)

	parsingErrorMsg = "failed to read command 3 times"
)

var (
	catStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF8C00"))
	fenceStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5A2B"))
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	escapeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFD580"))
	labelStyle     = lipgloss.NewStyle().Faint(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	playerWinStyle = lipgloss.NewStyle().Background(lipgloss.Color("2")).Foreground(lipgloss.Color("0")).Padding(1, 2)
	catWinStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#FF8C00")).Foreground(lipgloss.Color("0")).Padding(1, 2)
)

// UI renders the game to a terminal and reads the player's input.
type UI struct {
	color, clearScreen bool
	reader             *bufio.Reader
	out                io.Writer
}

// New creates a UI that reads from os.Stdin and writes to os.Stdout.
func New(color bool, clearScreen bool) *UI {
	return NewWithIO(os.Stdin, os.Stdout, color, clearScreen)
}

// NewWithIO creates a UI that reads from in and writes to out.
func NewWithIO(in io.Reader, out io.Writer, color bool, clearScreen bool) *UI {
	return &UI{
		color:       color,
		clearScreen: clearScreen,
		reader:      bufio.NewReader(in),
		out:         out,
	}
}

func (ui *UI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(ui.out, format, args...)
}

func (ui *UI) println(args ...any) {
	_, _ = fmt.Fprintln(ui.out, args...)
}

// style renders s with the given style, if colors are enabled.
func (ui *UI) style(style lipgloss.Style, s string) string {
	if !ui.color {
		return s
	}
	return style.Render(s)
}

// terminalWidth returns the width of the terminal, or 0 if the output is not a terminal.
func (ui *UI) terminalWidth() int {
	f, ok := ui.out.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func (ui *UI) printCentered(block string) {
	lines := strings.Split(block, "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, lipgloss.Width(line))
	}
	indent := max((ui.terminalWidth()-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			ui.println()
			continue
		}
		ui.printf("%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// Print the snapshot of a match: move number, board and whose turn it is.
func (ui *UI) Print(snap match.Snapshot) {
	if ui.clearScreen {
		ui.printf("\033c")
	}
	ui.printf("\n%s\n", ui.style(headerStyle, fmt.Sprintf("Move #%d", snap.MoveNumber)))
	if !snap.LastAction.IsNoAction() {
		ui.printf("Last action: %s\n", snap.LastAction)
	}
	ui.println()
	ui.PrintBoard(&snap.State)
	ui.println()
	switch snap.Phase {
	case match.PlayerTurn:
		ui.printf("Your turn to place a fence, the cat can move to: [%s]\n",
			strings.Join(PosStrings(snap.State.ValidCatMoves()), ", "))
	case match.CatTurn:
		ui.printf("Cat's turn.\n")
	}
}

// PrintBoard prints the board centered on the terminal. The cells where the cat can move are highlighted.
func (ui *UI) PrintBoard(s *GameState) {
	escapes := generics.SetFrom(s.ValidCatMovesIter())
	ui.printCentered(ui.renderBoard(s, escapes))
	legend := fmt.Sprintf("%s cat   %s fence   %s empty",
		ui.style(catStyle, CellLetters[Cat]), ui.style(fenceStyle, CellLetters[Fence]),
		ui.style(emptyStyle, CellLetters[Empty]))
	ui.printCentered(legend)
}

// renderBoard returns the board as a block of text, one line per row plus a header with the column numbers.
// Odd rows are shifted by half a cell, so neighbouring cells touch diagonally like in the hexagonal grid.
func (ui *UI) renderBoard(s *GameState, highlight generics.Set[Pos]) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", rowLabelWidth))
	for col := range BoardSize {
		sb.WriteString(ui.style(labelStyle, fmt.Sprintf(" %-*d", CharsPerCell-1, col)))
	}
	sb.WriteString("\n")
	for row := int8(0); row < BoardSize; row++ {
		var line strings.Builder
		line.WriteString(ui.style(labelStyle, fmt.Sprintf("%*d ", rowLabelWidth-1, row)))
		if row%2 == 1 {
			line.WriteString(strings.Repeat(" ", CharsPerCell/2))
		}
		for col := int8(0); col < BoardSize; col++ {
			pos := Pos{row, col}
			line.WriteString(" ")
			line.WriteString(ui.cellString(s.CellAt(pos), highlight.Has(pos)))
			line.WriteString(strings.Repeat(" ", CharsPerCell-2))
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		if row < BoardSize-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (ui *UI) cellString(cell CellState, highlight bool) string {
	letter := CellLetters[cell]
	switch {
	case cell == Cat:
		return ui.style(catStyle, letter)
	case cell == Fence:
		return ui.style(fenceStyle, letter)
	case highlight:
		return ui.style(escapeStyle, letter)
	default:
		return ui.style(emptyStyle, letter)
	}
}

// ReadFence reads the position of the player's next fence, as "row col". It retries up to 3 times on invalid
// input, and returns ErrQuit if the user types "q".
func (ui *UI) ReadFence(s *GameState) (pos Pos, err error) {
	for numErrs := 0; numErrs < 3; numErrs++ {
		ui.printf("    Fence position (row col) or 'q' to quit > ")
		var text string
		text, err = ui.reader.ReadString('\n')
		if err != nil && (err != io.EOF || text == "") {
			err = errors.Wrap(err, "failed to read fence position")
			return
		}
		err = nil
		text = strings.TrimSpace(text)
		if quitParser.MatchString(text) {
			err = ErrQuit
			return
		}
		matches := positionParser.FindStringSubmatch(text)
		if len(matches) != 3 {
			ui.printf("    * Failed to parse your input %q, please type the row and column, e.g.: \"3 7\".\n", text)
			continue
		}
		failed := false
		for ii := range 2 {
			i64, parseErr := strconv.ParseInt(matches[1+ii], 10, 8)
			if parseErr != nil {
				ui.printf("    * Failed to parse coordinate %q in %q\n", matches[1+ii], text)
				failed = true
				break
			}
			pos[ii] = int8(i64)
		}
		if failed {
			continue
		}
		if !pos.InBounds() {
			ui.printf("    * Position %s is outside the board, rows and columns go from 0 to %d.\n", pos, MaxCoord)
			continue
		}
		if cell := s.CellAt(pos); cell != Empty {
			ui.printf("    * Position %s is not empty (%s), choose another one.\n", pos, cell)
			continue
		}
		return
	}
	err = errors.New(parsingErrorMsg)
	return
}

// PrintWinner prints a banner with the winner of the match.
func (ui *UI) PrintWinner(winner Side) {
	ui.println()
	switch winner {
	case SideFence:
		ui.printCentered(ui.style(playerWinStyle, "*** YOU TRAPPED THE CAT!! Congratulations! ***"))
	case SideCat:
		ui.printCentered(ui.style(catWinStyle, "*** THE CAT ESCAPED! Better luck next time. ***"))
	default:
		ui.printCentered("*** Match interrupted ***")
	}
	ui.println()
}

// PrintWatchWinner prints the winner of a match where the fences were also played by an AI.
func (ui *UI) PrintWatchWinner(winner Side) {
	ui.println()
	switch winner {
	case SideFence:
		ui.printCentered(ui.style(playerWinStyle, "*** THE FENCES TRAPPED THE CAT ***"))
	case SideCat:
		ui.printCentered(ui.style(catWinStyle, "*** THE CAT ESCAPED ***"))
	default:
		ui.printCentered("*** Match interrupted ***")
	}
	ui.println()
}

// PrintScoreboard prints the persisted win counters.
func (ui *UI) PrintScoreboard(sb *scoreboard.Scoreboard) {
	ui.printCentered(fmt.Sprintf("Player wins: %d    Cat wins: %d", sb.PlayerWins, sb.CatWins))
}
