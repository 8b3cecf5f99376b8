// Package state holds the board of a cat vs. fences match and the rules that change it.
//
// The board is an 11x11 hexagonal grid where odd rows are shifted half a cell to the right.
// A GameState is small and has only fixed-size fields, so copying it (see GameState.Clone)
// is cheap and always yields an independent board, which is what the searchers rely on.
package state

import (
	"fmt"
	"iter"
	"strings"

	"github.com/pkg/errors"
)

const (
	// BoardSize is the number of rows and the number of columns of the board.
	BoardSize = 11

	// MaxCoord is the last valid row or column: reaching it (or 0) means the cat escaped.
	MaxCoord = BoardSize - 1

	// NumNeighbors of each position: the board is hexagonal.
	NumNeighbors = 6

	// NumCells on the board.
	NumCells = BoardSize * BoardSize
)

// CellState is the content of one cell of the board.
type CellState uint8

const (
	Empty CellState = iota
	Cat
	Fence
)

var (
	cellNames   = [...]string{"Empty", "Cat", "Fence"}
	CellLetters = [...]string{".", "C", "#"}
)

// String returns the cell state name.
func (c CellState) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return fmt.Sprintf("CellState(%d)", c)
}

// Side is one of the two players: the fences (usually the human) or the cat.
type Side uint8

const (
	// SideNone is used when no side applies, e.g.: no winner yet.
	SideNone Side = iota
	SideFence
	SideCat
)

var sideNames = [...]string{"None", "Fence", "Cat"}

// String returns the side name.
func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return fmt.Sprintf("Side(%d)", s)
}

// Opponent returns the other side. The opponent of SideNone is SideNone.
func (s Side) Opponent() Side {
	switch s {
	case SideFence:
		return SideCat
	case SideCat:
		return SideFence
	}
	return SideNone
}

// Pos packages the row, column position of a cell.
type Pos [2]int8

// CenterPos is where the cat starts.
var CenterPos = Pos{BoardSize / 2, BoardSize / 2}

// Row of the position.
func (pos Pos) Row() int8 {
	return pos[0]
}

// Col of the position.
func (pos Pos) Col() int8 {
	return pos[1]
}

// InBounds returns whether the position is inside the board.
func (pos Pos) InBounds() bool {
	return pos[0] >= 0 && pos[0] < BoardSize && pos[1] >= 0 && pos[1] < BoardSize
}

// IsBoundary returns whether the position is on the edge of the board.
func (pos Pos) IsBoundary() bool {
	return pos[0] == 0 || pos[0] == MaxCoord || pos[1] == 0 || pos[1] == MaxCoord
}

// EdgeDistance is the smallest distance, along the row or the column axis, to the edge of the board.
// It is not the hexagonal distance.
func (pos Pos) EdgeDistance() int {
	return int(min(pos[0], MaxCoord-pos[0], pos[1], MaxCoord-pos[1]))
}

// String returns a text representation of Pos.
func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos[0], pos[1])
}

// PosStrings converts a list of positions to their string representation.
func PosStrings(poss []Pos) []string {
	strs := make([]string, len(poss))
	for ii, pos := range poss {
		strs[ii] = pos.String()
	}
	return strs
}

// Relative positions of the neighbours, indexed by the parity of the row.
// The order is: upper-left, upper-right, left, right, lower-left, lower-right.
var neighborRelPositions = [2][NumNeighbors]Pos{
	{{-1, -1}, {-1, 0}, {0, -1}, {0, 1}, {1, -1}, {1, 0}},
	{{-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, 0}, {1, 1}},
}

// NeighboursIter iterates over the in-board neighbours of the position, in the same order as Neighbours.
func (pos Pos) NeighboursIter() iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for _, relPos := range neighborRelPositions[pos[0]&1] {
			neighbour := Pos{pos[0] + relPos[0], pos[1] + relPos[1]}
			if !neighbour.InBounds() {
				continue
			}
			if !yield(neighbour) {
				return
			}
		}
	}
}

// Neighbours returns up to 6 neighbour positions of the reference position. Positions outside
// the board are not included. It returns a newly allocated slice.
//
// The order is fixed: upper-left, upper-right, left, right, lower-left, lower-right. Searchers
// break ties by taking the first move, so they depend on this order.
func (pos Pos) Neighbours() []Pos {
	positions := make([]Pos, 0, NumNeighbors)
	for neighbour := range pos.NeighboursIter() {
		positions = append(positions, neighbour)
	}
	return positions
}

// IsNeighbour returns whether other is adjacent to pos.
func (pos Pos) IsNeighbour(other Pos) bool {
	for neighbour := range pos.NeighboursIter() {
		if neighbour == other {
			return true
		}
	}
	return false
}

// Board is the grid of cells, indexed by row and then column.
//
// It is an array, so assigning a Board copies all of its rows.
type Board [BoardSize][BoardSize]CellState

// At returns the state of the cell at pos. pos must be in bounds.
func (b *Board) At(pos Pos) CellState {
	return b[pos[0]][pos[1]]
}

// Set the state of the cell at pos. pos must be in bounds.
func (b *Board) Set(pos Pos, cell CellState) {
	b[pos[0]][pos[1]] = cell
}

// Positions iterates over all positions of the board in row-major order.
func Positions() iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for row := int8(0); row < BoardSize; row++ {
			for col := int8(0); col < BoardSize; col++ {
				if !yield(Pos{row, col}) {
					return
				}
			}
		}
	}
}

// GameState is the unit of simulation: the board and the position of the cat.
//
// Use it through methods, which keep the tracked cat position in sync with the board.
type GameState struct {
	board  Board
	catPos Pos
}

// NewGameState returns an empty board with the cat in the center.
func NewGameState() *GameState {
	s := &GameState{catPos: CenterPos}
	s.board.Set(CenterPos, Cat)
	return s
}

// NewGameStateFromBoard creates a GameState from a given board. The board must hold exactly one cat.
func NewGameStateFromBoard(board Board) (*GameState, error) {
	s := &GameState{board: board}
	numCats := 0
	for pos := range Positions() {
		if board.At(pos) == Cat {
			numCats++
			s.catPos = pos
		}
	}
	if numCats != 1 {
		return nil, errors.Errorf("board must have exactly one cat, got %d", numCats)
	}
	return s, nil
}

// Clone makes a deep copy of the game state: changes to the clone never affect s.
func (s *GameState) Clone() *GameState {
	newS := &GameState{}
	*newS = *s
	return newS
}

// Board returns a copy of the board.
func (s *GameState) Board() Board {
	return s.board
}

// CellAt returns the state of the cell at pos. Positions outside the board are reported as Fence,
// since the cat can't step on them.
func (s *GameState) CellAt(pos Pos) CellState {
	if !pos.InBounds() {
		return Fence
	}
	return s.board.At(pos)
}

// CatPos returns the current position of the cat.
func (s *GameState) CatPos() Pos {
	return s.catPos
}

// NumFences returns the number of fences on the board.
func (s *GameState) NumFences() (count int) {
	for pos := range Positions() {
		if s.board.At(pos) == Fence {
			count++
		}
	}
	return
}

// EmptyCellsIter iterates over the empty cells, in row-major order.
func (s *GameState) EmptyCellsIter() iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for pos := range Positions() {
			if s.board.At(pos) == Empty && !yield(pos) {
				return
			}
		}
	}
}

// EmptyCells returns the empty cells in row-major order.
func (s *GameState) EmptyCells() []Pos {
	positions := make([]Pos, 0, NumCells)
	for pos := range s.EmptyCellsIter() {
		positions = append(positions, pos)
	}
	return positions
}

// Validate checks that there is exactly one cat on the board, and that it matches the tracked position.
func (s *GameState) Validate() error {
	if !s.catPos.InBounds() {
		return errors.Errorf("cat position %s is outside the board", s.catPos)
	}
	numCats := 0
	for pos := range Positions() {
		if s.board.At(pos) == Cat {
			numCats++
			if pos != s.catPos {
				return errors.Errorf("cat found at %s, but it is tracked at %s", pos, s.catPos)
			}
		}
	}
	if numCats != 1 {
		return errors.Errorf("board must have exactly one cat, got %d", numCats)
	}
	return nil
}

// String returns a plain text rendering of the board, odd rows shifted to the right.
func (s *GameState) String() string {
	var sb strings.Builder
	for row := int8(0); row < BoardSize; row++ {
		if row&1 == 1 {
			sb.WriteString(" ")
		}
		for col := int8(0); col < BoardSize; col++ {
			if col > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(CellLetters[s.board.At(Pos{row, col})])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Action is either a fence placement or a cat step, depending on Side.
type Action struct {
	Side Side
	Pos  Pos
}

// NoAction is returned when the side to play has nothing to play.
var NoAction = Action{}

// IsNoAction returns whether the action is NoAction.
func (a Action) IsNoAction() bool {
	return a.Side == SideNone
}

func (a Action) String() string {
	switch a.Side {
	case SideFence:
		return fmt.Sprintf("Fence at %s", a.Pos)
	case SideCat:
		return fmt.Sprintf("Cat to %s", a.Pos)
	}
	return "No action"
}
