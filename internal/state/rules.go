package state

import "iter"

// IsLegalCatStep returns whether the cat may step onto target: it must be in the board and not fenced.
//
// It doesn't check adjacency: ValidCatMoves only considers neighbours of the cat.
func (s *GameState) IsLegalCatStep(target Pos) bool {
	return target.InBounds() && s.board.At(target) != Fence
}

// ValidCatMovesIter iterates over the cat's valid moves, in the order of Pos.Neighbours.
func (s *GameState) ValidCatMovesIter() iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for pos := range s.catPos.NeighboursIter() {
			if s.IsLegalCatStep(pos) && !yield(pos) {
				return
			}
		}
	}
}

// ValidCatMoves returns the neighbours of the cat it can step on, in the order of Pos.Neighbours.
func (s *GameState) ValidCatMoves() []Pos {
	moves := make([]Pos, 0, NumNeighbors)
	for pos := range s.ValidCatMovesIter() {
		moves = append(moves, pos)
	}
	return moves
}

// HasCatWon returns whether the cat reached the edge of the board.
func (s *GameState) HasCatWon() bool {
	return s.catPos.IsBoundary()
}

// HasFenceWon returns whether the cat is enclosed, with no valid moves.
//
// Both HasCatWon and HasFenceWon may hold at the same time, in which case the cat wins, see Winner.
func (s *GameState) HasFenceWon() bool {
	for range s.ValidCatMovesIter() {
		return false
	}
	return true
}

// Winner returns the side that won, or SideNone if the match is not finished.
// The cat check takes precedence.
func (s *GameState) Winner() Side {
	if s.HasCatWon() {
		return SideCat
	}
	if s.HasFenceWon() {
		return SideFence
	}
	return SideNone
}

// IsFinished returns whether either side won.
func (s *GameState) IsFinished() bool {
	return s.HasCatWon() || s.HasFenceWon()
}

// PlaceFence puts a fence at pos, if it is in the board and empty.
// It returns false, and leaves the state unchanged, otherwise.
func (s *GameState) PlaceFence(pos Pos) bool {
	if !pos.InBounds() || s.board.At(pos) != Empty {
		return false
	}
	s.board.Set(pos, Fence)
	return true
}

// MoveCat moves the cat to target if IsLegalCatStep(target). It returns whether the cat moved.
//
// Adjacency to the current cat position is not checked: use ValidCatMoves to enumerate
// the moves a cat can actually make.
func (s *GameState) MoveCat(target Pos) bool {
	if !s.IsLegalCatStep(target) {
		return false
	}
	s.board.Set(s.catPos, Empty)
	s.board.Set(target, Cat)
	s.catPos = target
	return true
}

// Act applies the action to the state: a fence placement or a cat move. It returns false, and
// leaves the state unchanged, if the action was rejected.
func (s *GameState) Act(action Action) bool {
	switch action.Side {
	case SideFence:
		return s.PlaceFence(action.Pos)
	case SideCat:
		return s.MoveCat(action.Pos)
	}
	return false
}

// IsValid returns whether the action can be taken in the current state, as a regular turn:
// fences go on empty cells, and the cat moves to one of ValidCatMoves.
func (s *GameState) IsValid(action Action) bool {
	switch action.Side {
	case SideFence:
		return action.Pos.InBounds() && s.board.At(action.Pos) == Empty
	case SideCat:
		for pos := range s.ValidCatMovesIter() {
			if pos == action.Pos {
				return true
			}
		}
	}
	return false
}

// Actions returns the actions available to the given side, in the order searchers consider them:
// cat moves in the order of Pos.Neighbours, and fences in row-major order.
func (s *GameState) Actions(side Side) []Action {
	var actions []Action
	switch side {
	case SideCat:
		actions = make([]Action, 0, NumNeighbors)
		for pos := range s.ValidCatMovesIter() {
			actions = append(actions, Action{Side: SideCat, Pos: pos})
		}
	case SideFence:
		actions = make([]Action, 0, NumCells)
		for pos := range s.EmptyCellsIter() {
			actions = append(actions, Action{Side: SideFence, Pos: pos})
		}
	}
	return actions
}
