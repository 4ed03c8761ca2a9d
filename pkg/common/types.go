package common

import "time"

const (
	Empty = iota
	Man
	King
)

// A piece code packs type and color into one value: 1..2 white, 3..4 black.
const (
	WhiteMan = iota + 1
	WhiteKing
	BlackMan
	BlackKing
	pieceCodeCount
)

func MakePiece(pieceType int, side bool) int8 {
	if side {
		return int8(pieceType)
	}
	return int8(pieceType + 2)
}

func PieceType(code int8) int {
	if code == Empty {
		return Empty
	}
	if code > WhiteKing {
		return int(code) - 2
	}
	return int(code)
}

func PieceSide(code int8) bool {
	return code == WhiteMan || code == WhiteKing
}

// Position is the full game state: 50 addressable squares (index 0 unused),
// the side to move and the incrementally maintained zobrist key.
type Position struct {
	Board     [SquareCount + 1]int8
	WhiteMove bool
	Key       uint64
	LastMove  Move
}

const InitialPositionFen = "W:W31-50:B1-20"

// CaptureStep is one jump of a capture chain.
type CaptureStep struct {
	Land    int
	Capture int
}

// Move is either a quiet move (no steps) or a capture chain. The two cases
// are built only by MakeQuietMove and MakeCaptureMove, so a quiet move with
// captured squares is unconstructible.
type Move struct {
	From  int
	To    int
	steps []CaptureStep
}

var MoveEmpty = Move{}

func MakeQuietMove(from, to int) Move {
	return Move{From: from, To: to}
}

func MakeCaptureMove(from int, steps []CaptureStep) Move {
	return Move{From: from, To: steps[len(steps)-1].Land, steps: steps}
}

func (m Move) IsCapture() bool {
	return len(m.steps) > 0
}

func (m Move) CaptureCount() int {
	return len(m.steps)
}

func (m Move) Steps() []CaptureStep {
	return m.steps
}

func (m Move) CapturedSquares() []int {
	if len(m.steps) == 0 {
		return nil
	}
	var result = make([]int, len(m.steps))
	for i, step := range m.steps {
		result[i] = step.Capture
	}
	return result
}

func (m Move) Equal(o Move) bool {
	if m.From != o.From || m.To != o.To || len(m.steps) != len(o.steps) {
		return false
	}
	for i := range m.steps {
		if m.steps[i] != o.steps[i] {
			return false
		}
	}
	return true
}

type LimitsType struct {
	Infinite bool
	MoveTime int
	Depth    int
	Nodes    int
}

type SearchParams struct {
	Positions []Position
	Limits    LimitsType
	Progress  func(si SearchInfo)
}

type SearchInfo struct {
	Score    int
	Depth    int
	Nodes    int64
	Time     time.Duration
	MainLine []Move
}
