package eval

import (
	"math"

	"damcore/pkg/common"
)

const (
	manValue  = 100
	kingValue = 320
)

const (
	manMobilityWeight  = 2
	kingMobilityWeight = 1
	structureBonus     = 6
	soleKingBonus      = 40
	lockedPenalty      = 35
	runnerBonus        = 55
	longDiagonalBonus  = 4
	endgameKingBonus   = 25
	balanceUnit        = 3
)

var longDiagonal = [common.SquareCount + 1]bool{}

func init() {
	for _, sq := range []int{5, 10, 14, 19, 23, 28, 32, 37, 41, 46} {
		longDiagonal[sq] = true
	}
}

// EvaluationService is a deterministic static evaluator. Material is always
// counted at full weight; every positional feature is multiplied by
// featureScale, so a scale of 0 degrades the service to a material counter.
type EvaluationService struct {
	featureScale float64
}

func NewEvaluationService(featureScale float64) *EvaluationService {
	return &EvaluationService{featureScale: featureScale}
}

// Evaluate returns the score in centimen from the side to move's point of view.
func (e *EvaluationService) Evaluate(p *common.Position) int {
	var score = e.evaluateWhite(p)
	if !p.WhiteMove {
		score = -score
	}
	return score
}

func (e *EvaluationService) evaluateWhite(p *common.Position) int {
	var wMen, wKings = p.Count(true)
	var bMen, bKings = p.Count(false)
	var material = manValue*(wMen-bMen) + kingValue*(wKings-bKings)
	if e.featureScale == 0 {
		return material
	}

	var features = 0
	features += sideFeatures(p, true, wMen+wKings, wKings, bKings)
	features -= sideFeatures(p, false, bMen+bKings, bKings, wKings)
	if p.AllCount() < 8 {
		features += endgameKingBonus * (wKings - bKings)
	}

	return material + int(math.Round(e.featureScale*float64(features)))
}

func sideFeatures(p *common.Position, side bool, pieces, kings, enemyKings int) int {
	var result = 0
	var mobility = 0
	var left, right = 0, 0

	for sq := 1; sq <= common.SquareCount; sq++ {
		var code = p.Board[sq]
		if code == common.Empty || common.PieceSide(code) != side {
			continue
		}
		if longDiagonal[sq] {
			result += longDiagonalBonus
		}
		if common.PieceType(code) == common.Man {
			if common.Col(sq) < 5 {
				left++
			} else {
				right++
			}
			mobility += manMobilityWeight * manDestinations(p, sq, side)
			result += structureBonus * friendlyNeighbors(p, sq, side)
			if isRunner(p, sq, side) {
				result += runnerBonus
			}
		} else {
			mobility += kingMobilityWeight * kingDestinations(p, sq)
		}
	}

	result += mobility
	if kings > 0 && enemyKings == 0 {
		result += soleKingBonus
	}
	if mobility <= 2 && pieces >= 4 {
		result -= lockedPenalty
	}
	if d := left - right; d > 2 || d < -2 {
		var excess = d
		if excess < 0 {
			excess = -excess
		}
		result -= balanceUnit * (excess - 2)
	}
	return result
}

func manDestinations(p *common.Position, sq int, side bool) int {
	var result = 0
	for _, dir := range common.ForwardDirs(side) {
		if to := common.Neighbor(sq, dir); to != common.SquareNone && p.Board[to] == common.Empty {
			result++
		}
	}
	return result
}

func kingDestinations(p *common.Position, sq int) int {
	var result = 0
	for dir := 0; dir < 4; dir++ {
		for _, to := range common.Ray(sq, dir) {
			if p.Board[to] != common.Empty {
				break
			}
			result++
		}
	}
	return result
}

func friendlyNeighbors(p *common.Position, sq int, side bool) int {
	var result = 0
	for dir := 0; dir < 4; dir++ {
		var n = common.Neighbor(sq, dir)
		if n != common.SquareNone && p.Board[n] != common.Empty &&
			common.PieceSide(p.Board[n]) == side {
			result++
		}
	}
	return result
}

// isRunner reports whether the man has a clear path to promotion: both
// forward rays are empty all the way to the back row.
func isRunner(p *common.Position, sq int, side bool) bool {
	var clear = false
	for _, dir := range common.ForwardDirs(side) {
		var open = true
		var ray = common.Ray(sq, dir)
		if len(ray) == 0 {
			continue
		}
		for _, to := range ray {
			if p.Board[to] != common.Empty {
				open = false
				break
			}
		}
		if open {
			clear = true
		} else {
			return false
		}
	}
	return clear
}
