package engine

import (
	"sort"

	. "damcore/pkg/common"
)

func (e *Engine) iterateDepths(limits LimitsType) {
	defer recoverFromSearchTimeout()
	var p = &e.stack[0].position
	var ml = p.GenerateLegalMoves()
	if len(ml) == 0 {
		return
	}
	e.rootMoves = e.rootMoves[:0]
	for _, move := range ml {
		e.rootMoves = append(e.rootMoves, rootMove{move: move, score: -valueInfinity})
	}

	var maxDepth = maxHeight
	if limits.Depth > 0 && limits.Depth < maxDepth {
		maxDepth = limits.Depth
	}
	for depth := 1; depth <= maxDepth; depth++ {
		e.searchRootDepth(depth)
		e.timeManager.OnIterationComplete(e.mainLine)
		if e.timeManager.IsDone() {
			break
		}
	}
}

// searchRootDepth scores every root move with a full window so the scores
// stay comparable for the blunder candidate selection. A timeout unwinds
// before the commit, so rootMoves and mainLine always hold a completed depth.
func (e *Engine) searchRootDepth(depth int) {
	const height = 0
	var scored = make([]rootMove, 0, len(e.rootMoves))
	var best = -valueInfinity
	var bestLine []Move
	for _, rm := range e.rootMoves {
		if !e.makeMove(rm.move, height) {
			continue
		}
		var score = -e.alphaBeta(-valueInfinity, valueInfinity, depth-1, height+1)
		scored = append(scored, rootMove{move: rm.move, score: score})
		if score > best {
			best = score
			bestLine = append([]Move{rm.move}, e.stack[height+1].pv.toSlice()...)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	e.rootMoves = scored
	e.mainLine = mainLine{depth: depth, score: best, moves: bestLine}
	if e.progress != nil && e.nodes >= int64(e.ProgressMinNodes) {
		e.progress(e.currentSearchResult())
	}
}

func (e *Engine) alphaBeta(alpha, beta, depth, height int) int {
	e.stack[height].pv.clear()
	var position = &e.stack[height].position

	if height >= maxHeight {
		return e.leafValue(position)
	}
	if e.isRepeat(height) {
		return valueDraw
	}
	// mate distance pruning
	if winIn(height+1) <= alpha {
		return alpha
	}
	if lossIn(height+2) >= beta {
		return beta
	}

	var ml = position.GenerateLegalMoves()
	if len(ml) == 0 {
		return lossIn(height)
	}

	// forced capture sequences are resolved past the horizon
	if depth <= 0 && !ml[0].IsCapture() {
		return e.leafValue(position)
	}

	var ttMove = MoveEmpty
	if e.transTable != nil {
		var ttDepth, ttValue, ttBound, move, ttHit = e.transTable.Read(position.Key)
		if ttHit {
			ttMove = move
			ttValue = valueFromTT(ttValue, height)
			if ttDepth >= depth {
				if ttBound == boundExact ||
					ttBound == boundLower && ttValue >= beta ||
					ttBound == boundUpper && ttValue <= alpha {
					if ttValue >= beta && ttMove.From != 0 && !ttMove.IsCapture() {
						e.updateKiller(ttMove, height)
					}
					return ttValue
				}
			}
		}
	}

	if height+2 <= maxHeight {
		e.stack[height+2].killer1 = MoveEmpty
		e.stack[height+2].killer2 = MoveEmpty
	}

	e.sortMoves(ml, ttMove, height)

	var best = -valueInfinity
	var bestMove = MoveEmpty
	var oldAlpha = alpha
	var child = &e.stack[height+1].pv

	for _, move := range ml {
		if !e.makeMove(move, height) {
			continue
		}
		var score = -e.alphaBeta(-beta, -alpha, depth-1, height+1)
		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			e.stack[height].pv.assign(move, child)
			if alpha >= beta {
				if !move.IsCapture() {
					e.updateKiller(move, height)
				}
				break
			}
		}
	}

	if e.transTable != nil {
		var ttBound = 0
		if best > oldAlpha {
			ttBound |= boundLower
		}
		if best < beta {
			ttBound |= boundUpper
		}
		e.transTable.Update(position.Key, depth, valueToTT(best, height), ttBound, bestMove)
	}

	return best
}

func (e *Engine) leafValue(p *Position) int {
	var v = e.evaluator.Evaluate(p)
	if amp := e.config.NoiseAmplitude; amp > 0 {
		v += e.rnd.Intn(2*amp+1) - amp
	}
	return v
}

// sortMoves orders the move list: hash move, then longer captures first,
// then killers, then the rest in generation order.
func (e *Engine) sortMoves(ml []Move, ttMove Move, height int) {
	var killer1 = e.stack[height].killer1
	var killer2 = e.stack[height].killer2
	sort.SliceStable(ml, func(i, j int) bool {
		return moveScore(ml[i], ttMove, killer1, killer2) >
			moveScore(ml[j], ttMove, killer1, killer2)
	})
}

func moveScore(move, ttMove, killer1, killer2 Move) int {
	if move.Equal(ttMove) {
		return 1 << 20
	}
	if move.IsCapture() {
		return 1<<10 + move.CaptureCount()
	}
	if move.Equal(killer1) {
		return 100
	}
	if move.Equal(killer2) {
		return 99
	}
	return 0
}

func (e *Engine) updateKiller(move Move, height int) {
	if !e.config.UseKillerMoves {
		return
	}
	if !e.stack[height].killer1.Equal(move) {
		e.stack[height].killer2 = e.stack[height].killer1
		e.stack[height].killer1 = move
	}
}

func (e *Engine) makeMove(move Move, height int) bool {
	var next, err = e.stack[height].position.ApplyMove(move)
	if err != nil {
		return false
	}
	e.stack[height+1].position = next
	e.incNodes()
	return true
}

func (e *Engine) incNodes() {
	e.nodes++
	if e.nodes&255 == 0 {
		e.timeManager.OnNodesChanged(int(e.nodes))
		if e.timeManager.IsDone() {
			panic(errSearchTimeout)
		}
	}
}

func (e *Engine) isRepeat(height int) bool {
	var p = &e.stack[height].position
	if !isReversible(p) {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		var temp = &e.stack[i].position
		if temp.Key == p.Key {
			return true
		}
		if !isReversible(temp) {
			return false
		}
	}
	return e.historyKeys[p.Key] >= 2
}
