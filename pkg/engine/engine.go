package engine

import (
	"context"
	"errors"
	"math/rand"
	"time"

	. "damcore/pkg/common"
)

type Engine struct {
	Hash             int
	ProgressMinNodes int
	config           DifficultyConfig
	evalBuilder      func() IEvaluator
	evaluator        IEvaluator
	timeManager      *timeManager
	transTable       TransTable
	historyKeys      map[uint64]int
	rootMoves        []rootMove
	progress         func(SearchInfo)
	mainLine         mainLine
	start            time.Time
	nodes            int64
	rnd              *rand.Rand
	stack            [stackSize]struct {
		position Position
		pv       pv
		killer1  Move
		killer2  Move
	}
}

type rootMove struct {
	move  Move
	score int
}

type pv struct {
	items [stackSize]Move
	size  int
}

type mainLine struct {
	moves []Move
	score int
	depth int
}

type IEvaluator interface {
	Evaluate(p *Position) int
}

type TransTable interface {
	Size() (megabytes int)
	IncDate()
	Clear()
	Read(key uint64) (depth, score, bound int, move Move, found bool)
	Update(key uint64, depth, score, bound int, move Move)
}

var errSearchTimeout = errors.New("search timeout")

func NewEngine(config DifficultyConfig, evalBuilder func() IEvaluator) *Engine {
	return &Engine{
		Hash:             16,
		ProgressMinNodes: 200000,
		config:           config,
		evalBuilder:      evalBuilder,
		rnd:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (e *Engine) Config() DifficultyConfig {
	return e.config
}

func (e *Engine) SetConfig(config DifficultyConfig) {
	e.config = config
	e.evaluator = nil
}

func (e *Engine) Prepare() {
	if e.evaluator == nil {
		e.evaluator = e.evalBuilder()
	}
	if e.config.UseTranspositionTable {
		if e.transTable == nil || e.transTable.Size() != e.Hash {
			e.transTable = newTransTable(e.Hash)
		}
	} else {
		e.transTable = nil
	}
}

// Search runs iterative deepening on the last position of searchParams and
// reports the principal variation of the deepest completed iteration.
func (e *Engine) Search(ctx context.Context, searchParams SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()
	var p = &searchParams.Positions[len(searchParams.Positions)-1]
	e.timeManager = newTimeManager(ctx, e.start, searchParams.Limits)
	defer e.timeManager.Close()
	if e.transTable != nil {
		e.transTable.Clear()
		e.transTable.IncDate()
	}
	e.historyKeys = getHistoryKeys(searchParams.Positions)
	e.nodes = 0
	e.mainLine = mainLine{}
	e.rootMoves = e.rootMoves[:0]
	e.stack[0].position = *p
	for i := range e.stack {
		e.stack[i].killer1 = MoveEmpty
		e.stack[i].killer2 = MoveEmpty
	}
	e.progress = searchParams.Progress
	e.iterateDepths(searchParams.Limits)
	return e.currentSearchResult()
}

// FindBestMove searches the last position and applies the difficulty
// shaping: with BlunderProbability the engine plays a random move scoring
// within BlunderMargin of the best one instead of the best one itself.
func (e *Engine) FindBestMove(ctx context.Context, positions []Position) Move {
	var limits = LimitsType{Depth: e.config.MaxDepth}
	if e.config.TimeBudget > 0 {
		limits.MoveTime = int(e.config.TimeBudget / time.Millisecond)
	}
	e.Search(ctx, SearchParams{Positions: positions, Limits: limits})
	return e.chooseMove()
}

func (e *Engine) chooseMove() Move {
	if len(e.rootMoves) == 0 {
		return MoveEmpty
	}
	var best = e.rootMoves[0]
	if e.config.BlunderProbability > 0 &&
		e.rnd.Float64() < e.config.BlunderProbability {
		var candidates []rootMove
		for _, rm := range e.rootMoves {
			if rm.score >= best.score-e.config.BlunderMargin {
				candidates = append(candidates, rm)
			}
		}
		return candidates[e.rnd.Intn(len(candidates))].move
	}
	return best.move
}

// Irreversible positions cut the repetition scan, so only the tail of the
// game since the last capture or man move matters.
func getHistoryKeys(positions []Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 1; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key]++
		if i > 0 && !isReversible(p) {
			break
		}
	}
	return result
}

func isReversible(p *Position) bool {
	var move = p.LastMove
	if move.From == 0 || move.IsCapture() {
		return false
	}
	return PieceType(p.Board[move.To]) == King
}

func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
}

func (e *Engine) currentSearchResult() SearchInfo {
	return SearchInfo{
		Depth:    e.mainLine.depth,
		MainLine: e.mainLine.moves,
		Score:    e.mainLine.score,
		Nodes:    e.nodes,
		Time:     time.Since(e.start),
	}
}

func recoverFromSearchTimeout() {
	var r = recover()
	if r != nil && r != errSearchTimeout {
		panic(r)
	}
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}
