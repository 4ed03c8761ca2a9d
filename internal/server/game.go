package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"damcore/internal/solver"
	"damcore/pkg/common"
	"damcore/pkg/engine"
	"damcore/pkg/eval"
)

// Game is one human-versus-engine session. The human side is fixed when the
// game is created; the engine answers every applied move.
type Game struct {
	ID         string
	Level      int
	HumanWhite bool
	Positions  []common.Position
	History    *common.GameHistory
	engine     *engine.Engine
	expert     solver.MoveSource
	mu         sync.Mutex
}

func newGame(level int, humanWhite bool, hashMegabytes int, expert solver.MoveSource) *Game {
	var config = engine.Level(level)
	var e = engine.NewEngine(config, func() engine.IEvaluator {
		return eval.NewEvaluationService(config.EvalFeatureScale)
	})
	if hashMegabytes > 0 {
		e.Hash = hashMegabytes
	}
	var p = common.InitialPosition()
	var g = &Game{
		ID:         uuid.NewString(),
		Level:      level,
		HumanWhite: humanWhite,
		Positions:  []common.Position{p},
		History:    common.NewGameHistory(p),
		engine:     e,
	}
	// the top tier defers to the expert solver when one is configured
	if level == engine.MaxLevel {
		g.expert = expert
	}
	return g
}

func (g *Game) current() *common.Position {
	return &g.Positions[len(g.Positions)-1]
}

func (g *Game) outcome() common.Outcome {
	return g.History.Outcome(*g.current())
}

func (g *Game) applyMove(notation string) (common.Move, error) {
	if outcome := g.outcome(); outcome != common.InProgress {
		return common.MoveEmpty, fmt.Errorf("game is over: %v", outcome)
	}
	var move, err = g.current().ParseMove(notation)
	if err != nil {
		return common.MoveEmpty, err
	}
	var next, applyErr = g.current().ApplyMove(move)
	if applyErr != nil {
		return common.MoveEmpty, applyErr
	}
	g.History.Append(next, move)
	g.Positions = append(g.Positions, next)
	return move, nil
}

func (g *Game) engineMove(ctx context.Context) (common.Move, error) {
	var move common.Move
	if g.expert != nil {
		var expertMove, err = g.expert.BestMove(ctx, g.Positions)
		if err == nil {
			move = expertMove
		}
	}
	if move.From == 0 {
		move = g.engine.FindBestMove(ctx, g.Positions)
	}
	if move.From == 0 {
		return common.MoveEmpty, fmt.Errorf("no legal moves")
	}
	var next, err = g.current().ApplyMove(move)
	if err != nil {
		return common.MoveEmpty, err
	}
	g.History.Append(next, move)
	g.Positions = append(g.Positions, next)
	return move, nil
}

func (g *Game) legalMoves() []string {
	var ml = g.current().GenerateLegalMoves()
	var result = make([]string, len(ml))
	for i, mv := range ml {
		result[i] = mv.String()
	}
	return result
}

type gameStore struct {
	games map[string]*Game
	mu    sync.RWMutex
}

func newGameStore() *gameStore {
	return &gameStore{games: make(map[string]*Game)}
}

func (s *gameStore) add(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = g
}

func (s *gameStore) get(id string) (*Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var g, ok = s.games[id]
	return g, ok
}

func (s *gameStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}
