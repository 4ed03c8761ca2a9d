package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"damcore/pkg/common"
	"damcore/pkg/engine"
	"damcore/pkg/eval"
)

type gameInfo struct {
	index       int
	aPlaysWhite bool
}

type gameResult struct {
	index  int
	scoreA float64
	plies  int
	result common.Outcome
}

func run(ctx context.Context, levelA, levelB, games, concurrency, maxPlies int) error {
	log.Println("arena started")
	defer log.Println("arena finished")

	log.Println("NumCPU", runtime.NumCPU(),
		"GOMAXPROCS", runtime.GOMAXPROCS(0),
		"levelA", levelA, "levelB", levelB,
		"games", games, "concurrency", concurrency)

	g, ctx := errgroup.WithContext(ctx)

	var gameInfos = make(chan gameInfo)
	var gameResults = make(chan gameResult)

	g.Go(func() error {
		defer close(gameInfos)
		for i := 0; i < games; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case gameInfos <- gameInfo{index: i, aPlaysWhite: i%2 == 0}:
			}
		}
		return nil
	})

	g.Go(func() error {
		return showResults(ctx, games, gameResults)
	})

	var wg = &sync.WaitGroup{}

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return playGames(ctx, levelA, levelB, maxPlies, gameInfos, gameResults)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(gameResults)
		return nil
	})

	return g.Wait()
}

func playGames(
	ctx context.Context,
	levelA, levelB, maxPlies int,
	gameInfos <-chan gameInfo,
	gameResults chan<- gameResult,
) error {
	var engineA = newArenaEngine(levelA)
	var engineB = newArenaEngine(levelB)
	for info := range gameInfos {
		var res, err = playGame(ctx, engineA, engineB, maxPlies, info)
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case gameResults <- res:
		}
	}
	return nil
}

func newArenaEngine(level int) *engine.Engine {
	var config = engine.Level(level)
	return engine.NewEngine(config, func() engine.IEvaluator {
		return eval.NewEvaluationService(config.EvalFeatureScale)
	})
}

func playGame(ctx context.Context, engineA, engineB *engine.Engine,
	maxPlies int, info gameInfo) (gameResult, error) {

	var p = common.InitialPosition()
	var positions = []common.Position{p}
	var history = common.NewGameHistory(p)
	var rnd = rand.New(rand.NewSource(int64(info.index)))

	// a short random opening keeps the games diverse
	for ply := 0; ply < 2; ply++ {
		var ml = positions[len(positions)-1].GenerateLegalMoves()
		var next, err = positions[len(positions)-1].ApplyMove(ml[rnd.Intn(len(ml))])
		if err != nil {
			return gameResult{}, err
		}
		history.Append(next, next.LastMove)
		positions = append(positions, next)
	}

	var plies = 0
	var outcome = common.InProgress
	for plies < maxPlies {
		if err := ctx.Err(); err != nil {
			return gameResult{}, err
		}
		var current = positions[len(positions)-1]
		outcome = history.Outcome(current)
		if outcome != common.InProgress {
			break
		}
		var eng = engineB
		if current.WhiteMove == info.aPlaysWhite {
			eng = engineA
		}
		var move = eng.FindBestMove(ctx, positions)
		if move.From == 0 {
			return gameResult{}, fmt.Errorf("game %v: engine returned no move", info.index)
		}
		var next, err = current.ApplyMove(move)
		if err != nil {
			return gameResult{}, fmt.Errorf("game %v: %w", info.index, err)
		}
		history.Append(next, move)
		positions = append(positions, next)
		plies++
	}

	return gameResult{
		index:  info.index,
		scoreA: scoreFor(outcome, info.aPlaysWhite),
		plies:  plies,
		result: outcome,
	}, nil
}

func scoreFor(outcome common.Outcome, aPlaysWhite bool) float64 {
	switch outcome {
	case common.WhiteWins:
		if aPlaysWhite {
			return 1
		}
		return 0
	case common.BlackWins:
		if aPlaysWhite {
			return 0
		}
		return 1
	}
	return 0.5
}

func showResults(ctx context.Context, games int, gameResults <-chan gameResult) error {
	var totalA float64
	var played = 0
	for res := range gameResults {
		played++
		totalA += res.scoreA
		log.Printf("game %v: %v in %v plies, scoreA %.1f (%v/%v)",
			res.index, res.result, res.plies, res.scoreA, played, games)
	}
	log.Printf("final score A: %.1f of %v", totalA, played)
	return nil
}
