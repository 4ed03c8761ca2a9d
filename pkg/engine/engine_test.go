package engine

import (
	"context"
	"math/rand"
	"testing"

	"damcore/pkg/common"
	"damcore/pkg/eval"
)

func newTestEngine(config DifficultyConfig) *Engine {
	var e = NewEngine(config, func() IEvaluator {
		return eval.NewEvaluationService(config.EvalFeatureScale)
	})
	e.rnd = rand.New(rand.NewSource(1))
	return e
}

func TestSearchFindsForcedWin(t *testing.T) {
	var e = newTestEngine(DifficultyConfig{MaxDepth: 3})
	var p, err = common.NewPositionFromFEN("W:W28:B23")
	if err != nil {
		t.Fatal(err)
	}
	var si = e.Search(context.Background(), common.SearchParams{
		Positions: []common.Position{p},
		Limits:    common.LimitsType{Depth: 3},
	})
	if len(si.MainLine) == 0 || si.MainLine[0].String() != "28x19" {
		t.Fatalf("main line %v, want 28x19 first", si.MainLine)
	}
	if si.Score < valueWin {
		t.Errorf("score %v, want a winning score", si.Score)
	}
}

func TestSearchReachesDepthLimit(t *testing.T) {
	var e = newTestEngine(DifficultyConfig{MaxDepth: 3, EvalFeatureScale: 1,
		UseTranspositionTable: true, UseKillerMoves: true})
	var si = e.Search(context.Background(), common.SearchParams{
		Positions: []common.Position{common.InitialPosition()},
		Limits:    common.LimitsType{Depth: 3},
	})
	if si.Depth != 3 {
		t.Errorf("depth %v, want 3", si.Depth)
	}
	if si.Nodes == 0 {
		t.Error("no nodes searched")
	}
}

func TestFindBestMoveAlwaysLegal(t *testing.T) {
	// maximum noise and guaranteed blunders must never produce an illegal move
	var e = newTestEngine(DifficultyConfig{
		MaxDepth:           2,
		NoiseAmplitude:     120,
		BlunderProbability: 1,
		BlunderMargin:      200,
		EvalFeatureScale:   0.5,
	})
	var rnd = rand.New(rand.NewSource(11))
	var positions = []common.Position{common.InitialPosition()}
	for ply := 0; ply < 80; ply++ {
		var p = positions[len(positions)-1]
		var ml = p.GenerateLegalMoves()
		if len(ml) == 0 {
			break
		}
		var picked = e.FindBestMove(context.Background(), positions)
		var legal = false
		for _, mv := range ml {
			if mv.Equal(picked) {
				legal = true
				break
			}
		}
		if !legal {
			t.Fatalf("%v: engine picked illegal move %v", &p, picked)
		}
		var next, err = p.ApplyMove(ml[rnd.Intn(len(ml))])
		if err != nil {
			t.Fatal(err)
		}
		positions = append(positions, next)
	}
}

func TestFindBestMoveNoMoves(t *testing.T) {
	var e = newTestEngine(DifficultyConfig{MaxDepth: 3})
	var p, _ = common.NewPositionFromFEN("B:W10,14:B5")
	var mv = e.FindBestMove(context.Background(), []common.Position{p})
	if mv.From != 0 {
		t.Errorf("got %v, want empty move for stuck position", mv)
	}
}

func TestBlunderKeepsForcedMove(t *testing.T) {
	// the single legal reply must survive any blunder setting
	var e = newTestEngine(DifficultyConfig{
		MaxDepth:           2,
		BlunderProbability: 1,
		BlunderMargin:      0,
	})
	var p, _ = common.NewPositionFromFEN("W:W28:B23")
	var mv = e.FindBestMove(context.Background(), []common.Position{p})
	if mv.String() != "28x19" {
		t.Errorf("got %v, want 28x19", mv)
	}
}

func TestLevelPresets(t *testing.T) {
	var prev = Level(1)
	for level := 2; level <= MaxLevel; level++ {
		var cfg = Level(level)
		if cfg.MaxDepth <= prev.MaxDepth {
			t.Errorf("level %v: depth %v not above level %v", level, cfg.MaxDepth, level-1)
		}
		if cfg.NoiseAmplitude > prev.NoiseAmplitude {
			t.Errorf("level %v: noise grew to %v", level, cfg.NoiseAmplitude)
		}
		if cfg.BlunderProbability > prev.BlunderProbability {
			t.Errorf("level %v: blunder probability grew to %v", level, cfg.BlunderProbability)
		}
		prev = cfg
	}
	var top = Level(MaxLevel)
	if top.NoiseAmplitude != 0 || top.BlunderProbability != 0 {
		t.Error("top level must play clean")
	}
	if Level(0) != Level(1) || Level(99) != Level(MaxLevel) {
		t.Error("levels are not clamped")
	}
}

func TestMateValues(t *testing.T) {
	for _, height := range []int{0, 1, 5, 20} {
		for _, v := range []int{winIn(height), lossIn(height), 0, 100, -250} {
			if got := valueFromTT(valueToTT(v, height), height); got != v {
				t.Errorf("height %v: %v round trips to %v", height, v, got)
			}
		}
	}
}
