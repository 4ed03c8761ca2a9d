package solver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"damcore/internal/bootstrap"
	"damcore/pkg/common"
	"damcore/pkg/engine"
	"damcore/pkg/eval"
)

type fixedSource struct {
	move common.Move
}

func (s *fixedSource) BestMove(ctx context.Context, positions []common.Position) (common.Move, error) {
	return s.move, nil
}

func newTestClient(url string, fallback MoveSource) *Client {
	return NewClient(&bootstrap.Config{
		SolverURL:       url,
		SolverTimeoutMs: 500,
	}, zap.NewNop().Sugar(), fallback)
}

func TestRemoteMove(t *testing.T) {
	var ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req solveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Fen == "" {
			t.Errorf("bad solver request: %v", err)
		}
		json.NewEncoder(w).Encode(solveResponse{ID: req.ID, Move: "32-28"})
	}))
	defer ts.Close()

	var c = newTestClient(ts.URL, &fixedSource{move: common.MakeQuietMove(31, 26)})
	var move, err = c.BestMove(context.Background(), []common.Position{common.InitialPosition()})
	if err != nil {
		t.Fatal(err)
	}
	if move.String() != "32-28" {
		t.Errorf("got %v, want 32-28", move)
	}
}

func TestFallbackOnIllegalMove(t *testing.T) {
	var ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(solveResponse{Move: "1-50"})
	}))
	defer ts.Close()

	var want = common.MakeQuietMove(31, 26)
	var c = newTestClient(ts.URL, &fixedSource{move: want})
	var move, err = c.BestMove(context.Background(), []common.Position{common.InitialPosition()})
	if err != nil {
		t.Fatal(err)
	}
	if !move.Equal(want) {
		t.Errorf("got %v, want fallback move %v", move, want)
	}
}

func TestEngineSourceConcurrentRequests(t *testing.T) {
	var built int64
	var source = &EngineSource{
		New: func() Searcher {
			atomic.AddInt64(&built, 1)
			var config = engine.Level(1)
			return engine.NewEngine(config, func() engine.IEvaluator {
				return eval.NewEvaluationService(config.EvalFeatureScale)
			})
		},
	}

	const requests = 4
	var positions = []common.Position{common.InitialPosition()}
	var moves [requests]common.Move
	var errs [requests]error
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			moves[i], errs[i] = source.BestMove(context.Background(), positions)
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt64(&built); n != requests {
		t.Errorf("built %v engines for %v requests, want one each", n, requests)
	}
	var legal = positions[0].GenerateLegalMoves()
	for i := 0; i < requests; i++ {
		if errs[i] != nil {
			t.Fatal(errs[i])
		}
		var found = false
		for _, mv := range legal {
			if mv.Equal(moves[i]) {
				found = true
			}
		}
		if !found {
			t.Errorf("request %v: illegal move %v", i, moves[i])
		}
	}
}

func TestFallbackWithoutURL(t *testing.T) {
	var want = common.MakeQuietMove(33, 28)
	var c = newTestClient("", &fixedSource{move: want})
	var move, err = c.BestMove(context.Background(), []common.Position{common.InitialPosition()})
	if err != nil {
		t.Fatal(err)
	}
	if !move.Equal(want) {
		t.Errorf("got %v, want %v", move, want)
	}
}
