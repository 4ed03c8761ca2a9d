package hub

import (
	"testing"

	"damcore/pkg/common"
	"damcore/pkg/engine"
	"damcore/pkg/eval"
)

func newTestProtocol() *Protocol {
	var e = engine.NewEngine(engine.Level(1), func() engine.IEvaluator {
		return eval.NewEvaluationService(0)
	})
	return New("damcore", "dev", e, eval.NewEvaluationService(0))
}

func TestPosCommand(t *testing.T) {
	var h = newTestProtocol()
	if err := h.posCommand([]string{"startpos", "moves", "32-28", "19-23", "28x19"}); err != nil {
		t.Fatal(err)
	}
	if len(h.positions) != 4 {
		t.Fatalf("got %v positions, want 4", len(h.positions))
	}
	var p = h.currentPosition()
	if p.WhiteMove {
		t.Error("black should be on move")
	}
	var wMen, _ = p.Count(true)
	if wMen != 20 {
		t.Errorf("white men %v, want 20", wMen)
	}

	if err := h.posCommand([]string{"fen", "W:W28:B22,23,12"}); err != nil {
		t.Fatal(err)
	}
	if h.currentPosition().AllCount() != 4 {
		t.Error("fen position not loaded")
	}

	if err := h.posCommand([]string{"startpos", "moves", "32-29"}); err == nil {
		t.Error("illegal move accepted")
	}
}

func TestLevelCommand(t *testing.T) {
	var h = newTestProtocol()
	if err := h.levelCommand([]string{"3"}); err != nil {
		t.Fatal(err)
	}
	for _, bad := range [][]string{{}, {"0"}, {"6"}, {"x"}} {
		if err := h.levelCommand(bad); err == nil {
			t.Errorf("level %v accepted", bad)
		}
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	var h = newTestProtocol()
	if err := h.handle("frobnicate"); err == nil {
		t.Error("unknown command accepted")
	}
	if err := h.handle(""); err != nil {
		t.Errorf("blank line: %v", err)
	}
}

func TestParseLimits(t *testing.T) {
	var limits = parseLimits([]string{"depth", "6", "movetime", "1500", "nodes", "5000"})
	if limits.Depth != 6 || limits.MoveTime != 1500 || limits.Nodes != 5000 {
		t.Errorf("got %+v", limits)
	}
	if !parseLimits([]string{"infinite"}).Infinite {
		t.Error("infinite not parsed")
	}
}

func TestGoCommandProducesBestMove(t *testing.T) {
	var h = newTestProtocol()
	if err := h.goCommand([]string{"depth", "2"}); err != nil {
		t.Fatal(err)
	}
	var last common.SearchInfo
	for si := range h.engineOutput {
		last = si
	}
	if len(last.MainLine) == 0 {
		t.Fatal("search produced no main line")
	}
	var legal = false
	for _, mv := range h.currentPosition().GenerateLegalMoves() {
		if mv.Equal(last.MainLine[0]) {
			legal = true
		}
	}
	if !legal {
		t.Errorf("best move %v not legal", last.MainLine[0])
	}
}
