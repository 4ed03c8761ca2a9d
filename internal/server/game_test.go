package server

import (
	"testing"

	"damcore/pkg/common"
)

func TestApplyMoveAfterGameOver(t *testing.T) {
	var p, err = common.NewPositionFromFEN("W:WK45:BK6")
	if err != nil {
		t.Fatal(err)
	}
	var g = newGame(1, true, 0, nil)
	g.Positions = []common.Position{p}
	g.History = common.NewGameHistory(p)

	// two full shuffle cycles repeat the start position a third time
	var shuffle = []string{
		"45-50", "6-1", "50-45", "1-6",
		"45-50", "6-1", "50-45", "1-6",
	}
	for _, notation := range shuffle {
		if _, err := g.applyMove(notation); err != nil {
			t.Fatalf("apply %v: %v", notation, err)
		}
	}
	if g.outcome() != common.Draw {
		t.Fatalf("outcome %v, want draw by repetition", g.outcome())
	}

	// the move is legal on the board, but the game has ended
	if _, err := g.applyMove("45-50"); err == nil {
		t.Error("move accepted after the game ended")
	}
	if len(g.Positions) != len(shuffle)+1 {
		t.Errorf("history grew after the game ended: %v positions", len(g.Positions))
	}
}
