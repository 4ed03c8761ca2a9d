package common

import (
	"errors"
	"math/rand"
	"testing"
)

func TestFenRoundTrip(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"W:W28:B22,23,12",
		"B:W10,K33:B12,13,K5",
		"W:WK17:B12,13,23,22",
	}
	for _, fen := range fens {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatalf("%v: %v", fen, err)
		}
		var q, err2 = NewPositionFromFEN(p.String())
		if err2 != nil {
			t.Fatalf("%v: reparse %v: %v", fen, p.String(), err2)
		}
		if q.Key != p.Key || q.WhiteMove != p.WhiteMove {
			t.Errorf("%v: round trip mismatch, got %v", fen, q.String())
		}
	}
}

func TestFenErrors(t *testing.T) {
	var fens = []string{
		"",
		"W:W31-50",
		"X:W31:B1",
		"W:W0:B1",
		"W:W51:B1",
		"W:W10:B10",
	}
	for _, fen := range fens {
		if _, err := NewPositionFromFEN(fen); err == nil {
			t.Errorf("%v: parse succeeded, want error", fen)
		}
	}
}

func TestIncrementalKey(t *testing.T) {
	var rnd = rand.New(rand.NewSource(7))
	var p = InitialPosition()
	for ply := 0; ply < 200; ply++ {
		var ml = p.GenerateLegalMoves()
		if len(ml) == 0 {
			break
		}
		var next, err = p.ApplyMove(ml[rnd.Intn(len(ml))])
		if err != nil {
			t.Fatal(err)
		}
		if next.Key != next.computeKey() {
			t.Fatalf("%v: incremental key diverged after %v", &next, next.LastMove)
		}
		p = next
	}
}

func TestApplyMoveErrors(t *testing.T) {
	var p = InitialPosition()
	var badMoves = []Move{
		MakeQuietMove(30, 35), // empty origin
		MakeQuietMove(1, 7),   // opponent's piece
		MakeQuietMove(41, 36), // occupied landing
	}
	for _, mv := range badMoves {
		if _, err := p.ApplyMove(mv); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("%v: got %v, want ErrInvalidMove", mv, err)
		}
	}
}

func TestParseMove(t *testing.T) {
	var p = InitialPosition()
	var mv, err = p.ParseMove("32-28")
	if err != nil || mv.From != 32 || mv.To != 28 {
		t.Errorf("parse 32-28: got %v, %v", mv, err)
	}
	if _, err = p.ParseMove("32-29"); err == nil {
		t.Error("parse 32-29: want error, move is illegal")
	}

	// a capture may be given by origin and final square only
	p, _ = NewPositionFromFEN("W:W28:B22,23,12")
	mv, err = p.ParseMove("28x8")
	if err != nil || mv.String() != "28x17x8" {
		t.Errorf("parse 28x8: got %v, %v", mv, err)
	}
}

func TestMoveNotation(t *testing.T) {
	if s := MakeQuietMove(32, 28).String(); s != "32-28" {
		t.Errorf("got %v, want 32-28", s)
	}
	var mv = MakeCaptureMove(28, []CaptureStep{{Land: 17, Capture: 22}, {Land: 8, Capture: 12}})
	if s := mv.String(); s != "28x17x8" {
		t.Errorf("got %v, want 28x17x8", s)
	}
	if s := MoveEmpty.String(); s != "0000" {
		t.Errorf("got %v, want 0000", s)
	}
}
