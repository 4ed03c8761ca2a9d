package common

type Outcome int

const (
	InProgress Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "white wins"
	case BlackWins:
		return "black wins"
	case Draw:
		return "draw"
	}
	return "in progress"
}

// GameHistory records every (position, side to move) pair of a game plus the
// two draw-rule counters. Append it after every applied move.
type GameHistory struct {
	keys           []uint64
	kingsOnlyPlies int
	endgamePlies   int
}

func NewGameHistory(start Position) *GameHistory {
	return &GameHistory{keys: []uint64{start.Key}}
}

func (h *GameHistory) Append(p Position, move Move) {
	h.keys = append(h.keys, p.Key)

	if move.IsCapture() {
		h.kingsOnlyPlies = 0
		h.endgamePlies = 0
		return
	}
	if isKingsOnly(&p) {
		h.kingsOnlyPlies++
	} else {
		h.kingsOnlyPlies = 0
	}
	if isQualifyingEndgame(&p) {
		h.endgamePlies++
	} else {
		h.endgamePlies = 0
	}
}

func (h *GameHistory) Repetitions(key uint64) int {
	var count = 0
	for _, k := range h.keys {
		if k == key {
			count++
		}
	}
	return count
}

// Outcome applies the termination rules to the latest position. A side with
// no legal moves loses; that takes precedence over every draw rule.
func (h *GameHistory) Outcome(p Position) Outcome {
	if len(p.GenerateLegalMoves()) == 0 {
		if p.WhiteMove {
			return BlackWins
		}
		return WhiteWins
	}
	if h.Repetitions(p.Key) >= 3 {
		return Draw
	}
	if h.kingsOnlyPlies >= 50 {
		return Draw
	}
	if h.endgamePlies >= 32 {
		return Draw
	}
	return InProgress
}

func isKingsOnly(p *Position) bool {
	var wMen, wKings = p.Count(true)
	var bMen, bKings = p.Count(false)
	return wMen == 0 && bMen == 0 && wKings > 0 && bKings > 0
}

// isQualifyingEndgame matches the 16-move-rule material configurations:
// 3 kings, 2 kings + man, or king + 2 men against a lone king.
func isQualifyingEndgame(p *Position) bool {
	var wMen, wKings = p.Count(true)
	var bMen, bKings = p.Count(false)
	return qualifies(wMen, wKings, bMen, bKings) || qualifies(bMen, bKings, wMen, wKings)
}

func qualifies(strongMen, strongKings, weakMen, weakKings int) bool {
	if weakMen != 0 || weakKings != 1 {
		return false
	}
	switch {
	case strongKings == 3 && strongMen == 0:
		return true
	case strongKings == 2 && strongMen == 1:
		return true
	case strongKings == 1 && strongMen == 2:
		return true
	}
	return false
}
