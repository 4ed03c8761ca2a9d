package common

// GenerateLegalMoves returns the legal move set for the side to move.
// Captures are mandatory and only chains capturing the maximum number of
// pieces are kept. Captured pieces stay on the board until the whole chain
// ends, so they keep blocking paths and cannot be jumped twice.
func (p *Position) GenerateLegalMoves() []Move {
	var captures = p.generateCaptures()
	if len(captures) > 0 {
		return filterMaxCaptures(captures)
	}
	return p.generateQuietMoves()
}

// HasCapture reports whether the side to move has at least one capture.
func (p *Position) HasCapture() bool {
	for sq := 1; sq <= SquareCount; sq++ {
		var code = p.Board[sq]
		if code == Empty || PieceSide(code) != p.WhiteMove {
			continue
		}
		if PieceType(code) == Man {
			if p.manCaptureExists(sq, sq, nil) {
				return true
			}
		} else if p.kingCaptureExists(sq, sq, nil) {
			return true
		}
	}
	return false
}

func filterMaxCaptures(captures []Move) []Move {
	var maxLen = 0
	for _, mv := range captures {
		if mv.CaptureCount() > maxLen {
			maxLen = mv.CaptureCount()
		}
	}
	var result = captures[:0]
	for _, mv := range captures {
		if mv.CaptureCount() == maxLen {
			result = append(result, mv)
		}
	}
	return result
}

func (p *Position) generateQuietMoves() []Move {
	var result []Move
	for sq := 1; sq <= SquareCount; sq++ {
		var code = p.Board[sq]
		if code == Empty || PieceSide(code) != p.WhiteMove {
			continue
		}
		if PieceType(code) == Man {
			for _, dir := range ForwardDirs(p.WhiteMove) {
				var to = Neighbor(sq, dir)
				if to != SquareNone && p.Board[to] == Empty {
					result = append(result, MakeQuietMove(sq, to))
				}
			}
		} else {
			for dir := 0; dir < dirCount; dir++ {
				for _, to := range Ray(sq, dir) {
					if p.Board[to] != Empty {
						break
					}
					result = append(result, MakeQuietMove(sq, to))
				}
			}
		}
	}
	return result
}

func (p *Position) generateCaptures() []Move {
	var result []Move
	for sq := 1; sq <= SquareCount; sq++ {
		var code = p.Board[sq]
		if code == Empty || PieceSide(code) != p.WhiteMove {
			continue
		}
		if PieceType(code) == Man {
			result = p.manChains(sq, sq, nil, result)
		} else {
			result = p.kingChains(sq, sq, nil, result)
		}
	}
	return result
}

// occupied treats the chain's origin as empty (the moving piece has left it)
// while pieces captured earlier in the chain still block.
func (p *Position) occupied(sq, origin int) bool {
	return sq != origin && p.Board[sq] != Empty
}

func (p *Position) capturable(sq, origin int, taken []CaptureStep) bool {
	if !p.occupied(sq, origin) {
		return false
	}
	if PieceSide(p.Board[sq]) == p.WhiteMove {
		return false
	}
	for _, step := range taken {
		if step.Capture == sq {
			return false
		}
	}
	return true
}

// manChains extends a man's capture chain recursively from sq and appends
// every maximal chain to result.
func (p *Position) manChains(origin, sq int, taken []CaptureStep, result []Move) []Move {
	var extended = false
	for dir := 0; dir < dirCount; dir++ {
		var over = Neighbor(sq, dir)
		if over == SquareNone || !p.capturable(over, origin, taken) {
			continue
		}
		var land = Neighbor(over, dir)
		if land == SquareNone || p.occupied(land, origin) {
			continue
		}
		extended = true
		var steps = append(append([]CaptureStep(nil), taken...), CaptureStep{Land: land, Capture: over})
		result = p.manChains(origin, land, steps, result)
	}
	if !extended && len(taken) > 0 {
		result = append(result, MakeCaptureMove(origin, taken))
	}
	return result
}

func (p *Position) manCaptureExists(origin, sq int, taken []CaptureStep) bool {
	for dir := 0; dir < dirCount; dir++ {
		var over = Neighbor(sq, dir)
		if over == SquareNone || !p.capturable(over, origin, taken) {
			continue
		}
		var land = Neighbor(over, dir)
		if land != SquareNone && !p.occupied(land, origin) {
			return true
		}
	}
	return false
}

// kingChains is the flying-king version: the king slides any distance before
// the jumped piece and may land on any empty square behind it.
func (p *Position) kingChains(origin, sq int, taken []CaptureStep, result []Move) []Move {
	var extended = false
	for dir := 0; dir < dirCount; dir++ {
		var over = SquareNone
		for _, next := range Ray(sq, dir) {
			if p.occupied(next, origin) {
				over = next
				break
			}
		}
		if over == SquareNone || !p.capturable(over, origin, taken) {
			continue
		}
		for _, land := range Ray(over, dir) {
			if p.occupied(land, origin) {
				break
			}
			extended = true
			var steps = append(append([]CaptureStep(nil), taken...), CaptureStep{Land: land, Capture: over})
			result = p.kingChains(origin, land, steps, result)
		}
	}
	if !extended && len(taken) > 0 {
		result = append(result, MakeCaptureMove(origin, taken))
	}
	return result
}

func (p *Position) kingCaptureExists(origin, sq int, taken []CaptureStep) bool {
	for dir := 0; dir < dirCount; dir++ {
		var over = SquareNone
		for _, next := range Ray(sq, dir) {
			if p.occupied(next, origin) {
				over = next
				break
			}
		}
		if over == SquareNone || !p.capturable(over, origin, taken) {
			continue
		}
		var land = Neighbor(over, dir)
		if land != SquareNone && !p.occupied(land, origin) {
			return true
		}
	}
	return false
}
