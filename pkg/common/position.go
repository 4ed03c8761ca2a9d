package common

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalidMove = errors.New("invalid move")

var (
	sideKey        uint64
	pieceSquareKey [pieceCodeCount][SquareCount + 1]uint64
)

func PieceSquareKey(code int8, square int) uint64 {
	return pieceSquareKey[code][square]
}

func initKeys() {
	var r = rand.New(rand.NewSource(0))
	sideKey = r.Uint64()
	for code := WhiteMan; code < pieceCodeCount; code++ {
		for sq := 1; sq <= SquareCount; sq++ {
			pieceSquareKey[code][sq] = r.Uint64()
		}
	}
}

func init() {
	initKeys()
}

func InitialPosition() Position {
	var p = Position{WhiteMove: true}
	for sq := 1; sq <= 20; sq++ {
		p.Board[sq] = MakePiece(Man, false)
	}
	for sq := 31; sq <= 50; sq++ {
		p.Board[sq] = MakePiece(Man, true)
	}
	p.Key = p.computeKey()
	return p
}

func (p *Position) computeKey() uint64 {
	var result = uint64(0)
	if p.WhiteMove {
		result ^= sideKey
	}
	for sq := 1; sq <= SquareCount; sq++ {
		if code := p.Board[sq]; code != Empty {
			result ^= pieceSquareKey[code][sq]
		}
	}
	return result
}

func (p *Position) Count(side bool) (men, kings int) {
	for sq := 1; sq <= SquareCount; sq++ {
		var code = p.Board[sq]
		if code == Empty || PieceSide(code) != side {
			continue
		}
		if PieceType(code) == Man {
			men++
		} else {
			kings++
		}
	}
	return
}

func (p *Position) AllCount() int {
	var result = 0
	for sq := 1; sq <= SquareCount; sq++ {
		if p.Board[sq] != Empty {
			result++
		}
	}
	return result
}

// ApplyMove returns the position after the move. Captured pieces are removed
// all at once after the whole chain; a man promotes only when the final
// landing square is the back row.
func (src *Position) ApplyMove(move Move) (Position, error) {
	var code = src.Board[move.From]
	if code == Empty || PieceSide(code) != src.WhiteMove {
		return Position{}, fmt.Errorf("%w: no %v piece on %v",
			ErrInvalidMove, sideName(src.WhiteMove), move.From)
	}

	var result = *src
	result.WhiteMove = !src.WhiteMove
	result.Key = src.Key ^ sideKey
	result.LastMove = move

	result.Board[move.From] = Empty
	result.Key ^= pieceSquareKey[code][move.From]

	for _, step := range move.Steps() {
		var victim = result.Board[step.Capture]
		if victim == Empty || PieceSide(victim) == src.WhiteMove {
			return Position{}, fmt.Errorf("%w: nothing to capture on %v",
				ErrInvalidMove, step.Capture)
		}
		result.Board[step.Capture] = Empty
		result.Key ^= pieceSquareKey[victim][step.Capture]
	}

	if result.Board[move.To] != Empty {
		return Position{}, fmt.Errorf("%w: landing square %v occupied",
			ErrInvalidMove, move.To)
	}

	if PieceType(code) == Man && Row(move.To) == PromotionRow(src.WhiteMove) {
		code = MakePiece(King, src.WhiteMove)
	}
	result.Board[move.To] = code
	result.Key ^= pieceSquareKey[code][move.To]

	return result, nil
}

func sideName(side bool) string {
	if side {
		return "white"
	}
	return "black"
}

func (m Move) String() string {
	if m.From == 0 {
		return "0000"
	}
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(m.From))
	if !m.IsCapture() {
		sb.WriteString("-")
		sb.WriteString(strconv.Itoa(m.To))
		return sb.String()
	}
	for _, step := range m.Steps() {
		sb.WriteString("x")
		sb.WriteString(strconv.Itoa(step.Land))
	}
	return sb.String()
}

// ParseMove matches notation like "32-28" or "28x19" against the legal moves.
// A capture may name just origin and final square or the full chain.
func (p *Position) ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	var ml = p.GenerateLegalMoves()
	for _, mv := range ml {
		if s == strings.ToLower(mv.String()) {
			return mv, nil
		}
	}
	if fields := strings.Split(s, "x"); len(fields) == 2 {
		var from, err1 = strconv.Atoi(fields[0])
		var to, err2 = strconv.Atoi(fields[1])
		if err1 == nil && err2 == nil {
			var found = MoveEmpty
			var matches = 0
			for _, mv := range ml {
				if mv.IsCapture() && mv.From == from && mv.To == to {
					found = mv
					matches++
				}
			}
			if matches == 1 {
				return found, nil
			}
		}
	}
	return MoveEmpty, fmt.Errorf("parse move failed %v", s)
}

// NewPositionFromFEN parses draughts FEN such as "W:W31-50:B1-20" or
// "B:W28,K33:B12,13,K5". K marks a king; dashes denote square ranges.
func NewPositionFromFEN(fen string) (Position, error) {
	var tokens = strings.Split(strings.TrimSpace(fen), ":")
	if len(tokens) != 3 {
		return Position{}, fmt.Errorf("parse fen failed %v", fen)
	}
	var p Position
	switch strings.ToUpper(tokens[0]) {
	case "W":
		p.WhiteMove = true
	case "B":
		p.WhiteMove = false
	default:
		return Position{}, fmt.Errorf("parse fen failed %v", fen)
	}
	for _, token := range tokens[1:] {
		if len(token) < 1 {
			return Position{}, fmt.Errorf("parse fen failed %v", fen)
		}
		var side bool
		switch token[0] {
		case 'W', 'w':
			side = true
		case 'B', 'b':
			side = false
		default:
			return Position{}, fmt.Errorf("parse fen failed %v", fen)
		}
		var body = token[1:]
		if body == "" {
			continue
		}
		for _, item := range strings.Split(body, ",") {
			var pieceType = Man
			if strings.HasPrefix(item, "K") || strings.HasPrefix(item, "k") {
				pieceType = King
				item = item[1:]
			}
			var first, last int
			var err error
			if idx := strings.Index(item, "-"); idx >= 0 {
				first, err = strconv.Atoi(item[:idx])
				if err == nil {
					last, err = strconv.Atoi(item[idx+1:])
				}
			} else {
				first, err = strconv.Atoi(item)
				last = first
			}
			if err != nil || first < 1 || last > SquareCount || first > last {
				return Position{}, fmt.Errorf("parse fen failed %v", fen)
			}
			for sq := first; sq <= last; sq++ {
				if p.Board[sq] != Empty {
					return Position{}, fmt.Errorf("parse fen failed %v", fen)
				}
				p.Board[sq] = MakePiece(pieceType, side)
			}
		}
	}
	p.Key = p.computeKey()
	return p, nil
}

func (p *Position) String() string {
	var sb strings.Builder
	if p.WhiteMove {
		sb.WriteString("W")
	} else {
		sb.WriteString("B")
	}
	sb.WriteString(":W")
	sb.WriteString(sideSquares(p, true))
	sb.WriteString(":B")
	sb.WriteString(sideSquares(p, false))
	return sb.String()
}

func sideSquares(p *Position, side bool) string {
	var men, kings []int
	for sq := 1; sq <= SquareCount; sq++ {
		var code = p.Board[sq]
		if code == Empty || PieceSide(code) != side {
			continue
		}
		if PieceType(code) == Man {
			men = append(men, sq)
		} else {
			kings = append(kings, sq)
		}
	}
	sort.Ints(men)
	sort.Ints(kings)
	var items []string
	for _, sq := range men {
		items = append(items, strconv.Itoa(sq))
	}
	for _, sq := range kings {
		items = append(items, "K"+strconv.Itoa(sq))
	}
	return strings.Join(items, ",")
}

// MakeMoveNotation applies a move given in text notation.
func (p *Position) MakeMoveNotation(s string) (Position, bool) {
	var mv, err = p.ParseMove(s)
	if err != nil {
		return Position{}, false
	}
	var next, applyErr = p.ApplyMove(mv)
	if applyErr != nil {
		return Position{}, false
	}
	return next, true
}
