package hub

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"damcore/pkg/common"
	"damcore/pkg/engine"
)

type Engine interface {
	Prepare()
	Clear()
	SetConfig(config engine.DifficultyConfig)
	Search(ctx context.Context, searchParams common.SearchParams) common.SearchInfo
}

type IEvaluator interface {
	Evaluate(p *common.Position) int
}

// Protocol is the line-oriented console front end of the engine. One command
// per line; a search runs asynchronously and can be interrupted with "stop".
type Protocol struct {
	name         string
	version      string
	engine       Engine
	evaluator    IEvaluator
	positions    []common.Position
	history      *common.GameHistory
	thinking     bool
	engineOutput chan common.SearchInfo
	cancel       context.CancelFunc
}

func New(name, version string, engine Engine, evaluator IEvaluator) *Protocol {
	var p = common.InitialPosition()
	return &Protocol{
		name:      name,
		version:   version,
		engine:    engine,
		evaluator: evaluator,
		positions: []common.Position{p},
		history:   common.NewGameHistory(p),
	}
}

func (h *Protocol) Run(logger *log.Logger) {
	var commands = make(chan string)

	go func() {
		defer close(commands)
		readCommands(commands)
	}()

	var searchResult common.SearchInfo
	for {
		select {
		case si, ok := <-h.engineOutput:
			if ok {
				fmt.Println(searchInfoString(si))
				searchResult = si
			} else {
				if len(searchResult.MainLine) != 0 {
					fmt.Printf("bestmove %v\n", searchResult.MainLine[0])
				} else {
					fmt.Println("bestmove 0000")
				}
				h.thinking = false
				h.cancel = nil
				h.engineOutput = nil
				searchResult = common.SearchInfo{}
			}
		case commandLine, ok := <-commands:
			if !ok {
				return
			}
			var err = h.handle(commandLine)
			if err != nil {
				logger.Println(err)
			}
		}
	}
}

func (h *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	if h.thinking {
		if commandName == "stop" {
			h.cancel()
			return nil
		}
		return errors.New("search still run")
	}

	var handler func(fields []string) error

	switch commandName {
	case "pos":
		handler = h.posCommand
	case "moves":
		handler = h.movesCommand
	case "go":
		handler = h.goCommand
	case "level":
		handler = h.levelCommand
	case "eval":
		handler = h.evalCommand
	case "status":
		handler = h.statusCommand
	case "new":
		handler = h.newCommand
	}

	if handler == nil {
		return errors.New("command not found")
	}

	return handler(fields)
}

// posCommand sets the position: "pos startpos", "pos fen <fen>", either
// optionally followed by "moves m1 m2 ...".
func (h *Protocol) posCommand(fields []string) error {
	if len(fields) == 0 {
		fmt.Println(h.currentPosition().String())
		return nil
	}
	var fen string
	var movesIndex = findIndexString(fields, "moves")
	switch fields[0] {
	case "startpos":
		fen = common.InitialPositionFen
	case "fen":
		if movesIndex == -1 {
			fen = strings.Join(fields[1:], " ")
		} else {
			fen = strings.Join(fields[1:movesIndex], " ")
		}
	default:
		return errors.New("unknown pos command")
	}
	var p, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	var positions = []common.Position{p}
	var history = common.NewGameHistory(p)
	if movesIndex >= 0 && movesIndex+1 < len(fields) {
		for _, smove := range fields[movesIndex+1:] {
			var newPos, ok = positions[len(positions)-1].MakeMoveNotation(smove)
			if !ok {
				return fmt.Errorf("parse move failed %v", smove)
			}
			history.Append(newPos, newPos.LastMove)
			positions = append(positions, newPos)
		}
	}
	h.positions = positions
	h.history = history
	return nil
}

func (h *Protocol) movesCommand(fields []string) error {
	var ml = h.currentPosition().GenerateLegalMoves()
	var items = make([]string, len(ml))
	for i, mv := range ml {
		items[i] = mv.String()
	}
	fmt.Println(strings.Join(items, " "))
	return nil
}

func (h *Protocol) goCommand(fields []string) error {
	var limits = parseLimits(fields)
	var ctx, cancel = context.WithCancel(context.TODO())
	h.cancel = cancel
	h.thinking = true
	h.engineOutput = make(chan common.SearchInfo, 3)
	go func() {
		var searchResult = h.engine.Search(ctx, common.SearchParams{
			Positions: h.positions,
			Limits:    limits,
			Progress: func(si common.SearchInfo) {
				select {
				case h.engineOutput <- si:
				default:
				}
			},
		})
		h.engineOutput <- searchResult
		close(h.engineOutput)
	}()
	return nil
}

func (h *Protocol) levelCommand(fields []string) error {
	if len(fields) != 1 {
		return errors.New("invalid level arguments")
	}
	var level, err = strconv.Atoi(fields[0])
	if err != nil || level < 1 || level > engine.MaxLevel {
		return fmt.Errorf("level out of range 1..%v", engine.MaxLevel)
	}
	h.engine.SetConfig(engine.Level(level))
	return nil
}

func (h *Protocol) evalCommand(fields []string) error {
	fmt.Printf("eval %v\n", h.evaluator.Evaluate(h.currentPosition()))
	return nil
}

func (h *Protocol) statusCommand(fields []string) error {
	fmt.Println(h.history.Outcome(*h.currentPosition()))
	return nil
}

func (h *Protocol) newCommand(fields []string) error {
	h.engine.Clear()
	var p = common.InitialPosition()
	h.positions = []common.Position{p}
	h.history = common.NewGameHistory(p)
	return nil
}

func (h *Protocol) currentPosition() *common.Position {
	return &h.positions[len(h.positions)-1]
}

func searchInfoString(si common.SearchInfo) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v score %v", si.Depth, si.Score)
	var timeMs = si.Time.Milliseconds()
	var nps = si.Nodes * 1000 / (timeMs + 1)
	fmt.Fprintf(sb, " nodes %v time %v nps %v", si.Nodes, timeMs, nps)
	if len(si.MainLine) != 0 {
		fmt.Fprintf(sb, " pv")
		for _, move := range si.MainLine {
			sb.WriteString(" ")
			sb.WriteString(move.String())
		}
	}
	return sb.String()
}

func parseLimits(args []string) (result common.LimitsType) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			result.Depth, _ = strconv.Atoi(args[i+1])
			i++
		case "nodes":
			result.Nodes, _ = strconv.Atoi(args[i+1])
			i++
		case "movetime":
			result.MoveTime, _ = strconv.Atoi(args[i+1])
			i++
		case "infinite":
			result.Infinite = true
		}
	}
	return
}

func findIndexString(slice []string, value string) int {
	for p, v := range slice {
		if v == value {
			return p
		}
	}
	return -1
}
