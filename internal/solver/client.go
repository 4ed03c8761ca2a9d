package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"damcore/internal/bootstrap"
	"damcore/pkg/common"
)

// MoveSource produces a move for the latest position of a game.
type MoveSource interface {
	BestMove(ctx context.Context, positions []common.Position) (common.Move, error)
}

type solveRequest struct {
	ID  string `json:"id"`
	Fen string `json:"fen"`
}

type solveResponse struct {
	ID    string `json:"id"`
	Move  string `json:"move"`
	Error string `json:"error,omitempty"`
}

// Client asks an external expert solver over HTTP for the best move and
// falls back to the local engine when the solver is unreachable or answers
// with an illegal move.
type Client struct {
	url      string
	http     *http.Client
	log      *zap.SugaredLogger
	fallback MoveSource
}

func NewClient(cfg *bootstrap.Config, log *zap.SugaredLogger, fallback MoveSource) *Client {
	return &Client{
		url: cfg.SolverURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.SolverTimeoutMs) * time.Millisecond,
		},
		log:      log,
		fallback: fallback,
	}
}

func (c *Client) BestMove(ctx context.Context, positions []common.Position) (common.Move, error) {
	if c.url == "" {
		return c.fallback.BestMove(ctx, positions)
	}
	var p = &positions[len(positions)-1]
	var move, err = c.remoteMove(ctx, p)
	if err != nil {
		c.log.Warnw("solver unavailable, using local engine", "error", err)
		return c.fallback.BestMove(ctx, positions)
	}
	return move, nil
}

func (c *Client) remoteMove(ctx context.Context, p *common.Position) (common.Move, error) {
	var reqBody, err = json.Marshal(solveRequest{
		ID:  uuid.NewString(),
		Fen: p.String(),
	})
	if err != nil {
		return common.MoveEmpty, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return common.MoveEmpty, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return common.MoveEmpty, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return common.MoveEmpty, fmt.Errorf("solver status %v", resp.StatusCode)
	}

	var body solveResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return common.MoveEmpty, err
	}
	if body.Error != "" {
		return common.MoveEmpty, fmt.Errorf("solver error: %v", body.Error)
	}
	move, err := p.ParseMove(body.Move)
	if err != nil {
		return common.MoveEmpty, fmt.Errorf("solver returned illegal move %v", body.Move)
	}
	return move, nil
}

// Searcher is the part of the engine the fallback source needs.
type Searcher interface {
	FindBestMove(ctx context.Context, positions []common.Position) common.Move
}

// EngineSource adapts the local search engine to the MoveSource interface.
// A search mutates engine state, so every request gets its own engine from
// the constructor; concurrent requests never share one.
type EngineSource struct {
	New func() Searcher
}

func (s *EngineSource) BestMove(ctx context.Context, positions []common.Position) (common.Move, error) {
	var move = s.New().FindBestMove(ctx, positions)
	if move.From == 0 {
		return common.MoveEmpty, fmt.Errorf("no legal moves")
	}
	return move, nil
}
