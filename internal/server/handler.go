package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"damcore/internal/bootstrap"
	"damcore/internal/httpresponse"
	"damcore/internal/solver"
	"damcore/pkg/common"
	"damcore/pkg/engine"
)

type GameHandler struct {
	cfg        *bootstrap.Config
	log        *zap.SugaredLogger
	hintSource solver.MoveSource
	store      *gameStore
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewGameHandler(cfg *bootstrap.Config, log *zap.SugaredLogger, hintSource solver.MoveSource) *GameHandler {
	return &GameHandler{
		cfg:        cfg,
		log:        log,
		hintSource: hintSource,
		store:      newGameStore(),
	}
}

func (h *GameHandler) Router(r *chi.Mux) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/api/games", h.HandleNewGame)
	r.Get("/api/games/{gameID}", h.HandleGetGame)
	r.Delete("/api/games/{gameID}", h.HandleDeleteGame)
	r.Post("/api/games/{gameID}/move", h.HandleMove)
	r.Get("/api/games/{gameID}/ws", h.HandleGameSocket)
	r.Post("/api/hint", h.HandleHint)
}

type newGameRequest struct {
	Level      int  `json:"level"`
	HumanWhite bool `json:"humanWhite"`
}

type gameState struct {
	GameID     string   `json:"gameId"`
	Fen        string   `json:"fen"`
	Outcome    string   `json:"outcome"`
	LegalMoves []string `json:"legalMoves"`
}

type moveRequest struct {
	Move string `json:"move"`
}

type moveResponse struct {
	PlayerMove string `json:"playerMove"`
	EngineMove string `json:"engineMove,omitempty"`
	Fen        string `json:"fen"`
	Outcome    string `json:"outcome"`
}

func (h *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req = newGameRequest{Level: h.cfg.EngineLevel, HumanWhite: true}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.log.Errorw("decode new game request", "error", err)
			httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}
	if req.Level < 1 || req.Level > engine.MaxLevel {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "level out of range")
		return
	}

	var g = newGame(req.Level, req.HumanWhite, h.cfg.HashMegabytes, h.hintSource)
	h.store.add(g)
	h.log.Infow("game created", "gameId", g.ID, "level", g.Level)

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.HumanWhite {
		if _, err := g.engineMove(r.Context()); err != nil {
			h.log.Errorw("engine opening move", "gameId", g.ID, "error", err)
		}
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, h.state(g))
}

func (h *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	var g, ok = h.store.get(chi.URLParam(r, "gameID"))
	if !ok {
		httpresponse.WriteErrorResponse(w, http.StatusNotFound, "game not found")
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, h.state(g))
}

func (h *GameHandler) HandleDeleteGame(w http.ResponseWriter, r *http.Request) {
	var id = chi.URLParam(r, "gameID")
	if _, ok := h.store.get(id); !ok {
		httpresponse.WriteErrorResponse(w, http.StatusNotFound, "game not found")
		return
	}
	h.store.remove(id)
	h.log.Infow("game removed", "gameId", id)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, "deleted")
}

func (h *GameHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var g, ok = h.store.get(chi.URLParam(r, "gameID"))
	if !ok {
		httpresponse.WriteErrorResponse(w, http.StatusNotFound, "game not found")
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	var resp, err = h.playMove(r, g, req.Move)
	if err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

// playMove applies the player's move and, while the game is still running,
// the engine's answer. The caller holds the game lock.
func (h *GameHandler) playMove(r *http.Request, g *Game, notation string) (moveResponse, error) {
	var playerMove, err = g.applyMove(notation)
	if err != nil {
		return moveResponse{}, err
	}
	var resp = moveResponse{PlayerMove: playerMove.String()}
	if g.outcome() == common.InProgress {
		var engineMove, engineErr = g.engineMove(r.Context())
		if engineErr != nil {
			h.log.Errorw("engine move", "gameId", g.ID, "error", engineErr)
		} else {
			resp.EngineMove = engineMove.String()
		}
	}
	resp.Fen = g.current().String()
	resp.Outcome = g.outcome().String()
	return resp, nil
}

func (h *GameHandler) HandleGameSocket(w http.ResponseWriter, r *http.Request) {
	var g, ok = h.store.get(chi.URLParam(r, "gameID"))
	if !ok {
		httpresponse.WriteErrorResponse(w, http.StatusNotFound, "game not found")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("websocket upgrade", "gameId", g.ID, "error", err)
		return
	}
	defer conn.Close()
	h.log.Infow("websocket connected", "gameId", g.ID)

	for {
		var req moveRequest
		if err := conn.ReadJSON(&req); err != nil {
			h.log.Infow("websocket closed", "gameId", g.ID, "error", err)
			return
		}
		g.mu.Lock()
		var resp, moveErr = h.playMove(r, g, req.Move)
		g.mu.Unlock()
		if moveErr != nil {
			if err := conn.WriteJSON(map[string]string{"error": moveErr.Error()}); err != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

type hintRequest struct {
	Fen string `json:"fen"`
}

type hintResponse struct {
	Move string `json:"move"`
}

func (h *GameHandler) HandleHint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	var p, err = common.NewPositionFromFEN(req.Fen)
	if err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	move, err := h.hintSource.BestMove(r.Context(), []common.Position{p})
	if err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, hintResponse{Move: move.String()})
}

func (h *GameHandler) state(g *Game) gameState {
	return gameState{
		GameID:     g.ID,
		Fen:        g.current().String(),
		Outcome:    g.outcome().String(),
		LegalMoves: g.legalMoves(),
	}
}
