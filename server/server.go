package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"tetris/engine"
	"tetris/game"
	"tetris/meta"
	"tetris/searcher"

	"github.com/rs/zerolog/log"
)

type handler struct {
	weights searcher.Weights
}

// NewHandler serves POST /bestmove and GET /healthz. Requests without
// weights are searched with the given default weights.
func NewHandler(weights searcher.Weights) http.Handler {
	if !weights.IsFinite() {
		panic("default weights must be finite")
	}
	h := &handler{weights: weights}

	mux := http.NewServeMux()
	mux.HandleFunc("/bestmove", h.handleBestMove)
	mux.HandleFunc("/healthz", handleHealth)
	return mux
}

// ListenAndServe starts a searcher HTTP server on addr.
func ListenAndServe(addr string, weights searcher.Weights) error {
	log.Info().Msgf("Starting searcher server on %s ...", addr)
	return http.ListenAndServe(addr, NewHandler(weights))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Write([]byte("ok\n"))
}

func (h *handler) handleBestMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload engine.MoveRequest
	body := http.MaxBytesReader(w, r.Body, meta.MAX_REQUEST_BYTES)
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	board, pieces, weights, err := h.decode(payload)
	if err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	chosen := searcher.NewSearcher(weights).BestMove(board, pieces)
	if chosen == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	chosen.Drop(board)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(engine.NewMoveResponse(chosen)); err != nil {
		log.Error().Err(err).Msg("failed to encode move")
	}
}

func (h *handler) decode(payload engine.MoveRequest) (*game.Board, []*game.Piece, searcher.Weights, error) {
	board, err := game.NewBoardFromCells(payload.Cells)
	if err != nil {
		return nil, nil, searcher.Weights{}, err
	}
	if board.Columns() < game.MinColumns {
		return nil, nil, searcher.Weights{}, fmt.Errorf("board needs at least %d columns", game.MinColumns)
	}
	if len(payload.Pieces) == 0 {
		return nil, nil, searcher.Weights{}, fmt.Errorf("no pieces")
	}
	if len(payload.Pieces) > meta.MAX_LOOKAHEAD {
		return nil, nil, searcher.Weights{}, fmt.Errorf("at most %d pieces, got %d", meta.MAX_LOOKAHEAD, len(payload.Pieces))
	}

	pieces := make([]*game.Piece, len(payload.Pieces))
	for i, name := range payload.Pieces {
		shape, err := game.ParseShape(name)
		if err != nil {
			return nil, nil, searcher.Weights{}, err
		}
		pieces[i] = game.NewPiece(shape, board.Columns())
	}

	weights := h.weights
	if payload.Weights != nil {
		weights = *payload.Weights
	}
	if !weights.IsFinite() {
		return nil, nil, searcher.Weights{}, fmt.Errorf("weights must be finite")
	}
	return board, pieces, weights, nil
}
