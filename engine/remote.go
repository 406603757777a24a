package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"tetris/game"
	"tetris/searcher"

	"github.com/rs/zerolog/log"
)

// MoveRequest asks a remote searcher for a placement. Weights default to the
// tuned weights when omitted.
type MoveRequest struct {
	Cells   [][]int           `json:"cells"`
	Pieces  []string          `json:"pieces"`
	Weights *searcher.Weights `json:"weights,omitempty"`
}

// MoveResponse is the resting placement of the first requested piece.
type MoveResponse struct {
	Shape    string      `json:"shape"`
	Row      int         `json:"row"`
	Column   int         `json:"column"`
	Rotation int         `json:"rotation"`
	Cells    []game.Cell `json:"cells"`
}

func NewMoveResponse(p *game.Piece) MoveResponse {
	return MoveResponse{
		Shape:    p.Shape().String(),
		Row:      p.Row(),
		Column:   p.Column(),
		Rotation: p.Rotation(),
		Cells:    p.Cells(),
	}
}

// Piece rebuilds the placement.
func (r MoveResponse) Piece() (*game.Piece, error) {
	shape, err := game.ParseShape(r.Shape)
	if err != nil {
		return nil, err
	}
	return game.PlacePiece(shape, r.Rotation, r.Row, r.Column), nil
}

// RemoteAgent asks a searcher served over HTTP for every move.
type RemoteAgent struct {
	URL     string
	Weights *searcher.Weights
	Client  *http.Client
	lastErr error
}

func NewRemoteAgent(url string) *RemoteAgent {
	return &RemoteAgent{URL: url, Client: http.DefaultClient}
}

// BestMove returns nil when the server has no placement or cannot be reached.
// LastError tells the two apart.
func (a *RemoteAgent) BestMove(board *game.Board, pieces []*game.Piece) *game.Piece {
	piece, err := a.requestMove(board, pieces)
	a.lastErr = err
	if err != nil {
		log.Error().Err(err).Msg("remote agent failed")
		return nil
	}
	return piece
}

// LastError is the failure of the latest BestMove call, nil if it succeeded.
func (a *RemoteAgent) LastError() error {
	return a.lastErr
}

// requestMove encodes the board and pieces in JSON and posts to /bestmove
func (a *RemoteAgent) requestMove(board *game.Board, pieces []*game.Piece) (*game.Piece, error) {
	payload := MoveRequest{
		Cells:   board.Cells(),
		Pieces:  make([]string, len(pieces)),
		Weights: a.Weights,
	}
	for i, p := range pieces {
		payload.Pieces[i] = p.Shape().String()
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode move request: %w", err)
	}

	resp, err := a.Client.Post(a.URL+"/bestmove", "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to request move: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return nil, nil
	default:
		out, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var move MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&move); err != nil {
		return nil, fmt.Errorf("failed to decode move: %w", err)
	}
	piece, err := move.Piece()
	if err != nil {
		return nil, err
	}
	if len(pieces) > 0 && piece.Shape() != pieces[0].Shape() {
		return nil, fmt.Errorf("agent placed %v instead of %v", piece.Shape(), pieces[0].Shape())
	}
	if !board.IsValid(piece) {
		return nil, fmt.Errorf("agent returned an invalid placement at row %d column %d", piece.Row(), piece.Column())
	}
	return piece, nil
}
