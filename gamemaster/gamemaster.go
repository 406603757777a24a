package gamemaster

import (
	"fmt"
	"tetris/engine"

	"github.com/rs/zerolog/log"
)

// GameMaster drives a session with an agent and reports every placement.
type GameMaster struct {
	Session  Engine
	Agent    engine.Agent
	MaxMoves int
	OnUpdate func(Update)
}

type resigner interface {
	Resign()
}

type errorReporter interface {
	LastError() error
}

func NewGameMaster(session Engine, agent engine.Agent, maxMoves int) *GameMaster {
	if session == nil || agent == nil {
		panic("game master needs a session and an agent")
	}
	if maxMoves <= 0 {
		panic("max moves must be positive")
	}
	return &GameMaster{Session: session, Agent: agent, MaxMoves: maxMoves}
}

// RunGame plays until the session ends or MaxMoves pieces have been placed,
// and returns the final state.
func (gm *GameMaster) RunGame() (State, error) {
	state, getUpdate := gm.Session.Init()
	for !state.Over && state.Moves < gm.MaxMoves {
		piece := gm.Agent.BestMove(state.Board, state.Pieces)
		if piece == nil {
			if reporter, ok := gm.Agent.(errorReporter); ok && reporter.LastError() != nil {
				return state, fmt.Errorf("agent failed after %d moves: %w", state.Moves, reporter.LastError())
			}
			log.Info().Msgf("No placement for %v after %d moves", state.Pieces[0].Shape(), state.Moves)
			if r, ok := gm.Session.(resigner); ok {
				r.Resign()
			}
			state.Over = true
			break
		}

		piece.Drop(state.Board)
		if err := gm.Session.Play(piece); err != nil {
			return state, err
		}

		u, ok := getUpdate()
		if !ok {
			break
		}
		log.Debug().Msgf("Placed %v at row %d column %d rotation %d, cleared %d", u.Piece.Shape(), u.Piece.Row(), u.Piece.Column(), u.Piece.Rotation(), u.Cleared)
		if gm.OnUpdate != nil {
			gm.OnUpdate(u)
		}
		state = u.State
	}
	return state, nil
}
