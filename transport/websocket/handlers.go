package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var errGameIDRequired = errors.New("game_id is required")

func (that *Server) handleNewGame(ctx context.Context, msg *Message) (*entity.Game, error) {
	var payloadReq NewGamePayload
	if err := decodePayload(msg, &payloadReq); err != nil {
		return nil, err
	}

	mode, err := entity.ParseMode(payloadReq.Mode)
	if err != nil {
		return nil, err
	}

	strategy := that.defaultStrategy
	if payloadReq.Strategy != "" {
		if strategy, err = ai.ParseStrategy(payloadReq.Strategy); err != nil {
			return nil, err
		}
	}

	var mark tictactoe.Player
	if payloadReq.Mark != "" {
		if mark, err = tictactoe.ParsePlayer(payloadReq.Mark); err != nil {
			return nil, err
		}
	}

	game, err := that.uGame.CreateGame(ctx, mode, strategy, mark)
	if err != nil {
		return nil, fmt.Errorf("failed to create a new game: %w", err)
	}

	return game, nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message) (*entity.Game, error) {
	var payloadReq TurnPayload
	if err := decodePayload(msg, &payloadReq); err != nil {
		return nil, err
	}

	if payloadReq.GameID == "" {
		return nil, errGameIDRequired
	}

	player, err := tictactoe.ParsePlayer(payloadReq.Player)
	if err != nil {
		return nil, err
	}

	return that.uGame.MakeTurn(ctx, payloadReq.GameID, player, payloadReq.Row, payloadReq.Col)
}

func (that *Server) handleRestart(ctx context.Context, msg *Message) (*entity.Game, error) {
	gameID, err := decodeGameID(msg)
	if err != nil {
		return nil, err
	}

	return that.uGame.Restart(ctx, gameID)
}

func (that *Server) handleState(ctx context.Context, msg *Message) (*entity.Game, error) {
	gameID, err := decodeGameID(msg)
	if err != nil {
		return nil, err
	}

	return that.uGame.GetGame(ctx, gameID)
}

func decodeGameID(msg *Message) (string, error) {
	var payloadReq GamePayload
	if err := decodePayload(msg, &payloadReq); err != nil {
		return "", err
	}

	if payloadReq.GameID == "" {
		return "", errGameIDRequired
	}

	return payloadReq.GameID, nil
}

func decodePayload(msg *Message, dst any) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}
