package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/othello"
	"github.com/lk16/reversi/internal/repository"
	"github.com/lk16/reversi/internal/services"
	"github.com/lk16/reversi/internal/session"
)

const (
	recordTimeout = 2 * time.Second
)

// Conn is the part of a websocket connection used by Handler.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

type Handler struct {
	services  *services.Services
	sessions  *session.Store
	aiTimeout time.Duration
	ws        Conn
}

// NewHandler creates a new Handler.
func NewHandler(ws Conn, services *services.Services, sessions *session.Store, aiTimeout time.Duration) *Handler {
	return &Handler{services: services, sessions: sessions, aiTimeout: aiTimeout, ws: ws}
}

func (h *Handler) readMessage() (*Incoming, error) {
	var req Incoming

	msgType, msg, err := h.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("ws read error: %w", err)
	}

	slog.Debug("read ws message", "msgType", msgType, "msg", string(msg))

	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("unexpected message type: %d", msgType)
	}

	if err = json.Unmarshal(msg, &req); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return &req, nil
}

func (h *Handler) writeMessage(outgoing *Outgoing) error {
	msg, err := json.Marshal(outgoing)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	slog.Debug("write ws message", "msg", string(msg))

	if err = h.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

func (h *Handler) handleMessage(req *Incoming) (models.GameState, error) {
	switch req.Event {
	case "":
		return models.GameState{}, errors.New("event field is either empty or missing")
	case "state":
		return h.handleState(req)
	case "move":
		return h.handleMove(req)
	case "ai_move":
		return h.handleAIMove(req)
	default:
		return models.GameState{}, fmt.Errorf("unknown event: %s", req.Event)
	}
}

// Handle handles the websocket connection. Malformed messages close the connection,
// failing game operations are reported to the client.
func (h *Handler) Handle() error {
	for {
		req, err := h.readMessage()
		if err != nil {
			return fmt.Errorf("ws read error: %w", err)
		}

		outgoing := &Outgoing{ID: req.ID}

		state, err := h.handleMessage(req)
		if err != nil {
			outgoing.Error = err.Error()
		} else {
			outgoing.Data = state
		}

		if err = h.writeMessage(outgoing); err != nil {
			return fmt.Errorf("ws write error: %w", err)
		}
	}
}

func (h *Handler) lookup(data json.RawMessage) (*session.Session, error) {
	var reqData GameRequest
	if err := json.Unmarshal(data, &reqData); err != nil {
		return nil, fmt.Errorf("invalid request data: %w", err)
	}

	return h.sessions.Get(reqData.GameID)
}

func (h *Handler) handleState(req *Incoming) (models.GameState, error) {
	s, err := h.lookup(req.Data)
	if err != nil {
		return models.GameState{}, err
	}

	return s.State(), nil
}

func (h *Handler) handleMove(req *Incoming) (models.GameState, error) {
	var reqData MoveRequest
	if err := json.Unmarshal(req.Data, &reqData); err != nil {
		return models.GameState{}, fmt.Errorf("invalid request data: %w", err)
	}

	move, err := othello.ParseMove(reqData.Move)
	if err != nil {
		return models.GameState{}, err
	}

	s, err := h.sessions.Get(reqData.GameID)
	if err != nil {
		return models.GameState{}, err
	}

	state, err := s.PlayMove(move)
	if err != nil {
		return models.GameState{}, err
	}

	h.recordResult(s, state)
	return state, nil
}

func (h *Handler) handleAIMove(req *Incoming) (models.GameState, error) {
	s, err := h.lookup(req.Data)
	if err != nil {
		return models.GameState{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.aiTimeout)
	defer cancel()

	state, err := s.ComputeAIMove(ctx)
	if err != nil {
		return models.GameState{}, err
	}

	h.recordResult(s, state)
	return state, nil
}

func (h *Handler) recordResult(s *session.Session, state models.GameState) {
	if !state.GameOver {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	repo := repository.NewResultRepositoryFromServices(h.services)
	if err := s.RecordResult(ctx, repo); err != nil {
		slog.Error("Failed to record game result", "id", state.ID, "error", err)
	}
}
