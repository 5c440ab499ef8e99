package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bonkopoly/bonkopoly-sub000/internal/engine"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrMissingCell    = errors.New("cell_id is required")
	ErrMissingTrade   = errors.New("trade_id is required")
	ErrMissingTarget  = errors.New("target_id is required")
	ErrMissingOffer   = errors.New("offer is required")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrNotReady       = errors.New("game is not loaded yet")
)

const actionState = "game:state"

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Request is the payload a client sends with an action.
type Request struct {
	CellID   *int             `json:"cell_id,omitempty"`
	Amount   int              `json:"amount,omitempty"`
	TradeID  string           `json:"trade_id,omitempty"`
	TargetID string           `json:"target_id,omitempty"`
	Offer    *engine.Proposal `json:"offer,omitempty"`
}

// Payload is what the server sends back.
type Payload struct {
	Game    *entity.Game   `json:"game,omitempty"`
	Events  []entity.Event `json:"events,omitempty"`
	TradeID string         `json:"trade_id,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func newMessage(action string, payload Payload) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw, _ = json.Marshal(Payload{Error: err.Error()})
	}

	message, _ := json.Marshal(Message{Action: action, Payload: raw})

	return message
}

func stateMessage(game *entity.Game, events []entity.Event) []byte {
	return newMessage(actionState, Payload{Game: game, Events: events})
}

func errorMessage(action string, err error) []byte {
	return newMessage(action, Payload{Error: err.Error()})
}

type client struct {
	conn      *websocket.Conn
	sessionID string

	send      chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn, sessionID string) *client {
	return &client{
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
}

// push queues a message. A client whose queue is full is dropped.
func (that *client) push(message []byte) {
	select {
	case <-that.done:
	case that.send <- message:
	default:
		that.close()
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

func (that *client) writePump(logger *slog.Logger) {
	log := logger.With("method", "writePump", "session", that.sessionID)

	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("failed to write message", "error", err)
				that.close()
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				that.close()
				return
			}
		case <-that.done:
			_ = that.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
			return
		}
	}
}
