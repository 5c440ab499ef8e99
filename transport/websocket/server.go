package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bonkopoly/bonkopoly-sub000/internal/engine"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
	"github.com/bonkopoly/bonkopoly-sub000/internal/pkg"
	"github.com/bonkopoly/bonkopoly-sub000/internal/usecase"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 50 * time.Second
)

type uSession interface {
	Subscribe(listener usecase.Listener)
	Snapshot() *entity.Game
	PlayerID() string

	Roll(ctx context.Context, playerID string) error
	Buy(ctx context.Context, playerID string) error
	Decline(ctx context.Context, playerID string) error
	Build(ctx context.Context, playerID string, cellID int) error
	SellBuilding(ctx context.Context, playerID string, cellID int) error
	Mortgage(ctx context.Context, playerID string, cellID int) error
	Unmortgage(ctx context.Context, playerID string, cellID int) error
	Liquidate(ctx context.Context, playerID string, amount int) error
	EndTurn(ctx context.Context, playerID string) error
	PayJailFine(ctx context.Context, playerID string) error
	UseJailCard(ctx context.Context, playerID string) error

	StartAuction(ctx context.Context, playerID string, cellID int) error
	Bid(ctx context.Context, playerID string) error
	DeclineBid(ctx context.Context, playerID string) error
	EndAuction(ctx context.Context, playerID string) error

	OpenTrade(ctx context.Context, playerID, targetID string) (string, error)
	ProposeTrade(ctx context.Context, playerID, tradeID string, proposal engine.Proposal) error
	AcceptTrade(ctx context.Context, playerID, tradeID string) error
	RejectTrade(ctx context.Context, playerID, tradeID string) error
	CancelTrade(ctx context.Context, playerID, tradeID string) error
}

type handler func(ctx context.Context, client *client, msg *Message) error

// Server is the gateway between local UI clients and the room session. Every client
// acts as the peer's own player and receives every snapshot the session adopts.
type Server struct {
	logger   *slog.Logger
	session  uSession
	upgrader websocket.Upgrader

	handlers map[string]handler

	clientsMutex sync.RWMutex
	clients      map[*client]struct{}
}

func New(logger *slog.Logger, session uSession) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		handlers: make(map[string]handler),
		clients:  make(map[*client]struct{}),
	}

	server.registerHandlers()
	session.Subscribe(server.broadcast)

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server and stops it when ctx ends.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	sessionID, header := that.sessionCookie(req)

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(conn, sessionID)

	that.clientsMutex.Lock()
	that.clients[client] = struct{}{}
	that.clientsMutex.Unlock()

	log.Info("WebSocket connection established", "session", sessionID)

	go client.writePump(that.logger)

	if game := that.session.Snapshot(); game != nil {
		client.push(stateMessage(game, nil))
	}

	that.handleMessages(req.Context(), client)
}

// handleMessages - processes messages from the client until the connection drops.
func (that *Server) handleMessages(ctx context.Context, client *client) {
	log := that.logger.With("method", "handleMessages", "session", client.sessionID)

	defer that.disconnect(client)

	client.conn.SetReadLimit(1 << 16)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		var message Message
		if err := client.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		handle, ok := that.handlers[message.Action]
		if !ok {
			log.Info("unknown action", "action", message.Action)
			client.push(errorMessage(message.Action, ErrUnknownAction))
			continue
		}

		if err := handle(ctx, client, &message); err != nil {
			log.Info("action failed", "action", message.Action, "error", err)
			client.push(errorMessage(message.Action, err))
		}
	}
}

func (that *Server) disconnect(client *client) {
	that.clientsMutex.Lock()
	delete(that.clients, client)
	that.clientsMutex.Unlock()

	client.close()

	that.logger.Info("client disconnected", "session", client.sessionID)
}

// broadcast pushes an adopted snapshot to every connected client. It runs on the session loop.
func (that *Server) broadcast(game *entity.Game, events []entity.Event) {
	message := stateMessage(game, events)

	that.clientsMutex.RLock()
	defer that.clientsMutex.RUnlock()

	for client := range that.clients {
		client.push(message)
	}
}

// sessionCookie - reuses the user session cookie or issues a new one.
func (that *Server) sessionCookie(req *http.Request) (string, http.Header) {
	if cookie, err := req.Cookie("user_session"); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	cookie := &http.Cookie{
		Name:    "user_session",
		Value:   pkg.GenerateNewSessionID(),
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}

	return cookie.Value, http.Header{"Set-Cookie": {cookie.String()}}
}
