package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
	"github.com/rocketscienceinc/tictactoe-widget/internal/pkg"
)

const (
	sessionCookie   = "user_session"
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error)
	ApplyMove(ctx context.Context, sessionID string, cell int) (*entity.Game, bool, error)
	Reset(ctx context.Context, sessionID string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) error

// Server pushes game state to every connection of a session, so several
// tabs of the same browser render the same board.
type Server struct {
	logger   *slog.Logger
	game     gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	connectionsMutex sync.RWMutex
	connections      map[string]map[*client]struct{}

	// active counts connections still being served.
	active sync.WaitGroup
}

// New - allowedOrigins lists the pages that may open the channel. Requests
// without an Origin header come from non-browser clients and are accepted.
func New(logger *slog.Logger, game gameUseCase, allowedOrigins []string) *Server {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[strings.TrimSuffix(origin, "/")] = struct{}{}
	}

	server := &Server{
		logger: logger.With("component", "websocket"),
		game:   game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}

				_, ok := origins[origin]
				return ok
			},
		},

		handlers:    make(map[string]handlerFunc),
		connections: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionCellActivate] = server.handleCellActivate
	server.handlers[actionGameRestart] = server.handleGameRestart

	return server
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return that.Serve(ctx, ln)
}

// Serve - serves on ln until ctx is canceled. Open connections are closed on
// shutdown and Serve returns only after all of them were released.
func (that *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-shutdownDone
	that.active.Wait()

	return nil
}

// upgradeToWebSocket - upgrades the connection and serves it until the peer leaves.
func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	// counted before the hijack so Shutdown cannot miss it
	that.active.Add(1)
	defer that.active.Done()

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("failed to upgrade connection", "error", err)
		return
	}

	// unblocks the read loop on shutdown
	stopClose := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})

	c := &client{conn: conn}
	if cookie, cookieErr := r.Cookie(sessionCookie); cookieErr == nil && pkg.ValidateSessionID(cookie.Value) == nil {
		that.register(c, cookie.Value)
	}

	defer func() {
		stopClose()
		that.unregister(c)
		if err = conn.Close(); err != nil {
			log.Debug("failed to close connection", "error", err)
		}
	}()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, c); err != nil {
		log.Info("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client in arrival order.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			if err = that.sendErrorResponse(c, "", "malformed message"); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			if err = that.sendErrorResponse(c, message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) register(c *client, sessionID string) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.removeLocked(c)

	c.sessionID = sessionID
	if that.connections[sessionID] == nil {
		that.connections[sessionID] = make(map[*client]struct{})
	}
	that.connections[sessionID][c] = struct{}{}
}

func (that *Server) unregister(c *client) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.removeLocked(c)
}

func (that *Server) removeLocked(c *client) {
	clients, ok := that.connections[c.sessionID]
	if !ok {
		return
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(that.connections, c.sessionID)
	}
}

func (that *Server) sessionClients(sessionID string) []*client {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	clients := make([]*client, 0, len(that.connections[sessionID]))
	for c := range that.connections[sessionID] {
		clients = append(clients, c)
	}

	return clients
}
