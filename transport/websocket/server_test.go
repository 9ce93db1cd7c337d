package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-widget/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-widget/internal/repository"
	"github.com/rocketscienceinc/tictactoe-widget/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-widget/internal/usecase"
)

const widgetOrigin = "http://localhost:9090"

func newTestServer(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := httptest.NewServer(newServer().Handler(ctx))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func newServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(0))

	return New(logger, manager, []string{widgetOrigin})
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	return dialWithHeader(t, url, nil)
}

func dialWithHeader(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })

	return conn
}

func request(t *testing.T, conn *websocket.Conn, action string, payload any) Payload {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: body}))

	return receive(t, conn, "")
}

func receive(t *testing.T, conn *websocket.Conn, wantAction string) Payload {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	if wantAction != "" {
		require.Equal(t, wantAction, msg.Action)
	}

	var payload Payload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))

	return payload
}

func TestServer_Connect(t *testing.T) {
	t.Run("Connect without a session creates one", func(t *testing.T) {
		// Given: a connected socket
		conn := dial(t, newTestServer(t))

		// When: connect is sent without a session id
		resp := request(t, conn, actionConnect, Payload{})

		// Then: a new session with an empty game is returned
		require.Empty(t, resp.Error)
		assert.NotEmpty(t, resp.SessionID)
		require.NotNil(t, resp.Game)
		assert.Equal(t, tictactoe.Board{}, resp.Game.Board)
		assert.Equal(t, tictactoe.MarkX, resp.Game.Turn)
	})

	t.Run("Invalid session id is rejected", func(t *testing.T) {
		conn := dial(t, newTestServer(t))

		resp := request(t, conn, actionConnect, Payload{SessionID: "nope"})

		assert.Contains(t, resp.Error, "invalid session id")
	})

	t.Run("Session cookie is used without connect", func(t *testing.T) {
		// Given: a socket opened with the widget's session cookie
		url := newTestServer(t)
		header := http.Header{"Cookie": {sessionCookie + "=" + pkg.GenerateNewSessionID()}}
		conn := dialWithHeader(t, url, header)

		// When: a move is sent without connect
		cell := 4
		resp := request(t, conn, actionCellActivate, Payload{Cell: &cell})

		// Then: the new state is sent back to the sender
		require.Empty(t, resp.Error)
		require.NotNil(t, resp.Game)
		assert.Equal(t, tictactoe.MarkX, resp.Game.Board[4])

		// When: a restart is sent without connect
		reset := request(t, conn, actionGameRestart, nil)

		// Then: the empty board is sent back as well
		require.NotNil(t, reset.Game)
		assert.Equal(t, tictactoe.Board{}, reset.Game.Board)
	})

	t.Run("Sockets sharing a cookie see each other's moves", func(t *testing.T) {
		url := newTestServer(t)
		header := http.Header{"Cookie": {sessionCookie + "=" + pkg.GenerateNewSessionID()}}
		first, second := dialWithHeader(t, url, header), dialWithHeader(t, url, header)

		cell := 0
		resp := request(t, first, actionCellActivate, Payload{Cell: &cell})

		pushed := receive(t, second, actionGameState)
		require.NotNil(t, pushed.Game)
		assert.Equal(t, resp.Game.Board, pushed.Game.Board)
	})

	t.Run("Moves before connect are rejected", func(t *testing.T) {
		conn := dial(t, newTestServer(t))
		cell := 4

		resp := request(t, conn, actionCellActivate, Payload{Cell: &cell})

		assert.Equal(t, "connect first", resp.Error)
	})
}

func TestServer_Play(t *testing.T) {
	t.Run("Moves are pushed to every connection of the session", func(t *testing.T) {
		// Given: two sockets connected to the same session
		url := newTestServer(t)
		first, second := dial(t, url), dial(t, url)

		session := request(t, first, actionConnect, Payload{}).SessionID
		request(t, second, actionConnect, Payload{SessionID: session})

		// When: the first socket plays the center
		cell := 4
		resp := request(t, first, actionCellActivate, Payload{Cell: &cell})

		// Then: both sockets receive the new state
		require.NotNil(t, resp.Game)
		assert.Equal(t, tictactoe.MarkX, resp.Game.Board[4])
		assert.Equal(t, tictactoe.MarkO, resp.Game.Turn)

		pushed := receive(t, second, actionGameState)
		require.NotNil(t, pushed.Game)
		assert.Equal(t, resp.Game.Board, pushed.Game.Board)
	})

	t.Run("Win, ignored move and restart", func(t *testing.T) {
		// Given: a connected session
		conn := dial(t, newTestServer(t))
		request(t, conn, actionConnect, Payload{})

		// When: X wins the top row
		var resp Payload
		for _, cell := range []int{0, 3, 1, 4, 2} {
			resp = request(t, conn, actionCellActivate, Payload{Cell: &cell})
		}

		// Then: the game is won
		require.NotNil(t, resp.Game)
		assert.Equal(t, tictactoe.PhaseWon, resp.Game.Status)
		assert.Equal(t, tictactoe.MarkX, resp.Game.Winner)

		// And: a further move leaves the board unchanged
		cell := 5
		after := request(t, conn, actionCellActivate, Payload{Cell: &cell})
		require.NotNil(t, after.Game)
		assert.Equal(t, resp.Game.Board, after.Game.Board)

		// When: the game is restarted
		reset := request(t, conn, actionGameRestart, nil)

		// Then: the board is empty
		require.NotNil(t, reset.Game)
		assert.Equal(t, tictactoe.Board{}, reset.Game.Board)
		assert.Equal(t, tictactoe.PhaseInProgress, reset.Game.Status)
	})

	t.Run("Out of range cell and unknown action return errors", func(t *testing.T) {
		conn := dial(t, newTestServer(t))
		request(t, conn, actionConnect, Payload{})

		cell := 9
		resp := request(t, conn, actionCellActivate, Payload{Cell: &cell})
		assert.Contains(t, resp.Error, "invalid cell index")

		resp = request(t, conn, actionCellActivate, Payload{})
		assert.Equal(t, "cell is required", resp.Error)

		resp = request(t, conn, "game:fly", Payload{})
		assert.Equal(t, "unknown action", resp.Error)
	})
}

func TestServer_CheckOrigin(t *testing.T) {
	url := newTestServer(t)

	t.Run("Widget origin is allowed", func(t *testing.T) {
		conn := dialWithHeader(t, url, http.Header{"Origin": {widgetOrigin}})

		resp := request(t, conn, actionConnect, Payload{})

		assert.NotEmpty(t, resp.SessionID)
	})

	t.Run("Clients without an origin are allowed", func(t *testing.T) {
		conn := dial(t, url)

		resp := request(t, conn, actionConnect, Payload{})

		assert.NotEmpty(t, resp.SessionID)
	})

	t.Run("Foreign origin is rejected", func(t *testing.T) {
		// Given: a page from another site
		header := http.Header{"Origin": {"http://evil.example"}}

		// When: it opens the channel
		conn, resp, err := websocket.DefaultDialer.Dial(url, header)
		if conn != nil {
			conn.Close()
		}

		// Then: the handshake fails with 403
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		require.NotNil(t, resp)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestServer_Serve(t *testing.T) {
	// Given: a server with an open connection
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- newServer().Serve(ctx, ln)
	}()

	conn := dial(t, "ws://"+ln.Addr().String()+"/ws")
	request(t, conn, actionConnect, Payload{})

	// When: the context is canceled
	cancel()

	// Then: the connection is closed and Serve returns
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
