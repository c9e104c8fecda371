package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-room/internal/game"
	"github.com/lox/holdem-room/internal/roomcode"
)

// Server accepts WebSocket connections and routes client events into the
// per-room game engines. The core engine never sees a socket; this layer
// owns the room registry, connection lifecycle and broadcast fan-out.
type Server struct {
	addr    string
	roomCfg RoomConfig
	logger  *log.Logger
	clock   quartz.Clock
	codes   *roomcode.Generator

	upgrader websocket.Upgrader

	mu     sync.RWMutex
	rooms  map[string]*Room
	conns  map[string]*Connection
	connID atomic.Uint64

	httpServer *http.Server
}

// ServerOption configures a Server at construction time.
type ServerOption func(*Server)

// WithClock sets the clock shared by every room's timers.
func WithClock(clock quartz.Clock) ServerOption {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithCodeGenerator sets the room-code generator, injectable for
// deterministic tests.
func WithCodeGenerator(gen *roomcode.Generator) ServerOption {
	return func(s *Server) {
		s.codes = gen
	}
}

// NewServer creates a room server listening on addr.
func NewServer(addr string, roomCfg RoomConfig, logger *log.Logger, opts ...ServerOption) *Server {
	s := &Server{
		addr:    addr,
		roomCfg: roomCfg,
		logger:  logger.WithPrefix("server"),
		clock:   quartz.NewReal(),
		codes:   roomcode.NewGenerator(nil),
		rooms:   make(map[string]*Room),
		conns:   make(map[string]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Room codes gate access; allow any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	s.logger.Info("listening", "addr", s.addr)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

// RoomCount returns the number of open rooms.
func (s *Server) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := fmt.Sprintf("p%06d", s.connID.Add(1))
	conn := NewConnection(wsConn, id, s.logger, s)

	s.mu.Lock()
	s.conns[id] = conn
	s.mu.Unlock()

	s.logger.Info("player connected", "id", id)
	conn.Start()
}

// connection returns the connection for a player id, or nil.
func (s *Server) connection(playerID string) *Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conns[playerID]
}

func (s *Server) room(code string) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[code]
}

func (s *Server) newGame(code string) *game.Game {
	return game.New(code, s.roomCfg.MaxSeats,
		game.WithBlinds(s.roomCfg.SmallBlind, s.roomCfg.BigBlind),
		game.WithActionTimeout(s.roomCfg.ActionTimeout()),
		game.WithDisplayTime(s.roomCfg.DisplayTime()),
		game.WithClock(s.clock),
		game.WithLogger(s.logger),
	)
}

func (s *Server) handleCreateRoom(c *Connection, data CreateRoomData) {
	s.mu.Lock()
	var code string
	for {
		code = s.codes.Generate()
		if _, taken := s.rooms[code]; !taken {
			break
		}
	}
	room := newRoom(code, s.newGame(code), s, s.logger, s.clock)
	s.rooms[code] = room
	s.mu.Unlock()

	room.mu.Lock()
	defer room.mu.Unlock()

	if err := room.game.JoinLobby(c.ID(), data.PlayerName); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	c.SetPlayerName(data.PlayerName)
	c.SetRoom(code)
	s.logger.Info("room created", "room", code, "creator", data.PlayerName)

	msg, err := NewMessage(MessageTypeRoomCreated, RoomCreatedData{
		RoomCode:  code,
		GameState: room.game.PublicState(),
	})
	if err != nil {
		s.logger.Error("failed to create room-created message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (s *Server) handleJoinRoom(c *Connection, data JoinRoomData) {
	room := s.room(data.RoomCode)
	if room == nil {
		c.sendError("room_not_found", "room not found")
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if err := room.game.JoinLobby(c.ID(), data.PlayerName); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	c.SetPlayerName(data.PlayerName)
	c.SetRoom(data.RoomCode)
	s.logger.Info("player joined room", "room", data.RoomCode, "player", data.PlayerName)

	joined, err := NewMessage(MessageTypeRoomJoined, RoomJoinedData{
		RoomCode:  data.RoomCode,
		GameState: room.game.PublicState(),
	})
	if err == nil {
		_ = c.SendMessage(joined)
	}

	announce, err := NewMessage(MessageTypePlayerJoined, PlayerJoinedData{
		PlayerName: data.PlayerName,
		GameState:  room.game.PublicState(),
	})
	if err == nil {
		room.broadcastEventLocked(announce, c.ID())
	}
}

func (s *Server) handleSelectSeat(c *Connection, data SelectSeatData) {
	room := s.room(c.Room())
	if room == nil {
		c.sendError("room_not_found", "join a room first")
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if err := room.game.ClaimSeat(c.ID(), data.SeatIndex); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	msg, err := NewMessage(MessageTypeSeatSelected, SeatSelectedData{
		PlayerName: c.PlayerName(),
		SeatIndex:  data.SeatIndex,
		GameState:  room.game.PublicState(),
	})
	if err == nil {
		room.broadcastEventLocked(msg, "")
	}
}

func (s *Server) handleStartGame(c *Connection) {
	room := s.room(c.Room())
	if room == nil {
		c.sendError("room_not_found", "join a room first")
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if err := room.game.StartGame(c.ID()); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	room.broadcastLocked(MessageTypeGameStarted)
}

func (s *Server) handlePlayerAction(c *Connection, data PlayerActionData) {
	room := s.room(c.Room())
	if room == nil {
		c.sendError("room_not_found", "join a room first")
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if err := room.game.Act(c.ID(), game.Action(data.Action), data.Amount); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	room.broadcastStateLocked()
	room.continueAfterActionLocked()
}

// handleDisconnect evicts the player from their room and tears the room
// down once the last player leaves.
func (s *Server) handleDisconnect(c *Connection) {
	s.mu.Lock()
	delete(s.conns, c.ID())
	s.mu.Unlock()

	code := c.Room()
	if code == "" {
		s.logger.Info("player disconnected", "id", c.ID())
		return
	}

	room := s.room(code)
	if room == nil {
		return
	}

	room.mu.Lock()
	room.game.RemovePlayer(c.ID())

	msg, err := NewMessage(MessageTypePlayerLeft, PlayerLeftData{
		PlayerName: c.PlayerName(),
		GameState:  room.game.PublicState(),
	})
	if err == nil {
		room.broadcastEventLocked(msg, c.ID())
	}

	empty := room.game.Empty()
	room.mu.Unlock()

	if empty {
		s.mu.Lock()
		delete(s.rooms, code)
		s.mu.Unlock()
		s.logger.Info("room closed", "room", code)
	}

	s.logger.Info("player disconnected", "id", c.ID(), "room", code)
}
