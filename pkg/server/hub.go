package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// HubConfig tunes the hub's lifecycle timers.
type HubConfig struct {
	// GraceWindow is how long a fully disconnected room survives before
	// teardown.
	GraceWindow time.Duration
	// InactivityThreshold reaps rooms with no activity for this long.
	InactivityThreshold time.Duration
	// SweepInterval is how often the inactivity sweep runs.
	SweepInterval time.Duration
}

// DefaultHubConfig returns production defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		GraceWindow:         60 * time.Second,
		InactivityThreshold: 30 * time.Minute,
		SweepInterval:       time.Minute,
	}
}

// Hub owns the coordinator and serializes every inbound action - network
// frame, disconnect or scheduled continuation - onto one goroutine. That
// single writer is the concurrency model: no locks guard the room maps
// because nothing else may touch them.
type Hub struct {
	coord   *Coordinator
	sched   *Scheduler
	cfg     HubConfig
	clients map[string]*Client
	actions chan func()
	quit    chan struct{}
	log     zerolog.Logger
}

// NewHub wires a hub around the coordinator.
func NewHub(coord *Coordinator, cfg HubConfig, log zerolog.Logger) *Hub {
	h := &Hub{
		coord:   coord,
		cfg:     cfg,
		clients: make(map[string]*Client),
		actions: make(chan func(), 1024),
		quit:    make(chan struct{}),
		log:     log,
	}
	h.sched = NewScheduler(h.Do)
	return h
}

// Run consumes the action queue until Close. It must be the only goroutine
// executing actions.
func (h *Hub) Run() {
	h.sched.Start()
	h.scheduleSweep()
	for {
		select {
		case fn := <-h.actions:
			h.runAction(fn)
		case <-h.quit:
			h.sched.Stop()
			return
		}
	}
}

// runAction isolates panics so one bad frame cannot take the process down.
func (h *Hub) runAction(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Msg("action panicked")
		}
	}()
	fn()
}

// Do posts an action into the loop. Posts after Close are dropped.
func (h *Hub) Do(fn func()) {
	select {
	case h.actions <- fn:
	case <-h.quit:
	}
}

// Close stops the loop.
func (h *Hub) Close() { close(h.quit) }

// Stats reports room and client counts via a loop round-trip so the
// liveness probe reads consistent state.
func (h *Hub) Stats(ctx context.Context) (rooms, clients int, err error) {
	type stats struct{ rooms, clients int }
	ch := make(chan stats, 1)
	h.Do(func() {
		r, _ := h.coord.Stats()
		ch <- stats{rooms: r, clients: len(h.clients)}
	})
	select {
	case s := <-ch:
		return s.rooms, s.clients, nil
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	}
}

// scheduleSweep runs the inactivity sweep on a fixed period for the life of
// the hub.
func (h *Hub) scheduleSweep() {
	h.sched.After(h.cfg.SweepInterval, func() {
		h.coord.SweepInactive(h.cfg.InactivityThreshold)
		h.scheduleSweep()
	})
}

// dropClient handles a closed connection: the seat is marked disconnected
// but survives for the grace window so the player can reconnect.
func (h *Hub) dropClient(c *Client) {
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)

	room, _, allGone := h.coord.Disconnect(c.id)
	if room == nil {
		return
	}
	h.broadcast(room, "", Outbound{Type: MsgPlayerDisconnected, Payload: RoomPayload{Room: room}})
	if allGone {
		roomID := room.ID
		h.sched.After(h.cfg.GraceWindow, func() {
			h.coord.TeardownIfAbandoned(roomID)
		})
	}
}

// broadcast fans a frame out to every connected member of the room except
// the named connection.
func (h *Hub) broadcast(room *Room, exceptConn string, msg Outbound) {
	for _, p := range room.Players {
		if !p.Connected || p.ConnID == exceptConn {
			continue
		}
		if c, ok := h.clients[p.ConnID]; ok {
			c.trySend(msg)
		}
	}
}

// fail reports a rejected action to the requester only.
func (h *Hub) fail(c *Client, err error) {
	c.trySend(Outbound{Type: MsgError, Payload: ErrorPayload{Message: err.Error()}})
}

// handle dispatches one inbound frame. Every branch validates through the
// coordinator first; only successful actions produce broadcasts.
func (h *Hub) handle(c *Client, msg Message) {
	switch msg.Type {
	case MsgCreateRoom:
		h.handleCreateRoom(c, msg.Payload)
	case MsgJoinRoom:
		h.handleJoinRoom(c, msg.Payload)
	case MsgLeaveRoom:
		h.handleLeaveRoom(c)
	case MsgListRooms:
		c.trySend(Outbound{Type: MsgRoomList, Payload: RoomListPayload{Rooms: h.coord.ListRooms()}})
	case MsgReady:
		h.handleReady(c, msg.Payload)
	case MsgStartGame:
		h.handleStartGame(c)
	case MsgRollDice:
		h.handleRoll(c)
	case MsgMoveToken:
		h.handleMove(c, msg.Payload)
	case MsgSend:
		h.handleChat(c, msg.Payload)
	case MsgReconnect:
		h.handleReconnect(c, msg.Payload)
	case MsgPing:
		c.trySend(Outbound{Type: MsgPong})
	default:
		h.fail(c, ErrBadRequest)
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var req T
	if len(raw) == 0 {
		return req, ErrBadRequest
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, ErrBadRequest
	}
	return req, nil
}

func (h *Hub) handleCreateRoom(c *Client, raw json.RawMessage) {
	req, err := decode[CreateRoomRequest](raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	room, player, err := h.coord.CreateRoom(c.id, req.Name, req.MaxPlayers, req.IsPrivate)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.trySend(Outbound{Type: MsgRoomCreated, Payload: RoomCreatedPayload{
		RoomID: room.ID, Player: player, Room: room,
	}})
}

func (h *Hub) handleJoinRoom(c *Client, raw json.RawMessage) {
	req, err := decode[JoinRoomRequest](raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	room, player, err := h.coord.JoinRoom(c.id, req.RoomID, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.trySend(Outbound{Type: MsgRoomJoined, Payload: RoomJoinedPayload{Player: player, Room: room}})
	h.broadcast(room, c.id, Outbound{Type: MsgPlayerJoined, Payload: RoomPayload{Room: room}})
}

func (h *Hub) handleLeaveRoom(c *Client) {
	room, _, deleted, err := h.coord.LeaveRoom(c.id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.trySend(Outbound{Type: MsgLeftRoom})
	if !deleted {
		h.broadcast(room, c.id, Outbound{Type: MsgPlayerLeft, Payload: RoomPayload{Room: room}})
	}
}

func (h *Hub) handleReady(c *Client, raw json.RawMessage) {
	req, err := decode[ReadyRequest](raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	room, player, err := h.coord.SetReady(c.id, req.Ready)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.broadcast(room, "", Outbound{Type: MsgReadyChanged, Payload: ReadyChangedPayload{
		PlayerID: player.ID, Ready: player.Ready, Room: room,
	}})
}

func (h *Hub) handleStartGame(c *Client) {
	room, state, err := h.coord.StartGame(c.id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.broadcast(room, "", Outbound{Type: MsgGameStarted, Payload: GameStatePayload{GameState: state}})
}

func (h *Hub) handleRoll(c *Client) {
	room, res, state, err := h.coord.Roll(c.id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.broadcast(room, "", Outbound{Type: MsgDiceRolled, Payload: DiceRolledPayload{
		GameState:      state,
		DiceValue:      res.Dice,
		AvailableMoves: res.Moves,
		CurrentPlayer:  state.CurrentPlayer().Color,
	}})
}

func (h *Hub) handleMove(c *Client, raw json.RawMessage) {
	req, err := decode[MoveTokenRequest](raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	room, out, state, err := h.coord.Move(c.id, req.TokenID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.broadcast(room, "", Outbound{Type: MsgTokenMoved, Payload: TokenMovedPayload{
		GameState:       state,
		Move:            out.Result,
		GainedExtraTurn: out.ExtraTurn,
	}})
	if out.GameOver {
		h.broadcast(room, "", Outbound{Type: MsgGameEnded, Payload: GameStatePayload{GameState: state}})
	}
}

func (h *Hub) handleChat(c *Client, raw json.RawMessage) {
	req, err := decode[SendMessageRequest](raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	room, chat, err := h.coord.Chat(c.id, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.broadcast(room, "", Outbound{Type: MsgMessageReceived, Payload: chat})
}

func (h *Hub) handleReconnect(c *Client, raw json.RawMessage) {
	req, err := decode[ReconnectRequest](raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	room, player, state, err := h.coord.Reconnect(c.id, req.RoomID, req.PlayerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	// Full authoritative snapshot, never a delta merge.
	c.trySend(Outbound{Type: MsgReconnected, Payload: ReconnectedPayload{Room: room, GameState: state}})
	h.broadcast(room, c.id, Outbound{Type: MsgPlayerReconnected, Payload: PlayerReconnectedPayload{
		PlayerID: player.ID, Room: room,
	}})
}
