package server

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/yourusername/ludoengine/pkg/engine"
	"github.com/yourusername/ludoengine/pkg/game"
)

// Room codes avoid lookalike characters so they survive being read aloud.
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLen      = 6
)

// Coordinator owns every room and its bound match. It is the only writer of
// that state and delegates all rule decisions to the turn controller. It is
// NOT safe for concurrent use: the hub serializes every action onto one
// goroutine, which is what makes the room maps lock-free.
type Coordinator struct {
	rooms map[string]*Room
	games map[string]*game.Controller
	conns map[string]binding

	dice game.DiceRoller
	now  func() time.Time
	log  zerolog.Logger
}

// binding maps a live connection to its room membership.
type binding struct {
	roomID   string
	playerID string
}

// CoordinatorConfig carries the injectable pieces; zero values get
// production defaults.
type CoordinatorConfig struct {
	Dice game.DiceRoller  // dice source for matches this coordinator starts
	Now  func() time.Time // clock, overridable in tests
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator(cfg CoordinatorConfig, log zerolog.Logger) *Coordinator {
	if cfg.Dice == nil {
		cfg.Dice = game.NewDiceRoller(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Coordinator{
		rooms: make(map[string]*Room),
		games: make(map[string]*game.Controller),
		conns: make(map[string]binding),
		dice:  cfg.Dice,
		now:   cfg.Now,
		log:   log,
	}
}

// CreateRoom allocates a fresh room with the requester as host.
func (c *Coordinator) CreateRoom(connID, name string, maxPlayers int, private bool) (*Room, *SessionPlayer, error) {
	if _, bound := c.conns[connID]; bound {
		return nil, nil, ErrAlreadyInRoom
	}
	if name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if maxPlayers == 0 {
		maxPlayers = MaxRoomPlayers
	}
	if maxPlayers < MinRoomPlayers || maxPlayers > MaxRoomPlayers {
		return nil, nil, fmt.Errorf("%w: maxPlayers must be %d..%d", ErrBadRequest, MinRoomPlayers, MaxRoomPlayers)
	}

	id, err := c.newRoomCode()
	if err != nil {
		return nil, nil, err
	}

	now := c.now()
	room := &Room{
		ID:           id,
		MaxPlayers:   maxPlayers,
		Private:      private,
		Status:       RoomWaiting,
		CreatedAt:    now,
		LastActivity: now,
	}
	host := &SessionPlayer{
		ID:        uuid.NewString(),
		ConnID:    connID,
		Name:      name,
		Color:     engine.Palette[0],
		Connected: true,
		Host:      true,
	}
	room.Players = append(room.Players, host)

	c.rooms[id] = room
	c.conns[connID] = binding{roomID: id, playerID: host.ID}
	c.log.Info().Str("room", id).Str("host", name).Msg("room created")
	return room, host, nil
}

// newRoomCode draws short codes until one is unused.
func (c *Coordinator) newRoomCode() (string, error) {
	for i := 0; i < 8; i++ {
		id, err := gonanoid.Generate(roomCodeAlphabet, roomCodeLen)
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		if _, exists := c.rooms[id]; !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("room code space exhausted")
}

// JoinRoom adds the requester to a waiting room, assigning the first unused
// palette color. Full rooms, live games and duplicate names are rejected.
func (c *Coordinator) JoinRoom(connID, roomID, name string) (*Room, *SessionPlayer, error) {
	if _, bound := c.conns[connID]; bound {
		return nil, nil, ErrAlreadyInRoom
	}
	room, ok := c.rooms[roomID]
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	if room.Status != RoomWaiting {
		return nil, nil, ErrGameInProgress
	}
	if len(room.Players) >= room.MaxPlayers {
		return nil, nil, ErrRoomFull
	}
	if name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if room.nameTaken(name) {
		return nil, nil, ErrNameTaken
	}

	p := &SessionPlayer{
		ID:        uuid.NewString(),
		ConnID:    connID,
		Name:      name,
		Color:     room.nextColor(),
		Connected: true,
	}
	room.Players = append(room.Players, p)
	room.touch(c.now())
	c.conns[connID] = binding{roomID: roomID, playerID: p.ID}
	c.log.Info().Str("room", roomID).Str("player", name).Msg("player joined")
	return room, p, nil
}

// LeaveRoom removes the member outright. Hosting migrates in join order;
// an emptied room is deleted together with its match.
func (c *Coordinator) LeaveRoom(connID string) (room *Room, left *SessionPlayer, deleted bool, err error) {
	b, ok := c.conns[connID]
	if !ok {
		return nil, nil, false, ErrNotInRoom
	}
	room = c.rooms[b.roomID]
	delete(c.conns, connID)
	left = room.removePlayer(b.playerID)
	room.touch(c.now())

	if len(room.Players) == 0 {
		c.deleteRoom(b.roomID)
		return room, left, true, nil
	}
	c.log.Info().Str("room", room.ID).Str("player", left.Name).Msg("player left")
	return room, left, false, nil
}

// Disconnect marks the member disconnected but keeps the seat so they can
// reconnect. Reports whether the room is now fully disconnected, which
// starts the grace-window teardown.
func (c *Coordinator) Disconnect(connID string) (room *Room, p *SessionPlayer, allGone bool) {
	b, ok := c.conns[connID]
	if !ok {
		return nil, nil, false
	}
	delete(c.conns, connID)
	room = c.rooms[b.roomID]
	p = room.player(b.playerID)
	p.Connected = false
	room.touch(c.now())
	c.log.Info().Str("room", room.ID).Str("player", p.Name).Msg("player disconnected")
	return room, p, room.allDisconnected()
}

// Reconnect rebinds a fresh connection onto an existing session player and
// returns the authoritative snapshot for a full overwrite on the client.
func (c *Coordinator) Reconnect(connID, roomID, playerID string) (*Room, *SessionPlayer, *engine.GameState, error) {
	room, ok := c.rooms[roomID]
	if !ok {
		return nil, nil, nil, ErrRoomNotFound
	}
	p := room.player(playerID)
	if p == nil {
		return nil, nil, nil, ErrPlayerNotFound
	}

	// Rebind, dropping any stale mapping for the old connection.
	delete(c.conns, p.ConnID)
	p.ConnID = connID
	p.Connected = true
	c.conns[connID] = binding{roomID: roomID, playerID: playerID}
	room.touch(c.now())

	var state *engine.GameState
	if ctrl, ok := c.games[roomID]; ok {
		state = ctrl.State()
	}
	c.log.Info().Str("room", roomID).Str("player", p.Name).Msg("player reconnected")
	return room, p, state, nil
}

// SetReady flips the member's ready flag.
func (c *Coordinator) SetReady(connID string, ready bool) (*Room, *SessionPlayer, error) {
	room, p, err := c.member(connID)
	if err != nil {
		return nil, nil, err
	}
	p.Ready = ready
	room.touch(c.now())
	return room, p, nil
}

// CanStart reports whether the room has at least two members, all ready and
// connected, and has not started yet.
func (c *Coordinator) CanStart(roomID string) bool {
	room, ok := c.rooms[roomID]
	if !ok || room.Status != RoomWaiting {
		return false
	}
	if len(room.Players) < MinRoomPlayers {
		return false
	}
	return lo.EveryBy(room.Players, func(p *SessionPlayer) bool {
		return p.Ready && p.Connected
	})
}

// StartGame binds a fresh match seeded from the room members, in join
// order, and flips the room to playing. Host only.
func (c *Coordinator) StartGame(connID string) (*Room, *engine.GameState, error) {
	room, p, err := c.member(connID)
	if err != nil {
		return nil, nil, err
	}
	if !p.Host {
		return nil, nil, ErrNotHost
	}
	if !c.CanStart(room.ID) {
		return nil, nil, ErrCannotStart
	}

	players := lo.Map(room.Players, func(sp *SessionPlayer, _ int) *engine.Player {
		return engine.NewPlayer(sp.Color, sp.Name)
	})
	ctrl := game.NewController(players, c.dice)
	ctrl.Start()

	c.games[room.ID] = ctrl
	room.Status = RoomPlaying
	room.touch(c.now())
	c.log.Info().Str("room", room.ID).Int("players", len(players)).Msg("game started")
	return room, ctrl.State(), nil
}

// Roll rolls the dice for the requester. Rejected unless the requester's
// seat is the current player.
func (c *Coordinator) Roll(connID string) (*Room, *game.RollResult, *engine.GameState, error) {
	room, ctrl, _, err := c.turnOwner(connID)
	if err != nil {
		return nil, nil, nil, err
	}
	res, err := ctrl.Roll()
	if err != nil {
		return nil, nil, nil, err
	}
	room.touch(c.now())
	return room, res, ctrl.State(), nil
}

// Move applies the requester's token move. Rejected unless it is their turn
// and a roll is pending; a win flips the room to finished.
func (c *Coordinator) Move(connID string, tokenID int) (*Room, *game.MoveOutcome, *engine.GameState, error) {
	room, ctrl, _, err := c.turnOwner(connID)
	if err != nil {
		return nil, nil, nil, err
	}
	out, err := ctrl.Move(tokenID)
	if err != nil {
		return nil, nil, nil, err
	}
	room.touch(c.now())
	if out.GameOver {
		room.Status = RoomFinished
		c.log.Info().Str("room", room.ID).Str("winner", ctrl.State().Winner.String()).Msg("game ended")
	}
	return room, out, ctrl.State(), nil
}

// Chat stamps and fans a room message out. Any member may chat, playing or
// waiting.
func (c *Coordinator) Chat(connID, text string) (*Room, *ChatMessage, error) {
	room, p, err := c.member(connID)
	if err != nil {
		return nil, nil, err
	}
	if text == "" {
		return nil, nil, fmt.Errorf("%w: empty message", ErrBadRequest)
	}
	room.touch(c.now())
	return room, &ChatMessage{
		ID:         uuid.NewString(),
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Text:       text,
		Timestamp:  c.now().UnixMilli(),
	}, nil
}

// ListRooms returns summaries of public rooms still waiting for players.
func (c *Coordinator) ListRooms() []RoomSummary {
	var out []RoomSummary
	for _, r := range c.rooms {
		if r.Private || r.Status != RoomWaiting {
			continue
		}
		out = append(out, RoomSummary{
			ID:         r.ID,
			Players:    len(r.Players),
			MaxPlayers: r.MaxPlayers,
			Status:     r.Status,
		})
	}
	return out
}

// TeardownIfAbandoned deletes the room if every member is still
// disconnected. Called when the grace window elapses; a reconnect in the
// meantime makes it a no-op.
func (c *Coordinator) TeardownIfAbandoned(roomID string) bool {
	room, ok := c.rooms[roomID]
	if !ok || !room.allDisconnected() {
		return false
	}
	c.deleteRoom(roomID)
	c.log.Info().Str("room", roomID).Msg("abandoned room torn down")
	return true
}

// SweepInactive deletes rooms idle longer than the threshold and returns
// their ids.
func (c *Coordinator) SweepInactive(olderThan time.Duration) []string {
	cutoff := c.now().Add(-olderThan)
	var swept []string
	for id, r := range c.rooms {
		if r.LastActivity.Before(cutoff) {
			c.deleteRoom(id)
			swept = append(swept, id)
		}
	}
	if len(swept) > 0 {
		c.log.Info().Strs("rooms", swept).Msg("inactive rooms swept")
	}
	return swept
}

// Stats reports active room and bound connection counts for the liveness
// probe.
func (c *Coordinator) Stats() (rooms, conns int) {
	return len(c.rooms), len(c.conns)
}

// Game exposes the match bound to a room, or nil.
func (c *Coordinator) Game(roomID string) *game.Controller {
	return c.games[roomID]
}

// Room exposes a room by id, or nil.
func (c *Coordinator) Room(roomID string) *Room {
	return c.rooms[roomID]
}

func (c *Coordinator) deleteRoom(roomID string) {
	room := c.rooms[roomID]
	if room != nil {
		for _, p := range room.Players {
			delete(c.conns, p.ConnID)
		}
	}
	delete(c.rooms, roomID)
	delete(c.games, roomID)
}

// member resolves a connection to its room and session player.
func (c *Coordinator) member(connID string) (*Room, *SessionPlayer, error) {
	b, ok := c.conns[connID]
	if !ok {
		return nil, nil, ErrNotInRoom
	}
	room := c.rooms[b.roomID]
	return room, room.player(b.playerID), nil
}

// turnOwner resolves a connection and enforces turn ownership against the
// bound match.
func (c *Coordinator) turnOwner(connID string) (*Room, *game.Controller, *SessionPlayer, error) {
	room, p, err := c.member(connID)
	if err != nil {
		return nil, nil, nil, err
	}
	ctrl, ok := c.games[room.ID]
	if !ok {
		return nil, nil, nil, ErrGameNotStarted
	}
	if ctrl.CurrentPlayer().Color != p.Color {
		return nil, nil, nil, ErrNotYourTurn
	}
	return room, ctrl, p, nil
}
