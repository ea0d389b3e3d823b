package server

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ludoengine/internal/board"
	"github.com/yourusername/ludoengine/pkg/engine"
	"github.com/yourusername/ludoengine/pkg/game"
)

// testClock is a movable clock for activity-based expiry tests.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func scriptedDice(values ...int) game.DiceRoller {
	i := 0
	return func() int {
		v := values[i%len(values)]
		i++
		return v
	}
}

func newTestCoordinator(dice ...int) (*Coordinator, *testClock) {
	clock := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	if len(dice) == 0 {
		dice = []int{6}
	}
	c := NewCoordinator(CoordinatorConfig{
		Dice: scriptedDice(dice...),
		Now:  clock.now,
	}, zerolog.Nop())
	return c, clock
}

// twoPlayerRoom creates a room with a host and one joined member, both ready.
func twoPlayerRoom(t *testing.T, c *Coordinator) *Room {
	t.Helper()
	room, _, err := c.CreateRoom("conn-host", "alice", 4, false)
	require.NoError(t, err)
	_, _, err = c.JoinRoom("conn-2", room.ID, "bob")
	require.NoError(t, err)
	_, _, err = c.SetReady("conn-host", true)
	require.NoError(t, err)
	_, _, err = c.SetReady("conn-2", true)
	require.NoError(t, err)
	return room
}

func TestCreateRoom(t *testing.T) {
	c, _ := newTestCoordinator()
	room, host, err := c.CreateRoom("conn-1", "alice", 0, true)
	require.NoError(t, err)

	assert.Len(t, room.ID, roomCodeLen)
	assert.Equal(t, MaxRoomPlayers, room.MaxPlayers)
	assert.True(t, room.Private)
	assert.Equal(t, RoomWaiting, room.Status)
	assert.True(t, host.Host)
	assert.Equal(t, engine.Red, host.Color)
	assert.True(t, host.Connected)
}

func TestCreateRoomValidation(t *testing.T) {
	c, _ := newTestCoordinator()
	_, _, err := c.CreateRoom("conn-1", "", 4, false)
	assert.ErrorIs(t, err, ErrBadRequest)

	_, _, err = c.CreateRoom("conn-1", "alice", 5, false)
	assert.ErrorIs(t, err, ErrBadRequest)

	_, _, err = c.CreateRoom("conn-1", "alice", 2, false)
	require.NoError(t, err)
	_, _, err = c.CreateRoom("conn-1", "alice", 2, false)
	assert.ErrorIs(t, err, ErrAlreadyInRoom)
}

func TestJoinRoomAssignsColorsInOrder(t *testing.T) {
	c, _ := newTestCoordinator()
	room, _, err := c.CreateRoom("conn-1", "alice", 4, false)
	require.NoError(t, err)

	_, p2, err := c.JoinRoom("conn-2", room.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, engine.Green, p2.Color)
	assert.False(t, p2.Host)

	_, p3, err := c.JoinRoom("conn-3", room.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, engine.Yellow, p3.Color)
}

func TestJoinRoomRejections(t *testing.T) {
	c, _ := newTestCoordinator()
	room, _, err := c.CreateRoom("conn-1", "alice", 2, false)
	require.NoError(t, err)

	_, _, err = c.JoinRoom("conn-2", "ZZZZZZ", "bob")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, _, err = c.JoinRoom("conn-2", room.ID, "alice")
	assert.ErrorIs(t, err, ErrNameTaken)

	_, _, err = c.JoinRoom("conn-2", room.ID, "")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, _, err = c.JoinRoom("conn-2", room.ID, "bob")
	require.NoError(t, err)

	_, _, err = c.JoinRoom("conn-3", room.ID, "carol")
	assert.ErrorIs(t, err, ErrRoomFull)

	_, _, err = c.JoinRoom("conn-2", room.ID, "dave")
	assert.ErrorIs(t, err, ErrAlreadyInRoom)
}

func TestJoinRejectedOncePlaying(t *testing.T) {
	c, _ := newTestCoordinator()
	room := twoPlayerRoom(t, c)
	_, _, err := c.StartGame("conn-host")
	require.NoError(t, err)

	_, _, err = c.JoinRoom("conn-3", room.ID, "carol")
	assert.ErrorIs(t, err, ErrGameInProgress)
}

func TestCanStartRequiresEveryoneReady(t *testing.T) {
	c, _ := newTestCoordinator()
	room, _, err := c.CreateRoom("conn-host", "alice", 4, false)
	require.NoError(t, err)
	assert.False(t, c.CanStart(room.ID), "single player")

	_, _, err = c.JoinRoom("conn-2", room.ID, "bob")
	require.NoError(t, err)
	assert.False(t, c.CanStart(room.ID), "nobody ready")

	_, _, err = c.SetReady("conn-host", true)
	require.NoError(t, err)
	assert.False(t, c.CanStart(room.ID), "one not ready")

	_, _, err = c.SetReady("conn-2", true)
	require.NoError(t, err)
	assert.True(t, c.CanStart(room.ID))

	c.Disconnect("conn-2")
	assert.False(t, c.CanStart(room.ID), "disconnected member")
}

func TestStartGameHostOnly(t *testing.T) {
	c, _ := newTestCoordinator()
	twoPlayerRoom(t, c)

	_, _, err := c.StartGame("conn-2")
	assert.ErrorIs(t, err, ErrNotHost)

	room, state, err := c.StartGame("conn-host")
	require.NoError(t, err)
	assert.Equal(t, RoomPlaying, room.Status)
	require.Len(t, state.Players, 2)
	assert.Equal(t, engine.Red, state.Players[0].Color)
	assert.Equal(t, "alice", state.Players[0].Name)
	assert.Equal(t, engine.StatusPlaying, state.Status)
}

func TestStartGameRejectedWhenNotReady(t *testing.T) {
	c, _ := newTestCoordinator()
	room, _, err := c.CreateRoom("conn-host", "alice", 4, false)
	require.NoError(t, err)
	_, _, err = c.JoinRoom("conn-2", room.ID, "bob")
	require.NoError(t, err)

	_, _, err = c.StartGame("conn-host")
	assert.ErrorIs(t, err, ErrCannotStart)
}

func TestRollAndMoveFlow(t *testing.T) {
	c, _ := newTestCoordinator(6)
	twoPlayerRoom(t, c)
	_, _, err := c.StartGame("conn-host")
	require.NoError(t, err)

	// Host's seat is red and red acts first.
	_, res, state, err := c.Roll("conn-host")
	require.NoError(t, err)
	require.Equal(t, game.RollAwaitMove, res.Outcome)
	require.Len(t, res.Moves, 1)
	assert.Equal(t, 6, state.Dice)

	_, out, state, err := c.Move("conn-host", res.Moves[0].TokenID)
	require.NoError(t, err)
	assert.True(t, out.ExtraTurn)
	assert.Equal(t, board.StartIndex(int(engine.Red)), state.Players[0].Tokens[0].Position)
}

func TestTurnOwnershipEnforced(t *testing.T) {
	c, _ := newTestCoordinator(6)
	twoPlayerRoom(t, c)
	_, _, err := c.StartGame("conn-host")
	require.NoError(t, err)

	_, _, _, err = c.Roll("conn-2")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, _, _, err = c.Move("conn-2", 0)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestMoveBeforeRollRejected(t *testing.T) {
	c, _ := newTestCoordinator(6)
	twoPlayerRoom(t, c)
	_, _, err := c.StartGame("conn-host")
	require.NoError(t, err)

	_, _, _, err = c.Move("conn-host", 0)
	assert.ErrorIs(t, err, game.ErrAwaitingRoll)
}

func TestRollBeforeStartRejected(t *testing.T) {
	c, _ := newTestCoordinator(6)
	twoPlayerRoom(t, c)

	_, _, _, err := c.Roll("conn-host")
	assert.ErrorIs(t, err, ErrGameNotStarted)
}

func TestWinFlipsRoomToFinished(t *testing.T) {
	c, _ := newTestCoordinator(1)
	room := twoPlayerRoom(t, c)
	_, state, err := c.StartGame("conn-host")
	require.NoError(t, err)

	// Pre-position red for an immediate winning move.
	red := state.Players[0]
	for _, tok := range red.Tokens[:3] {
		tok.Position = board.FinishedPos
		tok.State = engine.TokenFinished
	}
	red.Tokens[3].Position = board.LaneBase(int(engine.Red)) + 5
	red.Tokens[3].State = engine.TokenActive

	_, res, _, err := c.Roll("conn-host")
	require.NoError(t, err)
	require.Len(t, res.Moves, 1)

	_, out, state, err := c.Move("conn-host", res.Moves[0].TokenID)
	require.NoError(t, err)
	assert.True(t, out.GameOver)
	assert.Equal(t, engine.Red, state.Winner)
	assert.Equal(t, RoomFinished, room.Status)
}

func TestLeaveRoomMigratesHost(t *testing.T) {
	c, _ := newTestCoordinator()
	room := twoPlayerRoom(t, c)

	got, left, deleted, err := c.LeaveRoom("conn-host")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "alice", left.Name)
	assert.Equal(t, room.ID, got.ID)
	require.Len(t, got.Players, 1)
	assert.True(t, got.Players[0].Host, "hosting migrates in join order")
	assert.Equal(t, "bob", got.Players[0].Name)
}

func TestLeaveLastPlayerDeletesRoom(t *testing.T) {
	c, _ := newTestCoordinator()
	room, _, err := c.CreateRoom("conn-1", "alice", 4, false)
	require.NoError(t, err)

	_, _, deleted, err := c.LeaveRoom("conn-1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Nil(t, c.Room(room.ID))

	_, _, _, err = c.LeaveRoom("conn-1")
	assert.ErrorIs(t, err, ErrNotInRoom)
}

func TestReconnectRebindsAndSnapshots(t *testing.T) {
	c, _ := newTestCoordinator(6)
	room := twoPlayerRoom(t, c)
	_, _, err := c.StartGame("conn-host")
	require.NoError(t, err)

	hostID := room.Players[0].ID
	_, p, allGone := c.Disconnect("conn-host")
	assert.False(t, allGone)
	assert.False(t, p.Connected)

	got, p, state, err := c.Reconnect("conn-new", room.ID, hostID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
	assert.True(t, p.Connected)
	assert.Equal(t, "conn-new", p.ConnID)
	require.NotNil(t, state, "live match is snapshotted")
	assert.Equal(t, engine.StatusPlaying, state.Status)

	// The new binding drives the match; the old one is gone.
	_, _, _, err = c.Roll("conn-new")
	require.NoError(t, err)
	_, _, _, err = c.Roll("conn-host")
	assert.ErrorIs(t, err, ErrNotInRoom)
}

func TestReconnectUnknownPlayer(t *testing.T) {
	c, _ := newTestCoordinator()
	room, _, err := c.CreateRoom("conn-1", "alice", 4, false)
	require.NoError(t, err)

	_, _, _, err = c.Reconnect("conn-2", room.ID, "nope")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, _, _, err = c.Reconnect("conn-2", "ZZZZZZ", "nope")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestTeardownIfAbandoned(t *testing.T) {
	c, _ := newTestCoordinator()
	room := twoPlayerRoom(t, c)

	c.Disconnect("conn-host")
	assert.False(t, c.TeardownIfAbandoned(room.ID), "one member still connected")

	_, _, allGone := c.Disconnect("conn-2")
	assert.True(t, allGone)
	assert.True(t, c.TeardownIfAbandoned(room.ID))
	assert.Nil(t, c.Room(room.ID))
}

func TestTeardownSkippedAfterReconnect(t *testing.T) {
	c, _ := newTestCoordinator()
	room := twoPlayerRoom(t, c)
	hostID := room.Players[0].ID

	c.Disconnect("conn-host")
	c.Disconnect("conn-2")
	_, _, _, err := c.Reconnect("conn-new", room.ID, hostID)
	require.NoError(t, err)

	assert.False(t, c.TeardownIfAbandoned(room.ID))
	assert.NotNil(t, c.Room(room.ID))
}

func TestSweepInactive(t *testing.T) {
	c, clock := newTestCoordinator()
	stale := twoPlayerRoom(t, c)

	clock.advance(31 * time.Minute)
	fresh, _, err := c.CreateRoom("conn-3", "carol", 4, false)
	require.NoError(t, err)

	swept := c.SweepInactive(30 * time.Minute)
	assert.Equal(t, []string{stale.ID}, swept)
	assert.Nil(t, c.Room(stale.ID))
	assert.NotNil(t, c.Room(fresh.ID))

	// Sweeping released the stale room's connection bindings.
	_, _, err = c.CreateRoom("conn-host", "alice", 4, false)
	require.NoError(t, err)
}

func TestListRoomsPublicWaitingOnly(t *testing.T) {
	c, _ := newTestCoordinator()
	pub, _, err := c.CreateRoom("conn-1", "alice", 4, false)
	require.NoError(t, err)
	_, _, err = c.CreateRoom("conn-2", "bob", 4, true)
	require.NoError(t, err)

	list := c.ListRooms()
	require.Len(t, list, 1)
	assert.Equal(t, pub.ID, list[0].ID)
	assert.Equal(t, 1, list[0].Players)
	assert.Equal(t, RoomWaiting, list[0].Status)
}

func TestChat(t *testing.T) {
	c, _ := newTestCoordinator()
	twoPlayerRoom(t, c)

	_, msg, err := c.Chat("conn-2", "hello")
	require.NoError(t, err)
	assert.Equal(t, "bob", msg.PlayerName)
	assert.Equal(t, "hello", msg.Text)
	assert.NotEmpty(t, msg.ID)
	assert.NotZero(t, msg.Timestamp)

	_, _, err = c.Chat("conn-2", "")
	assert.ErrorIs(t, err, ErrBadRequest)
	_, _, err = c.Chat("conn-9", "hi")
	assert.ErrorIs(t, err, ErrNotInRoom)
}

func TestStats(t *testing.T) {
	c, _ := newTestCoordinator()
	rooms, conns := c.Stats()
	assert.Zero(t, rooms)
	assert.Zero(t, conns)

	twoPlayerRoom(t, c)
	rooms, conns = c.Stats()
	assert.Equal(t, 1, rooms)
	assert.Equal(t, 2, conns)
}
