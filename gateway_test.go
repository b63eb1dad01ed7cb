/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway() *Gateway {
	return newGateway(&Config{}, newRegistry(), newWordBank([]WordPair{testPair}))
}

func newTestClient() *Client {
	return &Client{
		send: make(chan any, 64),
		id:   uuid.NewString(),
	}
}

func drain(c *Client) []any {
	var out []any
	for {
		select {
		case msg := <-c.send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func joinedRoom(t *testing.T, msgs []any) RoomJoinedMessage {
	t.Helper()

	for _, msg := range msgs {
		if joined, ok := msg.(RoomJoinedMessage); ok {
			return joined
		}
	}

	t.Fatal("no room:joined delivered")
	return RoomJoinedMessage{}
}

func roomErrors(msgs []any) []RoomErrorMessage {
	var out []RoomErrorMessage
	for _, msg := range msgs {
		if e, ok := msg.(RoomErrorMessage); ok {
			out = append(out, e)
		}
	}
	return out
}

func createTestRoom(t *testing.T, gw *Gateway, c *Client, name string) string {
	t.Helper()

	gw.dispatch(c, ClientMessage{Type: "room:create", Name: name})
	joined := joinedRoom(t, drain(c))
	require.NotEmpty(t, joined.Room)
	return joined.Room
}

func TestGatewayCreateRoom(t *testing.T) {
	gw := newTestGateway()
	host := newTestClient()

	gw.dispatch(host, ClientMessage{Type: "room:create", Name: "Alice"})

	msgs := drain(host)
	joined := joinedRoom(t, msgs)
	assert.Len(t, joined.Room, codeLength)
	assert.Equal(t, "Alice", joined.Player.Name)
	assert.True(t, joined.Player.IsHost)

	room, ok := gw.registry.Get(joined.Room)
	require.True(t, ok)
	assert.True(t, room.HasPlayer(host.id))
	assert.Equal(t, joined.Room, host.currentRoom())
}

func TestGatewayCreateRoomEmptyName(t *testing.T) {
	gw := newTestGateway()
	c := newTestClient()

	gw.dispatch(c, ClientMessage{Type: "room:create", Name: "   "})

	errs := roomErrors(drain(c))
	require.Len(t, errs, 1)
	assert.Equal(t, errEmptyName.Error(), errs[0].Message)
	assert.Empty(t, gw.registry.Rooms(), "failed create leaves no room behind")
}

func TestGatewayJoinNormalizesCode(t *testing.T) {
	gw := newTestGateway()
	host := newTestClient()
	code := createTestRoom(t, gw, host, "Alice")

	guest := newTestClient()
	gw.dispatch(guest, ClientMessage{Type: "room:join", Code: "  " + string([]byte{code[0] | 0x20}) + code[1:] + " ", Name: "Bob"})

	joined := joinedRoom(t, drain(guest))
	assert.Equal(t, code, joined.Room)
	assert.False(t, joined.Player.IsHost)
}

func TestGatewayJoinUnknownRoom(t *testing.T) {
	gw := newTestGateway()
	c := newTestClient()

	gw.dispatch(c, ClientMessage{Type: "room:join", Code: "ZZZZ", Name: "Bob"})

	errs := roomErrors(drain(c))
	require.Len(t, errs, 1)
	assert.Equal(t, errRoomNotFound.Error(), errs[0].Message)
}

func TestGatewayJoinDuplicateName(t *testing.T) {
	gw := newTestGateway()
	host := newTestClient()
	code := createTestRoom(t, gw, host, "Alice")

	guest := newTestClient()
	gw.dispatch(guest, ClientMessage{Type: "room:join", Code: code, Name: "alice"})

	errs := roomErrors(drain(guest))
	require.Len(t, errs, 1)
	assert.Equal(t, errNameTaken.Error(), errs[0].Message)
}

func TestGatewayErrorsGoOnlyToRequester(t *testing.T) {
	gw := newTestGateway()
	host := newTestClient()
	code := createTestRoom(t, gw, host, "Alice")

	guest := newTestClient()
	gw.dispatch(guest, ClientMessage{Type: "room:join", Code: code, Name: "Bob"})
	drain(host)
	drain(guest)

	// A non-host start attempt fails privately; the host sees nothing.
	gw.dispatch(guest, ClientMessage{Type: "round:start", Code: code})

	assert.NotEmpty(t, roomErrors(drain(guest)))
	assert.Empty(t, roomErrors(drain(host)))
}

func TestGatewayLeaveDeletesEmptyRoom(t *testing.T) {
	gw := newTestGateway()
	host := newTestClient()
	code := createTestRoom(t, gw, host, "Alice")

	gw.dispatch(host, ClientMessage{Type: "room:leave", Code: code})

	_, ok := gw.registry.Get(code)
	assert.False(t, ok)
	assert.Empty(t, host.currentRoom())

	// Joining a just-deleted room reports RoomNotFound.
	late := newTestClient()
	gw.dispatch(late, ClientMessage{Type: "room:join", Code: code, Name: "Late"})
	errs := roomErrors(drain(late))
	require.Len(t, errs, 1)
	assert.Equal(t, errRoomNotFound.Error(), errs[0].Message)
}

func TestGatewayDisconnectFailsOverHostAndTearsDown(t *testing.T) {
	gw := newTestGateway()
	host := newTestClient()
	code := createTestRoom(t, gw, host, "Alice")

	bob := newTestClient()
	cara := newTestClient()
	gw.dispatch(bob, ClientMessage{Type: "room:join", Code: code, Name: "Bob"})
	gw.dispatch(cara, ClientMessage{Type: "room:join", Code: code, Name: "Cara"})
	gw.dispatch(host, ClientMessage{Type: "round:start", Code: code})

	// Host disconnects mid-round; the earliest-joined remaining member
	// takes over and the room survives.
	gw.disconnect(host)
	gw.disconnect(host)

	room, ok := gw.registry.Get(code)
	require.True(t, ok)
	assert.Equal(t, bob.id, room.Summary().HostID)

	gw.disconnect(bob)
	gw.disconnect(cara)

	_, ok = gw.registry.Get(code)
	assert.False(t, ok, "room is deleted once the last member disconnects")
}

func TestGatewayFullRoundDispatch(t *testing.T) {
	gw := newTestGateway()
	host := newTestClient()
	code := createTestRoom(t, gw, host, "Alice")

	bob := newTestClient()
	cara := newTestClient()
	gw.dispatch(bob, ClientMessage{Type: "room:join", Code: code, Name: "Bob"})
	gw.dispatch(cara, ClientMessage{Type: "room:join", Code: code, Name: "Cara"})

	clients := []*Client{host, bob, cara}
	for _, c := range clients {
		drain(c)
	}

	gw.dispatch(host, ClientMessage{Type: "round:start", Code: code})

	room, ok := gw.registry.Get(code)
	require.True(t, ok)
	require.Equal(t, StageClue, room.Summary().Stage)

	impostors := 0
	for _, c := range clients {
		for _, msg := range drain(c) {
			if w, ok := msg.(RoundWordMessage); ok && w.IsImpostor {
				impostors++
			}
		}
	}
	assert.Equal(t, 1, impostors)

	for _, c := range clients {
		gw.dispatch(c, ClientMessage{Type: "clue:submit", Code: code, Clue: "something"})
	}
	require.Equal(t, StageDiscussion, room.Summary().Stage)

	gw.dispatch(host, ClientMessage{Type: "discussion:advance", Code: code})
	require.Equal(t, StageVote, room.Summary().Stage)

	gw.dispatch(bob, ClientMessage{Type: "vote:submit", Code: code, TargetID: cara.id})
	gw.dispatch(cara, ClientMessage{Type: "vote:submit", Code: code, TargetID: bob.id})
	gw.dispatch(host, ClientMessage{Type: "vote:submit", Code: code, TargetID: bob.id})
	require.Equal(t, StageReveal, room.Summary().Stage)

	revealSeen := false
	for _, msg := range drain(cara) {
		if reveal, ok := msg.(RoundRevealMessage); ok {
			revealSeen = true
			assert.Equal(t, bob.id, reveal.EliminatedID)
			assert.Equal(t, testPair, reveal.WordPair)
		}
	}
	assert.True(t, revealSeen)

	gw.dispatch(host, ClientMessage{Type: "round:reset", Code: code})
	assert.Equal(t, StageLobby, room.Summary().Stage)
}

func TestGatewayUnknownMessageIgnored(t *testing.T) {
	gw := newTestGateway()
	c := newTestClient()

	gw.dispatch(c, ClientMessage{Type: "bogus"})
	assert.Empty(t, drain(c))
}

func TestGatewayOperationOnUnknownRoom(t *testing.T) {
	gw := newTestGateway()
	c := newTestClient()

	for _, typ := range []string{"round:start", "clue:submit", "discussion:advance", "vote:submit", "round:reset"} {
		gw.dispatch(c, ClientMessage{Type: typ, Code: "ZZZZ"})

		errs := roomErrors(drain(c))
		require.Len(t, errs, 1, "type %s", typ)
		assert.Equal(t, errRoomNotFound.Error(), errs[0].Message)
	}
}
