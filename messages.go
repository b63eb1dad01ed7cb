/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// Messages coming from clients. Type selects the room operation; the
// remaining fields are read per-type and ignored otherwise.
type ClientMessage struct {
	Type     string `json:"type"`               // "room:create", "room:join", "room:leave", "round:start", "clue:submit", "discussion:advance", "vote:submit", "round:reset"
	Name     string `json:"name,omitempty"`     // room:create / room:join
	Code     string `json:"code,omitempty"`     // everything except room:create
	Clue     string `json:"clue,omitempty"`     // clue:submit
	TargetID string `json:"targetId,omitempty"` // vote:submit
}

// PlayerSummary is the public view of a player. Round secrets (word,
// impostor flag) are never part of it.
type PlayerSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
	Clue   string `json:"clue,omitempty"`
	Vote   string `json:"vote,omitempty"`
}

// RoomSummary is the public snapshot broadcast to every member after a
// mutation. It omits the word pair and every player's round secrets; the
// only room-wide disclosure of those is the round:reveal message.
type RoomSummary struct {
	Type          string          `json:"type"` // "room:update"
	Code          string          `json:"code"`
	HostID        string          `json:"hostId"`
	Stage         Stage           `json:"stage"`
	Players       []PlayerSummary `json:"players"`
	CluesRevealed bool            `json:"cluesRevealed"`
	VotesRevealed bool            `json:"votesRevealed"`
}

// RoomJoinedMessage confirms a create/join to the joining connection only.
type RoomJoinedMessage struct {
	Type   string        `json:"type"` // "room:joined"
	Room   string        `json:"room"`
	Player PlayerSummary `json:"player"`
}

// RoundWordMessage carries one player's private round secret. Sent once per
// round, to that player's connection alone, at the moment words are assigned.
type RoundWordMessage struct {
	Type       string `json:"type"` // "round:word"
	Word       string `json:"word"`
	Category   string `json:"category"`
	IsImpostor bool   `json:"isImpostor"`
}

// RoundRevealMessage is the end-of-round disclosure sent to all members.
type RoundRevealMessage struct {
	Type         string   `json:"type"` // "round:reveal"
	ImpostorID   string   `json:"impostorId"`
	WordPair     WordPair `json:"wordPair"`
	EliminatedID string   `json:"eliminatedId,omitempty"`
}

// RoomErrorMessage is sent only to the connection whose request failed.
type RoomErrorMessage struct {
	Type    string `json:"type"` // "room:error"
	Message string `json:"message"`
}

func errorMessage(err error) RoomErrorMessage {
	return RoomErrorMessage{
		Type:    "room:error",
		Message: err.Error(),
	}
}
