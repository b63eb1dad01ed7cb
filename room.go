/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Stage is the room's current phase in the round life cycle.
type Stage string

const (
	StageLobby      Stage = "lobby"
	StageClue       Stage = "clue"
	StageDiscussion Stage = "discussion"
	StageVote       Stage = "vote"
	StageReveal     Stage = "reveal"
)

const maxClueLength = 60

// Outbox delivers server messages to a single connected player. Deliver
// must never block; a slow connection is the transport's problem, not the
// room's.
type Outbox interface {
	Deliver(msg any)
}

// Player holds the data we store server-side for one room member.
// word and isImpostor are round-private: they leave the server only via
// the owning player's outbox.
type Player struct {
	ID     string
	Name   string
	IsHost bool
	Clue   string
	Vote   string

	word       string
	isImpostor bool

	out Outbox
}

// Room is one isolated game session. All operations on a room are
// serialized by its mutex; rooms are independent of each other.
type Room struct {
	code string
	bank *WordBank

	mu            sync.Mutex
	hostID        string
	stage         Stage
	players       map[string]*Player
	joinOrder     []string
	wordPair      *WordPair
	impostorID    string
	cluesRevealed bool
	votesRevealed bool
	lastActive    time.Time
	closed        bool
}

func newRoom(code string, bank *WordBank) *Room {
	return &Room{
		code:       code,
		bank:       bank,
		stage:      StageLobby,
		players:    make(map[string]*Player),
		lastActive: time.Now(),
	}
}

// AddPlayer joins a player to the room. The first player to join becomes
// host. Joining is permitted in any stage; a mid-round joiner has no word
// until the next round.
func (r *Room) AddPlayer(id, name string, out Outbox) (PlayerSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return PlayerSummary{}, errEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return PlayerSummary{}, errRoomNotFound
	}

	for _, p := range r.players {
		if strings.EqualFold(p.Name, name) {
			return PlayerSummary{}, errNameTaken
		}
	}

	player := &Player{
		ID:     id,
		Name:   name,
		IsHost: len(r.players) == 0,
		out:    out,
	}

	r.players[id] = player
	r.joinOrder = append(r.joinOrder, id)
	if player.IsHost {
		r.hostID = id
	}

	r.touchLocked()
	r.broadcastUpdateLocked()

	return playerSummary(player), nil
}

// RemovePlayer removes a member, transferring the host role to the
// earliest-joined remaining member if needed. Returns whether the player
// was a member and whether the room is now empty; an empty room is closed
// and must be deleted from the registry by the caller.
func (r *Room) RemovePlayer(id string) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; !ok {
		return false, false
	}

	delete(r.players, id)
	for i, pid := range r.joinOrder {
		if pid == id {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}

	if len(r.players) == 0 {
		r.closed = true
		return true, true
	}

	if r.hostID == id {
		next := r.players[r.joinOrder[0]]
		next.IsHost = true
		r.hostID = next.ID
	}

	r.touchLocked()
	r.broadcastUpdateLocked()

	return true, false
}

// StartRound begins a round: a fresh word pair is drawn, one member is
// picked as impostor, and every player receives their word privately.
// Validation happens before any mutation, so a failed start leaves the
// room untouched.
func (r *Room) StartRound(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostID != callerID {
		return errNotHost
	}
	if len(r.players) < 3 {
		return errInsufficientPlayers
	}

	pair, err := r.bank.draw()
	if err != nil {
		return err
	}

	r.resetLocked()

	impostorID := r.joinOrder[randIndex(len(r.joinOrder))]
	r.wordPair = &pair
	r.impostorID = impostorID
	r.stage = StageClue

	for _, id := range r.joinOrder {
		p := r.players[id]
		p.isImpostor = id == impostorID
		if p.isImpostor {
			p.word = pair.Impostor
		} else {
			p.word = pair.Shared
		}

		p.out.Deliver(RoundWordMessage{
			Type:       "round:word",
			Word:       p.word,
			Category:   pair.Category,
			IsImpostor: p.isImpostor,
		})
	}

	r.touchLocked()
	r.broadcastUpdateLocked()

	return nil
}

// SubmitClue stores the caller's trimmed, length-capped clue. Once every
// member has a non-empty clue the room advances to discussion. Stage
// mismatches and resubmissions are no-ops.
func (r *Room) SubmitClue(callerID, clue string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[callerID]
	if !ok || r.stage != StageClue || player.Clue != "" {
		return nil
	}

	clue = strings.TrimSpace(clue)
	if runes := []rune(clue); len(runes) > maxClueLength {
		clue = string(runes[:maxClueLength])
	}
	player.Clue = clue

	if r.allCluesSubmittedLocked() {
		r.stage = StageDiscussion
		r.cluesRevealed = true
	}

	r.touchLocked()
	r.broadcastUpdateLocked()

	return nil
}

// AdvanceDiscussion moves the room from discussion to voting. All votes
// are cleared so earlier rounds never leak into the new voting phase.
func (r *Room) AdvanceDiscussion(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostID != callerID {
		return errNotHost
	}
	if r.stage != StageDiscussion {
		return errInvalidStage
	}

	r.stage = StageVote
	r.votesRevealed = false
	for _, p := range r.players {
		p.Vote = ""
	}

	r.touchLocked()
	r.broadcastUpdateLocked()

	return nil
}

// SubmitVote stores the caller's vote; voting again before the round
// resolves overwrites the previous vote. Once every member has voted the
// room advances to reveal and the outcome is broadcast.
func (r *Room) SubmitVote(callerID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[callerID]
	if !ok || r.stage != StageVote {
		return nil
	}

	player.Vote = targetID

	if !r.allVotesSubmittedLocked() {
		r.touchLocked()
		r.broadcastUpdateLocked()

		return nil
	}

	r.stage = StageReveal
	r.votesRevealed = true

	r.touchLocked()
	r.broadcastUpdateLocked()

	reveal := RoundRevealMessage{
		Type:         "round:reveal",
		ImpostorID:   r.impostorID,
		EliminatedID: r.tallyVotesLocked(),
	}
	if r.wordPair != nil {
		reveal.WordPair = *r.wordPair
	}
	r.broadcastLocked(reveal)

	return nil
}

// ResetRound clears all round state and returns the room to the lobby.
func (r *Room) ResetRound(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostID != callerID {
		return errNotHost
	}

	r.resetLocked()
	r.touchLocked()
	r.broadcastUpdateLocked()

	return nil
}

// Summary returns the public snapshot of the room.
func (r *Room) Summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.summaryLocked()
}

// HasPlayer reports whether the given id is a current member.
func (r *Room) HasPlayer(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.players[id]
	return ok
}

// IdleSince returns the time of the last operation on this room.
func (r *Room) IdleSince() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastActive
}

// Expire closes an idle room, notifying any remaining members. Used by
// the registry reaper; safe to call more than once.
func (r *Room) Expire() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	r.broadcastLocked(RoomErrorMessage{
		Type:    "room:error",
		Message: "Session expired due to inactivity.",
	})
}

func (r *Room) resetLocked() {
	r.stage = StageLobby
	r.wordPair = nil
	r.impostorID = ""
	r.cluesRevealed = false
	r.votesRevealed = false

	for _, p := range r.players {
		p.Clue = ""
		p.Vote = ""
		p.word = ""
		p.isImpostor = false
	}
}

func (r *Room) allCluesSubmittedLocked() bool {
	for _, p := range r.players {
		if p.Clue == "" {
			return false
		}
	}
	return true
}

func (r *Room) allVotesSubmittedLocked() bool {
	for _, p := range r.players {
		if p.Vote == "" {
			return false
		}
	}
	return true
}

// tallyVotesLocked picks the vote target with the strictly greatest count.
// Ties go to whichever target was tallied first; tally order follows join
// order, so the result is deterministic. Votes for departed players are
// counted but cannot win.
func (r *Room) tallyVotesLocked() string {
	counts := make(map[string]int)
	var order []string

	for _, id := range r.joinOrder {
		target := r.players[id].Vote
		if target == "" {
			continue
		}
		if _, seen := counts[target]; !seen {
			order = append(order, target)
		}
		counts[target]++
	}

	eliminated := ""
	best := 0
	for _, target := range order {
		if _, ok := r.players[target]; !ok {
			continue
		}
		if counts[target] > best {
			best = counts[target]
			eliminated = target
		}
	}

	return eliminated
}

func playerSummary(p *Player) PlayerSummary {
	return PlayerSummary{
		ID:     p.ID,
		Name:   p.Name,
		IsHost: p.IsHost,
		Clue:   p.Clue,
		Vote:   p.Vote,
	}
}

func (r *Room) summaryLocked() RoomSummary {
	players := make([]PlayerSummary, 0, len(r.players))
	for _, id := range r.joinOrder {
		players = append(players, playerSummary(r.players[id]))
	}

	sort.Slice(players, func(i, j int) bool {
		return strings.ToLower(players[i].Name) < strings.ToLower(players[j].Name)
	})

	return RoomSummary{
		Type:          "room:update",
		Code:          r.code,
		HostID:        r.hostID,
		Stage:         r.stage,
		Players:       players,
		CluesRevealed: r.cluesRevealed,
		VotesRevealed: r.votesRevealed,
	}
}

func (r *Room) broadcastUpdateLocked() {
	r.broadcastLocked(r.summaryLocked())
}

func (r *Room) broadcastLocked(msg any) {
	for _, id := range r.joinOrder {
		r.players[id].out.Deliver(msg)
	}
}

func (r *Room) touchLocked() {
	r.lastActive = time.Now()
}
