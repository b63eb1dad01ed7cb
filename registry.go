/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
	"sync"
	"time"
)

// Room codes avoid easily-confused glyphs (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 4

// codeGenAttempts bounds code generation. With 31^4 possible codes the
// limit is unreachable in practice; it exists so a pathologically full
// registry degrades to an error instead of spinning forever.
const codeGenAttempts = 10000

// Registry is the process-wide mapping from room code to room. It exists
// behind an interface so a sharded or externally-backed store could be
// swapped in without touching room logic.
type Registry interface {
	NewCode() (string, error)
	Put(code string, room *Room)
	Get(code string) (*Room, bool)
	Delete(code string)
	Rooms() map[string]*Room
}

type roomRegistry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func newRegistry() *roomRegistry {
	return &roomRegistry{
		rooms: make(map[string]*Room),
	}
}

// NewCode generates a crypto-random room code and ensures it doesn't
// collide with an existing room.
func (rg *roomRegistry) NewCode() (string, error) {
	max := byte(255 - (256 % len(codeAlphabet)))

	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		buf := make([]byte, codeLength*2)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		out := make([]byte, 0, codeLength)
		for _, b := range buf {
			if b <= max {
				out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
				if len(out) == codeLength {
					break
				}
			}
		}
		if len(out) != codeLength {
			continue
		}
		code := string(out)

		rg.mu.Lock()
		_, exists := rg.rooms[code]
		rg.mu.Unlock()

		if !exists {
			return code, nil
		}
	}

	return "", errCodesExhausted
}

func (rg *roomRegistry) Put(code string, room *Room) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	rg.rooms[code] = room
}

func (rg *roomRegistry) Get(code string) (*Room, bool) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	room, ok := rg.rooms[code]
	return room, ok
}

func (rg *roomRegistry) Delete(code string) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	delete(rg.rooms, code)
}

// Rooms returns a snapshot of the current code→room mapping.
func (rg *roomRegistry) Rooms() map[string]*Room {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	snapshot := make(map[string]*Room, len(rg.rooms))
	for code, room := range rg.rooms {
		snapshot[code] = room
	}
	return snapshot
}

// reaperLoop periodically expires rooms that have been idle longer than
// idleTimeout.
func (rg *roomRegistry) reaperLoop(cfg *Config, idleTimeout time.Duration) {
	ticker := time.NewTicker(idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-idleTimeout)

		for code, room := range rg.Rooms() {
			if room.IdleSince().Before(cutoff) {
				rg.Delete(code)
				room.Expire()
				logf(cfg, "ROOMS: Expired idle room %s", code)
			}
		}
	}
}
