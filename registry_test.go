/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeFormat(t *testing.T) {
	rg := newRegistry()

	for i := 0; i < 100; i++ {
		code, err := rg.NewCode()
		require.NoError(t, err)

		assert.Len(t, code, codeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q in code %q", c, code)
		}
	}
}

func TestNewCodeAvoidsCollisions(t *testing.T) {
	rg := newRegistry()
	bank := defaultWordBank()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := rg.NewCode()
		require.NoError(t, err)

		assert.False(t, seen[code], "code %q generated twice", code)
		seen[code] = true
		rg.Put(code, newRoom(code, bank))
	}
}

func TestRegistryCRUD(t *testing.T) {
	rg := newRegistry()
	room := newRoom("ABCD", defaultWordBank())

	_, ok := rg.Get("ABCD")
	assert.False(t, ok)

	rg.Put("ABCD", room)

	got, ok := rg.Get("ABCD")
	require.True(t, ok)
	assert.Same(t, room, got)

	assert.Len(t, rg.Rooms(), 1)

	rg.Delete("ABCD")
	_, ok = rg.Get("ABCD")
	assert.False(t, ok)
	assert.Empty(t, rg.Rooms())
}

func TestRoomsReturnsSnapshot(t *testing.T) {
	rg := newRegistry()
	rg.Put("ABCD", newRoom("ABCD", defaultWordBank()))

	snapshot := rg.Rooms()
	rg.Delete("ABCD")

	// Mutating the registry does not affect an earlier snapshot.
	assert.Len(t, snapshot, 1)
	assert.Empty(t, rg.Rooms())
}
