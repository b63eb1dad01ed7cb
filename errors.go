/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Game errors are recoverable and reported only to the connection that
// triggered them, as a room:error message. They never reach other members.
var (
	errRoomNotFound        = errors.New("Room not found.")
	errNameTaken           = errors.New("Name already in use in this room.")
	errEmptyName           = errors.New("Name cannot be empty.")
	errNotHost             = errors.New("Only the host can do that.")
	errInsufficientPlayers = errors.New("Need at least 3 players to start a round.")
	errNoWordPairs         = errors.New("No word pairs available. Add more to keep the party going!")
	errInvalidStage        = errors.New("That action is not available right now.")
	errCodesExhausted      = errors.New("Unable to allocate a room code. Try again.")
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
