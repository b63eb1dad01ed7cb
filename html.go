/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Simple terminal-style client for quick testing
const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>whoisit</title>
<style>
  body { background: #0b0f0c; color: #9fef9f; font-family: ui-monospace, SFMono-Regular, Menlo, monospace; margin: 2rem; }
  #log { white-space: pre-wrap; min-height: 60vh; }
  #entry { width: 100%; background: transparent; border: none; border-top: 1px solid #2d5; color: inherit; font: inherit; padding: 0.5rem 0; outline: none; }
</style>
</head>
<body>
<div id="log"></div>
<input id="entry" autocomplete="off" placeholder="> HELP" autofocus>

<script>
(function() {
  const logEl = document.getElementById('log');
  const entry = document.getElementById('entry');

  let me = null;
  let room = null;
  let word = null;

  function print(text) {
    logEl.textContent += text + '\n';
    window.scrollTo(0, document.body.scrollHeight);
  }

  const proto = (location.protocol === 'https:') ? 'wss://' : 'ws://';
  const base = location.pathname.replace(/\/$/, '');
  const ws = new WebSocket(proto + location.host + base + '/ws');

  ws.onopen = function() {
    print('WHO IS IT? - IMPOSTOR DETECTION PROTOCOL');
    print('STATUS: READY FOR OPERATION');
    print(' ');
    print('COMMANDS: HOST [name] | JOIN [code] [name] | START | CLUE [text] | PROCEED | VOTE [n] | RESTART | LEAVE');
    const code = new URLSearchParams(location.search).get('code');
    if (code) print('SESSION CODE DETECTED: ' + code + ' - use JOIN ' + code + ' [name]');
  };

  ws.onclose = function() { print('LINK TERMINATED'); };

  ws.onmessage = function(event) {
    const msg = JSON.parse(event.data);

    switch (msg.type) {
    case 'room:joined':
      me = msg.player;
      print('SESSION JOINED - ID: ' + msg.room);
      break;
    case 'room:update':
      room = msg;
      print('STAGE: ' + room.stage.toUpperCase());
      room.players.forEach(function(p, i) {
        const tags = [p.isHost ? 'HOST' : 'AGENT'];
        if (me && p.id === me.id) tags.push('YOU');
        let line = '  [' + (i + 1) + '] ' + p.name + ' (' + tags.join(', ') + ')';
        if (room.cluesRevealed && p.clue) line += ' clue: "' + p.clue + '"';
        print(line);
      });
      break;
    case 'round:word':
      word = msg;
      print('CLASSIFIED BRIEFING - CATEGORY: ' + msg.category + ' - YOUR CODENAME: ' + msg.word);
      if (msg.isImpostor) print('WARNING: YOU ARE THE IMPOSTOR. BLEND IN.');
      break;
    case 'round:reveal':
      const find = function(id) {
        const p = room && room.players.find(function(p) { return p.id === id; });
        return p ? p.name : 'UNKNOWN';
      };
      print('IMPOSTOR IDENTIFIED: ' + find(msg.impostorId));
      print('ELIMINATED: ' + (msg.eliminatedId ? find(msg.eliminatedId) : 'NONE'));
      print('WORDS: shared "' + msg.wordPair.shared + '" / impostor "' + msg.wordPair.impostor + '"');
      print('MISSION ' + (msg.eliminatedId === msg.impostorId ? 'SUCCESS' : 'FAILURE'));
      break;
    case 'room:error':
      print('SYSTEM ERROR: ' + msg.message);
      break;
    }
  };

  function send(msg) { ws.send(JSON.stringify(msg)); }

  entry.addEventListener('keydown', function(e) {
    if (e.key !== 'Enter') return;
    const input = entry.value.trim();
    entry.value = '';
    if (!input) return;
    print('> ' + input);

    const space = input.indexOf(' ');
    const cmd = (space === -1 ? input : input.slice(0, space)).toUpperCase();
    const rest = space === -1 ? '' : input.slice(space + 1).trim();
    const code = room ? room.code : '';

    switch (cmd) {
    case 'HOST':
      send({ type: 'room:create', name: rest });
      break;
    case 'JOIN': {
      const parts = rest.split(/\s+(.*)/);
      send({ type: 'room:join', code: parts[0], name: parts[1] || '' });
      break;
    }
    case 'START':
      send({ type: 'round:start', code: code });
      break;
    case 'CLUE':
      send({ type: 'clue:submit', code: code, clue: rest });
      break;
    case 'PROCEED':
      send({ type: 'discussion:advance', code: code });
      break;
    case 'VOTE': {
      const target = room && room.players[parseInt(rest, 10) - 1];
      if (target) send({ type: 'vote:submit', code: code, targetId: target.id });
      break;
    }
    case 'RESTART':
      send({ type: 'round:reset', code: code });
      break;
    case 'LEAVE':
      send({ type: 'room:leave', code: code });
      room = null;
      me = null;
      break;
    default:
      print('AVAILABLE COMMANDS: HOST, JOIN, START, CLUE, PROCEED, VOTE, RESTART, LEAVE');
    }
  });
})();
</script>
</body>
</html>
`

func serveHomePage(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(indexHTML))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
