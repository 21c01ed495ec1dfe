package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	log "github.com/sirupsen/logrus"

	"github.com/jason-s-yu/donut/service/internal/game"
)

// eventBuffer bounds the events queued for one connection.
const eventBuffer = 32

// Client message types.
const (
	MsgMove  = "move"
	MsgReset = "reset"
	MsgSync  = "sync"
)

// ClientMessage is what the browser sends over the socket.
type ClientMessage struct {
	Type     string         `json:"type"`
	Choice   *int           `json:"choice,omitempty"`
	Settings *game.Settings `json:"settings,omitempty"`
}

// GET /games/{id}/ws?token=
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := s.signer.Authorize(r.URL.Query().Get("token"), g.ID); err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.WithField("game", g.ID).Warnf("WebSocket accept failed: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := make(chan game.GameEvent, eventBuffer)
	send := func(ev game.GameEvent) {
		select {
		case events <- ev:
		default:
			log.WithField("game", g.ID).Warnf("Dropping %s event for slow client.", ev.Type)
		}
	}

	detach := g.Attach(send)
	log.Printf("Game %s: client connected from %s.", g.ID, r.RemoteAddr)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for ev := range events {
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				log.Debugf("Game %s: write failed: %v", g.ID, err)
				cancel()
				return
			}
		}
	}()

	g.SyncState()
	s.readLoop(ctx, conn, g, send)

	// Detach before closing the queue so no broadcast can hit a closed channel.
	detach()
	close(events)
	<-writerDone

	conn.Close(websocket.StatusNormalClosure, "")
	log.Printf("Game %s: client disconnected.", g.ID)
}

// readLoop handles client messages until the connection or ctx ends.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, g *game.DonutGame, send func(game.GameEvent)) {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if !errors.Is(err, context.Canceled) {
					log.Debugf("Game %s: read failed: %v", g.ID, err)
				}
			}
			return
		}
		if err := s.dispatch(ctx, g, msg); err != nil {
			send(game.GameEvent{Type: game.EventError, Message: err.Error()})
		}
	}
}

// dispatch applies one client message. Results reach the client through the
// game's broadcasts.
func (s *Server) dispatch(ctx context.Context, g *game.DonutGame, msg ClientMessage) error {
	switch msg.Type {
	case MsgMove:
		if msg.Choice == nil {
			return errors.New("move needs a choice")
		}
		_, err := g.SubmitMove(*msg.Choice)
		return err
	case MsgReset:
		if msg.Settings == nil {
			return g.Restart(ctx)
		}
		return g.Reset(ctx, s.settingsFor(createGameRequest{
			Roster:     msg.Settings.Roster,
			ScoreLimit: msg.Settings.ScoreLimit,
			Seed:       msg.Settings.Seed,
		}))
	case MsgSync:
		g.SyncState()
		return nil
	default:
		return errors.New("unknown message type " + msg.Type)
	}
}
