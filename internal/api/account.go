package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/youruser/frycards/internal/deck"
	"github.com/youruser/frycards/internal/deckcode"
	"github.com/youruser/frycards/internal/realtime"
	"github.com/youruser/frycards/internal/state"
)

func (s *Server) dashboardHandler(c *gin.Context) {
	sess := sessionFrom(c)
	d := state.NewDashboard(s.Gateway.WithTokens(sess), sess.UserID(), s.logger())
	snap, err := d.Refresh(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) listDecks(c *gin.Context) {
	sess := sessionFrom(c)
	ds, err := s.Gateway.WithTokens(sess).ListDecks(c.Request.Context(), sess.UserID())
	if err != nil {
		writeError(c, err)
		return
	}
	if ds == nil {
		ds = []deck.Deck{}
	}
	c.JSON(http.StatusOK, gin.H{"decks": ds})
}

type importDeckRequest struct {
	Name     string `json:"name"`
	LeaderID string `json:"leader_id"`
	Code     string `json:"code"`
}

// importDeck saves a deck pasted as a deck code.
func (s *Server) importDeck(c *gin.Context) {
	var req importDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ids, err := deckcode.Decode(req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	switch {
	case req.LeaderID == "":
		writeError(c, deck.ErrNoLeader)
		return
	case len(ids) < deck.MinCards:
		writeError(c, deck.ErrTooFewCards)
		return
	case len(ids) > deck.MaxCards:
		writeError(c, deck.ErrDeckFull)
		return
	}
	name := req.Name
	if name == "" {
		name = "Imported Deck"
	}

	sess := sessionFrom(c)
	saved, err := s.Gateway.WithTokens(sess).CreateDeck(c.Request.Context(), deck.Deck{
		Name:     name,
		LeaderID: req.LeaderID,
		CardIDs:  ids,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// notificationStream relays inserts into the caller's notifications as
// server-sent events until the client goes away.
func (s *Server) notificationStream(c *gin.Context) {
	sess := sessionFrom(c)
	uid := sess.UserID()
	ctx := c.Request.Context()

	rt, err := realtime.New(realtime.Config{
		BaseURL: s.Realtime.BaseURL,
		AnonKey: s.Realtime.AnonKey,
		Logger:  s.logger(),
	}, sess)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := rt.Connect(ctx); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "realtime unavailable"})
		return
	}
	// the socket lives no longer than the session
	sess.OnClose(func() { _ = rt.Close() })

	events := make(chan json.RawMessage, 16)
	_, err = rt.Join(ctx, "notifs_"+uid, []realtime.Filter{{
		Event:  "INSERT",
		Schema: "public",
		Table:  "notifications",
		Filter: "user_id=eq." + uid,
	}}, func(ch realtime.Change) {
		select {
		case events <- ch.Record:
		default:
			s.logger().Warn("dropping notification", slog.String("user_id", uid))
		}
	})
	if err != nil {
		writeError(c, err)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := rt.Run(ctx); err != nil && ctx.Err() == nil {
			s.logger().Warn("notification stream ended", slog.String("error", err.Error()))
		}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case rec := <-events:
			c.SSEvent("notification", rec)
			return true
		case <-done:
			return false
		case <-ctx.Done():
			return false
		}
	})
	sess.Close()
	<-done
}
