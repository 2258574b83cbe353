package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/youruser/frycards/internal/deck"
	"github.com/youruser/frycards/internal/deckcode"
	"github.com/youruser/frycards/internal/gateway"
	imagepkg "github.com/youruser/frycards/internal/image"
	"github.com/youruser/frycards/internal/session"
)

// statusFor maps an error to the HTTP status and message returned to the
// caller.
func statusFor(err error) (int, string) {
	var re *gateway.RemoteError
	var de *gateway.DecodeError
	switch {
	case errors.Is(err, deckcode.ErrMalformed):
		return http.StatusUnprocessableEntity, "invalid deck code"
	case errors.Is(err, imagepkg.ErrQRContent):
		return http.StatusUnprocessableEntity, "deck code too long for a QR code"
	case errors.Is(err, deck.ErrNoLeader),
		errors.Is(err, deck.ErrTooFewCards),
		errors.Is(err, deck.ErrDeckFull):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, gateway.ErrNotAuthenticated),
		errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrSignedOut):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, gateway.ErrNoRows):
		return http.StatusNotFound, "not found"
	case errors.As(err, &re):
		if re.Status >= 400 && re.Status < 500 {
			return re.Status, gateway.Message(err)
		}
		return http.StatusBadGateway, gateway.Message(err)
	case errors.As(err, &de):
		return http.StatusBadGateway, "unexpected response from backend"
	}
	return http.StatusInternalServerError, "internal error"
}

func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("error", err.Error()),
		)
	}
	c.JSON(status, gin.H{"error": msg})
}
