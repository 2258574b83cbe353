package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/youruser/frycards/internal/cards"
	"github.com/youruser/frycards/internal/gateway"
	"github.com/youruser/frycards/internal/prefs"
	"github.com/youruser/frycards/internal/state"
)

// Server carries the dependencies the handlers share.
type Server struct {
	Catalog  []cards.Card
	Gateway  *gateway.Client
	Prefs    *prefs.Store
	Realtime RealtimeConfig
	// Assets warms card images revealed by opened packs.
	Assets *state.Preloader
	Log    *slog.Logger

	toasts *toastHub
}

// RealtimeConfig locates the row-change websocket.
type RealtimeConfig struct {
	BaseURL string
	AnonKey string
}

func (s *Server) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

// NewEngine returns a gin engine with the middleware stack and routes.
func NewEngine(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(s.logger()), gin.Recovery())
	RegisterRoutes(r, s)
	return r
}

// Close drops the queued toasts.
func (s *Server) Close() {
	if s.toasts != nil {
		s.toasts.close()
	}
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	if s.toasts == nil {
		s.toasts = newToastHub(state.DefaultToastTTL)
	}
	api := r.Group("/api")
	{
		api.GET("/health", health)

		api.POST("/deckcode/encode", encodeDeckCode)
		api.POST("/deckcode/decode", decodeDeckCode)
		api.GET("/deckcode/detect", detectDeckCode)
		api.GET("/deckcode/qr", deckCodeQR)

		api.POST("/deck/export", exportDeck)
		api.POST("/deck/image", deckImageHandler)

		api.POST("/cards/filter", s.filterHandler)

		api.GET("/assets/progress", s.assetProgress)

		api.GET("/prefs/audio", s.getAudioPrefs)
		api.PATCH("/prefs/audio", s.patchAudioPrefs)
		api.GET("/prefs/tutorial", s.getTutorial)
		api.PUT("/prefs/tutorial", s.putTutorial)

		me := api.Group("/me", requireSession())
		{
			me.GET("/dashboard", s.dashboardHandler)
			me.GET("/decks", s.listDecks)
			me.POST("/decks/import", s.importDeck)
			me.GET("/notifications/stream", s.notificationStream)
			me.GET("/toasts", s.listToasts)
			me.DELETE("/toasts/:id", s.dismissToast)

			me.GET("/collection", s.getCollection)
			me.POST("/cards/seen", s.markCardsSeen)
			me.GET("/packs", s.listPacks)
			me.POST("/packs/open", s.openPack)
			me.POST("/daily/claim", s.claimDaily)
			me.POST("/missions/:id/claim", s.claimMission)
			me.POST("/quests/:id/claim", s.claimQuest)
			me.POST("/season-pass/claim", s.claimSeasonPass)
			me.GET("/leaderboard", s.leaderboard)
			me.POST("/trades", s.createTrade)
			me.POST("/trades/:id/respond", s.respondTrade)
			me.POST("/market/listings", s.createListing)
			me.POST("/market/listings/:id/buy", s.buyListing)
		}
	}
}
