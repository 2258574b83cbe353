package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/youruser/frycards/internal/cards"
	"github.com/youruser/frycards/internal/prefs"
)

func (s *Server) filterHandler(c *gin.Context) {
	var opt cards.FilterOptions
	if err := c.ShouldBindJSON(&opt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out := cards.Filter(s.Catalog, opt)
	c.JSON(http.StatusOK, gin.H{"cards": out, "count": len(out)})
}

func (s *Server) getAudioPrefs(c *gin.Context) {
	a, err := s.Prefs.LoadAudio(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) patchAudioPrefs(c *gin.Context) {
	var p prefs.AudioPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := s.Prefs.PatchAudio(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) getTutorial(c *gin.Context) {
	done, err := s.Prefs.TutorialDone(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"done": done})
}

func (s *Server) putTutorial(c *gin.Context) {
	var req struct {
		Done bool `json:"done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Prefs.SetTutorialDone(c.Request.Context(), req.Done); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"done": req.Done})
}
