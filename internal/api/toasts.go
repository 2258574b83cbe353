package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/youruser/frycards/internal/state"
)

// toastHub keeps one toast queue per user so notices raised by one request
// can be read by the next.
type toastHub struct {
	ttl time.Duration

	mu     sync.Mutex
	queues map[string]*state.Toasts
}

func newToastHub(ttl time.Duration) *toastHub {
	return &toastHub{ttl: ttl, queues: map[string]*state.Toasts{}}
}

func (h *toastHub) forUser(userID string) *state.Toasts {
	h.mu.Lock()
	defer h.mu.Unlock()
	q, ok := h.queues[userID]
	if !ok {
		q = state.NewToasts(h.ttl)
		h.queues[userID] = q
	}
	return q
}

func (h *toastHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, q := range h.queues {
		q.Close()
		delete(h.queues, id)
	}
}

// notify queues a toast for the caller.
func (s *Server) notify(c *gin.Context, message string, kind state.ToastKind) {
	s.toasts.forUser(sessionFrom(c).UserID()).Show(message, kind)
}

// fail reports err to the caller and queues it as an error toast.
func (s *Server) fail(c *gin.Context, err error) {
	_, msg := statusFor(err)
	s.notify(c, msg, state.ToastError)
	writeError(c, err)
}

func (s *Server) listToasts(c *gin.Context) {
	list := s.toasts.forUser(sessionFrom(c).UserID()).List()
	if list == nil {
		list = []state.Toast{}
	}
	c.JSON(http.StatusOK, gin.H{"toasts": list})
}

func (s *Server) dismissToast(c *gin.Context) {
	s.toasts.forUser(sessionFrom(c).UserID()).Remove(c.Param("id"))
	c.Status(http.StatusNoContent)
}
