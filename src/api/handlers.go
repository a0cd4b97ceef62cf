package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lost-woods/dice/src/rng"
	"github.com/lost-woods/dice/src/roller"
)

type Handlers struct {
	handle *roller.Handle
	r      io.Reader
	health *rng.Health
	log    *zap.SugaredLogger
}

// NewHandlers serves the roller behind handle. r is the same entropy stream
// the roller draws from and also feeds request ids.
func NewHandlers(handle *roller.Handle, r io.Reader, h *rng.Health, log *zap.SugaredLogger) *Handlers {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handlers{handle: handle, r: r, health: h, log: log}
}

func (h *Handlers) rngOK(c *gin.Context) bool {
	if h.health == nil {
		responder{c}.err(http.StatusServiceUnavailable, "RNG unhealthy: missing health monitor")
		return false
	}

	ok, msg, _ := h.health.Snapshot()
	if ok {
		return true
	}

	responder{c}.err(http.StatusServiceUnavailable, "RNG unhealthy: "+msg)
	return false
}

func (h *Handlers) uuidFromRNG() (string, error) {
	id, err := rng.NewUUIDv4FromRNG(h.r)
	if err != nil && h.health != nil {
		h.health.Set(false, "error fetching random bytes for uuid: "+err.Error())
	}
	return id, err
}

type workFunc func(dr *roller.DiceRoller) (text string, payload gin.H, status int, errMsg string)

/*
handleRoller enforces:
1. RNG health check (request ids draw from the source, so every endpoint needs it)
2. Outcome computation under the roller lock
3. Error handling
4. UUID generation ONLY after success
5. JSON vs plaintext response
*/
func (h *Handlers) handleRoller(c *gin.Context, work workFunc) {
	if !h.rngOK(c) {
		return
	}

	var (
		text    string
		payload gin.H
		status  int
		errMsg  string
	)
	_ = h.handle.Do(func(dr *roller.DiceRoller) error {
		text, payload, status, errMsg = work(dr)
		return nil
	})
	if errMsg != "" {
		responder{c}.err(status, errMsg)
		return
	}

	requestID, err := h.uuidFromRNG()
	if err != nil {
		responder{c}.err(http.StatusInternalServerError, "Error generating request id.")
		return
	}

	responder{c}.ok(text, payload, requestID)
}

func CheckHeader(headerName, expectedValue string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Auth disabled if not configured
		if expectedValue == "" {
			c.Next()
			return
		}

		if c.GetHeader(headerName) != expectedValue {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
