package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type responder struct{ c *gin.Context }

// wantsText reports whether the client asked for plaintext. JSON is the default.
func (r responder) wantsText() bool {
	accept := strings.ToLower(r.c.GetHeader("Accept"))
	return strings.Contains(accept, "text/plain") && !strings.Contains(accept, "application/json")
}

func (r responder) err(status int, msg string) {
	if r.wantsText() {
		r.c.String(status, msg)
		return
	}
	r.c.JSON(status, gin.H{"error": msg})
}

func (r responder) ok(text string, payload gin.H, requestID string) {
	if r.wantsText() {
		r.c.String(http.StatusOK, text+"\nrequest_id: "+requestID)
		return
	}
	out := gin.H{"request_id": requestID}
	for k, v := range payload {
		out[k] = v
	}
	r.c.JSON(http.StatusOK, out)
}
