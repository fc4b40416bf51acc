package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"blog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxActorKey   = "actor"
	sessionCookie = "session"
)

// bearerToken returns the token of an "Authorization: Bearer <token>" header, or "".
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// actorMiddleware resolves the optional current actor from a bearer token or
// the session cookie. Missing or invalid credentials leave the request anonymous.
func (h *Handler) actorMiddleware(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		token, _ = c.Cookie(sessionCookie)
	}
	if token == "" {
		c.Next()
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		h.log.Debugw("actor_token_rejected", "err", err)
		c.Next()
		return
	}
	if !h.resolveActor(c, userID) {
		return
	}
	c.Next()
}

// apiAuthMiddleware rejects requests without a valid bearer token.
func (h *Handler) apiAuthMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	token := bearerToken(header)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}
	if !h.resolveActor(c, userID) {
		return
	}
	if currentActor(c) == nil {
		// token outlived its user
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}
	c.Next()
}

// resolveActor stores the actor of userID in the context. It returns false
// when the request was already answered.
func (h *Handler) resolveActor(c *gin.Context, userID int) bool {
	actor, err := h.services.ResolveActor(c.Request.Context(), userID)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "actor_resolve_failed", err, "user_id", userID)
		c.Abort()
		return false
	}
	if actor != nil {
		c.Set(ctxActorKey, actor)
	}
	return true
}

// currentActor returns nil for anonymous requests.
func currentActor(c *gin.Context) *service.Actor {
	v, ok := c.Get(ctxActorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*service.Actor)
	return actor
}

// redirectToLogin sends the client to the login page with the current path as next.
func (h *Handler) redirectToLogin(c *gin.Context) {
	target := h.opts.LoginURL + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// enforce applies a guard decision. It returns false when the request was answered.
func (h *Handler) enforce(c *gin.Context, d service.Decision) bool {
	switch d {
	case service.Allow:
		return true
	case service.LoginRequired:
		h.redirectToLogin(c)
	default:
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errForbidden})
	}
	return false
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	}
	if actor := currentActor(c); actor != nil {
		fields = append(fields, "actor", actor.Username)
	}
	h.log.Infow("http_request", fields...)
}
