package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"blog/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusLoggedOut = "logged_out"

	errInternal        = "internal error"
	errForbidden       = "you are not allowed to modify this post"
	errNotFound        = "not found"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps service errors onto HTTP responses. Anything
// unrecognised is logged under logKey and answered with 500.
func (h *Handler) respondServiceError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrLoginRequired):
		h.redirectToLogin(c)
	case errors.Is(err, service.ErrForbidden):
		h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, kv...)
	}
}

// pathID parses the :id parameter; non-numeric ids answer 404 like an unknown post.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
		return 0, false
	}
	return id, true
}

// pageParam parses ?page=, defaulting to 1; garbage answers 404.
func pageParam(c *gin.Context) (int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
		return 0, false
	}
	return page, true
}
