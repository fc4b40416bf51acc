package handlers

import (
	"errors"
	"net/http"
	"strings"

	"blog/internal/service"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username        string `json:"username" form:"username" binding:"required"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Next     string `json:"next" form:"next"`
}

// RegisterRequest is an exported model for Swagger docs of sign-up.
type RegisterRequest struct {
	Username        string `json:"username" example:"alice"`
	Email           string `json:"email" example:"alice@example.com"`
	Password        string `json:"password" example:"s3cret-pass"`
	PasswordConfirm string `json:"password_confirm" example:"s3cret-pass"`
}

// LoginRequest is an exported model for Swagger docs of sign-in.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"s3cret-pass"`
	Next     string `json:"next" example:"/post/new/"`
}

// bindOrBadRequest binds a JSON or form body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled.
func (h *Handler) bindOrBadRequest(c *gin.Context, dst any, logKey string) bool {
	if err := c.ShouldBind(dst); err != nil {
		h.log.Infow(logKey, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Register
// @Description  Creates a user and its profile.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Credentials"
// @Success      201   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Router       /register/ [post]
func (h *Handler) register(c *gin.Context) {
	var input registerRequest
	if !h.bindOrBadRequest(c, &input, "auth_register_bad_body") {
		return
	}
	if input.PasswordConfirm != "" && input.PasswordConfirm != input.Password {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		h.respondServiceError(c, err, "auth_register_failed", "username", input.Username)
		return
	}
	h.log.Infow("auth_registered", "user_id", id, "username", input.Username)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// @Summary      Login form
// @Description  Tells the client that credentials are needed and where to go afterwards.
// @Tags         auth
// @Produce      json
// @Param        next  query     string  false  "Path to return to after login"
// @Success      200   {object}  map[string]interface{}
// @Router       /login/ [get]
func (h *Handler) loginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"login_required": true,
		"next":           safeNext(c.Query("next")),
	})
}

// @Summary      Login
// @Description  Returns a JWT and sets it as the session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login/ [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if !h.bindOrBadRequest(c, &input, "auth_login_bad_body") {
		return
	}
	if input.Next == "" {
		input.Next = c.Query("next")
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidPassword) {
			h.log.Infow("auth_login_failed", "username", input.Username, "err", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_login_failed", err, "username", input.Username)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"redirect": safeNext(input.Next),
	})
}

// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout/ [post]
func (h *Handler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": statusLoggedOut})
}

// safeNext accepts only local absolute paths and falls back to the post list.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}
