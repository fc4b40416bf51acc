package handlers

import (
	"net/http"

	"blog/internal/service"

	"github.com/gin-gonic/gin"
)

// profileRequest carries optional account changes; absent fields stay untouched.
type profileRequest struct {
	Username *string `json:"username" form:"username"`
	Email    *string `json:"email" form:"email"`
	Image    *string `json:"image" form:"image"`
	Bio      *string `json:"bio" form:"bio"`
}

// ProfileRequest is an exported model for Swagger docs of the profile update.
type ProfileRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Image    string `json:"image" example:"alice.jpg"`
	Bio      string `json:"bio" example:"Writes about Go"`
}

// @Summary      Current account
// @Tags         profile
// @Produce      json
// @Success      200  {object}  service.Account
// @Failure      302  {string}  string  "redirect to login"
// @Router       /profile/ [get]
func (h *Handler) profile(c *gin.Context) {
	actor := currentActor(c)
	if !h.enforce(c, service.RequireAuthenticated(actor)) {
		return
	}
	acc, err := h.services.GetAccount(c.Request.Context(), actor.UserID)
	if err != nil {
		h.respondServiceError(c, err, "profile_get_failed", "user_id", actor.UserID)
		return
	}
	c.JSON(http.StatusOK, acc)
}

// @Summary      Update account
// @Description  Saves the user and its profile together.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      ProfileRequest  true  "Fields to change"
// @Success      200   {object}  service.Account
// @Failure      302   {string}  string  "redirect to login"
// @Failure      400   {object}  map[string]string
// @Router       /profile/ [post]
func (h *Handler) updateProfile(c *gin.Context) {
	actor := currentActor(c)
	if !h.enforce(c, service.RequireAuthenticated(actor)) {
		return
	}
	var req profileRequest
	if !h.bindOrBadRequest(c, &req, "profile_bad_body") {
		return
	}

	acc, err := h.services.UpdateAccount(c.Request.Context(), actor.UserID, service.AccountUpdate{
		Username: req.Username,
		Email:    req.Email,
		Image:    req.Image,
		Bio:      req.Bio,
	})
	if err != nil {
		h.respondServiceError(c, err, "profile_update_failed", "user_id", actor.UserID)
		return
	}
	c.JSON(http.StatusOK, acc)
}
