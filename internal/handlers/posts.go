package handlers

import (
	"fmt"
	"net/http"

	"blog/internal/service"

	"github.com/gin-gonic/gin"
)

// postRequest accepts JSON or form-encoded bodies.
type postRequest struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
}

// PostRequest is an exported model for Swagger docs of the post payload.
type PostRequest struct {
	// Post title, at most 100 characters
	Title string `json:"title" example:"A good title"`
	// Post body
	Content string `json:"content" example:"Nice body content"`
}

func (r postRequest) input() service.PostInput {
	return service.PostInput{Title: r.Title, Content: r.Content}
}

func (h *Handler) bindPost(c *gin.Context) (postRequest, bool) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return req, false
	}
	return req, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List posts
// @Description  Newest first, paginated.
// @Tags         posts
// @Produce      json
// @Param        page  query     int  false  "Page number (1-based)"
// @Success      200   {object}  service.PostPage
// @Failure      404   {object}  map[string]string
// @Router       / [get]
func (h *Handler) listPosts(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	pg, err := h.services.ListPosts(c.Request.Context(), page)
	if err != nil {
		h.respondServiceError(c, err, "post_list_failed", "page", page)
		return
	}
	c.JSON(http.StatusOK, pg)
}

// @Summary      List posts of one author
// @Tags         posts
// @Produce      json
// @Param        username  path      string  true   "Author username"
// @Param        page      query     int     false  "Page number (1-based)"
// @Success      200       {object}  map[string]interface{}  "author, posts page"
// @Failure      404       {object}  map[string]string
// @Router       /user/{username} [get]
func (h *Handler) userPosts(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	username := c.Param("username")
	pg, err := h.services.ListPostsByAuthor(c.Request.Context(), username, page)
	if err != nil {
		h.respondServiceError(c, err, "post_list_by_author_failed", "username", username, "page", page)
		return
	}
	c.JSON(http.StatusOK, gin.H{"author": username, "page": pg})
}

// @Summary      Post detail
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  models.Post
// @Failure      404  {object}  map[string]string
// @Router       /post/{id}/ [get]
func (h *Handler) postDetail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.services.GetPost(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "post_get_failed", "post_id", id)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Empty post form
// @Tags         posts
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      302  {string}  string  "redirect to login"
// @Router       /post/new/ [get]
func (h *Handler) createPostForm(c *gin.Context) {
	if !h.enforce(c, service.RequireAuthenticated(currentActor(c))) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": PostRequest{}})
}

// @Summary      Create post
// @Description  The current user becomes the author.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      PostRequest  true  "Post payload"
// @Success      201   {object}  models.Post
// @Failure      302   {string}  string  "redirect to login"
// @Failure      400   {object}  map[string]string
// @Router       /post/new/ [post]
func (h *Handler) createPost(c *gin.Context) {
	actor := currentActor(c)
	if !h.enforce(c, service.RequireAuthenticated(actor)) {
		return
	}
	req, ok := h.bindPost(c)
	if !ok {
		return
	}
	p, err := h.services.CreatePost(c.Request.Context(), actor, req.input())
	if err != nil {
		h.respondServiceError(c, err, "post_create_failed", "user_id", actor.UserID)
		return
	}
	c.Header("Location", fmt.Sprintf("/post/%d/", p.ID))
	c.JSON(http.StatusCreated, p)
}

// @Summary      Edit form of a post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      302  {string}  string  "redirect to login"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /post/{id}/update/ [get]
func (h *Handler) updatePostForm(c *gin.Context) {
	h.postForAuthor(c, "post_edit_form_failed", func(c *gin.Context, p interface{}) {
		c.JSON(http.StatusOK, gin.H{"post": p})
	})
}

// @Summary      Update post
// @Description  Only the author may update a post.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Post ID"
// @Param        body  body      PostRequest  true  "Post payload"
// @Success      200   {object}  models.Post
// @Failure      302   {string}  string  "redirect to login"
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /post/{id}/update/ [post]
func (h *Handler) updatePost(c *gin.Context) {
	actor := currentActor(c)
	if !h.enforce(c, service.RequireAuthenticated(actor)) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := h.bindPost(c)
	if !ok {
		return
	}
	p, err := h.services.UpdatePost(c.Request.Context(), actor, id, req.input())
	if err != nil {
		h.respondServiceError(c, err, "post_update_failed", "post_id", id, "user_id", actor.UserID)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete confirmation
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      302  {string}  string  "redirect to login"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /post/{id}/delete/ [get]
func (h *Handler) deletePostConfirm(c *gin.Context) {
	h.postForAuthor(c, "post_delete_confirm_failed", func(c *gin.Context, p interface{}) {
		c.JSON(http.StatusOK, gin.H{"post": p, "confirm": true})
	})
}

// @Summary      Delete post
// @Description  Only the author may delete a post. Redirects to the post list.
// @Tags         posts
// @Param        id   path      int  true  "Post ID"
// @Success      302  {string}  string  "redirect to /"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /post/{id}/delete/ [post]
func (h *Handler) deletePost(c *gin.Context) {
	actor := currentActor(c)
	if !h.enforce(c, service.RequireAuthenticated(actor)) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.services.DeletePost(c.Request.Context(), actor, id); err != nil {
		h.respondServiceError(c, err, "post_delete_failed", "post_id", id, "user_id", actor.UserID)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// postForAuthor loads the post at :id for its author and hands it to render.
func (h *Handler) postForAuthor(c *gin.Context, logKey string, render func(*gin.Context, interface{})) {
	actor := currentActor(c)
	if !h.enforce(c, service.RequireAuthenticated(actor)) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.services.GetPostForEdit(c.Request.Context(), actor, id)
	if err != nil {
		h.respondServiceError(c, err, logKey, "post_id", id, "user_id", actor.UserID)
		return
	}
	render(c, p)
}
