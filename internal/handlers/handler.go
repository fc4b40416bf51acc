package handlers

import (
	"time"

	_ "blog/docs" // swagger spec
	"blog/internal/logger"
	"blog/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultLoginURL = "/login/"

// Options configures the HTTP layer.
type Options struct {
	LoginURL       string   // redirect target for anonymous access to protected pages
	AllowedOrigins []string // CORS; empty disables the middleware
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies. A nil log discards output.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if opts.LoginURL == "" {
		opts.LoginURL = defaultLoginURL
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)
	if len(h.opts.AllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(h.opts.AllowedOrigins)))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	site := router.Group("/", h.actorMiddleware)
	{
		h.registerAuthRoutes(site)
		h.registerBlogRoutes(site)
		site.GET("/ws", h.wsConnect)
	}

	// Versioned API endpoints (bearer token only)
	h.registerAPIRoutes(router)

	return router
}

// corsConfig allows credentials only for explicit origins, never with "*".
func corsConfig(origins []string) cors.Config {
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
			break
		}
	}
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: !wildcard,
		MaxAge:           12 * time.Hour,
	}
	if wildcard {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (h *Handler) registerAuthRoutes(r *gin.RouterGroup) {
	r.POST("/register/", h.register)
	r.GET("/login/", h.loginForm)
	r.POST("/login/", h.login)
	r.POST("/logout/", h.logout)
	r.GET("/profile/", h.profile)
	r.POST("/profile/", h.updateProfile)
}

func (h *Handler) registerBlogRoutes(r *gin.RouterGroup) {
	r.GET("/", h.listPosts)
	r.GET("/user/:username", h.userPosts)

	post := r.Group("/post")
	{
		post.GET("/new/", h.createPostForm)
		post.POST("/new/", h.createPost)
		post.GET("/:id/", h.postDetail)
		post.GET("/:id/update/", h.updatePostForm)
		post.POST("/:id/update/", h.updatePost)
		post.GET("/:id/delete/", h.deletePostConfirm)
		post.POST("/:id/delete/", h.deletePost)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.apiAuthMiddleware)
	{
		api.GET("/activity", h.getActivity)
		api.GET("/posts/:id/activity", h.getPostActivity)
	}
}
