package service

import (
	"context"
	"time"

	"blog/internal/models"
	"blog/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, email, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	// ResolveActor returns nil when the user no longer exists.
	ResolveActor(ctx context.Context, userID int) (*Actor, error)
}

// Accounts exposes the user-update path, which keeps the profile in sync.
type Accounts interface {
	GetAccount(ctx context.Context, userID int) (Account, error)
	UpdateAccount(ctx context.Context, userID int, u AccountUpdate) (Account, error)
}

// Posts is the post CRUD authority. A nil actor is an anonymous request.
type Posts interface {
	ListPosts(ctx context.Context, page int) (PostPage, error)
	ListPostsByAuthor(ctx context.Context, username string, page int) (PostPage, error)
	GetPost(ctx context.Context, id int) (models.Post, error)
	CreatePost(ctx context.Context, actor *Actor, in PostInput) (models.Post, error)
	GetPostForEdit(ctx context.Context, actor *Actor, id int) (models.Post, error)
	UpdatePost(ctx context.Context, actor *Actor, id int, in PostInput) (models.Post, error)
	DeletePost(ctx context.Context, actor *Actor, id int) error
}

// ActivityLog exposes the append-only post activity log with filtering.
type ActivityLog interface {
	List(ctx context.Context, f LogFilter) ([]models.PostEvent, error)
}

// Options carries the tunables read from config.
type Options struct {
	SigningKey string
	TokenTTL   time.Duration
	PageSize   int
}

const (
	defaultTokenTTL = time.Hour
	defaultPageSize = 5
)

func (o Options) withDefaults() Options {
	if o.TokenTTL <= 0 {
		o.TokenTTL = defaultTokenTTL
	}
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	return o
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Accounts
	Posts
	Activity ActivityLog
}

func NewService(repos *repository.Repository, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		Authorization: NewAuthService(repos, repos.Users, opts),
		Accounts:      NewAccountService(repos, repos.Users, repos.Profiles),
		Posts:         NewPostService(repos, repos.Posts, repos.Users, opts.PageSize),
		Activity:      NewActivityService(repos.Events),
	}
}
