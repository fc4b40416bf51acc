package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"blog/internal/models"
	"blog/internal/repository"
)

const maxTitleLen = 100

type PostService struct {
	tx       repository.TxRunner
	posts    repository.PostRepo
	users    repository.UserRepo
	pageSize int
	now      func() time.Time
}

func NewPostService(tx repository.TxRunner, posts repository.PostRepo, users repository.UserRepo, pageSize int) *PostService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &PostService{
		tx:       tx,
		posts:    posts,
		users:    users,
		pageSize: pageSize,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListPosts returns one page of all posts, newest first. Pages start at 1.
func (s *PostService) ListPosts(ctx context.Context, page int) (PostPage, error) {
	return s.listPage(ctx, 0, page)
}

func (s *PostService) ListPostsByAuthor(ctx context.Context, username string, page int) (PostPage, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return PostPage{}, err
	}
	if u == nil {
		return PostPage{}, fmt.Errorf("%q: %w", username, ErrUserNotFound)
	}
	return s.listPage(ctx, u.ID, page)
}

func (s *PostService) GetPost(ctx context.Context, id int) (models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if p == nil {
		return models.Post{}, fmt.Errorf("post %d: %w", id, ErrPostNotFound)
	}
	return *p, nil
}

// CreatePost stores a post authored by actor.
func (s *PostService) CreatePost(ctx context.Context, actor *Actor, in PostInput) (models.Post, error) {
	if err := RequireAuthenticated(actor).Err(); err != nil {
		return models.Post{}, err
	}
	in, err := validatePostInput(in)
	if err != nil {
		return models.Post{}, err
	}

	now := s.now()
	post := models.Post{
		Title:      in.Title,
		Content:    in.Content,
		AuthorID:   actor.UserID,
		Author:     actor.Username,
		DatePosted: now,
		UpdatedAt:  now,
	}
	err = s.tx.InTx(ctx, func(tx *repository.Repository) error {
		id, err := tx.Posts.Create(ctx, post)
		if err != nil {
			return err
		}
		post.ID = id
		return tx.Events.Append(ctx, postEvent(models.EventPostCreated, post, actor, now))
	})
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// GetPostForEdit returns the post only to its author.
func (s *PostService) GetPostForEdit(ctx context.Context, actor *Actor, id int) (models.Post, error) {
	return s.authorizeAuthor(ctx, actor, id)
}

func (s *PostService) UpdatePost(ctx context.Context, actor *Actor, id int, in PostInput) (models.Post, error) {
	post, err := s.authorizeAuthor(ctx, actor, id)
	if err != nil {
		return models.Post{}, err
	}
	in, err = validatePostInput(in)
	if err != nil {
		return models.Post{}, err
	}

	now := s.now()
	post.Title = in.Title
	post.Content = in.Content
	post.UpdatedAt = now
	err = s.tx.InTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Posts.Update(ctx, post); err != nil {
			return notFoundAsPost(err, id)
		}
		return tx.Events.Append(ctx, postEvent(models.EventPostUpdated, post, actor, now))
	})
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, actor *Actor, id int) error {
	post, err := s.authorizeAuthor(ctx, actor, id)
	if err != nil {
		return err
	}
	now := s.now()
	return s.tx.InTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Posts.Delete(ctx, id); err != nil {
			return notFoundAsPost(err, id)
		}
		return tx.Events.Append(ctx, postEvent(models.EventPostDeleted, post, actor, now))
	})
}

// authorizeAuthor checks login before looking the post up, so anonymous
// callers are sent to login even for ids that do not exist.
func (s *PostService) authorizeAuthor(ctx context.Context, actor *Actor, id int) (models.Post, error) {
	if err := RequireAuthenticated(actor).Err(); err != nil {
		return models.Post{}, err
	}
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if err := RequireAuthor(actor, post).Err(); err != nil {
		return models.Post{}, fmt.Errorf("post %d: %w", id, err)
	}
	return post, nil
}

func (s *PostService) listPage(ctx context.Context, authorID, page int) (PostPage, error) {
	if page < 1 {
		return PostPage{}, fmt.Errorf("page %d: %w", page, ErrPageNotFound)
	}
	var (
		total, totalPages int
		posts             []models.Post
	)
	// Count and List read the same snapshot.
	err := s.tx.InTx(ctx, func(tx *repository.Repository) error {
		var err error
		if total, err = tx.Posts.Count(ctx, authorID); err != nil {
			return err
		}
		totalPages = (total + s.pageSize - 1) / s.pageSize
		if totalPages == 0 {
			totalPages = 1 // an empty first page is still a page
		}
		if page > totalPages {
			return fmt.Errorf("page %d of %d: %w", page, totalPages, ErrPageNotFound)
		}
		posts, err = tx.Posts.List(ctx, authorID, s.pageSize, (page-1)*s.pageSize)
		return err
	})
	if err != nil {
		return PostPage{}, err
	}
	return PostPage{
		Posts:       posts,
		Page:        page,
		PageSize:    s.pageSize,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}, nil
}

func validatePostInput(in PostInput) (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return in, fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, maxTitleLen)
	}
	if strings.TrimSpace(in.Content) == "" {
		return in, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	return in, nil
}

func postEvent(typ string, p models.Post, actor *Actor, at time.Time) models.PostEvent {
	return models.PostEvent{
		OccurredAt:  at,
		Type:        typ,
		PostID:      p.ID,
		ActorID:     actor.UserID,
		Description: fmt.Sprintf("post %q %s by %s", p.Title, strings.ToLower(typ), actor.Username),
		Metadata:    map[string]any{"title": p.Title},
	}
}

func notFoundAsPost(err error, id int) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("post %d: %w", id, ErrPostNotFound)
	}
	return err
}
