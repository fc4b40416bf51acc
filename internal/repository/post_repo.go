package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blog/internal/models"
)

type PostRepository struct {
	db querier
}

func NewPostRepository(db querier) *PostRepository {
	return &PostRepository{db: db}
}

var _ PostRepo = (*PostRepository)(nil)

const (
	insertPostSQL = `INSERT INTO posts (title, content, author_id, date_posted, updated_at) VALUES (?, ?, ?, ?, ?)`

	selectPostColumns = `
		SELECT p.id, p.title, p.content, p.author_id, u.username, p.date_posted, p.updated_at
		FROM posts p JOIN users u ON u.id = p.author_id`

	selectPostByIDSQL = selectPostColumns + ` WHERE p.id = ?`

	// ? = 0 disables the author filter.
	listPostsSQL = selectPostColumns + `
		WHERE (? = 0 OR p.author_id = ?)
		ORDER BY p.date_posted DESC, p.id DESC
		LIMIT ? OFFSET ?`

	countPostsSQL = `SELECT COUNT(*) FROM posts WHERE (? = 0 OR author_id = ?)`

	updatePostSQL = `UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`
	deletePostSQL = `DELETE FROM posts WHERE id = ?`
)

// Create inserts a post and returns its ID. Zero timestamps are set to now.
func (r *PostRepository) Create(ctx context.Context, p models.Post) (int, error) {
	posted := utcNowIfZero(p.DatePosted)
	res, err := r.db.ExecContext(ctx, insertPostSQL, p.Title, p.Content, p.AuthorID, posted, posted)
	if err != nil {
		return 0, fmt.Errorf("insert post by user %d: %w", p.AuthorID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for post: %w", err)
	}
	return int(lastID), nil
}

// GetByID returns (nil, nil) if the post does not exist.
func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPostByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post %d: %w", id, err)
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context, authorID, limit, offset int) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, listPostsSQL, authorID, authorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

func (r *PostRepository) Count(ctx context.Context, authorID int) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countPostsSQL, authorID, authorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// Update rewrites title and content. author_id and date_posted are never touched.
func (r *PostRepository) Update(ctx context.Context, p models.Post) error {
	res, err := r.db.ExecContext(ctx, updatePostSQL, p.Title, p.Content, utcNowIfZero(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	if err := affectedOrNotFound(res); err != nil {
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deletePostSQL, id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if err := affectedOrNotFound(res); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.Author, &p.DatePosted, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.DatePosted = p.DatePosted.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
