package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"blog/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newPostMock(t *testing.T) (*PostRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewPostRepository(db), mock
}

var postColumns = []string{"id", "title", "content", "author_id", "username", "date_posted", "updated_at"}

func TestPostRepository_Create_SetsTimestamps(t *testing.T) {
	repo, mock := newPostMock(t)

	posted := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(insertPostSQL)).
		WithArgs("T", "B", 3, posted, posted).
		WillReturnResult(sqlmock.NewResult(11, 1))

	id, err := repo.Create(ctx(t), models.Post{Title: "T", Content: "B", AuthorID: 3, DatePosted: posted})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 11 {
		t.Fatalf("want id 11, got %d", id)
	}
}

func TestPostRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newPostMock(t)
		at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta(selectPostByIDSQL)).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows(postColumns).AddRow(4, "T", "B", 1, "alice", at, at))

		p, err := repo.GetByID(ctx(t), 4)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if p == nil || p.Title != "T" || p.Author != "alice" || !p.DatePosted.Equal(at) {
			t.Fatalf("unexpected post: %+v", p)
		}
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newPostMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectPostByIDSQL)).
			WithArgs(404).
			WillReturnRows(sqlmock.NewRows(postColumns))

		p, err := repo.GetByID(ctx(t), 404)
		if err != nil || p != nil {
			t.Fatalf("want (nil, nil), got (%+v, %v)", p, err)
		}
	})
}

func TestPostRepository_List_PassesFilterAndPaging(t *testing.T) {
	repo, mock := newPostMock(t)
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(listPostsSQL)).
		WithArgs(2, 2, 5, 10).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(9, "newer", "c", 2, "bob", at.Add(time.Hour), at.Add(time.Hour)).
			AddRow(8, "older", "c", 2, "bob", at, at))

	posts, err := repo.List(ctx(t), 2, 5, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != 9 || posts[1].ID != 8 {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}

func TestPostRepository_Count(t *testing.T) {
	repo, mock := newPostMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(countPostsSQL)).
		WithArgs(0, 0).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(12))

	n, err := repo.Count(ctx(t), 0)
	if err != nil || n != 12 {
		t.Fatalf("want 12, got %d (%v)", n, err)
	}
}

func TestPostRepository_UpdateDelete_NotFound(t *testing.T) {
	repo, mock := newPostMock(t)

	mock.ExpectExec(regexp.QuoteMeta(updatePostSQL)).
		WithArgs("T", "B", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(deletePostSQL)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Update(ctx(t), models.Post{ID: 7, Title: "T", Content: "B"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: want ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx(t), 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: want ErrNotFound, got %v", err)
	}
}

func TestPostRepository_Delete_ExecError(t *testing.T) {
	repo, mock := newPostMock(t)
	mock.ExpectExec(regexp.QuoteMeta(deletePostSQL)).
		WithArgs(1).
		WillReturnError(errors.New("locked"))

	if err := repo.Delete(ctx(t), 1); err == nil {
		t.Fatalf("expected error")
	}
}
