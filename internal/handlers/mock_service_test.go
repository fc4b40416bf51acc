package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"blog/internal/models"
	"blog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error

	// tokens maps accepted tokens to user ids; anything else fails to parse.
	tokens map[string]int
	actors map[int]*service.Actor

	lastSignUpUsername string
	lastSignUpEmail    string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, email, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpEmail = email
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	id, ok := m.tokens[token]
	if !ok {
		return 0, service.ErrInvalidToken
	}
	return id, nil
}

func (m *mockAuth) ResolveActor(ctx context.Context, userID int) (*service.Actor, error) {
	return m.actors[userID], nil
}

// withUser registers token as a credential of user.
func (m *mockAuth) withUser(token string, id int, username string) *mockAuth {
	if m.tokens == nil {
		m.tokens = map[string]int{}
		m.actors = map[int]*service.Actor{}
	}
	m.tokens[token] = id
	m.actors[id] = &service.Actor{UserID: id, Username: username}
	return m
}

type mockAccounts struct {
	account service.Account
	err     error

	lastUserID int
	lastUpdate service.AccountUpdate
}

func (m *mockAccounts) GetAccount(ctx context.Context, userID int) (service.Account, error) {
	m.lastUserID = userID
	return m.account, m.err
}

func (m *mockAccounts) UpdateAccount(ctx context.Context, userID int, u service.AccountUpdate) (service.Account, error) {
	m.lastUserID = userID
	m.lastUpdate = u
	if m.err != nil {
		return service.Account{}, m.err
	}
	acc := m.account
	if u.Username != nil {
		acc.User.Username = *u.Username
	}
	if u.Bio != nil {
		acc.Profile.Bio = *u.Bio
	}
	return acc, nil
}

// mockPosts keeps posts in memory and applies the same guards as the real service.
type mockPosts struct {
	posts  map[int]models.Post
	nextID int
	err    error

	lastPage   int
	lastAuthor string
}

func newMockPosts(posts ...models.Post) *mockPosts {
	m := &mockPosts{posts: map[int]models.Post{}}
	for _, p := range posts {
		m.posts[p.ID] = p
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
	}
	return m
}

func (m *mockPosts) ListPosts(ctx context.Context, page int) (service.PostPage, error) {
	m.lastPage = page
	if m.err != nil {
		return service.PostPage{}, m.err
	}
	if page != 1 {
		return service.PostPage{}, service.ErrPageNotFound
	}
	out := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	return service.PostPage{Posts: out, Page: 1, PageSize: 5, TotalPages: 1, Total: len(out)}, nil
}

func (m *mockPosts) ListPostsByAuthor(ctx context.Context, username string, page int) (service.PostPage, error) {
	m.lastAuthor = username
	m.lastPage = page
	var out []models.Post
	for _, p := range m.posts {
		if p.Author == username {
			out = append(out, p)
		}
	}
	if out == nil {
		return service.PostPage{}, service.ErrUserNotFound
	}
	return service.PostPage{Posts: out, Page: page, PageSize: 5, TotalPages: 1, Total: len(out)}, nil
}

func (m *mockPosts) GetPost(ctx context.Context, id int) (models.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return models.Post{}, service.ErrPostNotFound
	}
	return p, nil
}

func (m *mockPosts) CreatePost(ctx context.Context, actor *service.Actor, in service.PostInput) (models.Post, error) {
	if err := service.RequireAuthenticated(actor).Err(); err != nil {
		return models.Post{}, err
	}
	if in.Title == "" {
		return models.Post{}, service.ErrInvalidInput
	}
	m.nextID++
	p := models.Post{ID: m.nextID, Title: in.Title, Content: in.Content, AuthorID: actor.UserID, Author: actor.Username}
	m.posts[p.ID] = p
	return p, nil
}

func (m *mockPosts) GetPostForEdit(ctx context.Context, actor *service.Actor, id int) (models.Post, error) {
	if err := service.RequireAuthenticated(actor).Err(); err != nil {
		return models.Post{}, err
	}
	p, err := m.GetPost(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if err := service.RequireAuthor(actor, p).Err(); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (m *mockPosts) UpdatePost(ctx context.Context, actor *service.Actor, id int, in service.PostInput) (models.Post, error) {
	p, err := m.GetPostForEdit(ctx, actor, id)
	if err != nil {
		return models.Post{}, err
	}
	p.Title, p.Content = in.Title, in.Content
	m.posts[id] = p
	return p, nil
}

func (m *mockPosts) DeletePost(ctx context.Context, actor *service.Actor, id int) error {
	if _, err := m.GetPostForEdit(ctx, actor, id); err != nil {
		return err
	}
	delete(m.posts, id)
	return nil
}

type mockActivity struct {
	resp     []models.PostEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	lastPost int
}

func (m *mockActivity) List(ctx context.Context, f service.LogFilter) ([]models.PostEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastPost = f.PostID
	return m.resp, m.err
}

var errBoom = errors.New("boom")

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
