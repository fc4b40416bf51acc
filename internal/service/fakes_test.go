package service

import (
	"context"
	"sort"

	"blog/internal/models"
	"blog/internal/repository"
)

// memStore is an in-memory stand-in for the SQLite repositories.
type memStore struct {
	users    *memUsers
	profiles *memProfiles
	posts    *memPosts
	events   *fakeEventRepo

	txCalls int
}

func newMemStore() *memStore {
	users := &memUsers{byID: map[int]models.User{}}
	return &memStore{
		users:    users,
		profiles: &memProfiles{byUser: map[int]models.Profile{}},
		posts:    &memPosts{byID: map[int]models.Post{}, users: users},
		events:   &fakeEventRepo{},
	}
}

func (s *memStore) InTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	s.txCalls++
	return fn(s.repo())
}

func (s *memStore) repo() *repository.Repository {
	return &repository.Repository{
		Users:    s.users,
		Profiles: s.profiles,
		Posts:    s.posts,
		Events:   s.events,
	}
}

func (s *memStore) addUser(username string) models.User {
	u := models.User{Username: username, PasswordHash: "x"}
	u.ID, _ = s.users.Create(context.Background(), u)
	_, _ = s.profiles.Create(context.Background(), models.Profile{UserID: u.ID, Image: models.DefaultProfileImage})
	return u
}

type memUsers struct {
	byID   map[int]models.User
	nextID int
}

func (m *memUsers) Create(ctx context.Context, u models.User) (int, error) {
	for _, existing := range m.byID {
		if existing.Username == u.Username {
			return 0, repository.ErrDuplicate
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.byID[u.ID] = u
	return u.ID, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) Update(ctx context.Context, u models.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range m.byID {
		if id != u.ID && existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	m.byID[u.ID] = u
	return nil
}

type memProfiles struct {
	byUser map[int]models.Profile
	nextID int

	creates int
	saves   []models.Profile
}

func (m *memProfiles) Create(ctx context.Context, p models.Profile) (int, error) {
	if _, ok := m.byUser[p.UserID]; ok {
		return 0, repository.ErrDuplicate
	}
	m.creates++
	m.nextID++
	p.ID = m.nextID
	m.byUser[p.UserID] = p
	return p.ID, nil
}

func (m *memProfiles) GetByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	p, ok := m.byUser[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memProfiles) Save(ctx context.Context, p models.Profile) error {
	stored, ok := m.byUser[p.UserID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Image = p.Image
	stored.Bio = p.Bio
	m.byUser[p.UserID] = stored
	m.saves = append(m.saves, p)
	return nil
}

type memPosts struct {
	byID   map[int]models.Post
	nextID int
	users  *memUsers
}

func (m *memPosts) Create(ctx context.Context, p models.Post) (int, error) {
	m.nextID++
	p.ID = m.nextID
	m.byID[p.ID] = p
	return p.ID, nil
}

func (m *memPosts) GetByID(ctx context.Context, id int) (*models.Post, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	if u, ok := m.users.byID[p.AuthorID]; ok {
		p.Author = u.Username
	}
	return &p, nil
}

func (m *memPosts) List(ctx context.Context, authorID, limit, offset int) ([]models.Post, error) {
	var out []models.Post
	for _, p := range m.byID {
		if authorID == 0 || p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DatePosted.Equal(out[j].DatePosted) {
			return out[i].DatePosted.After(out[j].DatePosted)
		}
		return out[i].ID > out[j].ID
	})
	if offset >= len(out) {
		return []models.Post{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPosts) Count(ctx context.Context, authorID int) (int, error) {
	n := 0
	for _, p := range m.byID {
		if authorID == 0 || p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (m *memPosts) Update(ctx context.Context, p models.Post) error {
	stored, ok := m.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.UpdatedAt = p.UpdatedAt
	m.byID[p.ID] = stored
	return nil
}

func (m *memPosts) Delete(ctx context.Context, id int) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}
