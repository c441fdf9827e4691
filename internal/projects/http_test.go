package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktracker-app/tasktracker-backend/config"
	"github.com/tasktracker-app/tasktracker-backend/internal/auth"
	"github.com/tasktracker-app/tasktracker-backend/internal/users"
)

type fakeStore struct {
	projects map[int64]*Project
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{projects: make(map[int64]*Project), nextID: 1}
}

func (s *fakeStore) Create(_ context.Context, ownerID int64, name string, description *string) (*Project, error) {
	p := &Project{
		ID:          s.nextID,
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}
	s.nextID++
	s.projects[p.ID] = p
	cp := *p
	return &cp, nil
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) List(_ context.Context) ([]Project, error) {
	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, id int64, name string, description *string) (*Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Name = name
	p.Description = description
	cp := *p
	return &cp, nil
}

func (s *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

type projectFixture struct {
	router     *gin.Engine
	store      *fakeStore
	aliceToken string
	bobToken   string
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenService(config.JWTConfig{
		Secret:   "test-secret",
		Issuer:   "tasktracker-api",
		Audience: "tasktracker-web",
		TTL:      2 * time.Hour,
	})

	aliceToken, err := tokens.Issue(&users.User{ID: 1, Username: "alice", Email: "alice@x.com"})
	require.NoError(t, err)
	bobToken, err := tokens.Issue(&users.User{ID: 2, Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)

	store := newFakeStore()
	r := gin.New()
	Register(r.Group("/api/v1/projects"), store, auth.RequireAuth(tokens))

	return &projectFixture{router: r, store: store, aliceToken: aliceToken, bobToken: bobToken}
}

func (f *projectFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateProject(t *testing.T) {
	t.Run("authenticated create is 201 owned by the caller", func(t *testing.T) {
		f := newProjectFixture(t)

		w := f.do(t, http.MethodPost, "/api/v1/projects", f.aliceToken,
			map[string]string{"name": "P"})
		require.Equal(t, http.StatusCreated, w.Code)

		var created Project
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "P", created.Name)
		assert.Equal(t, int64(1), created.OwnerID)
	})

	t.Run("empty name is 400", func(t *testing.T) {
		f := newProjectFixture(t)

		for _, name := range []string{"", "   "} {
			w := f.do(t, http.MethodPost, "/api/v1/projects", f.aliceToken,
				map[string]string{"name": name})
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
		assert.Empty(t, f.store.projects)
	})

	t.Run("no token is 401", func(t *testing.T) {
		f := newProjectFixture(t)
		w := f.do(t, http.MethodPost, "/api/v1/projects", "", map[string]string{"name": "P"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetAndListProjects(t *testing.T) {
	f := newProjectFixture(t)
	f.store.Create(context.Background(), 1, "P1", nil)
	f.store.Create(context.Background(), 2, "P2", nil)

	t.Run("list is open to anonymous callers", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/projects", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var items []Project
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		assert.Len(t, items, 2)
	})

	t.Run("get is open to anonymous callers", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/projects/1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var p Project
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, "P1", p.Name)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/projects/99", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id is 404", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/projects/abc", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateProject(t *testing.T) {
	t.Run("owner update is 200", func(t *testing.T) {
		f := newProjectFixture(t)
		f.store.Create(context.Background(), 1, "P", nil)

		w := f.do(t, http.MethodPut, "/api/v1/projects/1", f.aliceToken,
			map[string]string{"name": "P2"})
		require.Equal(t, http.StatusOK, w.Code)

		var p Project
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, "P2", p.Name)
	})

	t.Run("non-owner update is 403, existence still revealed", func(t *testing.T) {
		f := newProjectFixture(t)
		f.store.Create(context.Background(), 1, "P", nil)

		w := f.do(t, http.MethodPut, "/api/v1/projects/1", f.bobToken,
			map[string]string{"name": "stolen"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "P", f.store.projects[1].Name)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		f := newProjectFixture(t)
		w := f.do(t, http.MethodPut, "/api/v1/projects/99", f.aliceToken,
			map[string]string{"name": "P"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no token is 401", func(t *testing.T) {
		f := newProjectFixture(t)
		f.store.Create(context.Background(), 1, "P", nil)

		w := f.do(t, http.MethodPut, "/api/v1/projects/1", "", map[string]string{"name": "P2"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDeleteProject(t *testing.T) {
	t.Run("owner delete is 204", func(t *testing.T) {
		f := newProjectFixture(t)
		f.store.Create(context.Background(), 1, "P", nil)

		w := f.do(t, http.MethodDelete, "/api/v1/projects/1", f.aliceToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, f.store.projects)
	})

	t.Run("non-owner delete is 403", func(t *testing.T) {
		f := newProjectFixture(t)
		f.store.Create(context.Background(), 1, "P", nil)

		w := f.do(t, http.MethodDelete, "/api/v1/projects/1", f.bobToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Len(t, f.store.projects, 1)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		f := newProjectFixture(t)
		w := f.do(t, http.MethodDelete, "/api/v1/projects/99", f.aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
