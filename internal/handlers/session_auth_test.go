package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/services"
	"github.com/PrepGrid-2025/testing-service/internal/sessions"
)

// fakeStore is an in-memory sessions.Store for middleware tests.
type fakeStore struct {
	sessions map[string]*models.Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*models.Session)}
}

func (s *fakeStore) Create(ctx context.Context, userID uint) (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.sessions[session.ID] = session
	return session, nil
}

func (s *fakeStore) Get(ctx context.Context, id string) (*models.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, sessions.ErrSessionNotFound
	}
	return session, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

// fakeAuthService serves user rows from a map, standing in for the database
// read the middleware performs on every request.
type fakeAuthService struct {
	users map[uint]*models.User
}

func (s *fakeAuthService) CompleteLogin(ctx context.Context, profile *models.ExternalProfile) (*models.User, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *fakeAuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return user, nil
}

func setupAuthRouter(store sessions.Store, auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware := NewSessionAuthMiddleware(store, auth)

	router := gin.New()
	api := router.Group("/", middleware.AuthMiddleware())
	api.GET("/me", func(c *gin.Context) {
		user, _ := GetUserFromContext(c)
		c.JSON(http.StatusOK, user)
	})
	api.POST("/save_test", middleware.RequireRoleMiddleware(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return router
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionAuthMiddleware(t *testing.T) {
	store := newFakeStore()
	auth := &fakeAuthService{users: map[uint]*models.User{
		1: {ID: 1, Email: "admin@example.com", Role: models.RoleAdmin},
		2: {ID: 2, Email: "student@example.com", Role: models.RoleStudent},
	}}
	router := setupAuthRouter(store, auth)

	adminSession, _ := store.Create(context.Background(), 1)
	studentSession, _ := store.Create(context.Background(), 2)

	t.Run("no cookie", func(t *testing.T) {
		if w := doRequest(router, http.MethodGet, "/me", ""); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		if w := doRequest(router, http.MethodGet, "/me", "bogus"); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("authenticated read", func(t *testing.T) {
		if w := doRequest(router, http.MethodGet, "/me", studentSession.ID); w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("student blocked from admin route", func(t *testing.T) {
		if w := doRequest(router, http.MethodPost, "/save_test", studentSession.ID); w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", w.Code)
		}
	})

	t.Run("admin allowed", func(t *testing.T) {
		if w := doRequest(router, http.MethodPost, "/save_test", adminSession.ID); w.Code != http.StatusCreated {
			t.Errorf("Expected 201, got %d", w.Code)
		}
	})

	t.Run("demotion applies mid-session", func(t *testing.T) {
		// The stored role changes while the session stays live; the next
		// request already sees the demoted role.
		auth.users[1].Role = models.RoleStudent
		if w := doRequest(router, http.MethodPost, "/save_test", adminSession.ID); w.Code != http.StatusForbidden {
			t.Errorf("Expected 403 after demotion, got %d", w.Code)
		}
		auth.users[1].Role = models.RoleAdmin
	})

	t.Run("deleted user invalidates session", func(t *testing.T) {
		session, _ := store.Create(context.Background(), 99)
		if w := doRequest(router, http.MethodGet, "/me", session.ID); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for vanished user, got %d", w.Code)
		}
		if _, err := store.Get(context.Background(), session.ID); err == nil {
			t.Error("Expected the orphaned session to be dropped")
		}
	})
}
