package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/auth"
	"bookshelf/internal/catalog"
	"bookshelf/internal/handler"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"
	"bookshelf/internal/service"
)

// countingRepo wraps a repository and counts every store access, so tests
// can assert that rejected requests never reach the store.
type countingRepo struct {
	repository.UserRepository
	calls atomic.Int64
}

func (r *countingRepo) Create(ctx context.Context, user *model.User) error {
	r.calls.Add(1)
	return r.UserRepository.Create(ctx, user)
}

func (r *countingRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.calls.Add(1)
	return r.UserRepository.FindByID(ctx, id)
}

func (r *countingRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.calls.Add(1)
	return r.UserRepository.FindByEmail(ctx, email)
}

func (r *countingRepo) AddBook(ctx context.Context, userID string, book model.SavedBook) (*model.User, error) {
	r.calls.Add(1)
	return r.UserRepository.AddBook(ctx, userID, book)
}

func (r *countingRepo) RemoveBook(ctx context.Context, userID, bookID string) (*model.User, error) {
	r.calls.Add(1)
	return r.UserRepository.RemoveBook(ctx, userID, bookID)
}

type testApp struct {
	srv    *httptest.Server
	repo   *countingRepo
	tokens *auth.JWTService
}

func newTestApp(t *testing.T, catalogURL string) *testApp {
	t.Helper()

	backing := repository.NewMemoryUserRepository()
	repo := &countingRepo{UserRepository: backing}
	tokens := auth.NewJWTService("test-secret")

	authHandler := handler.NewAuthHandler(service.NewAuthService(repo, tokens))
	userHandler := handler.NewUserHandler(service.NewUserService(repo, nil))
	bookHandler := handler.NewBookHandler(service.NewCollectionService(repo, nil), catalog.NewClient(catalogURL))

	e := echo.New()
	Register(e, tokens, authHandler, userHandler, bookHandler)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, repo: repo, tokens: tokens}
}

func (a *testApp) register(t *testing.T, username, email, password string) (string, *model.User) {
	t.Helper()

	var out struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"username": username, "email": email, "password": password}).
		SetResult(&out).
		Post(a.srv.URL + "/api/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	require.NotEmpty(t, out.Token)
	require.NotNil(t, out.User)
	return out.Token, out.User
}

func TestProtectedRoutesRejectBeforeStoreAccess(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/me"},
		{http.MethodPut, "/api/books"},
		{http.MethodDelete, "/api/books/B1"},
	}

	headers := map[string]string{
		"no header":     "",
		"invalid token": "Bearer not-a-token",
		"wrong key":     "Bearer " + mustSign(t, "other-secret"),
	}

	for name, header := range headers {
		for _, r := range requests {
			t.Run(fmt.Sprintf("%s %s %s", name, r.method, r.path), func(t *testing.T) {
				before := app.repo.calls.Load()

				req := resty.New().R()
				req.Method = r.method
				req.URL = app.srv.URL + r.path
				if header != "" {
					req.SetHeader(echo.HeaderAuthorization, header)
				}
				resp, err := req.Send()
				require.NoError(t, err)

				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
				assert.Contains(t, string(resp.Body()), "UNAUTHENTICATED")
				assert.Equal(t, before, app.repo.calls.Load(), "store must not be touched")
			})
		}
	}
}

func mustSign(t *testing.T, secret string) string {
	t.Helper()
	token, err := auth.NewJWTService(secret).Issue("user-x", "x", "x@x.com")
	require.NoError(t, err)
	return token
}

func TestRegisterLoginAndCollectionScenario(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")
	client := resty.New()

	token, user := app.register(t, "ada", "ada@x.com", "secret")
	assert.Equal(t, "ada", user.Username)
	assert.NotNil(t, user.SavedBooks)
	assert.Empty(t, user.SavedBooks)

	// the issued token covers the new identity
	claims, err := app.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// save B1
	var updated model.User
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader(echo.HeaderAuthorization, "Bearer "+token).
		SetBody(map[string]interface{}{"bookId": "B1", "authors": []string{"A"}, "description": "d", "title": "t"}).
		SetResult(&updated).
		Put(app.srv.URL + "/api/books")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, updated.SavedBooks, 1)
	assert.Equal(t, "B1", updated.SavedBooks[0].BookID)
	assert.Equal(t, 1, updated.BookCount)

	// saving B1 again with a different description keeps exactly one
	// entry with the original fields
	resp, err = client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader(echo.HeaderAuthorization, "Bearer "+token).
		SetBody(map[string]interface{}{"bookId": "B1", "authors": []string{"A"}, "description": "changed", "title": "t"}).
		SetResult(&updated).
		Put(app.srv.URL + "/api/books")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, updated.SavedBooks, 1)
	assert.Equal(t, "d", updated.SavedBooks[0].Description)

	// me returns the full record including the saved book
	var me model.User
	resp, err = client.R().
		SetHeader(echo.HeaderAuthorization, "Bearer "+token).
		SetResult(&me).
		Get(app.srv.URL + "/api/me")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "ada", me.Username)
	assert.Len(t, me.SavedBooks, 1)

	// remove B1
	resp, err = client.R().
		SetHeader(echo.HeaderAuthorization, "Bearer "+token).
		SetResult(&updated).
		Delete(app.srv.URL + "/api/books/B1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Empty(t, updated.SavedBooks)
	assert.Equal(t, 0, updated.BookCount)

	// removing it again is still success
	resp, err = client.R().
		SetHeader(echo.HeaderAuthorization, "Bearer "+token).
		SetResult(&updated).
		Delete(app.srv.URL + "/api/books/B1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestLoginErrorContract(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")
	client := resty.New()

	app.register(t, "ada", "ada@x.com", "secret123")

	// unknown email: not found, never invalid credential
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": "nobody@x.com", "password": "secret123"}).
		Post(app.srv.URL + "/api/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "NOT_FOUND")

	// wrong password: invalid credential, never not found
	resp, err = client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": "ada@x.com", "password": "wrong"}).
		Post(app.srv.URL + "/api/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "INVALID_CREDENTIAL")

	// correct credentials: token plus user
	resp, err = client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": "ada@x.com", "password": "secret123"}).
		Post(app.srv.URL + "/api/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), `"token"`)
}

func TestRegisterConflictAndValidation(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")
	client := resty.New()

	app.register(t, "ada", "ada@x.com", "secret123")

	// duplicate email surfaces as a conflict, not a generic failure
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"username": "ada2", "email": "ada@x.com", "password": "secret123"}).
		Post(app.srv.URL + "/api/users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "CONFLICT")

	// malformed registration payloads never reach the store
	before := app.repo.calls.Load()
	resp, err = client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"username": "bob", "email": "not-an-email", "password": "secret123"}).
		Post(app.srv.URL + "/api/users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "VALIDATION_ERROR")
	assert.Equal(t, before, app.repo.calls.Load())
}

func TestSaveBookValidation(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")
	client := resty.New()

	token, _ := app.register(t, "ada", "ada@x.com", "secret123")
	before := app.repo.calls.Load()

	// missing title is rejected before any store access
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader(echo.HeaderAuthorization, "Bearer "+token).
		SetBody(map[string]interface{}{"bookId": "B1", "authors": []string{"A"}, "description": "d"}).
		Put(app.srv.URL + "/api/books")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "VALIDATION_ERROR")
	assert.Equal(t, before, app.repo.calls.Load())
}

func TestCatalogSearchRoute(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"B1","volumeInfo":{"title":"t","authors":["A"],"description":"d"}}]}`))
	}))
	defer upstream.Close()

	app := newTestApp(t, upstream.URL)
	client := resty.New()

	var books []catalog.Book
	resp, err := client.R().
		SetResult(&books).
		Get(app.srv.URL + "/api/books/search?q=golang")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, books, 1)
	assert.Equal(t, "B1", books[0].BookID)

	// a missing query is a validation failure
	resp, err = client.R().Get(app.srv.URL + "/api/books/search")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
}
