package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/plume/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/plume/internal/adapters/secondary/security"
	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
	"github.com/jupiterclapton/plume/internal/core/services"
)

// L'adapter est testé de bout en bout : vraies couches service sur le store
// mémoire, seul le broker est coupé.
type nopPublisher struct{}

func (nopPublisher) PublishPostCreated(ctx context.Context, post *domain.Post) error  { return nil }
func (nopPublisher) PublishPostUpdated(ctx context.Context, post *domain.Post) error  { return nil }
func (nopPublisher) PublishCommentAdded(ctx context.Context, c *domain.Comment) error { return nil }

type testEnv struct {
	store    *repository.MemoryStore
	identity *services.IdentityService
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repository.NewMemoryStore()

	tokens, err := security.NewJWTProvider([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)
	hasher := security.NewArgon2Hasher(&security.Argon2Params{
		Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})

	identity := services.NewIdentityService(store.Users(), hasher, tokens)
	posts := services.NewPostService(store.Posts(), store.Comments(), store.Groups(), nopPublisher{})
	feeds := services.NewFeedService(store.Posts(), store.Groups(), store.Users(), store.Graph(), nil)
	graph := services.NewGraphService(store.Users(), store.Graph())

	return &testEnv{
		store:    store,
		identity: identity,
		handler:  NewServer(identity, posts, feeds, graph).Routes(),
	}
}

// signup crée un compte et renvoie l'utilisateur avec son cookie de session.
func (e *testEnv) signup(t *testing.T, username string) (*domain.User, *http.Cookie) {
	t.Helper()

	resp, err := e.identity.Register(context.Background(), ports.RegisterCmd{
		Username: username,
		Email:    username + "@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	return resp.User, &http.Cookie{Name: SessionCookie, Value: resp.Token}
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedPost(t *testing.T, author *domain.User, text string) *domain.Post {
	t.Helper()
	post := domain.NewPost(author.ID, text, "", nil)
	require.NoError(t, e.store.Posts().Save(context.Background(), post))
	return post
}

func (e *testEnv) seedGroup(t *testing.T, title, slug string) *domain.Group {
	t.Helper()
	group := domain.NewGroup(title, slug, "")
	require.NoError(t, e.store.Groups().Save(context.Background(), group))
	return group
}
