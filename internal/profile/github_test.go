package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGithubReposSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "5", q.Get("per_page"))
		assert.Equal(t, "created:asc", q.Get("sort"))
		w.Write([]byte(`[{"name":"hello-world"}]`))
	}))
	defer srv.Close()

	c := NewGithubClient(srv.URL, "cid", "csecret", nil)
	body, err := c.Repos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"hello-world"}]`, string(body))
}

func TestGithubReposNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewGithubClient(srv.URL, "cid", "csecret", nil)
	_, err := c.Repos(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrGithubNotFound)
}

func TestGithubReposUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewGithubClient(srv.URL, "cid", "csecret", nil)
	_, err := c.Repos(context.Background(), "octocat")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGithubNotFound)
}

func TestGithubHandlerMapsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/nobody/repos":
			http.Error(w, "", http.StatusNotFound)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	profiles := newFakeProfileStore()
	users := &fakeUserStore{}
	h := NewHandler(profiles, users, &fakePostStore{}, NewGithubClient(srv.URL, "cid", "csecret", nil))

	rec := do(t, h, "owner", http.MethodGet, "/api/profile/github/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"No Github profile found"}`, rec.Body.String())

	rec = do(t, h, "owner", http.MethodGet, "/api/profile/github/flaky", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"msg":"Failed to fetch Github repos"}`, rec.Body.String())
}
