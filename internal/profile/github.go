package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrGithubNotFound means GitHub has no such user (or the repos are hidden).
var ErrGithubNotFound = errors.New("github profile not found")

const (
	githubTimeout  = 10 * time.Second
	githubCacheTTL = 10 * time.Minute
)

// GithubClient fetches a user's public repo listing over HTTP, caching
// responses in Redis. Only the five most recently created repos are
// requested, matching what the profile page shows.
type GithubClient struct {
	baseURL      string
	httpClient   *http.Client
	clientID     string
	clientSecret string
	cache        *redis.Client
}

func NewGithubClient(baseURL, clientID, clientSecret string, cache *redis.Client) *GithubClient {
	return &GithubClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: githubTimeout},
		clientID:     clientID,
		clientSecret: clientSecret,
		cache:        cache,
	}
}

// Repos returns the raw JSON repo listing for a username.
func (c *GithubClient) Repos(ctx context.Context, username string) ([]byte, error) {
	key := "github:repos:" + username
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key).Bytes(); err == nil {
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc&client_id=%s&client_secret=%s",
		c.baseURL, username, c.clientID, c.clientSecret)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "devlink-backend")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrGithubNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("github returned %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github read body: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, githubCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("github: cache set")
		}
	}
	return body, nil
}
