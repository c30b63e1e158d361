// Package ghost publishes trips as posts through the Ghost Admin API.
package ghost

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	adminAudience = "/v3/admin/"
	tokenTTL      = 5 * time.Minute
)

// Post is the part of a created post the callers show to users.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// Draft is the content of a post to create.
type Draft struct {
	Title        string
	HTML         string
	FeatureImage string
	Tags         []string
	// Publish makes the post live immediately; otherwise it is saved as a draft.
	Publish bool
}

// Publisher creates posts on a Ghost blog.
type Publisher interface {
	CreatePost(ctx context.Context, d Draft) (*Post, error)
}

// APIError is a non-2xx answer from the Admin API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ghost admin api: status %d: %s", e.Status, e.Message)
}

type tagRef struct {
	Name string `json:"name"`
}

type postPayload struct {
	Title        string   `json:"title"`
	HTML         string   `json:"html"`
	Status       string   `json:"status"`
	FeatureImage string   `json:"feature_image,omitempty"`
	Tags         []tagRef `json:"tags,omitempty"`
}

// Client talks to one Ghost site.
type Client struct {
	httpClient *http.Client
	baseURL    string
	adminKey   string
	now        func() time.Time
}

// NewClient creates a client for the site at baseURL. adminKey has the
// "id:secret" form shown in Ghost's integration settings.
func NewClient(baseURL, adminKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		adminKey:   adminKey,
		now:        time.Now,
	}
}

// CreatePost creates a post from HTML source.
func (c *Client) CreatePost(ctx context.Context, d Draft) (*Post, error) {
	token, err := adminToken(c.adminKey, c.now())
	if err != nil {
		return nil, err
	}

	p := postPayload{
		Title:        d.Title,
		HTML:         d.HTML,
		Status:       "draft",
		FeatureImage: d.FeatureImage,
	}
	if d.Publish {
		p.Status = "published"
	}
	for _, t := range d.Tags {
		p.Tags = append(p.Tags, tagRef{Name: t})
	}

	body, err := json.Marshal(map[string][]postPayload{"posts": {p}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ghost/api/v3/admin/posts/?source=html", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach ghost: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var out struct {
		Posts []Post `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode ghost response: %w", err)
	}
	if len(out.Posts) == 0 {
		return nil, fmt.Errorf("ghost returned no post")
	}
	return &out.Posts[0], nil
}

func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && len(body.Errors) > 0 {
		msg = body.Errors[0].Message
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// adminToken signs the short-lived HS256 token the Admin API expects, with
// the key id in the kid header.
func adminToken(adminKey string, now time.Time) (string, error) {
	id, secretHex, ok := strings.Cut(adminKey, ":")
	if !ok || id == "" {
		return "", fmt.Errorf("invalid admin key format: expected id:secret")
	}
	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("invalid admin key secret: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		Audience:  jwt.ClaimStrings{adminAudience},
	})
	token.Header["kid"] = id
	return token.SignedString(secret)
}
