package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TokenProvider supplies the current access token for outgoing requests. An
// empty string means no credential is attached.
type TokenProvider interface {
	AccessToken() string
}

// Catalog is the read surface views depend on. Implemented by *Client; the
// indirection exists so tests can substitute canned results.
type Catalog interface {
	ListBooks(ctx context.Context, query BookQuery) ([]Book, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

var _ Catalog = (*Client)(nil)

// Client talks to the LibraryMS HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenProvider
	userAgent string
}

const (
	defaultServerBind = "127.0.0.1:8000"
	defaultUserAgent  = "lms/0.1"
	requestTimeout    = 10 * time.Second
)

// NewClient builds a Client for the provided server host:port or URL value.
// A zero timeout selects the default.
func NewClient(serverURL string, tokens TokenProvider, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		tokens:    tokens,
		userAgent: defaultUserAgent,
	}, nil
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	body := map[string]string{"username": username, "password": password}
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/login/", body, &pair); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Register submits a new-account payload. Validation failures surface as a
// *ValidationError with the service's per-field messages.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/users/", payload, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// CurrentUser retrieves the profile for the attached access token.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/me/", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// BookQuery configures /books/ requests. Empty fields are omitted from the
// query string entirely so an unset filter returns the unfiltered set.
type BookQuery struct {
	Search   string
	Category string
	Language string
}

// ListBooks retrieves the catalog, filtered server-side by the query.
func (c *Client) ListBooks(ctx context.Context, query BookQuery) ([]Book, error) {
	values := url.Values{}
	if search := strings.TrimSpace(query.Search); search != "" {
		values.Set("search", search)
	}
	if category := strings.TrimSpace(query.Category); category != "" {
		values.Set("category", category)
	}
	if language := strings.TrimSpace(query.Language); language != "" {
		values.Set("language", language)
	}
	rel := &url.URL{Path: "/books/", RawQuery: values.Encode()}
	var books []Book
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// ListCategories retrieves all catalog categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories/", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// MyIssues retrieves the current user's loan records.
func (c *Client) MyIssues(ctx context.Context) ([]Issue, error) {
	var issues []Issue
	if err := c.do(ctx, http.MethodGet, "/issues/my_issues/", nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// ActiveIssues retrieves all unreturned issues visible to the caller.
func (c *Client) ActiveIssues(ctx context.Context) ([]Issue, error) {
	rel := &url.URL{Path: "/issues/", RawQuery: url.Values{"returned": {"false"}}.Encode()}
	var issues []Issue
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// OverdueIssues retrieves all overdue issues. Staff only; others get a 403.
func (c *Client) OverdueIssues(ctx context.Context) ([]Issue, error) {
	var issues []Issue
	if err := c.do(ctx, http.MethodGet, "/issues/overdue/", nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// MyReservations retrieves the current user's holds.
func (c *Client) MyReservations(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation
	if err := c.do(ctx, http.MethodGet, "/reservations/my_reservations/", nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// Reserve places a hold against a title for the current user.
func (c *Client) Reserve(ctx context.Context, bookID int64) (Reservation, error) {
	body := map[string]int64{"book": bookID}
	var reservation Reservation
	if err := c.do(ctx, http.MethodPost, "/reservations/", body, &reservation); err != nil {
		return Reservation{}, err
	}
	return reservation, nil
}

// CancelReservation cancels a pending hold. The service rejects cancellation
// of holds that are already fulfilled or cancelled.
func (c *Client) CancelReservation(ctx context.Context, id int64) (Reservation, error) {
	path := "/reservations/" + strconv.FormatInt(id, 10) + "/cancel/"
	var reservation Reservation
	if err := c.do(ctx, http.MethodPost, path, nil, &reservation); err != nil {
		return Reservation{}, err
	}
	return reservation, nil
}

// ListUsers retrieves all accounts. Staff only.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.AccessToken()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return decodeErrorBody(resp.StatusCode, rel.Path, payload)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		trimmed = defaultServerBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", serverURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
