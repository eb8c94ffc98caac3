package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/internal/search"
)

var (
	// ErrUnauthorized is returned when the server rejects the stored token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned for missing resources.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Is maps 401 and 404 onto ErrUnauthorized and ErrNotFound.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Client talks to the HerdUp server and search API.
type Client struct {
	http      *http.Client
	apiURL    string
	searchURL string
	tokens    TokenStore
	logger    *zap.Logger
}

// New creates a client. tokens may be nil for anonymous use.
func New(cfg Config, tokens TokenStore, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		searchURL: strings.TrimRight(cfg.SearchURL, "/"),
		tokens:    tokens,
		logger:    logger,
	}
}

// Tokens returns the credentials store.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, base, path string, query url.Values, body any) (*http.Request, error) {
	u := base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// call performs a request against the server API and decodes the envelope's data into out.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, c.apiURL, path, query, body)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && resp.StatusCode < 300 {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	return nil
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// SignUpInput is the account creation form.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	UTEID    string `json:"ut_eid"`
}

type tokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// SignUp creates an account and stores its token.
func (c *Client) SignUp(ctx context.Context, in SignUpInput) (models.UserPublic, error) {
	var out tokenResponse
	if err := c.call(ctx, http.MethodPost, "/auth/signup", nil, in, &out); err != nil {
		return models.UserPublic{}, err
	}
	return out.User, c.tokens.SetToken(out.Token)
}

// Login signs in and stores the token.
func (c *Client) Login(ctx context.Context, email, password string) (models.UserPublic, error) {
	var out tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return models.UserPublic{}, err
	}
	return out.User, c.tokens.SetToken(out.Token)
}

// Logout ends the session on the server and forgets the token either way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if clearErr := c.tokens.Clear(); clearErr != nil {
		return clearErr
	}
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

// Session returns the identity behind the stored token.
func (c *Client) Session(ctx context.Context) (models.Session, error) {
	var s models.Session
	err := c.call(ctx, http.MethodGet, "/auth/session", nil, nil, &s)
	return s, err
}

// RequestPasswordReset asks the server to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodPost, "/auth/password-reset", nil, map[string]string{"email": email}, nil)
}

// MemberOrganizationIDs returns the ids of the signed-in user's organizations.
func (c *Client) MemberOrganizationIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := c.call(ctx, http.MethodGet, "/me/organizations", nil, nil, &ids)
	return ids, err
}

// OrganizationsByIDs returns the given organizations. No ids, no request.
func (c *Client) OrganizationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Organization, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Organization
	err := c.call(ctx, http.MethodGet, "/organizations", url.Values{"ids": {joinIDs(ids)}}, nil, &list)
	return list, err
}

// Organization returns one organization.
func (c *Client) Organization(ctx context.Context, id uuid.UUID) (models.Organization, error) {
	var o models.Organization
	err := c.call(ctx, http.MethodGet, "/organizations/"+id.String(), nil, nil, &o)
	return o, err
}

// OrganizationLogos returns id/logo pairs for the given organizations. No ids, no request.
func (c *Client) OrganizationLogos(ctx context.Context, ids []uuid.UUID) ([]models.OrganizationLogo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.OrganizationLogo
	err := c.call(ctx, http.MethodGet, "/organizations/logos", url.Values{"ids": {joinIDs(ids)}}, nil, &list)
	return list, err
}

// JoinOrganization adds the signed-in user to an organization.
func (c *Client) JoinOrganization(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodPost, "/organizations/"+id.String()+"/members", nil, nil, nil)
}

// LeaveOrganization removes the signed-in user from an organization.
func (c *Client) LeaveOrganization(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/organizations/"+id.String()+"/members", nil, nil, nil)
}

// EventsByOrganizations returns events of the given organizations, soonest first. No ids, no request.
func (c *Client) EventsByOrganizations(ctx context.Context, ids []uuid.UUID) ([]models.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Event
	err := c.call(ctx, http.MethodGet, "/events", url.Values{"organization_ids": {joinIDs(ids)}}, nil, &list)
	return list, err
}

// EventsForOrganization returns one organization's events, soonest first.
func (c *Client) EventsForOrganization(ctx context.Context, id uuid.UUID) ([]models.Event, error) {
	return c.EventsByOrganizations(ctx, []uuid.UUID{id})
}

// Event returns one event.
func (c *Client) Event(ctx context.Context, id uuid.UUID) (models.Event, error) {
	var e models.Event
	err := c.call(ctx, http.MethodGet, "/events/"+id.String(), nil, nil, &e)
	return e, err
}

// AnnouncementsByOrganizations returns announcements of the given organizations, newest first. No ids, no request.
func (c *Client) AnnouncementsByOrganizations(ctx context.Context, ids []uuid.UUID) ([]models.Announcement, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Announcement
	err := c.call(ctx, http.MethodGet, "/announcements", url.Values{"organization_ids": {joinIDs(ids)}}, nil, &list)
	return list, err
}

// AnnouncementsForOrganization returns one organization's announcements, newest first.
func (c *Client) AnnouncementsForOrganization(ctx context.Context, id uuid.UUID) ([]models.Announcement, error) {
	return c.AnnouncementsByOrganizations(ctx, []uuid.UUID{id})
}

// Tags returns the tag catalogue.
func (c *Client) Tags(ctx context.Context) ([]models.Tag, error) {
	var list []models.Tag
	err := c.call(ctx, http.MethodGet, "/tags", nil, nil, &list)
	return list, err
}

// Interests returns the signed-in user's interest tag names.
func (c *Client) Interests(ctx context.Context) ([]string, error) {
	var names []string
	err := c.call(ctx, http.MethodGet, "/me/interests", nil, nil, &names)
	return names, err
}

// ReplaceInterests makes names the user's whole interest set and returns the stored set.
func (c *Client) ReplaceInterests(ctx context.Context, names []string) ([]string, error) {
	if names == nil {
		names = []string{}
	}
	var out []string
	err := c.call(ctx, http.MethodPut, "/me/interests", nil, map[string][]string{"tags": names}, &out)
	return out, err
}

// Profile returns the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := c.call(ctx, http.MethodGet, "/me/profile", nil, nil, &p)
	return p, err
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.Profile, error) {
	var p models.Profile
	err := c.call(ctx, http.MethodPatch, "/me/profile", nil, patch, &p)
	return p, err
}

// RSVP records the user's RSVP to an event.
func (c *Client) RSVP(ctx context.Context, eventID uuid.UUID, notify bool) (models.RSVP, error) {
	var r models.RSVP
	err := c.call(ctx, http.MethodPost, "/events/"+eventID.String()+"/rsvp", nil, map[string]bool{"notify": notify}, &r)
	return r, err
}

// CancelRSVP withdraws the user's RSVP.
func (c *Client) CancelRSVP(ctx context.Context, eventID uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/events/"+eventID.String()+"/rsvp", nil, nil, nil)
}

// MyRSVPs returns the user's RSVPs.
func (c *Client) MyRSVPs(ctx context.Context) ([]models.RSVP, error) {
	var list []models.RSVP
	err := c.call(ctx, http.MethodGet, "/me/rsvps", nil, nil, &list)
	return list, err
}

// searchCall performs a request against the search API, which answers without the envelope.
func (c *Client) searchCall(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, c.searchURL, path, nil, body)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	if resp.StatusCode >= 300 {
		var failure struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.Unmarshal(raw, &failure)
		msg := failure.Message
		if msg == "" {
			msg = failure.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// Search runs a ranked organization search.
func (c *Client) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	if req.TagIDs == nil {
		req.TagIDs = []int64{}
	}
	var out search.Response
	if err := c.searchCall(ctx, http.MethodPost, "/api/search", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Autocomplete returns up to five name suggestions.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]search.Suggestion, error) {
	var out struct {
		Suggestions []search.Suggestion `json:"suggestions"`
	}
	err := c.searchCall(ctx, http.MethodPost, "/api/autocomplete", map[string]string{"query": query}, &out)
	return out.Suggestions, err
}

// SearchTags returns the tag catalogue from the search API.
func (c *Client) SearchTags(ctx context.Context) ([]models.Tag, error) {
	var out struct {
		Success bool         `json:"success"`
		Error   string       `json:"error"`
		Data    []models.Tag `json:"data"`
	}
	if err := c.searchCall(ctx, http.MethodGet, "/api/tags", nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &APIError{Status: http.StatusOK, Message: out.Error}
	}
	return out.Data, nil
}

// SearchOrganizations returns every organization with its tags from the search API.
func (c *Client) SearchOrganizations(ctx context.Context) ([]models.Organization, error) {
	var out struct {
		Success bool                  `json:"success"`
		Error   string                `json:"error"`
		Data    []models.Organization `json:"data"`
	}
	if err := c.searchCall(ctx, http.MethodGet, "/api/organizations", nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &APIError{Status: http.StatusOK, Message: out.Error}
	}
	return out.Data, nil
}
