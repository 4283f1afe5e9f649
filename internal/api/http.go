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

	"havencli/internal/common"
	"havencli/internal/models"
)

// HTTPClient implements Client against the Haven REST backend.
//
// The bearer token is read from the TokenSource on every request, so a
// login or logout between two calls takes effect immediately without
// rebuilding the client.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// NewHTTPClient builds a client for the API rooted at baseURL (including
// the /api prefix). A nil TokenSource sends every request unauthenticated.
func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
	}
}

// do performs one request/response cycle: marshal body, attach the token,
// map transport and HTTP failures to sentinel errors, and decode the
// response envelope. A nil out skips payload decoding.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w", method, path, common.ErrUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, common.ErrUnavailable)
	}

	if resp.StatusCode >= 400 {
		return c.statusError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Status == "error" {
		return fmt.Errorf("%w: %s", common.ErrRejected, env.Message)
	}
	payload := env.Data
	if payload == nil {
		// some endpoints return the payload bare, without the envelope
		payload = data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps an HTTP failure status to a sentinel error, carrying the
// server's message when one was provided.
func (c *HTTPClient) statusError(status int, body []byte) error {
	var env envelope
	msg := ""
	if err := json.Unmarshal(body, &env); err == nil {
		msg = env.Message
	}

	switch {
	case status == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case status == http.StatusNotFound:
		return common.ErrNotFound
	case status >= 500:
		return fmt.Errorf("%w: status %d", common.ErrUnavailable, status)
	default:
		if msg == "" {
			msg = fmt.Sprintf("status %d", status)
		}
		return fmt.Errorf("%w: %s", common.ErrRejected, msg)
	}
}

type deviceInfoBody struct {
	DeviceID string `json:"deviceId"`
	Platform string `json:"platform"`
	Hostname string `json:"hostname"`
}

func deviceBody(d models.DeviceInfo) deviceInfoBody {
	return deviceInfoBody{DeviceID: d.DeviceID, Platform: d.Platform, Hostname: d.Hostname}
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) (AuthResult, error) {
	body := map[string]any{"username": username, "password": password}
	var data wireAuthData
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &data); err != nil {
		return AuthResult{}, err
	}
	return data.normalize(), nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string, device models.DeviceInfo) (AuthResult, error) {
	body := map[string]any{
		"username":   username,
		"password":   password,
		"deviceInfo": deviceBody(device),
	}
	var data wireAuthData
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &data); err != nil {
		return AuthResult{}, err
	}
	return data.normalize(), nil
}

func (c *HTTPClient) LoginPassphrase(ctx context.Context, username, passphrase string, device models.DeviceInfo) (AuthResult, error) {
	body := map[string]any{
		"username":   username,
		"passphrase": passphrase,
		"deviceInfo": deviceBody(device),
	}
	var data wireAuthData
	if err := c.do(ctx, http.MethodPost, "/auth/login/passphrase", nil, body, &data); err != nil {
		return AuthResult{}, err
	}
	return data.normalize(), nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var data struct {
		User wireUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &data); err != nil {
		return models.User{}, err
	}
	return data.User.normalize(), nil
}

func (c *HTTPClient) Feed(ctx context.Context, q models.FeedQuery) (FeedPage, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		query.Set("sort", string(q.Sort))
	}
	if q.Filter != models.FilterNone {
		query.Set("filter", string(q.Filter))
	}
	if len(q.Tags) > 0 {
		query.Set("tags", strings.Join(q.Tags, ","))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var data struct {
		Posts      []wirePost     `json:"posts"`
		Pagination wirePagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/posts/feed", query, nil, &data); err != nil {
		return FeedPage{}, err
	}

	page := FeedPage{
		Page:        data.Pagination.Page,
		TotalPages:  data.Pagination.TotalPages,
		TotalItems:  data.Pagination.Total,
		HasNextPage: data.Pagination.hasNext(),
	}
	for _, p := range data.Posts {
		page.Posts = append(page.Posts, p.normalize())
	}
	return page, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, draft models.PostDraft) (models.Post, error) {
	body := map[string]any{
		"content":            draft.Content,
		"isAnonymous":        draft.IsAnonymous,
		"tags":               draft.Tags,
		"hasTriggerWarning":  draft.HasTriggerWarning,
		"triggerWarningText": draft.TriggerWarningText,
	}
	var data struct {
		Post wirePost `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, "/posts", nil, body, &data); err != nil {
		return models.Post{}, err
	}
	return data.Post.normalize(), nil
}

func (c *HTTPClient) VotePost(ctx context.Context, postID string, up bool) error {
	voteType := "down"
	if up {
		voteType = "up"
	}
	body := map[string]string{"voteType": voteType}
	return c.do(ctx, http.MethodPost, "/posts/"+postID+"/vote", nil, body, nil)
}

func (c *HTTPClient) SavePost(ctx context.Context, postID string, saved bool) error {
	endpoint := "unsave"
	if saved {
		endpoint = "save"
	}
	return c.do(ctx, http.MethodPost, "/posts/"+postID+"/"+endpoint, nil, nil, nil)
}

func (c *HTTPClient) ReportPost(ctx context.Context, postID, reason string) error {
	body := map[string]string{"reason": reason}
	return c.do(ctx, http.MethodPost, "/posts/"+postID+"/report", nil, body, nil)
}

func (c *HTTPClient) UpdatePostUrgency(ctx context.Context, postID string, level models.UrgencyLevel) (models.Post, error) {
	body := map[string]string{"urgencyLevel": string(level)}
	var data struct {
		Post wirePost `json:"post"`
	}
	if err := c.do(ctx, http.MethodPatch, "/posts/"+postID+"/urgency", nil, body, &data); err != nil {
		return models.Post{}, err
	}
	return data.Post.normalize(), nil
}

func (c *HTTPClient) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	var data struct {
		Comments []wireComment `json:"comments"`
	}
	if err := c.do(ctx, http.MethodGet, "/comments/post/"+postID, nil, nil, &data); err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(data.Comments))
	for _, w := range data.Comments {
		comments = append(comments, w.normalize())
	}
	return comments, nil
}

func (c *HTTPClient) CreateComment(ctx context.Context, postID string, draft models.CommentDraft) (models.Comment, error) {
	body := map[string]any{
		"content":     draft.Content,
		"isAnonymous": draft.IsAnonymous,
	}
	if draft.ParentID != "" {
		body["parentId"] = draft.ParentID
	}
	var data struct {
		Comment wireComment `json:"comment"`
	}
	if err := c.do(ctx, http.MethodPost, "/comments/post/"+postID, nil, body, &data); err != nil {
		return models.Comment{}, err
	}
	return data.Comment.normalize(), nil
}

func (c *HTTPClient) LikeComment(ctx context.Context, commentID string, liked bool) error {
	endpoint := "unlike"
	if liked {
		endpoint = "like"
	}
	return c.do(ctx, http.MethodPost, "/comments/"+commentID+"/"+endpoint, nil, nil, nil)
}

func (c *HTTPClient) Tags(ctx context.Context, category string) ([]models.Tag, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	var data struct {
		Tags []wireTag `json:"tags"`
	}
	if err := c.do(ctx, http.MethodGet, "/tags", query, nil, &data); err != nil {
		return nil, err
	}
	tags := make([]models.Tag, 0, len(data.Tags))
	for _, w := range data.Tags {
		tags = append(tags, w.normalize())
	}
	return tags, nil
}

func (c *HTTPClient) PopularTags(ctx context.Context, limit int) ([]models.Tag, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var data struct {
		Tags []wireTag `json:"tags"`
	}
	if err := c.do(ctx, http.MethodGet, "/tags/popular", query, nil, &data); err != nil {
		return nil, err
	}
	tags := make([]models.Tag, 0, len(data.Tags))
	for _, w := range data.Tags {
		tags = append(tags, w.normalize())
	}
	return tags, nil
}

func (c *HTTPClient) CreateTag(ctx context.Context, name, category string) (models.Tag, error) {
	body := map[string]string{"name": name}
	if category != "" {
		body["category"] = category
	}
	var data struct {
		Tag wireTag `json:"tag"`
	}
	if err := c.do(ctx, http.MethodPost, "/tags", nil, body, &data); err != nil {
		return models.Tag{}, err
	}
	return data.Tag.normalize(), nil
}

func (c *HTTPClient) Notifications(ctx context.Context, page, limit int) (NotificationPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var data struct {
		Notifications []wireNotification `json:"notifications"`
		UnreadCount   int                `json:"unreadCount"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications", query, nil, &data); err != nil {
		return NotificationPage{}, err
	}
	res := NotificationPage{UnreadCount: data.UnreadCount}
	for _, w := range data.Notifications {
		res.Notifications = append(res.Notifications, w.normalize())
	}
	return res, nil
}

func (c *HTTPClient) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+id+"/read", nil, nil, nil)
}

func (c *HTTPClient) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/notifications/read-all", nil, nil, nil)
}
