package todo

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
	"time"

	"github.com/teemow/todofewer/internal/msauth"
)

const (
	// BaseURL is the Graph To Do API root.
	BaseURL = "https://graph.microsoft.com/v1.0/me/todo/"

	// DefaultListLimit is the page size requested when listing task lists.
	DefaultListLimit = 99

	// DefaultTaskPageSize is the page size hint when listing tasks
	// without an explicit limit.
	DefaultTaskPageSize = 1000

	requestTimeout = 30 * time.Second
)

// StatusFilter narrows task listings by completion state.
type StatusFilter string

const (
	FilterCompleted    StatusFilter = "completed"
	FilterNotCompleted StatusFilter = "notCompleted"
	FilterAll          StatusFilter = "all"
)

// filterQuery translates a StatusFilter into its OData $filter expression.
// FilterAll (and unknown values) mean no filtering.
func filterQuery(f StatusFilter) string {
	switch f {
	case FilterCompleted:
		return "status eq 'completed'"
	case FilterNotCompleted:
		return "status ne 'completed'"
	default:
		return ""
	}
}

// TokenSource provides bearer tokens for API requests. It is expected to
// renew expiring tokens itself; msauth.TokenProvider is the usual
// implementation.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client talks to the Graph To Do API.
type Client struct {
	tokens     TokenSource
	baseURL    string
	httpClient *http.Client
	account    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL points the client at a different API root. Used by tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithAccount tags the client with the account name it authenticates as.
func WithAccount(account string) ClientOption {
	return func(c *Client) {
		c.account = account
	}
}

// NewClient creates a To Do client around a token source.
func NewClient(tokens TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		tokens:     tokens,
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		account:    msauth.DefaultAccount,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// listsResponse is a page of task lists. Task lists are small enough that
// a single page with a generous $top covers them; nextLink is not followed.
type listsResponse struct {
	Value []TaskList `json:"value"`
}

// tasksResponse is one page of a task listing.
type tasksResponse struct {
	Value    []Task `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// ListTaskLists returns the user's task lists. limit caps the page size
// requested from the service; values <= 0 use DefaultListLimit.
func (c *Client) ListTaskLists(ctx context.Context, limit int) ([]TaskList, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var page listsResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%slists?$top=%d", c.baseURL, limit), nil, &page); err != nil {
		return nil, err
	}
	return page.Value, nil
}

// CreateTaskList creates a new task list with the given display name.
func (c *Client) CreateTaskList(ctx context.Context, name string) (*TaskList, error) {
	payload := map[string]string{"displayName": name}

	var list TaskList
	if err := c.do(ctx, http.MethodPost, c.baseURL+"lists", payload, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetTaskList reads a single task list.
func (c *Client) GetTaskList(ctx context.Context, listID string) (*TaskList, error) {
	var list TaskList
	if err := c.do(ctx, http.MethodGet, c.baseURL+"lists/"+url.PathEscape(listID), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateTaskList patches a task list with an arbitrary subset of writable
// fields (e.g. {"displayName": "Groceries"}).
func (c *Client) UpdateTaskList(ctx context.Context, listID string, fields map[string]any) (*TaskList, error) {
	var list TaskList
	if err := c.do(ctx, http.MethodPatch, c.baseURL+"lists/"+url.PathEscape(listID), fields, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteTaskList deletes a task list.
func (c *Client) DeleteTaskList(ctx context.Context, listID string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+"lists/"+url.PathEscape(listID), nil, nil)
}

// ListTasks returns tasks from a list, following server pagination until
// limit tasks are collected or the pages run out. limit <= 0 means
// unbounded: every page is fetched. The result is truncated to limit.
func (c *Client) ListTasks(ctx context.Context, listID string, limit int, filter StatusFilter) ([]Task, error) {
	pageSize := limit
	if pageSize <= 0 {
		pageSize = DefaultTaskPageSize
	}

	params := url.Values{}
	if q := filterQuery(filter); q != "" {
		params.Set("$filter", q)
	}
	params.Set("$top", fmt.Sprintf("%d", pageSize))

	next := fmt.Sprintf("%slists/%s/tasks?%s", c.baseURL, url.PathEscape(listID), params.Encode())

	var tasks []Task
	for next != "" && (limit <= 0 || len(tasks) < limit) {
		var page tasksResponse
		if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}
		tasks = append(tasks, page.Value...)
		next = page.NextLink
	}

	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

// TaskInput describes a task to create.
type TaskInput struct {
	Title    string
	DueDate  time.Time // zero means no due date
	BodyText string    // empty means no body
}

// CreateTask creates a task in a list. The due date is sent as a UTC
// wall-clock timestamp, matching what the To Do clients themselves send.
func (c *Client) CreateTask(ctx context.Context, listID string, input TaskInput) (*Task, error) {
	payload := struct {
		Title       string            `json:"title"`
		DueDateTime *DateTimeTimeZone `json:"dueDateTime,omitempty"`
		Body        *Body             `json:"body,omitempty"`
	}{
		Title: input.Title,
	}
	if !input.DueDate.IsZero() {
		due := NewUTCDateTime(input.DueDate)
		payload.DueDateTime = &due
	}
	if input.BodyText != "" {
		payload.Body = &Body{Content: input.BodyText, ContentType: "text"}
	}

	var task Task
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("%slists/%s/tasks", c.baseURL, url.PathEscape(listID)), payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask reads a single task.
func (c *Client) GetTask(ctx context.Context, listID, taskID string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, c.taskURL(listID, taskID), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask patches a task with an arbitrary subset of writable fields.
func (c *Client) UpdateTask(ctx context.Context, listID, taskID string, fields map[string]any) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPatch, c.taskURL(listID, taskID), fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, listID, taskID string) error {
	return c.do(ctx, http.MethodDelete, c.taskURL(listID, taskID), nil, nil)
}

// CompleteTask marks a task as completed. It is an update of the status
// field; the service fills in completedDateTime itself.
func (c *Client) CompleteTask(ctx context.Context, listID, taskID string) (*Task, error) {
	return c.UpdateTask(ctx, listID, taskID, map[string]any{"status": string(StatusCompleted)})
}

func (c *Client) taskURL(listID, taskID string) string {
	return fmt.Sprintf("%slists/%s/tasks/%s", c.baseURL, url.PathEscape(listID), url.PathEscape(taskID))
}

// do issues one API request: fetch a bearer token, send, check status,
// decode. Non-2xx responses become *APIError; so do token refresh
// failures, which carry the token endpoint's status.
func (c *Client) do(ctx context.Context, method, rawurl string, body, out any) error {
	access, err := c.tokens.AccessToken(ctx)
	if err != nil {
		var refreshErr *msauth.RefreshError
		if errors.As(err, &refreshErr) {
			return &APIError{StatusCode: refreshErr.StatusCode, Reason: refreshErr.Reason}
		}
		return fmt.Errorf("obtaining access token: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawurl, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+access)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, rawurl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Reason: respReason(resp)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// respReason extracts the reason phrase from the status line, falling back
// to the standard text for the code.
func respReason(resp *http.Response) string {
	if _, phrase, ok := strings.Cut(resp.Status, " "); ok && phrase != "" {
		return phrase
	}
	return http.StatusText(resp.StatusCode)
}
