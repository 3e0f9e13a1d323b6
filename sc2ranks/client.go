package sc2ranks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Client represents an sc2ranks API client
type Client struct {
	endpoint   string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new sc2ranks client
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	endpoint := strings.TrimRight(o.endpoint, "/")
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid endpoint %q", ErrInvalidConfig, o.endpoint)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		userAgent:  o.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Endpoint returns the API root the client talks to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Search finds characters by name. A nil offset requests the first page of
// duplicate names.
func (c *Client) Search(ctx context.Context, name string, region Region, searchType SearchType, offset *int) (*Response, error) {
	if !region.Valid() {
		return nil, invalidArgument("%q is not a valid region", region)
	}
	if name == "" {
		return nil, invalidArgument("name is required")
	}
	if searchType == "" {
		searchType = SearchExact
	}
	if !searchType.Valid() {
		return nil, invalidArgument("%q is not a valid search type", searchType)
	}

	segments := []string{"search", string(searchType), string(region), name}
	if offset != nil {
		if *offset < 0 {
			return nil, invalidArgument("offset must not be negative, got %d", *offset)
		}
		segments = append(segments, strconv.Itoa(*offset))
	}

	return c.execute(ctx, segments...)
}

// GetCharacter fetches a character by name and either battle.net id or code
func (c *Client) GetCharacter(ctx context.Context, name string, region Region, ref CharacterRef, details CharacterDetails) (*Response, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	if !region.Valid() {
		return nil, invalidArgument("%q is not a valid region", region)
	}
	if name == "" {
		return nil, invalidArgument("name is required")
	}
	if details == "" {
		details = DetailsCharacter
	}
	if !details.Valid() {
		return nil, invalidArgument("%q is not a valid detail level", details)
	}

	// The separator is part of the API's addressing scheme and stays unescaped.
	character := escapeSegment(name) + ref.separator() + escapeSegment(ref.Value())

	return c.executeEscaped(ctx, "base/"+escapeSegment(string(details))+"/"+escapeSegment(string(region))+"/"+character)
}

// MaximumBonusPool fetches the global bonus pool
func (c *Client) MaximumBonusPool(ctx context.Context) (*Response, error) {
	return c.execute(ctx, "bonus", "pool")
}

// execute escapes each segment and performs the request
func (c *Client) execute(ctx context.Context, segments ...string) (*Response, error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = escapeSegment(s)
	}
	return c.executeEscaped(ctx, strings.Join(escaped, "/"))
}

// escapeSegment percent-encodes a path segment. url.PathEscape leaves '$'
// alone, but '$' separates a name from a character code.
func escapeSegment(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), "$", "%24")
}

// executeEscaped performs a GET against an already escaped path and checks
// the response envelope
func (c *Client) executeEscaped(ctx context.Context, path string) (*Response, error) {
	params := url.Values{}
	params.Set("appKey", c.apiKey)
	requestURL := fmt.Sprintf("%s/%s?%s", c.endpoint, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("endpoint", c.endpoint).
		Str("path", path).
		Msg("Making sc2ranks API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, &InvalidResponseError{StatusCode: resp.StatusCode, Err: err}
	}

	if obj, ok := value.(map[string]any); ok {
		if code, ok := obj["error"]; ok {
			return nil, c.handleError(path, code)
		}
	}

	return &Response{Value: value, Raw: json.RawMessage(body)}, nil
}

// handleError maps an envelope error code to an error value
func (c *Client) handleError(path string, code any) error {
	c.logger.Debug().
		Str("path", path).
		Interface("error", code).
		Msg("sc2ranks API returned an error envelope")

	if s, ok := code.(string); ok && s == errNoCharacters {
		return ErrCharacterNotFound
	}
	return &RemoteError{Code: fmt.Sprint(code)}
}
