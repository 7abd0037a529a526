package plbackend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/premhub/premier-hub/internal/domain/match"
	"github.com/premhub/premier-hub/internal/domain/player"
	"github.com/premhub/premier-hub/internal/domain/standing"
	"github.com/premhub/premier-hub/internal/domain/team"
	"github.com/premhub/premier-hub/internal/platform/logging"
	"github.com/premhub/premier-hub/internal/platform/resilience"
	"github.com/premhub/premier-hub/internal/usecase"
)

const (
	defaultBaseURL     = "https://api.premierleague.internal/v1"
	maxResponseBytes   = 6 << 20
	idempotencyHeader  = "Idempotency-Key"
	defaultHTTPTimeout = 20 * time.Second
)

var bearerTokenRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)
var errBackendTransient = crerr.New("premier league backend transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the upstream Premier League backend over REST. Reads are
// deduplicated in flight and guarded by a circuit breaker; mutations carry
// the caller's idempotency key and are never retried past a definitive
// upstream answer.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

var _ usecase.Backend = (*Client)(nil)
var _ usecase.AdminBackend = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultHTTPTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

func (c *Client) FetchStandings(ctx context.Context, seasonID string) ([]standing.Standing, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("season id is required")
	}

	var envelope standingsEnvelope
	path := "/seasons/" + url.PathEscape(seasonID) + "/standings"
	if err := c.getJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings season=%s: %w", seasonID, err)
	}

	out := make([]standing.Standing, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		row := mapStanding(seasonID, item)
		if row.TeamID == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (c *Client) FetchMatches(ctx context.Context, filter usecase.MatchFilter) ([]match.Match, error) {
	query := map[string]string{}
	if filter.SeasonID != "" {
		query["season_id"] = filter.SeasonID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Matchday > 0 {
		query["matchday"] = strconv.Itoa(filter.Matchday)
	}

	var envelope matchesEnvelope
	if err := c.getJSON(ctx, "/matches", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch matches: %w", err)
	}

	out := make([]match.Match, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped := mapMatch(item)
		if mapped.ID == "" {
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (c *Client) FetchMatchEvents(ctx context.Context, matchID string) ([]match.GoalEvent, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("match id is required")
	}

	var envelope eventsEnvelope
	path := "/matches/" + url.PathEscape(matchID) + "/events"
	if err := c.getJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch match events match=%s: %w", matchID, err)
	}

	out := make([]match.GoalEvent, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, mapEvent(item))
	}
	return out, nil
}

func (c *Client) FetchTeams(ctx context.Context) ([]team.Team, error) {
	var envelope teamsEnvelope
	if err := c.getJSON(ctx, "/teams", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	out := make([]team.Team, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped := mapTeam(item)
		if mapped.ID == "" {
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (c *Client) FetchPlayersByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("team id is required")
	}

	var envelope playersEnvelope
	path := "/teams/" + url.PathEscape(teamID) + "/players"
	if err := c.getJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch players team=%s: %w", teamID, err)
	}

	out := make([]player.Player, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, mapPlayer(item))
	}
	return out, nil
}

func (c *Client) StartMatch(ctx context.Context, matchID, idempotencyKey string) (match.Match, error) {
	var envelope matchEnvelope
	path := "/matches/" + url.PathEscape(matchID) + "/start"
	if err := c.mutateJSON(ctx, http.MethodPost, path, nil, idempotencyKey, &envelope); err != nil {
		return match.Match{}, fmt.Errorf("start match=%s: %w", matchID, err)
	}
	return mapMatch(envelope.Data), nil
}

func (c *Client) FinishMatch(ctx context.Context, matchID, idempotencyKey string) (match.Match, error) {
	var envelope matchEnvelope
	path := "/matches/" + url.PathEscape(matchID) + "/finish"
	if err := c.mutateJSON(ctx, http.MethodPost, path, nil, idempotencyKey, &envelope); err != nil {
		return match.Match{}, fmt.Errorf("finish match=%s: %w", matchID, err)
	}
	return mapMatch(envelope.Data), nil
}

func (c *Client) CreatePlayer(ctx context.Context, item player.Player, idempotencyKey string) (player.Player, error) {
	var envelope playerEnvelope
	if err := c.mutateJSON(ctx, http.MethodPost, "/players", playerToItem(item), idempotencyKey, &envelope); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	return mapPlayer(envelope.Data), nil
}

func (c *Client) UpdatePlayer(ctx context.Context, item player.Player, idempotencyKey string) (player.Player, error) {
	var envelope playerEnvelope
	path := "/players/" + url.PathEscape(item.ID)
	if err := c.mutateJSON(ctx, http.MethodPut, path, playerToItem(item), idempotencyKey, &envelope); err != nil {
		return player.Player{}, fmt.Errorf("update player=%s: %w", item.ID, err)
	}
	return mapPlayer(envelope.Data), nil
}

func (c *Client) DeletePlayer(ctx context.Context, playerID, idempotencyKey string) error {
	path := "/players/" + url.PathEscape(playerID)
	if err := c.mutateJSON(ctx, http.MethodDelete, path, nil, idempotencyKey, nil); err != nil {
		return fmt.Errorf("delete player=%s: %w", playerID, err)
	}
	return nil
}

func (c *Client) AssignCoach(ctx context.Context, teamID, coachName, idempotencyKey string) error {
	path := "/teams/" + url.PathEscape(teamID) + "/coach"
	body := coachAssignmentBody{CoachName: coachName}
	if err := c.mutateJSON(ctx, http.MethodPut, path, body, idempotencyKey, nil); err != nil {
		return fmt.Errorf("assign coach team=%s: %w", teamID, err)
	}
	return nil
}

// getJSON fetches a read endpoint. Concurrent identical reads collapse to
// one upstream request via single flight.
func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if err := c.allow(ctx); err != nil {
		return err
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, http.MethodGet, fullURL, nil, "", c.maxRetries)
		c.record(reqErr)
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode backend payload: %w", err)
	}
	return nil
}

// mutateJSON sends a write. The idempotency key makes upstream retries
// safe, so transient failures retry the same way reads do.
func (c *Client) mutateJSON(ctx context.Context, method, path string, body any, idempotencyKey string, target any) error {
	if err := c.allow(ctx); err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		buf := bytebufferpool.Get()
		err := sonic.ConfigDefault.NewEncoder(buf).Encode(body)
		if err != nil {
			bytebufferpool.Put(buf)
			return fmt.Errorf("encode request body: %w", err)
		}
		// Copy out before returning the buffer: retries re-send the body.
		payload = append([]byte(nil), buf.B...)
		bytebufferpool.Put(buf)
	}

	raw, err := c.executeRequest(ctx, method, c.baseURL+path, payload, idempotencyKey, c.maxRetries)
	c.record(err)
	if err != nil {
		return err
	}
	if target == nil || len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode backend payload: %w", err)
	}
	return nil
}

func (c *Client) allow(ctx context.Context) error {
	if !c.circuitEnabled {
		return nil
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "backend circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: premier league backend is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return nil
}

func (c *Client) record(err error) {
	if !c.circuitEnabled {
		return
	}
	if err != nil && crerr.Is(err, errBackendTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func (c *Client) executeRequest(ctx context.Context, method, fullURL string, body []byte, idempotencyKey string, maxRetries int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := c.buildRequest(ctx, method, fullURL, body, idempotencyKey)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errBackendTransient, c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errBackendTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: backend status=%d body=%s", errBackendTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, backendStatusError(resp.StatusCode, raw)
			}
		}

		if attempt == maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("backend request failed")
	}
	c.logger.WarnContext(ctx, "premier league backend request failed",
		"method", method,
		"url", fullURL,
		"error", lastErr,
	)
	return nil, lastErr
}

func (c *Client) buildRequest(ctx context.Context, method, fullURL string, body []byte, idempotencyKey string) (*http.Request, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("accept", "application/json")
	if len(body) > 0 {
		req.Header.Set("content-type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("authorization", "Bearer "+c.token)
	}
	if idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, idempotencyKey)
	}
	return req, nil
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.token != "" {
		value = strings.ReplaceAll(value, c.token, "REDACTED")
	}
	return bearerTokenRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func backendStatusError(status int, raw []byte) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: backend status=404 body=%s", usecase.ErrNotFound, abbreviateBody(raw))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: backend status=%d body=%s", usecase.ErrInvalidInput, status, abbreviateBody(raw))
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: backend status=%d body=%s", usecase.ErrUnauthorized, status, abbreviateBody(raw))
	default:
		return fmt.Errorf("backend status=%d body=%s", status, abbreviateBody(raw))
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}
