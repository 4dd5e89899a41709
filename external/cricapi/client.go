package cricapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL      = "https://api.cricapi.com/v1"
	defaultTimeout      = 15 * time.Second
	defaultCacheTTL     = 30 * time.Second
	defaultSquadTTL     = 10 * time.Minute
	defaultMatchesPages = 2
	matchesPageSize     = 25
	maxResponseBytes    = 6 << 20
	statusSuccess       = "success"
	cacheKeyPrefix      = "cricapi:"
)

var apiKeyParamRegex = regexp.MustCompile(`apikey=[^&\s"']+`)
var errCricAPITransient = crerr.New("cricapi transient failure")

// Doer is the subset of *fasthttp.Client the client needs.
type Doer interface {
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

type ClientConfig struct {
	HTTPClient     Doer
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	MatchesPages   int
	Cache          cache.Cache
	CacheTTL       time.Duration
	SquadCacheTTL  time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads matches, scorecards and squads from a CricAPI compatible API.
type Client struct {
	httpClient   Doer
	baseURL      string
	apiKey       string
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	matchesPages int
	loader       *cache.Loader
	cacheTTL     time.Duration
	squadTTL     time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	now          func() time.Time
}

var _ usecase.MatchProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "fantasy-cricket",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBytes,
			MaxConnsPerHost:     64,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	pages := cfg.MatchesPages
	if pages <= 0 {
		pages = defaultMatchesPages
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	squadTTL := cfg.SquadCacheTTL
	if squadTTL <= 0 {
		squadTTL = defaultSquadTTL
	}
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = resilience.LogStateChanges(logger, "cricapi")
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		timeout:      timeout,
		maxRetries:   maxInt(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		matchesPages: pages,
		loader:       cache.NewLoader(cfg.Cache),
		cacheTTL:     cacheTTL,
		squadTTL:     squadTTL,
		logger:       logger,
		breaker:      resilience.NewCircuitBreakerFromConfig(breakerCfg),
		now:          time.Now,
	}
}

// ListMatches merges currentMatches with the first pages of the match list.
// Entries from currentMatches win on duplicate IDs since they carry live scores.
func (c *Client) ListMatches(ctx context.Context) ([]match.Match, error) {
	results := make([][]matchItem, c.matchesPages+1)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var env envelope[[]matchItem]
		if _, err := c.doJSON(ctx, "currentMatches", nil, c.cacheTTL, &env); err != nil {
			return fmt.Errorf("fetch current matches: %w", err)
		}
		results[0] = env.Data
		return nil
	})
	for page := 0; page < c.matchesPages; page++ {
		slot := page + 1
		offset := page * matchesPageSize
		p.Go(func(ctx context.Context) error {
			var env envelope[[]matchItem]
			query := map[string]string{"offset": strconv.Itoa(offset)}
			if _, err := c.doJSON(ctx, "matches", query, c.cacheTTL, &env); err != nil {
				if slot > 1 {
					c.logger.WarnContext(ctx, "fetch match list page failed, continuing", "offset", offset, "error", err)
					return nil
				}
				return fmt.Errorf("fetch matches offset=%d: %w", offset, err)
			}
			results[slot] = env.Data
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	syncedAt := c.now().UTC()
	seen := make(map[string]struct{}, 64)
	out := make([]match.Match, 0, 64)
	for _, items := range results {
		for _, item := range items {
			id := strings.TrimSpace(item.ID)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, mapMatch(item, syncedAt))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Client) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	var env envelope[*matchItem]
	if _, err := c.doJSON(ctx, "match_info", map[string]string{"id": matchID}, c.cacheTTL, &env); err != nil {
		return match.Match{}, fmt.Errorf("fetch match info match_id=%s: %w", matchID, err)
	}
	if env.Data == nil || strings.TrimSpace(env.Data.ID) == "" {
		return match.Match{}, fmt.Errorf("%w: match %s", usecase.ErrNotFound, matchID)
	}
	return mapMatch(*env.Data, c.now().UTC()), nil
}

func (c *Client) GetScorecard(ctx context.Context, matchID string) (usecase.ExternalScorecard, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return usecase.ExternalScorecard{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	var env envelope[*scorecardData]
	if _, err := c.doJSON(ctx, "match_scorecard", map[string]string{"id": matchID}, c.cacheTTL, &env); err != nil {
		return usecase.ExternalScorecard{}, fmt.Errorf("fetch scorecard match_id=%s: %w", matchID, err)
	}
	if env.Data == nil || strings.TrimSpace(env.Data.ID) == "" {
		return usecase.ExternalScorecard{}, fmt.Errorf("%w: scorecard for match %s", usecase.ErrNotFound, matchID)
	}
	card, skipped := mapScorecard(*env.Data, c.now().UTC())
	for _, spell := range skipped {
		c.logger.WarnContext(ctx, "skip bowling figures with invalid overs",
			"match_id", matchID,
			"player_id", spell.PlayerID,
			"innings", spell.Innings,
			"overs", spell.Overs,
		)
	}
	return card, nil
}

func (c *Client) GetSquad(ctx context.Context, matchID string) (player.Squad, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return player.Squad{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	var env envelope[[]squadTeam]
	if _, err := c.doJSON(ctx, "match_squad", map[string]string{"id": matchID}, c.squadTTL, &env); err != nil {
		return player.Squad{}, fmt.Errorf("fetch squad match_id=%s: %w", matchID, err)
	}
	if len(env.Data) == 0 {
		return player.Squad{}, fmt.Errorf("%w: squad for match %s", usecase.ErrNotFound, matchID)
	}
	return mapSquad(matchID, env.Data), nil
}

func (c *Client) doJSON(ctx context.Context, endpoint string, query map[string]string, ttl time.Duration, target any) ([]byte, error) {
	fullURL, cacheKey := c.buildURL(endpoint, query)
	raw, err := c.loader.GetOrLoad(ctx, cacheKey, ttl, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, fullURL)
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) || isCricAPICircuitFailure(err) {
			return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
		return nil, err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}
	return raw, nil
}

// fetch performs one uncached request under the circuit breaker.
func (c *Client) fetch(ctx context.Context, fullURL string) ([]byte, error) {
	var body []byte
	run := func() error {
		raw, err := c.executeRequest(ctx, fullURL)
		if err != nil {
			return err
		}
		if err := checkEnvelope(raw); err != nil {
			return err
		}
		body = raw
		return nil
	}

	if err := c.breaker.Execute(run, isCricAPICircuitFailure); err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "cricapi circuit breaker rejected request", "state", c.breaker.State())
		}
		return nil, err
	}
	return body, nil
}

// buildURL returns the request URL and a cache key that never includes the API key.
func (c *Client) buildURL(endpoint string, query map[string]string) (string, string) {
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(endpoint)
	for i, key := range keys {
		if i == 0 {
			_ = buf.WriteByte('?')
		} else {
			_ = buf.WriteByte('&')
		}
		_, _ = buf.WriteString(url.QueryEscape(key))
		_ = buf.WriteByte('=')
		_, _ = buf.WriteString(url.QueryEscape(query[key]))
	}
	cacheKey := cacheKeyPrefix + buf.String()

	buf.Reset()
	_, _ = buf.WriteString(c.baseURL)
	_ = buf.WriteByte('/')
	_, _ = buf.WriteString(endpoint)
	_, _ = buf.WriteString("?apikey=")
	_, _ = buf.WriteString(url.QueryEscape(c.apiKey))
	if _, ok := query["offset"]; !ok {
		_, _ = buf.WriteString("&offset=0")
	}
	for _, key := range keys {
		_ = buf.WriteByte('&')
		_, _ = buf.WriteString(url.QueryEscape(key))
		_ = buf.WriteByte('=')
		_, _ = buf.WriteString(url.QueryEscape(query[key]))
	}
	return buf.String(), cacheKey
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		body, status, err := c.send(ctx, fullURL)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %s", errCricAPITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		case status >= 200 && status < 300:
			return body, nil
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errCricAPITransient, status, abbreviateBody(body))
		default:
			return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(body))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.retryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "cricapi request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

// checkEnvelope rejects payloads whose status is not "success". Quota
// exhaustion is reported with a 200 and is treated as transient.
func checkEnvelope(body []byte) error {
	var env struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := sonic.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode provider envelope: %w", err)
	}
	if strings.EqualFold(env.Status, statusSuccess) {
		return nil
	}

	reason := strings.TrimSpace(env.Reason)
	lower := strings.ToLower(reason)
	if strings.Contains(lower, "not found") || strings.Contains(lower, "invalid match") {
		return fmt.Errorf("%w: provider status=%s reason=%s", usecase.ErrNotFound, env.Status, reason)
	}
	if strings.Contains(lower, "hits") || strings.Contains(lower, "limit") || strings.Contains(lower, "blocked") {
		return fmt.Errorf("%w: provider status=%s reason=%s", errCricAPITransient, env.Status, reason)
	}
	return fmt.Errorf("provider status=%s reason=%s", env.Status, reason)
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "apikey=REDACTED")
}

func isCricAPICircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errCricAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return sanitizeSensitiveText(rawURL, "")
	}
	query := parsed.Query()
	if query.Has("apikey") {
		query.Set("apikey", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
