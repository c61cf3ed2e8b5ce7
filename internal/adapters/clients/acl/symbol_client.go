package acl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/jsamuelsen/pictoboard/internal/adapters/clients"
	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/platform/logging"
)

// SymbolServiceName identifies the symbol service in errors, logs and health checks.
const SymbolServiceName = "arasaac"

// SymbolClientConfig contains configuration for the symbol client.
type SymbolClientConfig struct {
	// Client is the HTTP client to use for requests.
	// Its BaseURL is the pictogram API root, e.g. https://api.arasaac.org/api/pictograms.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// SymbolClient implements ports.SymbolLookup against the ARASAAC pictogram API.
type SymbolClient struct {
	client *clients.Client
	logger *slog.Logger
}

// NewSymbolClient creates a new symbol client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewSymbolClient(cfg SymbolClientConfig) *SymbolClient {
	if cfg.Client == nil {
		panic("SymbolClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SymbolClient{
		client: cfg.Client,
		logger: logger,
	}
}

// Search looks up key.Word in key.Language.
// Implements ports.SymbolLookup.
func (c *SymbolClient) Search(ctx context.Context, key domain.SymbolKey) ([]domain.SymbolRecord, error) {
	path := "/" + url.PathEscape(key.Language) + "/search/" + url.PathEscape(key.Word)
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	resp, err := c.client.Get(ctx, path)
	if err != nil {
		return nil, MapClientError(err, SymbolServiceName, "search "+key.String())
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if !IsSuccess(resp.StatusCode) {
		c.logger.DebugContext(ctx, "symbol search answered without results",
			slog.String("key", key.String()),
			slog.Int("status", resp.StatusCode))

		return []domain.SymbolRecord{}, nil
	}

	// The body is read in full here so that a connection dropped mid-body
	// is a transport failure and not a malformed answer.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, MapClientError(err, SymbolServiceName, "read "+key.String())
	}

	return c.parseSearchResponse(ctx, key, body), nil
}

// parseSearchResponse translates an answer body. Anything undecodable is
// logged and yields zero results.
func (c *SymbolClient) parseSearchResponse(ctx context.Context, key domain.SymbolKey, body []byte) []domain.SymbolRecord {
	records, err := decodePictograms(body)
	if err != nil {
		c.logger.WarnContext(ctx, "malformed symbol search response",
			slog.String("key", key.String()),
			slog.String("error", err.Error()))

		return []domain.SymbolRecord{}
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated search answer",
		slog.String("key", key.String()),
		slog.Int("count", len(records)))

	return records
}

// ImageURL returns the raster image address for a pictogram ID.
// Implements ports.SymbolLookup.
func (c *SymbolClient) ImageURL(id int) string {
	return c.client.URL(strconv.Itoa(id))
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *SymbolClient) Name() string {
	return SymbolServiceName
}

// Optional reports that lookups degrade instead of failing while the service is down.
// Implements ports.OptionalChecker.
func (c *SymbolClient) Optional() bool {
	return true
}

// Check reports the circuit breaker state without calling the service.
// Implements ports.HealthChecker.
func (c *SymbolClient) Check(_ context.Context) error {
	st := c.client.CircuitStatus()
	if st.State != clients.StateOpen {
		return nil
	}

	return fmt.Errorf("circuit breaker open, next probe in %s",
		time.Until(st.RetryAt).Round(time.Second).String())
}
