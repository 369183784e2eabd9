package predictor

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/forgo/wellness/api/internal/assessment"
	"github.com/forgo/wellness/api/internal/model"
)

// Model names used for metrics labels
const (
	ModelLifestyle = "lifestyle"
	ModelStress    = "stress"
)

const (
	lifestylePath   = "/api/predictLifeStyle"
	stressPath      = "/api/predict_rf"
	maxResponseSize = 1 << 20
)

var (
	ErrUnavailable      = errors.New("prediction service unavailable")
	ErrUnexpectedStatus = errors.New("prediction service returned an error status")
	ErrBadResponse      = errors.New("prediction service returned an unreadable response")
)

// Observer receives call telemetry. *metrics.Recorder satisfies it.
type Observer interface {
	ObservePrediction(model string, d time.Duration, err error)
	CacheLookup(model string, hit bool)
}

type noopObserver struct{}

func (noopObserver) ObservePrediction(string, time.Duration, error) {}
func (noopObserver) CacheLookup(string, bool)                       {}

// Config holds client settings
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	CacheSize  int           // 0 disables the cache
	CacheTTL   time.Duration // 0 keeps entries until evicted
	HTTPClient *http.Client
	Observer   Observer
}

// Client calls the lifestyle and stress prediction endpoints. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	observer   Observer
	cache      *lru.Cache[string, cacheEntry]
	cacheTTL   time.Duration
	now        func() time.Time
}

type cacheEntry struct {
	body     []byte
	storedAt time.Time
}

// New creates a prediction client
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("predictor base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
		observer:   cfg.Observer,
		cacheTTL:   cfg.CacheTTL,
		now:        time.Now,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if c.observer == nil {
		c.observer = noopObserver{}
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, cacheEntry](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create prediction cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// PredictLifestyle classifies a feature payload into lifestyle categories
func (c *Client) PredictLifestyle(ctx context.Context, payload assessment.Payload) (*model.LifestylePrediction, error) {
	var out model.LifestylePrediction
	check := func() error {
		if len(out.SoftmaxProbs) == 0 {
			return fmt.Errorf("%w: missing softmax_probs", ErrBadResponse)
		}
		return nil
	}
	if err := c.post(ctx, ModelLifestyle, lifestylePath, payload, &out, check); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictStress classifies the stress features into a stress level
func (c *Client) PredictStress(ctx context.Context, features assessment.StressFeatures) (*model.StressPrediction, error) {
	var out model.StressPrediction
	if err := c.post(ctx, ModelStress, stressPath, features, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// post sends in to path and decodes the reply into out. check, when set, runs
// on the decoded reply; only replies that pass it are cached.
func (c *Client) post(ctx context.Context, modelName, path string, in, out any, check func() error) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", modelName, err)
	}

	key := fingerprint(path, body)
	if cached, ok := c.lookup(modelName, key); ok {
		return decode(cached, out)
	}

	start := time.Now()
	respBody, err := c.do(ctx, path, body)
	if err == nil {
		err = decode(respBody, out)
	}
	if err == nil && check != nil {
		err = check()
	}
	c.observer.ObservePrediction(modelName, time.Since(start), err)
	if err != nil {
		return err
	}

	if c.cache != nil {
		c.cache.Add(key, cacheEntry{body: respBody, storedAt: c.now()})
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, truncate(respBody, 200))
	}
	return respBody, nil
}

func (c *Client) lookup(modelName, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	entry, ok := c.cache.Get(key)
	if ok && c.cacheTTL > 0 && c.now().Sub(entry.storedAt) > c.cacheTTL {
		c.cache.Remove(key)
		ok = false
	}
	c.observer.CacheLookup(modelName, ok)
	return entry.body, ok
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// fingerprint keys the cache by endpoint and exact request body
func fingerprint(path string, body []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
