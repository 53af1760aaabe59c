package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"product-panel/internal/model"
	"product-panel/internal/repository"

	"github.com/rs/zerolog"
)

var (
	errNotJSON     = errors.New("body is not valid JSON")
	errNotEnvelope = errors.New("body is not a products envelope")
)

const subscriberBuffer = 8

// productFeed implements ProductFeed.
type productFeed struct {
	client   Doer
	store    repository.PayloadStore
	cacheKey string
	logger   zerolog.Logger

	mu          sync.Mutex
	state       State
	locator     string
	generation  uint64
	done        chan struct{}
	subscribers map[int]chan State
	nextSubID   int
}

// NewProductFeed creates a feed that caches under repository.CacheKey(storageKey).
func NewProductFeed(client Doer, store repository.PayloadStore, storageKey string, logger zerolog.Logger) ProductFeed {
	if client == nil {
		client = http.DefaultClient
	}

	return &productFeed{
		client:      client,
		store:       store,
		cacheKey:    repository.CacheKey(storageKey),
		logger:      logger.With().Str("service", "product-feed").Str("cache_key", repository.CacheKey(storageKey)).Logger(),
		subscribers: make(map[int]chan State),
	}
}

// Activate implements ProductFeed.
func (f *productFeed) Activate(ctx context.Context, locator string) <-chan struct{} {
	f.mu.Lock()
	if f.done != nil && f.locator == locator {
		done := f.done
		f.mu.Unlock()
		return done
	}
	f.generation++
	gen := f.generation
	f.locator = locator
	done := make(chan struct{})
	f.done = done
	f.mu.Unlock()

	f.logger.Info().Str("locator", locator).Msg("activating product feed")

	cached := f.readCache(ctx)
	f.update(gen, func(s *State) {
		s.Payload = cached
		s.Loading = true
	})

	go func() {
		defer close(done)
		f.fetch(ctx, gen, locator)
	}()

	return done
}

// Snapshot implements ProductFeed.
func (f *productFeed) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Locator implements ProductFeed.
func (f *productFeed) Locator() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locator
}

// Subscribe implements ProductFeed.
func (f *productFeed) Subscribe() (<-chan State, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextSubID
	f.nextSubID++
	ch := make(chan State, subscriberBuffer)
	ch <- f.state
	f.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subscribers, id)
			close(ch)
		})
	}

	return ch, cancel
}

// fetch performs the request for one activation and publishes its outcome.
func (f *productFeed) fetch(ctx context.Context, gen uint64, locator string) {
	logger := f.logger.With().Str("locator", locator).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		f.failTransport(gen, logger, fmt.Errorf("failed to create request: %w", err))
		return
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.failTransport(gen, logger, fmt.Errorf("request failed: %w", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn().Int("status", resp.StatusCode).Msg("upstream returned non-success status")
		f.update(gen, func(s *State) {
			s.Loading = false
			s.Error = model.NewHTTPError(resp.StatusCode)
		})
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.failTransport(gen, logger, fmt.Errorf("failed to read response body: %w", err))
		return
	}

	payload, err := decodeEnvelope(body)
	switch {
	case errors.Is(err, errNotJSON):
		f.failTransport(gen, logger, err)
		return
	case err != nil:
		logger.Warn().Err(err).Msg("response did not match products envelope")
		f.update(gen, func(s *State) {
			s.Loading = false
			s.Error = model.NewShapeError()
		})
		return
	}

	if !f.update(gen, func(s *State) { s.Payload = payload }) {
		logger.Debug().Msg("discarding response for superseded locator")
		return
	}
	f.writeCache(ctx, payload)
	f.update(gen, func(s *State) { s.Loading = false })

	logger.Info().
		Int("products", payload.Len()).
		Int("total", payload.Total).
		Msg("product feed refreshed")
}

func (f *productFeed) failTransport(gen uint64, logger zerolog.Logger, err error) {
	logger.Error().Err(err).Msg("failed to fetch products")
	f.update(gen, func(s *State) {
		s.Loading = false
		s.Error = model.NewTransportError()
	})
}

// update applies fn when gen is still the current activation and notifies
// subscribers. It reports whether the change was applied.
func (f *productFeed) update(gen uint64, fn func(s *State)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		return false
	}

	fn(&f.state)
	snapshot := f.state

	for _, ch := range f.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Drop the oldest pending state so the latest one always lands.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}

	return true
}

// readCache returns the cached payload or nil when none is usable.
func (f *productFeed) readCache(ctx context.Context) *model.ProductsResponse {
	data, found, err := f.store.Get(ctx, f.cacheKey)
	if err != nil {
		f.logger.Warn().Err(err).Msg("failed to read cached payload")
		return nil
	}
	if !found {
		f.logger.Debug().Msg("no cached payload")
		return nil
	}

	payload, err := decodeEnvelope(data)
	if err != nil {
		f.logger.Warn().Err(err).Msg("ignoring unreadable cached payload")
		return nil
	}

	f.logger.Debug().Int("products", payload.Len()).Msg("published cached payload")
	return payload
}

func (f *productFeed) writeCache(ctx context.Context, payload *model.ProductsResponse) {
	data, err := json.Marshal(payload)
	if err != nil {
		f.logger.Warn().Err(err).Msg("failed to encode payload for cache")
		return
	}

	if err := f.store.Set(ctx, f.cacheKey, data); err != nil {
		f.logger.Warn().Err(err).Msg("failed to write cached payload")
	}
}

// decodeEnvelope parses body as a products envelope.
// Any JSON object is accepted; missing or mistyped fields decode as absent.
func decodeEnvelope(body []byte) (*model.ProductsResponse, error) {
	if !json.Valid(body) {
		return nil, errNotJSON
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotEnvelope
	}

	var payload model.ProductsResponse
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotEnvelope, err)
	}

	return &payload, nil
}
