package service

import (
	"context"
	"net/http"

	"product-panel/internal/model"
)

// State is a snapshot of the feed's observable signals.
// Loading, Payload and Error are independent: a stale payload stays
// visible while a refresh is loading or after it failed.
type State struct {
	Loading bool                    `json:"loading"`
	Payload *model.ProductsResponse `json:"payload"`
	Error   model.FetchError        `json:"error"`
}

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProductFeed owns the lifecycle of the remote products request.
type ProductFeed interface {
	// Activate publishes the cached payload, then fetches locator in the background.
	// It fires once per distinct locator; calling it again with the current
	// locator returns the existing completion channel without a new request.
	// The returned channel is closed when the fetch has settled.
	Activate(ctx context.Context, locator string) <-chan struct{}

	// Snapshot returns the current state.
	Snapshot() State

	// Subscribe streams state changes, starting with the current state.
	// Slow subscribers only see the latest state. Call cancel to stop.
	Subscribe() (updates <-chan State, cancel func())

	// Locator returns the most recently activated locator.
	Locator() string
}
