// Package panel composes the product feed with the table transformer into
// the view shown to users.
package panel

import (
	"context"
	"net/url"
	"sync"

	"product-panel/internal/model"
	"product-panel/internal/service"
	"product-panel/internal/table"
	"product-panel/internal/theme"

	"github.com/rs/zerolog"
)

// BannerTitle heads the error banner.
const BannerTitle = "Error with Information Source"

// Banner is the error banner shown above the table.
type Banner struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// View is what the panel displays. Error, Loading and ShowTable are
// independent so stale data stays visible next to a spinner or a banner.
type View struct {
	Error     *Banner      `json:"error,omitempty"`
	Loading   bool         `json:"loading"`
	ShowTable bool         `json:"showTable"`
	Table     *table.Table `json:"table"`
	Source    string       `json:"source"`
	Theme     theme.Theme  `json:"theme"`
}

// Blank reports whether the panel has nothing to show.
func (v View) Blank() bool {
	return v.Error == nil && !v.Loading && !v.ShowTable
}

// Panel renders the product feed as a themed table.
type Panel struct {
	feed   service.ProductFeed
	theme  theme.Theme
	logger zerolog.Logger

	mu        sync.Mutex
	memoFor   *model.ProductsResponse
	memoTable *table.Table
}

// New creates a panel over feed. The panel's background overrides are applied to base.
func New(feed service.ProductFeed, base theme.Theme, logger zerolog.Logger) *Panel {
	return &Panel{
		feed:   feed,
		theme:  theme.Modify(base),
		logger: logger.With().Str("component", "panel").Logger(),
	}
}

// Theme returns the theme the panel renders with.
func (p *Panel) Theme() theme.Theme {
	return p.theme
}

// Mount activates the feed for locator.
func (p *Panel) Mount(ctx context.Context, locator string) <-chan struct{} {
	return p.feed.Activate(ctx, locator)
}

// SetSource points the panel at a new locator. Unchanged locators do not refetch.
func (p *Panel) SetSource(ctx context.Context, locator string) (<-chan struct{}, error) {
	u, err := url.Parse(locator)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, model.ErrInvalidSource
	}

	p.logger.Info().Str("locator", locator).Msg("panel source changed")
	return p.feed.Activate(ctx, locator), nil
}

// View builds the current view from the feed state.
func (p *Panel) View() View {
	state := p.feed.Snapshot()

	v := View{
		Loading: state.Loading,
		Source:  p.feed.Locator(),
		Theme:   p.theme,
	}

	if state.Error.HasError {
		v.Error = &Banner{
			Title:   BannerTitle,
			Message: state.Error.UserMessage,
			Code:    state.Error.Code,
		}
	}

	if state.Payload != nil {
		v.ShowTable = true
		v.Table = p.tableFor(state.Payload)
	} else {
		v.Table = table.Empty()
	}

	return v
}

// tableFor transforms payload, reusing the last result while the payload is unchanged.
func (p *Panel) tableFor(payload *model.ProductsResponse) *table.Table {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.memoFor == payload && p.memoTable != nil {
		return p.memoTable
	}

	p.memoFor = payload
	p.memoTable = table.Transform(payload, p.theme)
	p.logger.Debug().Int("rows", p.memoTable.Len()).Msg("table rebuilt")

	return p.memoTable
}

// Subscribe streams feed state changes; build a fresh View on each receive.
func (p *Panel) Subscribe() (<-chan service.State, func()) {
	return p.feed.Subscribe()
}
