// Package models holds the catalog of selectable AI models and the user's
// current selection.
package models

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultModelID is the selection before any catalog interaction: the
// well-known free-tier model the service defaults to as well.
const DefaultModelID = "google/gemini-2.0-flash-exp:free"

// genericFetchError is shown when a hard failure carries no service-supplied
// message.
const genericFetchError = "Failed to load models. Please check your connection and try again."

// Capabilities describes what a model can do.
type Capabilities struct {
	Vision bool `json:"vision"`
	Fast   bool `json:"fast"`
	Code   bool `json:"code"`
	Free   bool `json:"free"`
}

// AIModel is an immutable descriptive record; the catalog replaces its list
// wholesale on every refresh.
type AIModel struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	ContextLength int          `json:"context_length"`
	Capabilities  Capabilities `json:"capabilities"`
}

// CatalogPayload is the service's catalog response. A non-empty Error next
// to a usable Models list signals the service fell back to a default list:
// degraded but usable.
type CatalogPayload struct {
	Models []AIModel `json:"models"`
	Error  string    `json:"error,omitempty"`
}

// Fetcher retrieves the model catalog from the service.
type Fetcher interface {
	Models(ctx context.Context) (*CatalogPayload, error)
}

// payloadError is implemented by transport errors that carry a
// service-supplied message worth surfacing to the user.
type payloadError interface {
	PayloadError() string
}

// Catalog holds the available models and the selected model ID.
//
// Refresh outcomes are kept apart: Warning is a degraded success (data still
// applied), Err is a hard failure (list cleared). The two are never
// conflated.
type Catalog struct {
	fetcher Fetcher
	logger  *log.Logger

	mu       sync.RWMutex
	models   []AIModel
	selected string
	warning  string
	err      string
	loading  bool
}

// NewCatalog creates a catalog with the default model preselected.
func NewCatalog(fetcher Fetcher, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Default()
	}
	return &Catalog{
		fetcher:  fetcher,
		logger:   logger,
		selected: DefaultModelID,
	}
}

// Refresh fetches the catalog and replaces the model list wholesale. On hard
// failure the list is cleared and Err is set from the service's error field
// when present, else a generic connectivity message.
func (c *Catalog) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.warning = ""
	c.err = ""
	c.mu.Unlock()

	payload, err := c.fetcher.Models(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		c.logger.Error("failed to fetch models", "error", err)
		c.models = nil
		c.err = genericFetchError
		var pe payloadError
		if errors.As(err, &pe) && pe.PayloadError() != "" {
			c.err = pe.PayloadError()
		}
		return
	}

	c.models = payload.Models
	if payload.Error != "" {
		c.logger.Warn("model catalog degraded", "warning", payload.Error)
		c.warning = payload.Error
	}
}

// Retry re-runs Refresh. It exists as a semantic alias for the UI's retry
// affordance.
func (c *Catalog) Retry(ctx context.Context) {
	c.Refresh(ctx)
}

// Select sets the selected model ID unconditionally; the ID need not be in
// the current catalog (a persisted default may precede the first refresh).
func (c *Catalog) Select(modelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = modelID
}

// Selected returns the selected model ID.
func (c *Catalog) Selected() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Models returns a copy of the available models.
func (c *Catalog) Models() []AIModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]AIModel, len(c.models))
	copy(out, c.models)
	return out
}

// Warning returns the degraded-success message from the last refresh, if any.
func (c *Catalog) Warning() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.warning
}

// Err returns the hard-failure message from the last refresh, if any.
func (c *Catalog) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Loading reports whether a refresh is in flight.
func (c *Catalog) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}
