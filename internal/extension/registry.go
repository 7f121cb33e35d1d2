package extension

import (
	"context"
	"errors"
	"fmt"
)

// TabRequest is the host asking for the content of one item tab.
type TabRequest struct {
	StockID         string `json:"stock_id"`
	Tab             string `json:"tab"`
	ExistingContent string `json:"existing_content"`
}

// ItemData is the item form the host is about to save.
type ItemData map[string]interface{}

// Extension is anything registered with the Registry. It takes part in every extension point
// whose interface it implements.
type Extension interface {
	Name() string
}

// TabContentProvider returns the tab content after its own additions.
type TabContentProvider interface {
	Extension
	TabContent(ctx context.Context, req TabRequest) (string, error)
}

// PreSaveHook may rewrite or reject item data before the host saves it.
type PreSaveHook interface {
	Extension
	PreSave(ctx context.Context, stockID string, item ItemData) (ItemData, error)
}

// PreDeleteHook is notified before the host deletes an item.
type PreDeleteHook interface {
	Extension
	PreDelete(ctx context.Context, userID, stockID string) error
}

// Registry holds the extensions in registration order.
type Registry struct {
	extensions []Extension
	tabs       []TabContentProvider
	preSave    []PreSaveHook
	preDelete  []PreDeleteHook
}

func NewRegistry(extensions ...Extension) *Registry {
	r := &Registry{}
	for _, e := range extensions {
		r.extensions = append(r.extensions, e)
		if t, ok := e.(TabContentProvider); ok {
			r.tabs = append(r.tabs, t)
		}
		if h, ok := e.(PreSaveHook); ok {
			r.preSave = append(r.preSave, h)
		}
		if h, ok := e.(PreDeleteHook); ok {
			r.preDelete = append(r.preDelete, h)
		}
	}
	return r
}

// Names lists the registered extensions in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.extensions))
	for i, e := range r.extensions {
		names[i] = e.Name()
	}
	return names
}

// TabContent passes the content through every provider in order.
func (r *Registry) TabContent(ctx context.Context, req TabRequest) (string, error) {
	content := req.ExistingContent
	for _, p := range r.tabs {
		next, err := p.TabContent(ctx, TabRequest{StockID: req.StockID, Tab: req.Tab, ExistingContent: content})
		if err != nil {
			return content, fmt.Errorf("%s: %w", p.Name(), err)
		}
		content = next
	}
	return content, nil
}

// PreSave passes the item through every hook in order. The first rejection stops the chain.
func (r *Registry) PreSave(ctx context.Context, stockID string, item ItemData) (ItemData, error) {
	for _, h := range r.preSave {
		next, err := h.PreSave(ctx, stockID, item)
		if err != nil {
			return item, fmt.Errorf("%s: %w", h.Name(), err)
		}
		if next != nil {
			item = next
		}
	}
	return item, nil
}

// PreDelete notifies every hook even when one fails and returns the joined errors.
func (r *Registry) PreDelete(ctx context.Context, userID, stockID string) error {
	var errs []error
	for _, h := range r.preDelete {
		if err := h.PreDelete(ctx, userID, stockID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.Name(), err))
		}
	}
	return errors.Join(errs...)
}
