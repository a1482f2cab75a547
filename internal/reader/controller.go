package reader

import "fmt"

// Controller tracks the current page of a document and asks for a render
// on every accepted transition.
type Controller struct {
	page     int
	total    int
	onRender func(page int)
}

// NewController starts at initial, clamped to [1, total].
func NewController(total, initial int, onRender func(page int)) (*Controller, error) {
	if total < 1 {
		return nil, fmt.Errorf("controller needs at least one page, got %d", total)
	}
	if initial < 1 {
		initial = 1
	}
	if initial > total {
		initial = total
	}
	if onRender == nil {
		onRender = func(int) {}
	}
	return &Controller{page: initial, total: total, onRender: onRender}, nil
}

func (c *Controller) Page() int  { return c.page }
func (c *Controller) Total() int { return c.total }

// InRange reports whether page is a valid target.
func (c *Controller) InRange(page int) bool {
	return page >= 1 && page <= c.total
}

// Next advances one page. It is a no-op on the last page.
func (c *Controller) Next() bool {
	if c.page >= c.total {
		return false
	}
	c.page++
	c.onRender(c.page)
	return true
}

// Prev goes back one page. It is a no-op on the first page.
func (c *Controller) Prev() bool {
	if c.page <= 1 {
		return false
	}
	c.page--
	c.onRender(c.page)
	return true
}

// Goto jumps to page and renders it, even when it is already the current
// page. Out of range targets are ignored.
func (c *Controller) Goto(page int) bool {
	if !c.InRange(page) {
		return false
	}
	c.page = page
	c.onRender(c.page)
	return true
}

// Refresh re-renders the current page, e.g. after a theme change.
func (c *Controller) Refresh() {
	c.onRender(c.page)
}
