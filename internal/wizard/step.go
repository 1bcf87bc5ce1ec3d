package wizard

import (
	"context"
	"io"
	"net/url"
)

// Page is the request state handed to step views and handlers
type Page struct {
	Step   string
	Query  url.Values
	Form   url.Values
	Errors map[string]string
	Nonce  string
	User   string
}

// ViewFunc writes the body of a step
type ViewFunc func(ctx context.Context, w io.Writer, page *Page) error

// HandlerFunc persists the submitted form of a step
type HandlerFunc func(ctx context.Context, page *Page) error

// Step is one wizard screen. Handler is nil for steps without a form.
type Step struct {
	Slug    string
	Name    string
	View    ViewFunc
	Handler HandlerFunc
}

// HasHandler reports whether the step accepts form submissions
func (s Step) HasHandler() bool {
	return s.Handler != nil
}

// StepStatus is the progression state of a step relative to the current one
type StepStatus string

const (
	StatusPending StepStatus = "pending"
	StatusActive  StepStatus = "active"
	StatusDone    StepStatus = "done"
)

// Crumb is one entry of the breadcrumb trail
type Crumb struct {
	Slug   string     `json:"slug"`
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
	URL    string     `json:"url,omitempty"`
}

// Link is a labelled navigation target
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// StepsFilter receives the default step list and returns the list to register
type StepsFilter func(steps []Step) []Step
