// Package wizard implements the step machinery of the SEO setup wizard.
//
// A Registry holds the steps in progression order. A Wizard binds the
// registry to the admin URLs and answers the navigation questions the
// request dispatcher asks: which step is current, where the next step is,
// what the breadcrumb trail and footer link look like.
//
// Rendering and persistence live elsewhere; a Step only carries the View
// and Handler functions supplied by the setup service.
package wizard
