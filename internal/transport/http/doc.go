// Package http implements the HTTP handlers of the setup wizard.
//
// Handlers stay thin: they parse the query and form, call into the wizard
// registry or a service, and render HTML or JSON. Every failure is written as
// an RFC 7807 problem through errors.ErrorHandler:
//
//	step, err := h.wizard.Registry().Get(slug)
//	if err != nil {
//	    h.errHandler.HandleError(w, r, apierrors.StepNotFound(slug))
//	    return
//	}
//
// # Wizard flow
//
// WizardHandler serves the admin page of the wizard. GET renders the layout
// with breadcrumbs, the step body and the footer link. POST with a non-empty
// save_step field verifies the _wpnonce field, runs the step handler and
// redirects with 303 to the next step. A validation failure re-renders the
// step with 422.
//
// # Middleware
//
// Handlers expect RequestID, StructuredLogger, Recoverer and AdminAuth to run
// first; the authenticated user is read with middleware.UserFromContext.
package http
