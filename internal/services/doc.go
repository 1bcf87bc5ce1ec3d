// Package services implements the business logic of the setup wizard.
//
// SetupService supplies one view and one save handler per wizard step. Every
// handler follows the same read-modify-write cycle on option records:
//
//	titles, err := s.store.Get(ctx, options.TitlesOption)
//	titles.Set("seopress_titles_sep", sep)
//	err = s.store.Update(ctx, options.TitlesOption, titles)
//
// HealthService reports liveness, readiness and version information.
package services
