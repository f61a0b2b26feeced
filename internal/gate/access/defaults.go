package access

import "github.com/PuntoEntrega/PDE-sub002/internal/account/models"

// Default returns the production access table.
//
// Paths matching no rule are unrestricted for any authenticated caller.
// That default-allow is a deliberate product decision carried over from the
// original route table; the gate logs the unmatched path so new routes that
// should be restricted get noticed.
func Default() *Table {
	return New(
		[]Rule{
			{Prefix: "/accounts", Levels: []int{models.LevelCompanyAdmin, models.LevelReviewer, models.LevelPlatformAdmin, models.LevelSuperAdmin}},
			{Prefix: "/companies", Levels: []int{models.LevelCompanyAdmin, models.LevelReviewer, models.LevelPlatformAdmin, models.LevelSuperAdmin}},
			{Prefix: "/delivery-points", Levels: []int{models.LevelManager, models.LevelCompanyAdmin, models.LevelReviewer, models.LevelPlatformAdmin, models.LevelSuperAdmin}},
			{Prefix: "/invitations", Levels: []int{models.LevelCompanyAdmin, models.LevelPlatformAdmin, models.LevelSuperAdmin}},
			{Prefix: "/admin-panel", Levels: []int{models.LevelCompanyAdmin, models.LevelReviewer, models.LevelPlatformAdmin, models.LevelSuperAdmin}},
			// Longest prefix wins: review queue actions need reviewer rank
			// even though /admin-panel admits company admins.
			{Prefix: "/admin-panel/review", Levels: []int{models.LevelReviewer, models.LevelPlatformAdmin, models.LevelSuperAdmin}},
		},
		PublicPrefixes(),
	)
}

// PublicPrefixes lists the paths that bypass authentication entirely:
// login/logout/registration, invitation acceptance, health and metrics
// probes, static assets, and the document-type catalog used by
// registration forms. Logout is public so a caller with an expired or
// broken cookie can still clear it.
func PublicPrefixes() []string {
	return []string{
		"/login",
		"/logout",
		"/register",
		"/invitations/accept",
		"/healthz",
		"/metrics",
		"/static",
		"/catalog/document-types",
	}
}
