package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	// Public pages.
	PageHome     = "home"
	PageAbout    = "about"
	PageProjects = "projects"
	PageContact  = "contact"
	PageLogin    = "login"

	// Visitor area.
	PageVisitorHome = "visitor-home"

	// Admin area.
	PageAdminDashboard = "admin-dashboard"
	PageAdminProjects  = "admin-projects"
	PageAdminProject   = "admin-project"

	PageNotFound = "not-found"
)

// Template paths used for loading templates in tests and development.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Site-wide strings.
const (
	siteName         = "Folio"
	msgGenericError  = "An unexpected error occurred. Please try again."
	msgContactSent   = "Message sent successfully!"
	msgLoginFailed   = "Login failed"
	msgProjectsLoad  = "Could not load projects."
	msgProjectDelete = "Could not delete project."
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:           "home-content",
	PageAbout:          "about-content",
	PageProjects:       "projects-content",
	PageContact:        "contact-content",
	PageLogin:          "login-content",
	PageVisitorHome:    "visitor-home-content",
	PageAdminDashboard: "admin-dashboard-content",
	PageAdminProjects:  "admin-projects-content",
	PageAdminProject:   "admin-project-content",
	PageNotFound:       "not-found-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to the not-found content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "not-found-content"
}

// pageTitle formats a document title.
func pageTitle(name string) string {
	if name == "" {
		return siteName
	}
	return name + " - " + siteName
}
