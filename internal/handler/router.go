package handler

import (
	"net/http"

	"book-sanctuary/internal/domain"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// ProxyPath is public and carries its own permissive CORS headers.
const ProxyPath = "/api/pdf-proxy"

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth        *AuthHandler
	Preferences *PreferenceHandler
	Documents   *DocumentHandler
	Admin       *AdminHandler
	Bookmarks   *BookmarkHandler
	Highlights  *HighlightHandler
	Chapters    *ChapterHandler
	Reader      *ReaderHandler
	Proxy       *ProxyHandler
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(h Handlers, authMiddleware func(http.Handler) http.Handler, allowedOrigins []string, logger domain.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(chimw.RequestID, chimw.RealIP, AccessLog(logger), chimw.Recoverer)

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "book-sanctuary"})
	}).Methods(http.MethodGet)

	router.Handle(ProxyPath, h.Proxy).Methods(http.MethodGet, http.MethodOptions)

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/session", h.Auth.SignIn).Methods(http.MethodPost)
	api.HandleFunc("/themes", h.Reader.ListThemes).Methods(http.MethodGet)

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/preferences", h.Preferences.GetPreferences).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/preferences", h.Preferences.UpdatePreferences).Methods(http.MethodPut)

	// Document routes
	protected.HandleFunc("/documents", h.Documents.ListDocuments).Methods(http.MethodGet)
	protected.HandleFunc("/documents/{id}", h.Documents.GetDocument).Methods(http.MethodGet)
	protected.HandleFunc("/documents/{id}/content", h.Documents.GetContent).Methods(http.MethodGet)
	protected.HandleFunc("/documents/{id}/pages/{page:[0-9]+}", h.Documents.RenderPage).Methods(http.MethodGet)
	protected.HandleFunc("/documents/{id}/chapters", h.Chapters.ListChapters).Methods(http.MethodGet)
	protected.HandleFunc("/chapters/{id}", h.Chapters.GetChapter).Methods(http.MethodGet)

	// Bookmark routes
	protected.HandleFunc("/bookmarks", h.Bookmarks.ListBookmarks).Methods(http.MethodGet)
	protected.HandleFunc("/bookmarks/{documentId}", h.Bookmarks.GetBookmark).Methods(http.MethodGet)
	protected.HandleFunc("/bookmarks/{documentId}", h.Bookmarks.SaveBookmark).Methods(http.MethodPut)
	protected.HandleFunc("/bookmarks/{documentId}", h.Bookmarks.DeleteBookmark).Methods(http.MethodDelete)

	// Highlight routes
	protected.HandleFunc("/highlights", h.Highlights.ListHighlights).Methods(http.MethodGet)
	protected.HandleFunc("/highlights", h.Highlights.CreateHighlight).Methods(http.MethodPost)
	protected.HandleFunc("/highlights/{id}", h.Highlights.UpdateHighlight).Methods(http.MethodPatch)
	protected.HandleFunc("/highlights/{id}", h.Highlights.DeleteHighlight).Methods(http.MethodDelete)

	// Reader session routes
	protected.HandleFunc("/reader/sessions", h.Reader.OpenSession).Methods(http.MethodPost)
	protected.HandleFunc("/reader/sessions/{id}", h.Reader.GetSession).Methods(http.MethodGet)
	protected.HandleFunc("/reader/sessions/{id}", h.Reader.CloseSession).Methods(http.MethodDelete)
	protected.HandleFunc("/reader/sessions/{id}/next", h.Reader.Next).Methods(http.MethodPost)
	protected.HandleFunc("/reader/sessions/{id}/prev", h.Reader.Prev).Methods(http.MethodPost)
	protected.HandleFunc("/reader/sessions/{id}/goto", h.Reader.Goto).Methods(http.MethodPost)
	protected.HandleFunc("/reader/sessions/{id}/theme", h.Reader.SetTheme).Methods(http.MethodPut)
	protected.HandleFunc("/reader/sessions/{id}/frame", h.Reader.Frame).Methods(http.MethodGet)
	protected.HandleFunc("/reader/sessions/{id}/bookmark", h.Reader.SaveBookmark).Methods(http.MethodPost)

	// Admin routes
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(RequireAdmin)

	admin.HandleFunc("/documents", h.Admin.ListDocuments).Methods(http.MethodGet)
	admin.HandleFunc("/documents", h.Admin.UploadDocument).Methods(http.MethodPost)
	admin.HandleFunc("/documents/{id}", h.Admin.UpdateDocument).Methods(http.MethodPatch)
	admin.HandleFunc("/documents/{id}", h.Admin.DeleteDocument).Methods(http.MethodDelete)
	admin.HandleFunc("/documents/{id}/status", h.Admin.SetStatus).Methods(http.MethodPut)
	admin.HandleFunc("/documents/{id}/toggle", h.Admin.ToggleStatus).Methods(http.MethodPost)
	admin.HandleFunc("/documents/{id}/chapters", h.Admin.CreateChapter).Methods(http.MethodPost)
	admin.HandleFunc("/chapters/{id}", h.Admin.UpdateChapter).Methods(http.MethodPatch)
	admin.HandleFunc("/chapters/{id}", h.Admin.DeleteChapter).Methods(http.MethodDelete)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Link",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})
	withCORS := c.Handler(router)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == ProxyPath {
			router.ServeHTTP(w, r)
			return
		}
		withCORS.ServeHTTP(w, r)
	})
}
