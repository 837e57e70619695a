package prompts

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ledgercast/ledgercast/pkg/handlers"
	"github.com/ledgercast/ledgercast/pkg/pagination"
	"github.com/ledgercast/ledgercast/pkg/routes"
)

// Handler provides HTTP endpoints for prompt registry operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// CompileRequest carries the inputs for a compile preview.
type CompileRequest struct {
	Version      *int           `json:"version"`
	Placeholders map[string]any `json:"placeholders"`
}

// CompileResponse is the message set produced by a compile preview, with the
// generation parameters callers pass to the model.
type CompileResponse struct {
	PromptKey   string    `json:"promptKey"`
	Version     int       `json:"version"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature"`
	MaxTokens   *int      `json:"maxTokens"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for prompt registry endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.ListActive},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/{key}", Handler: h.Get},
			{Method: "GET", Pattern: "/{key}/details", Handler: h.Details},
			{Method: "GET", Pattern: "/{key}/versions", Handler: h.Versions},
			{Method: "POST", Pattern: "/{key}/versions", Handler: h.CreateVersion},
			{Method: "POST", Pattern: "/{key}/versions/{version}/activate", Handler: h.Activate},
			{Method: "POST", Pattern: "/{key}/compile", Handler: h.Compile},
			{Method: "DELETE", Pattern: "/{key}", Handler: h.DeleteKey},
		},
	}
}

// ListActive returns a paginated list of the active definition per key.
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListActive(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns
// matching active definitions.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.ListActive(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get returns one definition: the active version by default, or a specific
// version via the version query parameter.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	version, err := parseVersion(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	definition, err := h.sys.Get(r.Context(), r.PathValue("key"), version)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, definition)
}

// Details returns the display view of a definition, including the
// placeholder names extracted from its template.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	version, err := parseVersion(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	details, err := h.sys.Details(r.Context(), r.PathValue("key"), version)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, details)
}

// Versions returns every version for one key in ascending version order.
func (h *Handler) Versions(w http.ResponseWriter, r *http.Request) {
	definitions, err := h.sys.ListVersions(r.Context(), r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, definitions)
}

// CreateVersion processes a JSON body to append a new version for a key.
func (h *Handler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	definition, err := h.sys.CreateVersion(r.Context(), r.PathValue("key"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, definition)
}

// Activate makes one version the active version for its key, atomically
// deactivating its siblings.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.Atoi(r.PathValue("version"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	definition, err := h.sys.SetActive(r.Context(), r.PathValue("key"), version)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, definition)
}

// Compile renders a definition with the supplied placeholders and returns
// the message set it would send to the model.
func (h *Handler) Compile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	definition, err := h.sys.Get(r.Context(), r.PathValue("key"), req.Version)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	compiled, err := definition.Compile(req.Placeholders)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, CompileResponse{
		PromptKey:   definition.PromptKey,
		Version:     definition.Version,
		Messages:    compiled.Messages(),
		Temperature: definition.Temperature,
		MaxTokens:   definition.MaxTokens,
	})
}

// DeleteKey removes every version for one key.
func (h *Handler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.DeleteKey(r.Context(), r.PathValue("key")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseVersion(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("version")
	if raw == "" {
		return nil, nil
	}

	version, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &version, nil
}
