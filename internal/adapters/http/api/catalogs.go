package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/liftmotor/internal/adapters/repository"
	"github.com/okian/liftmotor/internal/domain/motor"
)

// CatalogDependencies defines the read access the catalog routes need.
type CatalogDependencies interface {
	Catalogs(ctx context.Context) ([]repository.Status, error)
	Catalog(ctx context.Context, t motor.Type) (*motor.Catalog, error)
}

// CatalogsHandler handles catalog requests.
type CatalogsHandler struct {
	deps CatalogDependencies
}

// NewCatalogsHandler creates a new catalogs handler.
func NewCatalogsHandler(deps CatalogDependencies) *CatalogsHandler {
	return &CatalogsHandler{deps: deps}
}

type catalogsResponse struct {
	Catalogs []repository.Status `json:"catalogs"`
}

type catalogResponse struct {
	MotorType motor.Type     `json:"motor_type"`
	HasTravel bool           `json:"has_travel"`
	Rows      int            `json:"rows"`
	Motors    []motor.Record `json:"motors"`
}

// HandleList handles GET /catalogs requests.
func (h *CatalogsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_catalogs"
	st, err := h.deps.Catalogs(r.Context())
	if err != nil {
		writeOpError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, catalogsResponse{Catalogs: st})
}

// HandleGet handles GET /catalogs/{type} requests.
func (h *CatalogsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_catalog"
	t, err := motor.ParseType(mux.Vars(r)["type"])
	if err != nil {
		writeOpError(w, Wrap(op, err))
		return
	}
	c, err := h.deps.Catalog(r.Context(), t)
	if err != nil {
		writeOpError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		MotorType: c.Type(),
		HasTravel: c.HasTravel(),
		Rows:      c.Len(),
		Motors:    c.Records(),
	})
}
