package api

import (
	"net/http"

	"github.com/ledgercast/ledgercast/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(mux, domain.Prompts.Handler().Routes())
	routes.Register(mux, domain.Episodes.Handler().Routes())
}
