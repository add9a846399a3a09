package handlers

import (
	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/inventory-api/internal/repo"
	"github.com/rogerio-castellano/inventory-api/internal/stock"
)

// Handlers bundles the dependencies of the HTTP handlers. Everything is
// injected at startup; there is no ambient state.
type Handlers struct {
	products repo.ProductRepository
	engine   *stock.Engine
	log      zerolog.Logger
}

func New(products repo.ProductRepository, engine *stock.Engine, log zerolog.Logger) *Handlers {
	return &Handlers{products: products, engine: engine, log: log}
}
