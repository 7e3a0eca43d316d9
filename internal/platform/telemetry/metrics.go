package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters, exposed on the default Prometheus registry and served
// from the /-/metrics endpoint.
var (
	// QuotesCreated counts quotes added to the catalog, labeled by how
	// they arrived.
	QuotesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quote_catalog",
		Name:      "quotes_created_total",
		Help:      "Quotes created, by origin (api or import).",
	}, []string{"origin"})

	// QuotesDeleted counts quotes removed from the catalog.
	QuotesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quote_catalog",
		Name:      "quotes_deleted_total",
		Help:      "Quotes deleted.",
	})

	// FavoritesSet counts favorite toggles, labeled by direction.
	FavoritesSet = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quote_catalog",
		Name:      "favorites_set_total",
		Help:      "Favorite toggle requests, by desired state (on or off).",
	}, []string{"state"})

	// ImportRecords counts per-record import outcomes.
	ImportRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quote_catalog",
		Name:      "import_records_total",
		Help:      "Import submit record outcomes (success or failure).",
	}, []string{"outcome"})
)
