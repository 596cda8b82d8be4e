package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteRequestsTotal counts price calculations by outcome.
	QuoteRequestsTotal *prometheus.CounterVec
	// CatalogReloadTotal counts catalog loads by outcome.
	CatalogReloadTotal *prometheus.CounterVec
	// CatalogEntries reports the number of entries in the live catalog.
	CatalogEntries prometheus.Gauge
	// OrdersCreatedTotal counts persisted orders by container size.
	OrdersCreatedTotal *prometheus.CounterVec
	// InventoryImportRowsTotal counts spreadsheet rows seen by the importer.
	InventoryImportRowsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_requests_total",
			Help:      "Count of price calculations by outcome.",
		}, []string{"result"})
		CatalogReloadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reload_total",
			Help:      "Count of price catalog loads by outcome.",
		}, []string{"trigger", "result"})
		CatalogEntries = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_entries",
			Help:      "Number of entries in the live price catalog.",
		})
		OrdersCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Count of persisted container orders.",
		}, []string{"size"})
		InventoryImportRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_import_rows_total",
			Help:      "Count of inventory spreadsheet rows by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, QuoteRequestsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteRequestsTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogReloadTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogReloadTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogEntries, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Gauge); ok {
				CatalogEntries = v
			}
		})
		mustRegisterCollector(reg, OrdersCreatedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrdersCreatedTotal = v
			}
		})
		mustRegisterCollector(reg, InventoryImportRowsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				InventoryImportRowsTotal = v
			}
		})
	})
}

// ObserveQuote records a price calculation outcome. It is a no-op until the
// domain metrics are registered.
func ObserveQuote(result string) {
	if QuoteRequestsTotal != nil {
		QuoteRequestsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveCatalogReload records a catalog load and, on success, the entry count.
func ObserveCatalogReload(trigger, result string, entries int) {
	if CatalogReloadTotal != nil {
		CatalogReloadTotal.WithLabelValues(trigger, result).Inc()
	}
	if result == "ok" && CatalogEntries != nil {
		CatalogEntries.Set(float64(entries))
	}
}

// ObserveOrderCreated records a persisted order.
func ObserveOrderCreated(size string) {
	if OrdersCreatedTotal != nil {
		OrdersCreatedTotal.WithLabelValues(size).Inc()
	}
}

// ObserveImportRows records n importer rows with the given outcome.
func ObserveImportRows(result string, n int) {
	if InventoryImportRowsTotal != nil && n > 0 {
		InventoryImportRowsTotal.WithLabelValues(result).Add(float64(n))
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
