// Package metrics declares the Prometheus collectors for the recipe core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RelationToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relation_toggles_total",
			Help: "Relation add/remove attempts by kind, action and outcome",
		},
		[]string{"kind", "action", "outcome"}, // outcome: ok, duplicate, not_found, invalid, error
	)

	ShoppingListExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_exports_total",
			Help: "Shopping list exports by outcome",
		},
		[]string{"outcome"}, // ok, empty, error
	)

	ShoppingListItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_items",
			Help:    "Number of aggregated lines per exported shopping list",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	ShortLinkResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_short_link_resolutions_total",
			Help: "Short link redirects by outcome",
		},
		[]string{"outcome"}, // found, invalid_token, missing, error
	)

	ShortLinkCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_short_link_cache_hits_total",
			Help: "Short link lookups answered from the dish cache",
		},
	)

	ImageIngestions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_image_ingestions_total",
			Help: "Image ingestion attempts by outcome",
		},
		[]string{"outcome"}, // stored, passthrough, rejected
	)

	ImageBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_image_bytes",
			Help:    "Decoded size of accepted images",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 9),
		},
	)
)
