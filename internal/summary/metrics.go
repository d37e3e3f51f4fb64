// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package summary

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cardCacheTotal counts card lookups by result: hit, miss or error.
	cardCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "category_card_cache_total",
		Help: "Category hover card cache lookups by result",
	}, []string{"result"})

	// cardBuildSeconds tracks how long computing a card takes.
	cardBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "category_card_build_seconds",
		Help:    "Time spent computing a category hover card",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	})
)
