// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userauthapi_auth_requests_total",
		Help: "Total number of auth endpoint requests",
	}, []string{"endpoint", "status"})

	TokenChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userauthapi_token_checks_total",
		Help: "Bearer token gate outcomes",
	}, []string{"result"})

	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "userauthapi_tokens_issued_total",
		Help: "Total number of tokens issued",
	})

	TokensRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "userauthapi_tokens_revoked_total",
		Help: "Total number of tokens added to the blacklist",
	})

	LoginDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "userauthapi_login_duration_seconds",
		Help:    "Time spent handling login requests",
		Buckets: prometheus.ExponentialBuckets(0.01, 2.0, 10), // 10ms to ~5s
	})
)
