// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build !test

package api

import (
	"context"
	"time"

	"github.com/absmach/iiot/twins"
	"github.com/go-kit/kit/metrics"
)

var _ twins.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     twins.Service
}

// MetricsMiddleware instruments core service by tracking request count and latency.
func MetricsMiddleware(svc twins.Service, counter metrics.Counter, latency metrics.Histogram) twins.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (ms *metricsMiddleware) CollectFlatPage(ctx context.Context, nodeID string) ([]twins.NodeReference, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "collect_flat_page").Add(1)
		ms.latency.With("method", "collect_flat_page").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.CollectFlatPage(ctx, nodeID)
}

func (ms *metricsMiddleware) CollectSubtree(ctx context.Context, nodeID, nodeClass string) ([]twins.NodeReference, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "collect_subtree").Add(1)
		ms.latency.With("method", "collect_subtree").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.CollectSubtree(ctx, nodeID, nodeClass)
}
