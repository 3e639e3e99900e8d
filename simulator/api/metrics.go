// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build !test

package api

import (
	"context"
	"time"

	"github.com/absmach/iiot/simulator"
	"github.com/go-kit/kit/metrics"
)

var _ simulator.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     simulator.Service
}

// MetricsMiddleware instruments simulator service by tracking request count and latency.
func MetricsMiddleware(svc simulator.Service, counter metrics.Counter, latency metrics.Histogram) simulator.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (ms *metricsMiddleware) Browse(ctx context.Context, endpointID, nodeID string) (simulator.BrowsePage, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "browse").Add(1)
		ms.latency.With("method", "browse").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Browse(ctx, endpointID, nodeID)
}

func (ms *metricsMiddleware) BrowseNext(ctx context.Context, endpointID, token string) (simulator.BrowsePage, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "browse_next").Add(1)
		ms.latency.With("method", "browse_next").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.BrowseNext(ctx, endpointID, token)
}

func (ms *metricsMiddleware) MethodMetadata(ctx context.Context, endpointID, methodID string) (simulator.MethodMetadata, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "method_metadata").Add(1)
		ms.latency.With("method", "method_metadata").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.MethodMetadata(ctx, endpointID, methodID)
}

func (ms *metricsMiddleware) CallMethod(ctx context.Context, endpointID, methodID, objectID string, args []simulator.Value) ([]simulator.Value, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "call_method").Add(1)
		ms.latency.With("method", "call_method").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.CallMethod(ctx, endpointID, methodID, objectID, args)
}

func (ms *metricsMiddleware) Discover(ctx context.Context, discoveryURL string) error {
	defer func(begin time.Time) {
		ms.counter.With("method", "discover").Add(1)
		ms.latency.With("method", "discover").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Discover(ctx, discoveryURL)
}

func (ms *metricsMiddleware) Applications(ctx context.Context) ([]simulator.Application, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "list_applications").Add(1)
		ms.latency.With("method", "list_applications").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Applications(ctx)
}

func (ms *metricsMiddleware) RemoveApplication(ctx context.Context, applicationID string) error {
	defer func(begin time.Time) {
		ms.counter.With("method", "remove_application").Add(1)
		ms.latency.With("method", "remove_application").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.RemoveApplication(ctx, applicationID)
}

func (ms *metricsMiddleware) Endpoints(ctx context.Context) ([]simulator.Endpoint, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "list_endpoints").Add(1)
		ms.latency.With("method", "list_endpoints").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Endpoints(ctx)
}

func (ms *metricsMiddleware) ActivateEndpoint(ctx context.Context, endpointID string) error {
	defer func(begin time.Time) {
		ms.counter.With("method", "activate_endpoint").Add(1)
		ms.latency.With("method", "activate_endpoint").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.ActivateEndpoint(ctx, endpointID)
}
