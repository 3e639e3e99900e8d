// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package tracing provides tracing instrumentation for the twins browse service.
package tracing

import (
	"context"

	"github.com/absmach/iiot/twins"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	collectFlatPageOp = "collect_flat_page"
	collectSubtreeOp  = "collect_subtree"
)

var _ twins.Service = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	svc    twins.Service
}

// New returns a new twins service with tracing capabilities.
func New(svc twins.Service, tracer trace.Tracer) twins.Service {
	return &tracingMiddleware{
		tracer: tracer,
		svc:    svc,
	}
}

func (tm *tracingMiddleware) CollectFlatPage(ctx context.Context, nodeID string) ([]twins.NodeReference, error) {
	ctx, span := tm.tracer.Start(ctx, collectFlatPageOp, trace.WithAttributes(
		attribute.String("node_id", nodeID),
	))
	defer span.End()

	refs, err := tm.svc.CollectFlatPage(ctx, nodeID)
	return refs, record(span, refs, err)
}

func (tm *tracingMiddleware) CollectSubtree(ctx context.Context, nodeID, nodeClass string) ([]twins.NodeReference, error) {
	ctx, span := tm.tracer.Start(ctx, collectSubtreeOp, trace.WithAttributes(
		attribute.String("node_id", nodeID),
		attribute.String("node_class", nodeClass),
	))
	defer span.End()

	refs, err := tm.svc.CollectSubtree(ctx, nodeID, nodeClass)
	return refs, record(span, refs, err)
}

func record(span trace.Span, refs []twins.NodeReference, err error) error {
	span.SetAttributes(attribute.Int("references", len(refs)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
