// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build !test

package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/iiot/twins"
)

var _ twins.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    twins.Service
}

// LoggingMiddleware adds logging facilities to the core service.
func LoggingMiddleware(svc twins.Service, logger *slog.Logger) twins.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) CollectFlatPage(ctx context.Context, nodeID string) (refs []twins.NodeReference, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("node_id", nodeID),
			slog.Int("references", len(refs)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Collect flat page failed to complete successfully", args...)
			return
		}
		lm.logger.Info("Collect flat page completed successfully", args...)
	}(time.Now())

	return lm.svc.CollectFlatPage(ctx, nodeID)
}

func (lm *loggingMiddleware) CollectSubtree(ctx context.Context, nodeID, nodeClass string) (refs []twins.NodeReference, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("subtree",
				slog.String("node_id", nodeID),
				slog.String("node_class", nodeClass),
				slog.Int("references", len(refs)),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Collect subtree failed to complete successfully", args...)
			return
		}
		lm.logger.Info("Collect subtree completed successfully", args...)
	}(time.Now())

	return lm.svc.CollectSubtree(ctx, nodeID, nodeClass)
}
