// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build !test

package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/iiot/simulator"
)

var _ simulator.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    simulator.Service
}

// LoggingMiddleware adds logging facilities to the simulator service.
func LoggingMiddleware(svc simulator.Service, logger *slog.Logger) simulator.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) Browse(ctx context.Context, endpointID, nodeID string) (page simulator.BrowsePage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("endpoint_id", endpointID),
			slog.String("node_id", nodeID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Browse failed to complete successfully", args...)
			return
		}
		args = append(args, slog.Int("references", len(page.References)))
		lm.logger.Info("Browse completed successfully", args...)
	}(time.Now())

	return lm.svc.Browse(ctx, endpointID, nodeID)
}

func (lm *loggingMiddleware) BrowseNext(ctx context.Context, endpointID, token string) (page simulator.BrowsePage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("endpoint_id", endpointID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Browse next failed to complete successfully", args...)
			return
		}
		args = append(args, slog.String("node_id", page.Node.ID), slog.Int("references", len(page.References)))
		lm.logger.Info("Browse next completed successfully", args...)
	}(time.Now())

	return lm.svc.BrowseNext(ctx, endpointID, token)
}

func (lm *loggingMiddleware) MethodMetadata(ctx context.Context, endpointID, methodID string) (meta simulator.MethodMetadata, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("endpoint_id", endpointID),
			slog.String("method_id", methodID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Method metadata failed to complete successfully", args...)
			return
		}
		lm.logger.Info("Method metadata completed successfully", args...)
	}(time.Now())

	return lm.svc.MethodMetadata(ctx, endpointID, methodID)
}

func (lm *loggingMiddleware) CallMethod(ctx context.Context, endpointID, methodID, objectID string, values []simulator.Value) (results []simulator.Value, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("endpoint_id", endpointID),
			slog.Group("method",
				slog.String("id", methodID),
				slog.String("object_id", objectID),
				slog.Int("arguments", len(values)),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Call method failed to complete successfully", args...)
			return
		}
		lm.logger.Info("Call method completed successfully", args...)
	}(time.Now())

	return lm.svc.CallMethod(ctx, endpointID, methodID, objectID, values)
}

func (lm *loggingMiddleware) Discover(ctx context.Context, discoveryURL string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("discovery_url", discoveryURL),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Discover failed to complete successfully", args...)
			return
		}
		lm.logger.Info("Discover completed successfully", args...)
	}(time.Now())

	return lm.svc.Discover(ctx, discoveryURL)
}

func (lm *loggingMiddleware) Applications(ctx context.Context) (apps []simulator.Application, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List applications failed to complete successfully", args...)
			return
		}
		args = append(args, slog.Int("total", len(apps)))
		lm.logger.Info("List applications completed successfully", args...)
	}(time.Now())

	return lm.svc.Applications(ctx)
}

func (lm *loggingMiddleware) RemoveApplication(ctx context.Context, applicationID string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("application_id", applicationID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Remove application failed to complete successfully", args...)
			return
		}
		lm.logger.Info("Remove application completed successfully", args...)
	}(time.Now())

	return lm.svc.RemoveApplication(ctx, applicationID)
}

func (lm *loggingMiddleware) Endpoints(ctx context.Context) (eps []simulator.Endpoint, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List endpoints failed to complete successfully", args...)
			return
		}
		args = append(args, slog.Int("total", len(eps)))
		lm.logger.Info("List endpoints completed successfully", args...)
	}(time.Now())

	return lm.svc.Endpoints(ctx)
}

func (lm *loggingMiddleware) ActivateEndpoint(ctx context.Context, endpointID string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("endpoint_id", endpointID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Activate endpoint failed to complete successfully", args...)
			return
		}
		lm.logger.Info("Activate endpoint completed successfully", args...)
	}(time.Now())

	return lm.svc.ActivateEndpoint(ctx, endpointID)
}
