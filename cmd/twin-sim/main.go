// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains twin-sim main function to start the IIoT platform simulator.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"

	"github.com/absmach/iiot/internal/clients/jaeger"
	"github.com/absmach/iiot/internal/env"
	"github.com/absmach/iiot/internal/server"
	httpserver "github.com/absmach/iiot/internal/server/http"
	iiotlog "github.com/absmach/iiot/logger"
	"github.com/absmach/iiot/pkg/prometheus"
	"github.com/absmach/iiot/pkg/uuid"
	"github.com/absmach/iiot/simulator"
	"github.com/absmach/iiot/simulator/api"
	"golang.org/x/sync/errgroup"
)

const (
	svcName        = "twin-sim"
	envPrefix      = "IIOT_SIM_"
	envPrefixHTTP  = "IIOT_SIM_HTTP_"
	defSvcHTTPPort = "9080"
)

type config struct {
	LogLevel     string  `env:"LOG_LEVEL"     envDefault:"info"`
	InstanceID   string  `env:"INSTANCE_ID"   envDefault:""`
	Token        string  `env:"TOKEN"         envDefault:""`
	AddressSpace string  `env:"ADDRESS_SPACE" envDefault:""`
	JaegerURL    url.URL `env:"JAEGER_URL"    envDefault:""`
	TraceRatio   float64 `env:"TRACE_RATIO"   envDefault:"1.0"`
	Simulator    simulator.Config
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := iiotlog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err.Error())
	}

	var exitCode int
	defer iiotlog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.Parse(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	space, err := loadAddressSpace(cfg.AddressSpace, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load address space: %s", err))
		exitCode = 1
		return
	}

	if cfg.JaegerURL != (url.URL{}) {
		tp, err := jaeger.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to init Jaeger: %s", err))
			exitCode = 1
			return
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error(fmt.Sprintf("Error shutting down tracer provider: %v", err))
			}
		}()
	}

	svc := newService(cfg.Simulator, space, logger)

	hs := httpserver.New(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, cfg.InstanceID, cfg.Token), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func loadAddressSpace(path string, logger *slog.Logger) (simulator.AddressSpace, error) {
	if path == "" {
		logger.Info("serving the built-in address space")
		return simulator.DefaultAddressSpace(), nil
	}

	return simulator.ReadAddressSpace(path)
}

func newService(cfg simulator.Config, space simulator.AddressSpace, logger *slog.Logger) simulator.Service {
	svc := simulator.New(cfg, space, uuid.New())
	svc = api.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics("twin_sim", "api")
	svc = api.MetricsMiddleware(svc, counter, latency)

	return svc
}
