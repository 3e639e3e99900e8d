// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/absmach/iiot/pkg/errors"
	sdk "github.com/absmach/iiot/pkg/sdk/go"
	"github.com/absmach/iiot/twins"
	"github.com/absmach/iiot/twins/api"
	"github.com/absmach/iiot/twins/gopcua"
	"github.com/absmach/iiot/twins/rest"
	"github.com/absmach/iiot/twins/tracing"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-kit/kit/metrics"
	"go.opentelemetry.io/otel"
)

const (
	tracerName = "github.com/absmach/iiot/fixture"

	defMaxWait      = 5 * time.Minute
	defPollInterval = time.Second
)

var (
	// ErrServicesUnhealthy indicates that a service did not report healthy in time.
	ErrServicesUnhealthy = errors.New("services did not become healthy")

	// ErrDiscoveryTimeout indicates that the server was not discovered in time.
	ErrDiscoveryTimeout = errors.New("server discovery timed out")

	// ErrEndpointNotFound indicates that no endpoint is registered for the server.
	ErrEndpointNotFound = errors.New("endpoint not found")

	// ErrEndpointNotReady indicates an endpoint that is not activated and ready.
	ErrEndpointNotReady = errors.New("endpoint is not activated and ready")

	errApplicationPending = errors.New("application not registered yet")
	errEndpointPending    = errors.New("endpoint not registered yet")
)

// Option customizes the fixture.
type Option func(*Fixture)

// WithMetrics instruments the node tree collector.
func WithMetrics(counter metrics.Counter, latency metrics.Histogram) Option {
	return func(f *Fixture) {
		f.counter = counter
		f.latency = latency
	}
}

// Fixture is a registered and activated Twin endpoint.
type Fixture struct {
	cfg        Config
	sdk        sdk.SDK
	logger     *slog.Logger
	collector  twins.Service
	counter    metrics.Counter
	latency    metrics.Histogram
	endpointID string
}

// New waits for the platform, registers the configured OPC UA server and
// activates its endpoint.
func New(ctx context.Context, cfg Config, s sdk.SDK, logger *slog.Logger, opts ...Option) (*Fixture, error) {
	f := &Fixture{
		cfg:    withDefaults(cfg),
		sdk:    s,
		logger: logger,
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.waitForServices(ctx); err != nil {
		return nil, err
	}
	if err := f.register(ctx); err != nil {
		return nil, err
	}
	if err := f.waitForDiscovery(ctx); err != nil {
		return nil, err
	}
	endpointID, err := f.waitForEndpoint(ctx)
	if err != nil {
		return nil, err
	}
	if err := f.activate(ctx, endpointID); err != nil {
		return nil, err
	}
	f.endpointID = endpointID

	var svc twins.Service
	svc = twins.New(rest.NewBrowser(s, endpointID), f.cfg.Collector)
	svc = tracing.New(svc, otel.Tracer(tracerName))
	svc = api.LoggingMiddleware(svc, logger)
	if f.counter != nil && f.latency != nil {
		svc = api.MetricsMiddleware(svc, f.counter, f.latency)
	}
	f.collector = svc

	logger.Info("Twin endpoint activated", slog.String("endpoint_id", endpointID), slog.String("server_url", cfg.ServerURL))

	return f, nil
}

// EndpointID returns the ID of the activated endpoint.
func (f *Fixture) EndpointID() string {
	return f.endpointID
}

// EndpointURL returns the URL of the OPC UA server under test.
func (f *Fixture) EndpointURL() string {
	return f.cfg.ServerURL
}

// Browse collects all references of the node across every browse page.
func (f *Fixture) Browse(ctx context.Context, nodeID string) ([]twins.NodeReference, error) {
	return f.collector.CollectFlatPage(ctx, nodeID)
}

// BrowseRecursive collects the subtree of the node, keeping references of
// the given class. An empty class keeps every reference.
func (f *Fixture) BrowseRecursive(ctx context.Context, nodeClass, nodeID string) ([]twins.NodeReference, error) {
	return f.collector.CollectSubtree(ctx, nodeID, nodeClass)
}

// BrowseNode performs one browse call and returns the decoded response.
func (f *Fixture) BrowseNode(ctx context.Context, nodeID, continuationToken string) (map[string]interface{}, error) {
	res, err := f.sdk.BrowseRaw(ctx, f.endpointID, nodeID, continuationToken)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// MethodMetadata returns the argument metadata of the method node.
func (f *Fixture) MethodMetadata(ctx context.Context, methodID string) (sdk.MethodMetadataResponse, error) {
	res, err := f.sdk.MethodMetadata(ctx, f.endpointID, methodID)
	if err != nil {
		return sdk.MethodMetadataResponse{}, err
	}

	return res, nil
}

// CallMethod invokes the method on the object with the given arguments.
func (f *Fixture) CallMethod(ctx context.Context, methodID, objectID string, args []sdk.MethodCallArgument) (sdk.MethodCallResponse, error) {
	req := sdk.MethodCallRequest{
		MethodID:  methodID,
		ObjectID:  objectID,
		Arguments: args,
		Header:    sdk.VerboseHeader(),
	}
	res, err := f.sdk.CallMethod(ctx, f.endpointID, req)
	if err != nil {
		return sdk.MethodCallResponse{}, err
	}

	return res, nil
}

// BrowseServer collects the subtree of the node directly from the OPC UA
// server, bypassing the Twin service.
func (f *Fixture) BrowseServer(ctx context.Context, nodeClass, nodeID string) ([]twins.NodeReference, error) {
	b, err := gopcua.NewBrowser(ctx, f.cfg.ServerURL)
	if err != nil {
		return nil, errors.Wrap(twins.ErrBrowse, err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			f.logger.Warn("Failed to close OPC UA connection", slog.Any("error", err))
		}
	}()

	return twins.New(b, f.cfg.Collector).CollectSubtree(ctx, nodeID, nodeClass)
}

// Close unregisters every application discovered from the server URL.
func (f *Fixture) Close(ctx context.Context) error {
	page, sdkerr := f.sdk.Applications(ctx)
	if sdkerr != nil {
		return sdkerr
	}

	var err error
	for _, app := range page.Items {
		if !f.matches(app.DiscoveryURLs) {
			continue
		}
		if sdkerr := f.sdk.DeleteApplication(ctx, app.ApplicationID); sdkerr != nil {
			f.logger.Warn("Failed to unregister application", slog.String("application_id", app.ApplicationID), slog.Any("error", sdkerr))
			if err == nil {
				err = sdkerr
			}
			continue
		}
		f.logger.Info("Unregistered application", slog.String("application_id", app.ApplicationID))
	}

	return err
}

func (f *Fixture) waitForServices(ctx context.Context) error {
	for _, service := range f.cfg.Services {
		op := func() error {
			h, err := f.sdk.Health(ctx, service)
			if err != nil {
				return err
			}
			if h.Status != "pass" {
				return fmt.Errorf("service %s reported status %s", service, h.Status)
			}
			return nil
		}
		if err := f.retry(ctx, op, "Service not healthy", slog.String("service", service)); err != nil {
			return errors.Wrap(ErrServicesUnhealthy, err)
		}
	}

	return nil
}

func (f *Fixture) register(ctx context.Context) error {
	if err := f.sdk.DiscoverServer(ctx, f.cfg.ServerURL); err != nil {
		return err
	}

	return nil
}

func (f *Fixture) waitForDiscovery(ctx context.Context) error {
	op := func() error {
		page, err := f.sdk.Applications(ctx)
		if err != nil {
			return err
		}
		for _, app := range page.Items {
			if f.matches(app.DiscoveryURLs) {
				return nil
			}
		}
		return errApplicationPending
	}
	if err := f.retry(ctx, op, "Server not discovered", slog.String("server_url", f.cfg.ServerURL)); err != nil {
		return errors.Wrap(ErrDiscoveryTimeout, err)
	}

	return nil
}

func (f *Fixture) waitForEndpoint(ctx context.Context) (string, error) {
	var endpointID string
	op := func() error {
		ep, err := f.endpoint(ctx)
		if err != nil {
			return err
		}
		endpointID = ep.Registration.ID
		return nil
	}
	if err := f.retry(ctx, op, "Endpoint not discovered", slog.String("server_url", f.cfg.ServerURL)); err != nil {
		return "", errors.Wrap(ErrDiscoveryTimeout, err)
	}

	return endpointID, nil
}

func (f *Fixture) activate(ctx context.Context, endpointID string) error {
	if err := f.sdk.ActivateEndpoint(ctx, endpointID); err != nil {
		return err
	}

	ep, err := f.endpoint(ctx)
	switch {
	case errors.Contains(err, errEndpointPending):
		return ErrEndpointNotFound
	case err != nil:
		return err
	case ep.Registration.ID != endpointID:
		return errors.Wrap(ErrEndpointNotFound, fmt.Errorf("endpoint %s", endpointID))
	case ep.ActivationState != sdk.ActivatedAndConnected || ep.EndpointState != sdk.EndpointReady:
		return errors.Wrap(ErrEndpointNotReady, fmt.Errorf("activation state %s, endpoint state %s", ep.ActivationState, ep.EndpointState))
	}

	return nil
}

func (f *Fixture) endpoint(ctx context.Context) (sdk.Endpoint, error) {
	page, err := f.sdk.Endpoints(ctx)
	if err != nil {
		return sdk.Endpoint{}, err
	}
	for _, ep := range page.Items {
		if trimURL(ep.Registration.EndpointURL) == trimURL(f.cfg.ServerURL) {
			return ep, nil
		}
	}

	return sdk.Endpoint{}, errEndpointPending
}

func (f *Fixture) matches(urls []string) bool {
	return len(urls) > 0 && trimURL(urls[0]) == trimURL(f.cfg.ServerURL)
}

func (f *Fixture) retry(ctx context.Context, op backoff.Operation, msg string, attrs ...any) error {
	notify := func(err error, next time.Duration) {
		args := append([]any{slog.String("next_try", next.String()), slog.Any("error", err)}, attrs...)
		f.logger.Info(msg, args...)
	}

	return backoff.RetryNotify(op, backoff.WithContext(f.backOff(), ctx), notify)
}

func (f *Fixture) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.cfg.PollInterval
	b.MaxElapsedTime = f.cfg.MaxWait

	return b
}

// withDefaults fills zero wait settings. A zero MaxElapsedTime never stops retrying.
func withDefaults(cfg Config) Config {
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defMaxWait
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defPollInterval
	}

	return cfg
}

func trimURL(u string) string {
	return strings.TrimSuffix(u, "/")
}
