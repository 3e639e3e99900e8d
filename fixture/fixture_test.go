// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package fixture_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/absmach/iiot"
	"github.com/absmach/iiot/fixture"
	"github.com/absmach/iiot/logger"
	"github.com/absmach/iiot/pkg/errors"
	sdk "github.com/absmach/iiot/pkg/sdk/go"
	sdkmocks "github.com/absmach/iiot/pkg/sdk/mocks"
	"github.com/absmach/iiot/pkg/uuid"
	"github.com/absmach/iiot/simulator"
	"github.com/absmach/iiot/simulator/api"
	"github.com/absmach/iiot/twins"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	token     = "token"
	serverURL = "opc.tcp://opcplc:50000"
)

func newConfig(hostURL string) fixture.Config {
	return fixture.Config{
		HostURL:      hostURL,
		Token:        token,
		ServerURL:    serverURL,
		Services:     []string{"twin", "registry"},
		MaxWait:      2 * time.Second,
		PollInterval: 10 * time.Millisecond,
		Collector:    twins.Config{Parallelism: 1, MaxNodes: 1000, MaxPages: 100},
	}
}

func newSimulator(t *testing.T, cfg simulator.Config) (simulator.Service, sdk.SDK) {
	svc := simulator.New(cfg, simulator.DefaultAddressSpace(), uuid.NewMock())
	ts := httptest.NewServer(api.MakeHandler(svc, logger.NewMock(), "instance", token))
	t.Cleanup(ts.Close)

	return svc, sdk.NewSDK(sdk.Config{HostURL: ts.URL, Token: token})
}

func ids(refs []twins.NodeReference) []string {
	res := make([]string, 0, len(refs))
	for _, ref := range refs {
		res = append(res, ref.NodeID)
	}
	sort.Strings(res)

	return res
}

func TestLifecycle(t *testing.T) {
	svc, s := newSimulator(t, simulator.Config{PageSize: 2})
	ctx := context.Background()
	cfg := newConfig("")

	f, err := fixture.New(ctx, cfg, s, logger.NewMock(), fixture.WithMetrics(discard.NewCounter(), discard.NewHistogram()))
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.NotEmpty(t, f.EndpointID())
	assert.Equal(t, serverURL, f.EndpointURL())

	eps, err := svc.Endpoints(ctx)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.Len(t, eps, 1)
	assert.Equal(t, f.EndpointID(), eps[0].ID)
	assert.Equal(t, simulator.ActivatedAndConnected, eps[0].ActivationState)

	err = f.Close(ctx)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	apps, err := svc.Applications(ctx)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Empty(t, apps)
}

func TestBrowse(t *testing.T) {
	_, s := newSimulator(t, simulator.Config{PageSize: 2})
	ctx := context.Background()
	f, err := fixture.New(ctx, newConfig(""), s, logger.NewMock())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	cases := []struct {
		desc   string
		nodeID string
		refs   []string
	}{
		{
			desc: "browse root across pages",
			refs: []string{"i=85", "i=86", "i=87"},
		},
		{
			desc:   "browse boiler across pages",
			nodeID: "ns=2;s=Boiler",
			refs:   []string{"ns=2;s=Boiler.Level", "ns=2;s=Boiler.Pressure", "ns=2;s=Boiler.Temperature", "ns=2;s=Plant"},
		},
		{
			desc:   "browse leaf",
			nodeID: "ns=2;s=Add",
			refs:   []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			refs, err := f.Browse(ctx, tc.nodeID)
			require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
			assert.Equal(t, tc.refs, ids(refs))
		})
	}
}

func TestBrowseRecursive(t *testing.T) {
	_, s := newSimulator(t, simulator.Config{PageSize: 3})
	ctx := context.Background()
	cfg := newConfig("")

	for _, parallelism := range []int{1, 4} {
		cfg.Collector.Parallelism = parallelism
		f, err := fixture.New(ctx, cfg, s, logger.NewMock())
		require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

		cases := []struct {
			desc      string
			nodeClass string
			nodeID    string
			refs      []string
		}{
			{
				desc:      "variables under objects",
				nodeClass: twins.NodeClassVariable,
				nodeID:    "i=85",
				refs:      []string{"i=2256", "ns=2;s=Boiler.Level", "ns=2;s=Boiler.Pressure", "ns=2;s=Boiler.Temperature"},
			},
			{
				desc:      "methods under plant",
				nodeClass: twins.NodeClassMethod,
				nodeID:    "ns=2;s=Plant",
				refs:      []string{"ns=2;s=Add", "ns=2;s=Echo"},
			},
			{
				desc:   "subtree with back reference",
				nodeID: "ns=2;s=Boiler",
				refs: []string{
					"ns=2;s=Add", "ns=2;s=Boiler", "ns=2;s=Boiler.Level", "ns=2;s=Boiler.Pressure",
					"ns=2;s=Boiler.Temperature", "ns=2;s=Echo", "ns=2;s=Methods", "ns=2;s=Plant",
				},
			},
		}

		for _, tc := range cases {
			t.Run(fmt.Sprintf("%s with parallelism %d", tc.desc, parallelism), func(t *testing.T) {
				refs, err := f.BrowseRecursive(ctx, tc.nodeClass, tc.nodeID)
				require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
				assert.Equal(t, tc.refs, ids(refs))
			})
		}
	}
}

func TestBrowseNode(t *testing.T) {
	_, s := newSimulator(t, simulator.Config{PageSize: 2})
	ctx := context.Background()
	f, err := fixture.New(ctx, newConfig(""), s, logger.NewMock())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	first, err := f.BrowseNode(ctx, "", "")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	token, ok := first["continuationToken"].(string)
	require.True(t, ok)

	next, err := f.BrowseNode(ctx, "", token)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	refs, ok := next["references"].([]interface{})
	require.True(t, ok)
	assert.Len(t, refs, 1)

	_, err = f.BrowseNode(ctx, "", token)
	assert.NotNil(t, err)
}

func TestMethods(t *testing.T) {
	_, s := newSimulator(t, simulator.Config{})
	ctx := context.Background()
	f, err := fixture.New(ctx, newConfig(""), s, logger.NewMock())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	meta, err := f.MethodMetadata(ctx, "ns=2;s=Add")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, "ns=2;s=Methods", meta.ObjectID)

	cases := []struct {
		desc     string
		methodID string
		objectID string
		args     []sdk.MethodCallArgument
		results  []sdk.MethodCallArgument
		err      error
	}{
		{
			desc:     "call add",
			methodID: "ns=2;s=Add",
			objectID: meta.ObjectID,
			args:     []sdk.MethodCallArgument{{Value: 1.5, DataType: "Double"}, {Value: 2.5, DataType: "Double"}},
			results:  []sdk.MethodCallArgument{{Value: 4.0, DataType: "Double"}},
		},
		{
			desc:     "call echo",
			methodID: "ns=2;s=Echo",
			objectID: meta.ObjectID,
			args:     []sdk.MethodCallArgument{{Value: "ping", DataType: "String"}},
			results:  []sdk.MethodCallArgument{{Value: "ping", DataType: "String"}},
		},
		{
			desc:     "call variable",
			methodID: "ns=2;s=Boiler.Level",
			err:      simulator.ErrUnknownMethod,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := f.CallMethod(ctx, tc.methodID, tc.objectID, tc.args)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("expected error %s, got %s", tc.err, err))
			if tc.err == nil {
				assert.Equal(t, tc.results, res.Results)
			}
		})
	}
}

func TestDelayedDiscovery(t *testing.T) {
	_, s := newSimulator(t, simulator.Config{DiscoveryDelay: 50 * time.Millisecond})

	f, err := fixture.New(context.Background(), newConfig(""), s, logger.NewMock())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.NotEmpty(t, f.EndpointID())
}

func TestUnhealthyServices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()
	s := sdk.NewSDK(sdk.Config{HostURL: ts.URL})
	cfg := newConfig(ts.URL)
	cfg.MaxWait = 100 * time.Millisecond

	_, err := fixture.New(context.Background(), cfg, s, logger.NewMock())
	assert.True(t, errors.Contains(err, fixture.ErrServicesUnhealthy), fmt.Sprintf("expected error %s, got %s", fixture.ErrServicesUnhealthy, err))
}

func TestCancelledWait(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()
	s := sdk.NewSDK(sdk.Config{HostURL: ts.URL})
	cfg := newConfig(ts.URL)
	cfg.MaxWait = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := fixture.New(ctx, cfg, s, logger.NewMock())
	assert.True(t, errors.Contains(err, fixture.ErrServicesUnhealthy), fmt.Sprintf("expected error %s, got %s", fixture.ErrServicesUnhealthy, err))
	assert.True(t, errors.Contains(err, context.DeadlineExceeded), fmt.Sprintf("expected error %s, got %s", context.DeadlineExceeded, err))
}

func TestRegistrationFailures(t *testing.T) {
	healthy := iiot.HealthInfo{Status: "pass"}
	app := sdk.Application{ApplicationID: "app", DiscoveryURLs: []string{serverURL + "/"}}
	endpoint := func(activation, state string) sdk.Endpoint {
		return sdk.Endpoint{
			Registration:    sdk.EndpointRegistration{ID: "ep", EndpointURL: serverURL},
			ApplicationID:   app.ApplicationID,
			ActivationState: activation,
			EndpointState:   state,
		}
	}

	cases := []struct {
		desc      string
		apps      []sdk.Application
		endpoints []sdk.Endpoint
		err       error
	}{
		{
			desc: "server never discovered",
			err:  fixture.ErrDiscoveryTimeout,
		},
		{
			desc: "endpoint never discovered",
			apps: []sdk.Application{app},
			err:  fixture.ErrDiscoveryTimeout,
		},
		{
			desc:      "endpoint not activated",
			apps:      []sdk.Application{app},
			endpoints: []sdk.Endpoint{endpoint(simulator.Deactivated, simulator.Disconnected)},
			err:       fixture.ErrEndpointNotReady,
		},
		{
			desc:      "endpoint activated but not ready",
			apps:      []sdk.Application{app},
			endpoints: []sdk.Endpoint{endpoint(sdk.ActivatedAndConnected, simulator.Disconnected)},
			err:       fixture.ErrEndpointNotReady,
		},
		{
			desc:      "endpoint ready",
			apps:      []sdk.Application{app},
			endpoints: []sdk.Endpoint{endpoint(sdk.ActivatedAndConnected, sdk.EndpointReady)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			sdkMock := new(sdkmocks.SDK)
			sdkMock.On("Health", mock.Anything, mock.Anything).Return(healthy, nil)
			sdkMock.On("DiscoverServer", mock.Anything, serverURL).Return(nil)
			sdkMock.On("Applications", mock.Anything).Return(sdk.ApplicationsPage{Items: tc.apps}, nil)
			sdkMock.On("Endpoints", mock.Anything).Return(sdk.EndpointsPage{Items: tc.endpoints}, nil)
			sdkMock.On("ActivateEndpoint", mock.Anything, "ep").Return(nil)

			cfg := newConfig("")
			cfg.MaxWait = 50 * time.Millisecond
			f, err := fixture.New(context.Background(), cfg, sdkMock, logger.NewMock())
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("expected error %s, got %s", tc.err, err))
			if tc.err == nil {
				assert.Equal(t, "ep", f.EndpointID())
				sdkMock.AssertCalled(t, "ActivateEndpoint", mock.Anything, "ep")
			}
		})
	}
}

func TestClose(t *testing.T) {
	healthy := iiot.HealthInfo{Status: "pass"}
	apps := []sdk.Application{
		{ApplicationID: "app", DiscoveryURLs: []string{serverURL}},
		{ApplicationID: "other", DiscoveryURLs: []string{"opc.tcp://other:4840"}},
		{ApplicationID: "failing", DiscoveryURLs: []string{serverURL + "/"}},
	}
	ready := sdk.Endpoint{
		Registration:    sdk.EndpointRegistration{ID: "ep", EndpointURL: serverURL},
		ActivationState: sdk.ActivatedAndConnected,
		EndpointState:   sdk.EndpointReady,
	}

	sdkMock := new(sdkmocks.SDK)
	sdkMock.On("Health", mock.Anything, mock.Anything).Return(healthy, nil)
	sdkMock.On("DiscoverServer", mock.Anything, serverURL).Return(nil)
	sdkMock.On("Applications", mock.Anything).Return(sdk.ApplicationsPage{Items: apps}, nil)
	sdkMock.On("Endpoints", mock.Anything).Return(sdk.EndpointsPage{Items: []sdk.Endpoint{ready}}, nil)
	sdkMock.On("ActivateEndpoint", mock.Anything, "ep").Return(nil)
	sdkMock.On("DeleteApplication", mock.Anything, "app").Return(nil)
	sdkMock.On("DeleteApplication", mock.Anything, "failing").Return(errors.NewSDKErrorWithStatus(errors.ErrNotFound, http.StatusNotFound))

	f, err := fixture.New(context.Background(), newConfig(""), sdkMock, logger.NewMock())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	err = f.Close(context.Background())
	assert.True(t, errors.Contains(err, errors.ErrNotFound), fmt.Sprintf("expected error %s, got %s", errors.ErrNotFound, err))
	sdkMock.AssertCalled(t, "DeleteApplication", mock.Anything, "app")
	sdkMock.AssertNotCalled(t, "DeleteApplication", mock.Anything, "other")
}

func TestBrowseServerUnreachable(t *testing.T) {
	sdkMock := new(sdkmocks.SDK)
	sdkMock.On("Health", mock.Anything, mock.Anything).Return(iiot.HealthInfo{Status: "pass"}, nil)
	sdkMock.On("DiscoverServer", mock.Anything, mock.Anything).Return(nil)
	sdkMock.On("Applications", mock.Anything).Return(sdk.ApplicationsPage{Items: []sdk.Application{{ApplicationID: "app", DiscoveryURLs: []string{"opc.tcp://127.0.0.1:1"}}}}, nil)
	sdkMock.On("Endpoints", mock.Anything).Return(sdk.EndpointsPage{Items: []sdk.Endpoint{{
		Registration:    sdk.EndpointRegistration{ID: "ep", EndpointURL: "opc.tcp://127.0.0.1:1"},
		ActivationState: sdk.ActivatedAndConnected,
		EndpointState:   sdk.EndpointReady,
	}}}, nil)
	sdkMock.On("ActivateEndpoint", mock.Anything, "ep").Return(nil)

	cfg := newConfig("")
	cfg.ServerURL = "opc.tcp://127.0.0.1:1"
	f, err := fixture.New(context.Background(), cfg, sdkMock, logger.NewMock())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = f.BrowseServer(ctx, "", "")
	assert.True(t, errors.Contains(err, twins.ErrBrowse), fmt.Sprintf("expected error %s, got %s", twins.ErrBrowse, err))
}
