// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/absmach/iiot/logger"
	"github.com/absmach/iiot/pkg/apiutil"
	"github.com/absmach/iiot/pkg/errors"
	sdk "github.com/absmach/iiot/pkg/sdk/go"
	"github.com/absmach/iiot/pkg/uuid"
	"github.com/absmach/iiot/simulator"
	"github.com/absmach/iiot/simulator/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	token       = "secret"
	instanceID  = "5de9b29a-feb9-11ed-be56-0242ac120002"
	serverURL   = "opc.tcp://opcplc:50000"
	contentType = "application/json"
)

func newServer(t *testing.T, cfg simulator.Config) (*httptest.Server, sdk.SDK) {
	svc := simulator.New(cfg, simulator.DefaultAddressSpace(), uuid.NewMock())
	ts := httptest.NewServer(api.MakeHandler(svc, logger.NewMock(), instanceID, token))
	t.Cleanup(ts.Close)

	return ts, sdk.NewSDK(sdk.Config{HostURL: ts.URL, Token: token})
}

func activeEndpoint(t *testing.T, s sdk.SDK) string {
	ctx := context.Background()
	err := s.DiscoverServer(ctx, serverURL)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	page, err := s.Endpoints(ctx)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.Len(t, page.Items, 1)
	err = s.ActivateEndpoint(ctx, page.Items[0].Registration.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	return page.Items[0].Registration.ID
}

func TestBrowseEndpoint(t *testing.T) {
	_, s := newServer(t, simulator.Config{PageSize: 2})
	endpointID := activeEndpoint(t, s)

	cases := []struct {
		desc       string
		endpointID string
		nodeID     string
		refs       []string
		paged      bool
		status     int
		err        error
	}{
		{
			desc:       "browse root",
			endpointID: endpointID,
			refs:       []string{"i=85", "i=86"},
			paged:      true,
		},
		{
			desc:       "browse plant",
			endpointID: endpointID,
			nodeID:     "ns=2;s=Plant",
			refs:       []string{"ns=2;s=Boiler", "ns=2;s=Methods"},
		},
		{
			desc:       "browse leaf",
			endpointID: endpointID,
			nodeID:     "ns=2;s=Boiler.Level",
			refs:       []string{},
		},
		{
			desc:       "browse unknown node",
			endpointID: endpointID,
			nodeID:     "ns=2;s=Unknown",
			status:     http.StatusNotFound,
			err:        errors.ErrNotFound,
		},
		{
			desc:       "browse unknown endpoint",
			endpointID: "unknown",
			status:     http.StatusNotFound,
			err:        errors.ErrNotFound,
		},
		{
			desc:   "browse without endpoint",
			status: 0,
			err:    apiutil.ErrMissingEndpointID,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			page, err := s.Browse(context.Background(), tc.endpointID, tc.nodeID)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("expected error %s, got %s", tc.err, err))
			if tc.err != nil {
				assert.Equal(t, tc.status, err.StatusCode())
				return
			}
			require.NotNil(t, page.References)
			ids := []string{}
			for _, ref := range *page.References {
				ids = append(ids, ref.Target.NodeID)
			}
			assert.Equal(t, tc.refs, ids)
			assert.Equal(t, tc.paged, page.ContinuationToken != "")
		})
	}
}

func TestBrowseNextEndpoint(t *testing.T) {
	_, s := newServer(t, simulator.Config{PageSize: 2})
	endpointID := activeEndpoint(t, s)
	ctx := context.Background()

	first, err := s.Browse(ctx, endpointID, "")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.NotEmpty(t, first.ContinuationToken)

	next, err := s.BrowseNext(ctx, endpointID, first.ContinuationToken)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.NotNil(t, next.References)
	require.Len(t, *next.References, 1)
	assert.Equal(t, "i=87", (*next.References)[0].Target.NodeID)
	assert.Empty(t, next.ContinuationToken)

	_, err = s.BrowseNext(ctx, endpointID, first.ContinuationToken)
	assert.True(t, errors.Contains(err, apiutil.ErrInvalidContinuationToken), fmt.Sprintf("expected error %s, got %s", apiutil.ErrInvalidContinuationToken, err))
	assert.Equal(t, http.StatusBadRequest, err.StatusCode())
}

func TestBrowseNotActivated(t *testing.T) {
	_, s := newServer(t, simulator.Config{})
	ctx := context.Background()

	err := s.DiscoverServer(ctx, serverURL)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	page, err := s.Endpoints(ctx)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.Len(t, page.Items, 1)
	assert.Equal(t, simulator.Deactivated, page.Items[0].ActivationState)

	_, err = s.Browse(ctx, page.Items[0].Registration.ID, "")
	assert.True(t, errors.Contains(err, simulator.ErrEndpointNotActivated), fmt.Sprintf("expected error %s, got %s", simulator.ErrEndpointNotActivated, err))
	assert.Equal(t, http.StatusConflict, err.StatusCode())
}

func TestMethodEndpoints(t *testing.T) {
	_, s := newServer(t, simulator.Config{})
	endpointID := activeEndpoint(t, s)
	ctx := context.Background()

	meta, err := s.MethodMetadata(ctx, endpointID, "ns=2;s=Add")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, "ns=2;s=Methods", meta.ObjectID)
	assert.Len(t, meta.InputArguments, 2)
	assert.Len(t, meta.OutputArguments, 1)

	_, err = s.MethodMetadata(ctx, endpointID, "ns=2;s=Plant")
	assert.True(t, errors.Contains(err, simulator.ErrUnknownMethod), fmt.Sprintf("expected error %s, got %s", simulator.ErrUnknownMethod, err))

	cases := []struct {
		desc    string
		req     sdk.MethodCallRequest
		results []sdk.MethodCallArgument
		status  int
		err     error
	}{
		{
			desc: "call add",
			req: sdk.MethodCallRequest{
				MethodID: "ns=2;s=Add",
				ObjectID: meta.ObjectID,
				Arguments: []sdk.MethodCallArgument{
					{Value: 2, DataType: "Double"},
					{Value: 3.5, DataType: "Double"},
				},
			},
			results: []sdk.MethodCallArgument{{Value: 5.5, DataType: "Double"}},
		},
		{
			desc: "call echo",
			req: sdk.MethodCallRequest{
				MethodID:  "ns=2;s=Echo",
				Arguments: []sdk.MethodCallArgument{{Value: "hello", DataType: "String"}},
			},
			results: []sdk.MethodCallArgument{{Value: "hello", DataType: "String"}},
		},
		{
			desc: "call add with wrong object",
			req: sdk.MethodCallRequest{
				MethodID:  "ns=2;s=Add",
				ObjectID:  "ns=2;s=Boiler",
				Arguments: []sdk.MethodCallArgument{{Value: 1}, {Value: 1}},
			},
			status: http.StatusBadRequest,
			err:    apiutil.ErrInvalidArgument,
		},
		{
			desc: "call add with missing argument",
			req: sdk.MethodCallRequest{
				MethodID:  "ns=2;s=Add",
				Arguments: []sdk.MethodCallArgument{{Value: 1}},
			},
			status: http.StatusBadRequest,
			err:    apiutil.ErrInvalidArgument,
		},
		{
			desc:   "call unknown node",
			req:    sdk.MethodCallRequest{MethodID: "ns=2;s=Missing"},
			status: http.StatusNotFound,
			err:    errors.ErrNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := s.CallMethod(ctx, endpointID, tc.req)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("expected error %s, got %s", tc.err, err))
			if tc.err != nil {
				assert.Equal(t, tc.status, err.StatusCode())
				return
			}
			assert.Equal(t, tc.results, res.Results)
		})
	}
}

func TestRegistryEndpoints(t *testing.T) {
	_, s := newServer(t, simulator.Config{})
	ctx := context.Background()

	err := s.DiscoverServer(ctx, "not a url")
	assert.True(t, errors.Contains(err, apiutil.ErrMissingDiscoveryURL), fmt.Sprintf("expected error %s, got %s", apiutil.ErrMissingDiscoveryURL, err))

	endpointID := activeEndpoint(t, s)
	err = s.DiscoverServer(ctx, serverURL+"/")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	apps, err := s.Applications(ctx)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.Len(t, apps.Items, 1)
	assert.Equal(t, []string{serverURL}, apps.Items[0].DiscoveryURLs)

	eps, err := s.Endpoints(ctx)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.Len(t, eps.Items, 1)
	assert.Equal(t, endpointID, eps.Items[0].Registration.ID)
	assert.Equal(t, apps.Items[0].ApplicationID, eps.Items[0].ApplicationID)
	assert.Equal(t, simulator.ActivatedAndConnected, eps.Items[0].ActivationState)
	assert.Equal(t, simulator.Ready, eps.Items[0].EndpointState)

	err = s.ActivateEndpoint(ctx, "unknown")
	assert.True(t, errors.Contains(err, errors.ErrNotFound), fmt.Sprintf("expected error %s, got %s", errors.ErrNotFound, err))

	err = s.DeleteApplication(ctx, apps.Items[0].ApplicationID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	err = s.DeleteApplication(ctx, apps.Items[0].ApplicationID)
	assert.True(t, errors.Contains(err, errors.ErrNotFound), fmt.Sprintf("expected error %s, got %s", errors.ErrNotFound, err))

	eps, err = s.Endpoints(ctx)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Empty(t, eps.Items)
}

func TestHealthEndpoint(t *testing.T) {
	_, s := newServer(t, simulator.Config{})

	for _, service := range []string{"twin", "registry"} {
		t.Run(service, func(t *testing.T) {
			h, err := s.Health(context.Background(), service)
			require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
			assert.Equal(t, "pass", h.Status)
			assert.Equal(t, instanceID, h.InstanceID)
		})
	}
}

func TestTransport(t *testing.T) {
	ts, _ := newServer(t, simulator.Config{})

	cases := []struct {
		desc        string
		method      string
		path        string
		token       string
		contentType string
		body        string
		status      int
	}{
		{
			desc:   "browse without token",
			method: http.MethodGet,
			path:   "/twin/v2/browse/ep",
			status: http.StatusUnauthorized,
		},
		{
			desc:   "browse with invalid token",
			method: http.MethodGet,
			path:   "/twin/v2/browse/ep",
			token:  "invalid",
			status: http.StatusUnauthorized,
		},
		{
			desc:   "browse next without continuation token",
			method: http.MethodGet,
			path:   "/twin/v2/browse/ep/next",
			token:  token,
			status: http.StatusBadRequest,
		},
		{
			desc:   "browse with duplicated node id",
			method: http.MethodGet,
			path:   "/twin/v2/browse/ep?nodeId=i%3D84&nodeId=i%3D85",
			token:  token,
			status: http.StatusBadRequest,
		},
		{
			desc:        "discover with invalid content type",
			method:      http.MethodPost,
			path:        "/registry/v2/applications/discover",
			token:       token,
			contentType: "text/plain",
			body:        `{"discoveryUrl":"opc.tcp://host:4840"}`,
			status:      http.StatusUnsupportedMediaType,
		},
		{
			desc:        "discover with malformed body",
			method:      http.MethodPost,
			path:        "/registry/v2/applications/discover",
			token:       token,
			contentType: contentType,
			body:        `{"discoveryUrl":`,
			status:      http.StatusBadRequest,
		},
		{
			desc:        "discover without url",
			method:      http.MethodPost,
			path:        "/registry/v2/applications/discover",
			token:       token,
			contentType: contentType,
			body:        `{}`,
			status:      http.StatusBadRequest,
		},
		{
			desc:        "discover",
			method:      http.MethodPost,
			path:        "/registry/v2/applications/discover",
			token:       token,
			contentType: contentType,
			body:        `{"discoveryUrl":"opc.tcp://host:4840"}`,
			status:      http.StatusAccepted,
		},
		{
			desc:        "call without method id",
			method:      http.MethodPost,
			path:        "/twin/v2/call/ep",
			token:       token,
			contentType: contentType,
			body:        `{}`,
			status:      http.StatusBadRequest,
		},
		{
			desc:   "health without token",
			method: http.MethodGet,
			path:   "/twin/healthz",
			status: http.StatusOK,
		},
		{
			desc:   "metrics",
			method: http.MethodGet,
			path:   "/metrics",
			status: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, ts.URL+tc.path, strings.NewReader(tc.body))
			require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
			if tc.token != "" {
				req.Header.Set("Authorization", apiutil.AuthorizationHeader(tc.token))
			}
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			res, err := ts.Client().Do(req)
			require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
			defer res.Body.Close()
			_, err = io.ReadAll(res.Body)
			require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
			assert.Equal(t, tc.status, res.StatusCode)
		})
	}
}
