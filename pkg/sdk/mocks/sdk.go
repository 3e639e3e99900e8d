// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/absmach/iiot"
	"github.com/absmach/iiot/pkg/errors"
	sdk "github.com/absmach/iiot/pkg/sdk/go"
	"github.com/stretchr/testify/mock"
)

var _ sdk.SDK = (*SDK)(nil)

// SDK is a mock type for the SDK type.
type SDK struct {
	mock.Mock
}

func sdkError(ret mock.Arguments, index int) errors.SDKError {
	if err := ret.Get(index); err != nil {
		return err.(errors.SDKError)
	}
	return nil
}

func (_m *SDK) Browse(ctx context.Context, endpointID, nodeID string) (sdk.BrowseResponse, errors.SDKError) {
	ret := _m.Called(ctx, endpointID, nodeID)

	return ret.Get(0).(sdk.BrowseResponse), sdkError(ret, 1)
}

func (_m *SDK) BrowseNext(ctx context.Context, endpointID, continuationToken string) (sdk.BrowseResponse, errors.SDKError) {
	ret := _m.Called(ctx, endpointID, continuationToken)

	return ret.Get(0).(sdk.BrowseResponse), sdkError(ret, 1)
}

func (_m *SDK) BrowseRaw(ctx context.Context, endpointID, nodeID, continuationToken string) (map[string]interface{}, errors.SDKError) {
	ret := _m.Called(ctx, endpointID, nodeID, continuationToken)

	var raw map[string]interface{}
	if v := ret.Get(0); v != nil {
		raw = v.(map[string]interface{})
	}

	return raw, sdkError(ret, 1)
}

func (_m *SDK) MethodMetadata(ctx context.Context, endpointID, methodID string) (sdk.MethodMetadataResponse, errors.SDKError) {
	ret := _m.Called(ctx, endpointID, methodID)

	return ret.Get(0).(sdk.MethodMetadataResponse), sdkError(ret, 1)
}

func (_m *SDK) CallMethod(ctx context.Context, endpointID string, req sdk.MethodCallRequest) (sdk.MethodCallResponse, errors.SDKError) {
	ret := _m.Called(ctx, endpointID, req)

	return ret.Get(0).(sdk.MethodCallResponse), sdkError(ret, 1)
}

func (_m *SDK) DiscoverServer(ctx context.Context, discoveryURL string) errors.SDKError {
	ret := _m.Called(ctx, discoveryURL)

	return sdkError(ret, 0)
}

func (_m *SDK) Applications(ctx context.Context) (sdk.ApplicationsPage, errors.SDKError) {
	ret := _m.Called(ctx)

	return ret.Get(0).(sdk.ApplicationsPage), sdkError(ret, 1)
}

func (_m *SDK) DeleteApplication(ctx context.Context, applicationID string) errors.SDKError {
	ret := _m.Called(ctx, applicationID)

	return sdkError(ret, 0)
}

func (_m *SDK) Endpoints(ctx context.Context) (sdk.EndpointsPage, errors.SDKError) {
	ret := _m.Called(ctx)

	return ret.Get(0).(sdk.EndpointsPage), sdkError(ret, 1)
}

func (_m *SDK) ActivateEndpoint(ctx context.Context, endpointID string) errors.SDKError {
	ret := _m.Called(ctx, endpointID)

	return sdkError(ret, 0)
}

func (_m *SDK) Health(ctx context.Context, service string) (iiot.HealthInfo, errors.SDKError) {
	ret := _m.Called(ctx, service)

	return ret.Get(0).(iiot.HealthInfo), sdkError(ret, 1)
}
