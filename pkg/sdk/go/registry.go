// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/absmach/iiot/pkg/apiutil"
	"github.com/absmach/iiot/pkg/errors"
)

const (
	applicationsEndpoint = "applications"
	endpointsEndpoint    = "endpoints"
	discoverPath         = "discover"
	activatePath         = "activate"
)

func (sdk iiotSDK) DiscoverServer(ctx context.Context, discoveryURL string) errors.SDKError {
	if discoveryURL == "" {
		return errors.NewSDKError(apiutil.ErrMissingDiscoveryURL)
	}
	data, err := json.Marshal(discoveryRequest{DiscoveryURL: discoveryURL})
	if err != nil {
		return errors.NewSDKError(err)
	}

	reqURL := sdk.url(registryEndpoint, applicationsEndpoint, discoverPath)
	_, _, sdkerr := sdk.processRequest(ctx, http.MethodPost, reqURL, data, http.StatusOK, http.StatusAccepted, http.StatusNoContent)

	return sdkerr
}

func (sdk iiotSDK) Applications(ctx context.Context) (ApplicationsPage, errors.SDKError) {
	reqURL := sdk.url(registryEndpoint, applicationsEndpoint)
	_, body, sdkerr := sdk.processRequest(ctx, http.MethodGet, reqURL, nil, http.StatusOK)
	if sdkerr != nil {
		return ApplicationsPage{}, sdkerr
	}

	var page ApplicationsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return ApplicationsPage{}, errors.NewSDKError(errors.Wrap(ErrFailedDecode, err))
	}

	return page, nil
}

func (sdk iiotSDK) DeleteApplication(ctx context.Context, applicationID string) errors.SDKError {
	if applicationID == "" {
		return errors.NewSDKError(apiutil.ErrMissingID)
	}

	reqURL := sdk.url(registryEndpoint, applicationsEndpoint, url.PathEscape(applicationID))
	_, _, sdkerr := sdk.processRequest(ctx, http.MethodDelete, reqURL, nil, http.StatusOK, http.StatusNoContent)

	return sdkerr
}

func (sdk iiotSDK) Endpoints(ctx context.Context) (EndpointsPage, errors.SDKError) {
	reqURL := sdk.url(registryEndpoint, endpointsEndpoint)
	_, body, sdkerr := sdk.processRequest(ctx, http.MethodGet, reqURL, nil, http.StatusOK)
	if sdkerr != nil {
		return EndpointsPage{}, sdkerr
	}

	var page EndpointsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return EndpointsPage{}, errors.NewSDKError(errors.Wrap(ErrFailedDecode, err))
	}

	return page, nil
}

func (sdk iiotSDK) ActivateEndpoint(ctx context.Context, endpointID string) errors.SDKError {
	if endpointID == "" {
		return errors.NewSDKError(apiutil.ErrMissingEndpointID)
	}

	reqURL := sdk.url(registryEndpoint, endpointsEndpoint, url.PathEscape(endpointID), activatePath)
	_, _, sdkerr := sdk.processRequest(ctx, http.MethodPost, reqURL, nil, http.StatusOK, http.StatusNoContent)

	return sdkerr
}
