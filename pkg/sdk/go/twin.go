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
	browseEndpoint = "browse"
	callEndpoint   = "call"
	nextEndpoint   = "next"
	metadataPath   = "metadata"
)

func (sdk iiotSDK) Browse(ctx context.Context, endpointID, nodeID string) (BrowseResponse, errors.SDKError) {
	if endpointID == "" {
		return BrowseResponse{}, errors.NewSDKError(apiutil.ErrMissingEndpointID)
	}
	reqURL := sdk.withQueryParams(twinEndpoint+"/"+browseEndpoint+"/"+url.PathEscape(endpointID), map[string]string{
		"nodeId": nodeID,
	})

	return sdk.browse(ctx, reqURL)
}

func (sdk iiotSDK) BrowseNext(ctx context.Context, endpointID, continuationToken string) (BrowseResponse, errors.SDKError) {
	if endpointID == "" {
		return BrowseResponse{}, errors.NewSDKError(apiutil.ErrMissingEndpointID)
	}
	if continuationToken == "" {
		return BrowseResponse{}, errors.NewSDKError(apiutil.ErrMissingContinuationToken)
	}
	reqURL := sdk.withQueryParams(twinEndpoint+"/"+browseEndpoint+"/"+url.PathEscape(endpointID)+"/"+nextEndpoint, map[string]string{
		"continuationToken": continuationToken,
	})

	return sdk.browse(ctx, reqURL)
}

func (sdk iiotSDK) BrowseRaw(ctx context.Context, endpointID, nodeID, continuationToken string) (map[string]interface{}, errors.SDKError) {
	if endpointID == "" {
		return nil, errors.NewSDKError(apiutil.ErrMissingEndpointID)
	}
	endpoint := twinEndpoint + "/" + browseEndpoint + "/" + url.PathEscape(endpointID)
	params := map[string]string{"nodeId": nodeID}
	if continuationToken != "" {
		endpoint += "/" + nextEndpoint
		params = map[string]string{"continuationToken": continuationToken}
	}

	_, body, sdkerr := sdk.processRequest(ctx, http.MethodGet, sdk.withQueryParams(endpoint, params), nil, http.StatusOK)
	if sdkerr != nil {
		return nil, sdkerr
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.NewSDKError(errors.Wrap(ErrFailedDecode, err))
	}

	return raw, nil
}

func (sdk iiotSDK) MethodMetadata(ctx context.Context, endpointID, methodID string) (MethodMetadataResponse, errors.SDKError) {
	if endpointID == "" {
		return MethodMetadataResponse{}, errors.NewSDKError(apiutil.ErrMissingEndpointID)
	}
	if methodID == "" {
		return MethodMetadataResponse{}, errors.NewSDKError(apiutil.ErrMissingMethodID)
	}
	data, err := json.Marshal(methodMetadataRequest{
		MethodID: methodID,
		Header:   VerboseHeader(),
	})
	if err != nil {
		return MethodMetadataResponse{}, errors.NewSDKError(err)
	}

	reqURL := sdk.url(twinEndpoint, callEndpoint, url.PathEscape(endpointID), metadataPath)
	_, body, sdkerr := sdk.processRequest(ctx, http.MethodPost, reqURL, data, http.StatusOK)
	if sdkerr != nil {
		return MethodMetadataResponse{}, sdkerr
	}

	var meta MethodMetadataResponse
	if err := json.Unmarshal(body, &meta); err != nil {
		return MethodMetadataResponse{}, errors.NewSDKError(errors.Wrap(ErrFailedDecode, err))
	}

	return meta, nil
}

func (sdk iiotSDK) CallMethod(ctx context.Context, endpointID string, req MethodCallRequest) (MethodCallResponse, errors.SDKError) {
	if endpointID == "" {
		return MethodCallResponse{}, errors.NewSDKError(apiutil.ErrMissingEndpointID)
	}
	if req.MethodID == "" {
		return MethodCallResponse{}, errors.NewSDKError(apiutil.ErrMissingMethodID)
	}
	if req.Header == nil {
		req.Header = VerboseHeader()
	}
	data, err := json.Marshal(req)
	if err != nil {
		return MethodCallResponse{}, errors.NewSDKError(err)
	}

	reqURL := sdk.url(twinEndpoint, callEndpoint, url.PathEscape(endpointID))
	_, body, sdkerr := sdk.processRequest(ctx, http.MethodPost, reqURL, data, http.StatusOK)
	if sdkerr != nil {
		return MethodCallResponse{}, sdkerr
	}

	var res MethodCallResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return MethodCallResponse{}, errors.NewSDKError(errors.Wrap(ErrFailedDecode, err))
	}

	return res, nil
}

func (sdk iiotSDK) browse(ctx context.Context, reqURL string) (BrowseResponse, errors.SDKError) {
	_, body, sdkerr := sdk.processRequest(ctx, http.MethodGet, reqURL, nil, http.StatusOK)
	if sdkerr != nil {
		return BrowseResponse{}, sdkerr
	}

	var page BrowseResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return BrowseResponse{}, errors.NewSDKError(errors.Wrap(ErrFailedDecode, err))
	}

	return page, nil
}
