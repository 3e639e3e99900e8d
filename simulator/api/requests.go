// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/absmach/iiot/pkg/apiutil"
)

type diagnostics struct {
	Level string `json:"level"`
}

type requestHeader struct {
	Diagnostics *diagnostics `json:"diagnostics,omitempty"`
}

type browseReq struct {
	endpointID string
	nodeID     string
}

func (req browseReq) validate() error {
	if req.endpointID == "" {
		return apiutil.ErrMissingEndpointID
	}

	return nil
}

type browseNextReq struct {
	endpointID        string
	continuationToken string
}

func (req browseNextReq) validate() error {
	if req.endpointID == "" {
		return apiutil.ErrMissingEndpointID
	}
	if req.continuationToken == "" {
		return apiutil.ErrMissingContinuationToken
	}

	return nil
}

type methodMetadataReq struct {
	endpointID string
	MethodID   string         `json:"methodId"`
	Header     *requestHeader `json:"header,omitempty"`
}

func (req methodMetadataReq) validate() error {
	if req.endpointID == "" {
		return apiutil.ErrMissingEndpointID
	}
	if req.MethodID == "" {
		return apiutil.ErrMissingMethodID
	}

	return nil
}

type callArgument struct {
	Value    interface{} `json:"value"`
	DataType string      `json:"dataType,omitempty"`
}

type methodCallReq struct {
	endpointID string
	MethodID   string         `json:"methodId"`
	ObjectID   string         `json:"objectId,omitempty"`
	Arguments  []callArgument `json:"arguments,omitempty"`
	Header     *requestHeader `json:"header,omitempty"`
}

func (req methodCallReq) validate() error {
	if req.endpointID == "" {
		return apiutil.ErrMissingEndpointID
	}
	if req.MethodID == "" {
		return apiutil.ErrMissingMethodID
	}

	return nil
}

type discoverReq struct {
	DiscoveryURL string `json:"discoveryUrl"`
}

func (req discoverReq) validate() error {
	if req.DiscoveryURL == "" {
		return apiutil.ErrMissingDiscoveryURL
	}

	return nil
}

type entityReq struct {
	id string
}

func (req entityReq) validate() error {
	if req.id == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type listReq struct{}

func (req listReq) validate() error {
	return nil
}
