// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "github.com/absmach/iiot/pkg/errors"

// Errors defined in this file are used by the LoggingErrorEncoder decorator
// to distinguish and log API request validation errors and avoid that service
// errors are logged twice.
var (
	// ErrValidation indicates that an error was returned by the API.
	ErrValidation = errors.New("something went wrong with the request")

	// ErrBearerToken indicates missing or invalid bearer user token.
	ErrBearerToken = errors.New("missing or invalid bearer user token")

	// ErrMissingID indicates missing entity ID.
	ErrMissingID = errors.New("missing entity id")

	// ErrMissingEndpointID indicates missing endpoint ID.
	ErrMissingEndpointID = errors.New("missing endpoint id")

	// ErrMissingMethodID indicates missing method node ID.
	ErrMissingMethodID = errors.New("missing method id")

	// ErrMissingDiscoveryURL indicates missing discovery URL.
	ErrMissingDiscoveryURL = errors.New("missing discovery url")

	// ErrMissingContinuationToken indicates missing continuation token.
	ErrMissingContinuationToken = errors.New("missing continuation token")

	// ErrInvalidContinuationToken indicates an unknown or expired continuation token.
	ErrInvalidContinuationToken = errors.New("invalid continuation token")

	// ErrInvalidArgument indicates a method argument that can't be used.
	ErrInvalidArgument = errors.New("invalid method argument")

	// ErrNotFoundParam indicates that the parameter was not found in the query.
	ErrNotFoundParam = errors.New("parameter not found in the query")

	// ErrInvalidQueryParams indicates invalid query parameters.
	ErrInvalidQueryParams = errors.New("invalid query parameters")

	// ErrUnsupportedContentType indicates unacceptable or lack of Content-Type.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)
