// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/absmach/iiot"
	"github.com/absmach/iiot/pkg/apiutil"
	"github.com/absmach/iiot/pkg/errors"
	"github.com/absmach/iiot/pkg/prometheus"
	"github.com/absmach/iiot/simulator"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	contentType = "application/json"

	endpointIDKey    = "endpointID"
	applicationIDKey = "applicationID"
	nodeIDKey        = "nodeId"
	tokenKey         = "continuationToken"
)

// MakeHandler returns a HTTP handler serving the Twin and Registry APIs.
// A non-empty token is required as bearer token on every API request.
func MakeHandler(svc simulator.Service, logger *slog.Logger, instanceID, token string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, encodeError)),
	}

	r := chi.NewRouter()

	r.Route("/twin/v2", func(r chi.Router) {
		r.Use(authorize(token, logger))
		r.Get("/browse/{endpointID}", otelhttp.NewHandler(kithttp.NewServer(
			browseEndpoint(svc),
			decodeBrowse,
			encodeResponse,
			opts...,
		), "browse").ServeHTTP)
		r.Get("/browse/{endpointID}/next", otelhttp.NewHandler(kithttp.NewServer(
			browseNextEndpoint(svc),
			decodeBrowseNext,
			encodeResponse,
			opts...,
		), "browse_next").ServeHTTP)
		r.Post("/call/{endpointID}/metadata", otelhttp.NewHandler(kithttp.NewServer(
			methodMetadataEndpoint(svc),
			decodeMethodMetadata,
			encodeResponse,
			opts...,
		), "method_metadata").ServeHTTP)
		r.Post("/call/{endpointID}", otelhttp.NewHandler(kithttp.NewServer(
			methodCallEndpoint(svc),
			decodeMethodCall,
			encodeResponse,
			opts...,
		), "call_method").ServeHTTP)
	})

	r.Route("/registry/v2", func(r chi.Router) {
		r.Use(authorize(token, logger))
		r.Post("/applications/discover", otelhttp.NewHandler(kithttp.NewServer(
			discoverEndpoint(svc),
			decodeDiscover,
			encodeResponse,
			opts...,
		), "discover").ServeHTTP)
		r.Get("/applications", otelhttp.NewHandler(kithttp.NewServer(
			listApplicationsEndpoint(svc),
			decodeList,
			encodeResponse,
			opts...,
		), "list_applications").ServeHTTP)
		r.Delete("/applications/{applicationID}", otelhttp.NewHandler(kithttp.NewServer(
			removeApplicationEndpoint(svc),
			decodeEntity(applicationIDKey),
			encodeResponse,
			opts...,
		), "remove_application").ServeHTTP)
		r.Get("/endpoints", otelhttp.NewHandler(kithttp.NewServer(
			listEndpointsEndpoint(svc),
			decodeList,
			encodeResponse,
			opts...,
		), "list_endpoints").ServeHTTP)
		r.Post("/endpoints/{endpointID}/activate", otelhttp.NewHandler(kithttp.NewServer(
			activateEndpoint(svc),
			decodeEntity(endpointIDKey),
			encodeResponse,
			opts...,
		), "activate_endpoint").ServeHTTP)
	})

	r.Get("/twin/healthz", iiot.Health("twin", instanceID))
	r.Get("/registry/healthz", iiot.Health("registry", instanceID))
	r.Handle("/metrics", prometheus.Handler())

	return r
}

func authorize(token string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && apiutil.ExtractBearerToken(r) != token {
				logger.Warn("Rejected unauthenticated request", slog.String("path", r.URL.Path))
				encodeError(r.Context(), apiutil.ErrBearerToken, w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func decodeBrowse(_ context.Context, r *http.Request) (interface{}, error) {
	nodeID, err := apiutil.ReadStringQuery(r, nodeIDKey, "")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}

	req := browseReq{
		endpointID: chi.URLParam(r, endpointIDKey),
		nodeID:     nodeID,
	}

	return req, nil
}

func decodeBrowseNext(_ context.Context, r *http.Request) (interface{}, error) {
	token, err := apiutil.ReadRequiredStringQuery(r, tokenKey)
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}

	req := browseNextReq{
		endpointID:        chi.URLParam(r, endpointIDKey),
		continuationToken: token,
	}

	return req, nil
}

func decodeMethodMetadata(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	req := methodMetadataReq{endpointID: chi.URLParam(r, endpointIDKey)}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(errors.ErrMalformedEntity, err))
	}

	return req, nil
}

func decodeMethodCall(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	req := methodCallReq{endpointID: chi.URLParam(r, endpointIDKey)}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(errors.ErrMalformedEntity, err))
	}

	return req, nil
}

func decodeDiscover(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var req discoverReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(errors.ErrMalformedEntity, err))
	}

	return req, nil
}

func decodeList(_ context.Context, _ *http.Request) (interface{}, error) {
	return listReq{}, nil
}

func decodeEntity(key string) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (interface{}, error) {
		return entityReq{id: chi.URLParam(r, key)}, nil
	}
}

func encodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(iiot.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	var wrapper error
	if errors.Contains(err, apiutil.ErrValidation) {
		wrapper, err = errors.Unwrap(err)
	}

	w.Header().Set("Content-Type", contentType)
	switch {
	case errors.Contains(err, apiutil.ErrBearerToken):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Contains(err, apiutil.ErrUnsupportedContentType):
		w.WriteHeader(http.StatusUnsupportedMediaType)
	case errors.Contains(err, errors.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Contains(err, simulator.ErrEndpointNotActivated):
		w.WriteHeader(http.StatusConflict)
	case errors.Contains(err, errors.ErrMalformedEntity),
		errors.Contains(err, apiutil.ErrMissingID),
		errors.Contains(err, apiutil.ErrMissingEndpointID),
		errors.Contains(err, apiutil.ErrMissingMethodID),
		errors.Contains(err, apiutil.ErrMissingDiscoveryURL),
		errors.Contains(err, apiutil.ErrMissingContinuationToken),
		errors.Contains(err, apiutil.ErrInvalidContinuationToken),
		errors.Contains(err, apiutil.ErrInvalidArgument),
		errors.Contains(err, apiutil.ErrInvalidQueryParams),
		errors.Contains(err, apiutil.ErrNotFoundParam),
		errors.Contains(err, simulator.ErrUnknownMethod):
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if wrapper != nil {
		err = errors.Wrap(wrapper, err)
	}

	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
