// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"

	"github.com/absmach/iiot/pkg/apiutil"
	"github.com/absmach/iiot/pkg/errors"
	"github.com/absmach/iiot/simulator"
	"github.com/go-kit/kit/endpoint"
)

func browseEndpoint(svc simulator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(browseReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		page, err := svc.Browse(ctx, req.endpointID, req.nodeID)
		if err != nil {
			return nil, err
		}

		return newBrowseRes(page), nil
	}
}

func browseNextEndpoint(svc simulator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(browseNextReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		page, err := svc.BrowseNext(ctx, req.endpointID, req.continuationToken)
		if err != nil {
			return nil, err
		}

		return newBrowseRes(page), nil
	}
}

func methodMetadataEndpoint(svc simulator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(methodMetadataReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		meta, err := svc.MethodMetadata(ctx, req.endpointID, req.MethodID)
		if err != nil {
			return nil, err
		}

		return methodMetadataRes{
			ObjectID:        meta.ObjectID,
			InputArguments:  toArgumentsRes(meta.Inputs),
			OutputArguments: toArgumentsRes(meta.Outputs),
		}, nil
	}
}

func methodCallEndpoint(svc simulator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(methodCallReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		args := make([]simulator.Value, 0, len(req.Arguments))
		for _, arg := range req.Arguments {
			args = append(args, simulator.Value{Value: arg.Value, DataType: arg.DataType})
		}
		results, err := svc.CallMethod(ctx, req.endpointID, req.MethodID, req.ObjectID, args)
		if err != nil {
			return nil, err
		}

		res := methodCallRes{Results: make([]callArgument, 0, len(results))}
		for _, r := range results {
			res.Results = append(res.Results, callArgument{Value: r.Value, DataType: r.DataType})
		}

		return res, nil
	}
}

func discoverEndpoint(svc simulator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(discoverReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		if err := svc.Discover(ctx, req.DiscoveryURL); err != nil {
			return nil, err
		}

		return emptyRes{code: http.StatusAccepted}, nil
	}
}

func listApplicationsEndpoint(svc simulator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(listReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		apps, err := svc.Applications(ctx)
		if err != nil {
			return nil, err
		}

		res := applicationsRes{Items: make([]applicationRes, 0, len(apps))}
		for _, app := range apps {
			res.Items = append(res.Items, applicationRes{
				ApplicationID:   app.ID,
				ApplicationURI:  app.URI,
				ApplicationName: app.Name,
				DiscoveryURLs:   app.DiscoveryURLs,
			})
		}

		return res, nil
	}
}

func removeApplicationEndpoint(svc simulator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(entityReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		if err := svc.RemoveApplication(ctx, req.id); err != nil {
			return nil, err
		}

		return emptyRes{code: http.StatusNoContent}, nil
	}
}

func listEndpointsEndpoint(svc simulator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(listReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		eps, err := svc.Endpoints(ctx)
		if err != nil {
			return nil, err
		}

		res := endpointsRes{Items: make([]endpointRes, 0, len(eps))}
		for _, ep := range eps {
			res.Items = append(res.Items, endpointRes{
				Registration: registrationRes{
					ID:          ep.ID,
					EndpointURL: ep.URL,
				},
				ApplicationID:   ep.ApplicationID,
				ActivationState: ep.ActivationState,
				EndpointState:   ep.EndpointState,
			})
		}

		return res, nil
	}
}

func activateEndpoint(svc simulator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(entityReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		if err := svc.ActivateEndpoint(ctx, req.id); err != nil {
			return nil, err
		}

		return emptyRes{code: http.StatusNoContent}, nil
	}
}
