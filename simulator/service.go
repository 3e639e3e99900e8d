// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package simulator

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/absmach/iiot"
	"github.com/absmach/iiot/pkg/apiutil"
	"github.com/absmach/iiot/pkg/errors"
)

const defPageSize = 10

var _ Service = (*service)(nil)

type cursor struct {
	endpointID string
	nodeID     string
	offset     int
}

type service struct {
	mu           sync.Mutex
	config       Config
	space        AddressSpace
	idProvider   iiot.IDProvider
	cursors      map[string]cursor
	applications map[string]Application
	endpoints    map[string]Endpoint
}

// New instantiates the simulator service serving the given address space.
func New(config Config, space AddressSpace, idp iiot.IDProvider) Service {
	if config.PageSize < 1 {
		config.PageSize = defPageSize
	}

	return &service{
		config:       config,
		space:        space,
		idProvider:   idp,
		cursors:      make(map[string]cursor),
		applications: make(map[string]Application),
		endpoints:    make(map[string]Endpoint),
	}
}

func (svc *service) Browse(ctx context.Context, endpointID, nodeID string) (BrowsePage, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := svc.activated(endpointID); err != nil {
		return BrowsePage{}, err
	}
	node, ok := svc.space.Node(nodeID)
	if !ok {
		return BrowsePage{}, errors.Wrap(errors.ErrNotFound, fmt.Errorf("node %s", nodeID))
	}

	return svc.page(endpointID, node, 0)
}

func (svc *service) BrowseNext(ctx context.Context, endpointID, token string) (BrowsePage, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := svc.activated(endpointID); err != nil {
		return BrowsePage{}, err
	}
	c, ok := svc.cursors[token]
	if !ok || c.endpointID != endpointID {
		return BrowsePage{}, apiutil.ErrInvalidContinuationToken
	}
	delete(svc.cursors, token)
	node, _ := svc.space.Node(c.nodeID)

	return svc.page(endpointID, node, c.offset)
}

func (svc *service) page(endpointID string, node Node, offset int) (BrowsePage, error) {
	refs := svc.space.references(node)
	end := offset + svc.config.PageSize
	if end > len(refs) {
		end = len(refs)
	}

	page := BrowsePage{
		Node:       node,
		References: refs[offset:end],
	}
	if end < len(refs) {
		token, err := svc.idProvider.ID()
		if err != nil {
			return BrowsePage{}, err
		}
		svc.cursors[token] = cursor{endpointID: endpointID, nodeID: node.ID, offset: end}
		page.ContinuationToken = token
	}

	return page, nil
}

func (svc *service) MethodMetadata(ctx context.Context, endpointID, methodID string) (MethodMetadata, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := svc.activated(endpointID); err != nil {
		return MethodMetadata{}, err
	}
	node, m, err := svc.method(methodID)
	if err != nil {
		return MethodMetadata{}, err
	}

	return MethodMetadata{
		ObjectID: svc.space.Parent(node.ID),
		Inputs:   m.inputs,
		Outputs:  m.outputs,
	}, nil
}

func (svc *service) CallMethod(ctx context.Context, endpointID, methodID, objectID string, args []Value) ([]Value, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := svc.activated(endpointID); err != nil {
		return nil, err
	}
	node, m, err := svc.method(methodID)
	if err != nil {
		return nil, err
	}
	if objectID != "" && objectID != svc.space.Parent(node.ID) {
		return nil, errors.Wrap(apiutil.ErrInvalidArgument, fmt.Errorf("method %s is not a component of %s", methodID, objectID))
	}

	return m.call(args)
}

func (svc *service) method(methodID string) (Node, method, error) {
	node, ok := svc.space.Node(methodID)
	if !ok || methodID == "" {
		return Node{}, method{}, errors.Wrap(errors.ErrNotFound, fmt.Errorf("node %s", methodID))
	}
	m, ok := methods[node.Method]
	if !ok {
		return Node{}, method{}, ErrUnknownMethod
	}

	return node, m, nil
}

func (svc *service) Discover(ctx context.Context, discoveryURL string) error {
	u, err := url.Parse(discoveryURL)
	if err != nil || u.Host == "" {
		return errors.Wrap(apiutil.ErrMissingDiscoveryURL, errors.New(discoveryURL))
	}
	appID, err := svc.idProvider.ID()
	if err != nil {
		return err
	}
	endpointID, err := svc.idProvider.ID()
	if err != nil {
		return err
	}

	register := func() {
		svc.mu.Lock()
		defer svc.mu.Unlock()

		for _, app := range svc.applications {
			if len(app.DiscoveryURLs) > 0 && trimURL(app.DiscoveryURLs[0]) == trimURL(discoveryURL) {
				return
			}
		}
		svc.applications[appID] = Application{
			ID:            appID,
			URI:           "urn:" + u.Hostname(),
			Name:          u.Hostname(),
			DiscoveryURLs: []string{discoveryURL},
		}
		svc.endpoints[endpointID] = Endpoint{
			ID:              endpointID,
			ApplicationID:   appID,
			URL:             discoveryURL,
			ActivationState: Deactivated,
			EndpointState:   Disconnected,
		}
	}

	if svc.config.DiscoveryDelay > 0 {
		time.AfterFunc(svc.config.DiscoveryDelay, register)
		return nil
	}
	register()

	return nil
}

func (svc *service) Applications(ctx context.Context) ([]Application, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	apps := make([]Application, 0, len(svc.applications))
	for _, app := range svc.applications {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })

	return apps, nil
}

func (svc *service) RemoveApplication(ctx context.Context, applicationID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, ok := svc.applications[applicationID]; !ok {
		return errors.ErrNotFound
	}
	delete(svc.applications, applicationID)
	for id, ep := range svc.endpoints {
		if ep.ApplicationID == applicationID {
			delete(svc.endpoints, id)
		}
	}

	return nil
}

func (svc *service) Endpoints(ctx context.Context) ([]Endpoint, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	eps := make([]Endpoint, 0, len(svc.endpoints))
	for _, ep := range svc.endpoints {
		eps = append(eps, ep)
	}
	sort.Slice(eps, func(i, j int) bool { return eps[i].ID < eps[j].ID })

	return eps, nil
}

func (svc *service) ActivateEndpoint(ctx context.Context, endpointID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	ep, ok := svc.endpoints[endpointID]
	if !ok {
		return errors.ErrNotFound
	}
	ep.ActivationState = ActivatedAndConnected
	ep.EndpointState = Ready
	svc.endpoints[endpointID] = ep

	return nil
}

func (svc *service) activated(endpointID string) error {
	ep, ok := svc.endpoints[endpointID]
	if !ok {
		return errors.Wrap(errors.ErrNotFound, fmt.Errorf("endpoint %s", endpointID))
	}
	if ep.ActivationState != ActivatedAndConnected {
		return ErrEndpointNotActivated
	}

	return nil
}

func trimURL(u string) string {
	return strings.TrimSuffix(u, "/")
}
