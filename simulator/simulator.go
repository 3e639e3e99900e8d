// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package simulator

import (
	"context"
	"time"

	"github.com/absmach/iiot/pkg/errors"
)

// Activation and endpoint states reported by the registry.
const (
	Deactivated           = "Deactivated"
	ActivatedAndConnected = "ActivatedAndConnected"
	Ready                 = "Ready"
	Disconnected          = "Disconnected"
)

var (
	// ErrEndpointNotActivated indicates a Twin request for an endpoint that is not activated.
	ErrEndpointNotActivated = errors.New("endpoint is not activated")

	// ErrUnknownMethod indicates a call to a node that is not a method.
	ErrUnknownMethod = errors.New("node is not a callable method")

	// ErrInvalidAddressSpace indicates an address space definition that can't be served.
	ErrInvalidAddressSpace = errors.New("invalid address space")
)

// Config defines the simulator behaviour.
type Config struct {
	// PageSize is the maximal number of references in one browse page.
	PageSize int `env:"PAGE_SIZE" envDefault:"10"`

	// DiscoveryDelay postpones the registration of discovered servers.
	DiscoveryDelay time.Duration `env:"DISCOVERY_DELAY" envDefault:"0s"`
}

// Reference is a forward hierarchical reference to a target node.
type Reference struct {
	ReferenceTypeID string
	Target          Node
	HasChildren     bool
}

// BrowsePage is one page of references of the browsed node.
type BrowsePage struct {
	Node              Node
	References        []Reference
	ContinuationToken string
}

// Argument describes a method argument.
type Argument struct {
	Name        string
	Description string
	DataType    string
}

// Value is a method argument value.
type Value struct {
	Value    interface{}
	DataType string
}

// MethodMetadata describes the arguments of a method.
type MethodMetadata struct {
	ObjectID string
	Inputs   []Argument
	Outputs  []Argument
}

// Application is a registered OPC UA server.
type Application struct {
	ID            string
	URI           string
	Name          string
	DiscoveryURLs []string
}

// Endpoint is a registered OPC UA server endpoint.
type Endpoint struct {
	ID              string
	ApplicationID   string
	URL             string
	ActivationState string
	EndpointState   string
}

// Service specifies an API that must be fulfilled by the domain service
// implementation, and all of its decorators (e.g. logging & metrics).
type Service interface {
	// Browse returns the first page of references of the node. An empty
	// nodeID browses the root of the address space.
	Browse(ctx context.Context, endpointID, nodeID string) (BrowsePage, error)

	// BrowseNext returns the page identified by the continuation token.
	// Tokens are single use.
	BrowseNext(ctx context.Context, endpointID, token string) (BrowsePage, error)

	// MethodMetadata returns the arguments of the method node.
	MethodMetadata(ctx context.Context, endpointID, methodID string) (MethodMetadata, error)

	// CallMethod invokes the method node with the given arguments.
	CallMethod(ctx context.Context, endpointID, methodID, objectID string, args []Value) ([]Value, error)

	// Discover registers the server reachable at discoveryURL.
	Discover(ctx context.Context, discoveryURL string) error

	// Applications lists registered applications.
	Applications(ctx context.Context) ([]Application, error)

	// RemoveApplication unregisters the application and its endpoints.
	RemoveApplication(ctx context.Context, applicationID string) error

	// Endpoints lists registered endpoints.
	Endpoints(ctx context.Context) ([]Endpoint, error)

	// ActivateEndpoint connects the endpoint.
	ActivateEndpoint(ctx context.Context, endpointID string) error
}
