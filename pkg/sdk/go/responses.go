// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Flag is a boolean node attribute. It is true only when the JSON value
// reads "true" in any letter case; any other value, null included, is false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Flag(strings.EqualFold(fmt.Sprint(v), "true"))

	return nil
}

// NodeModel describes an address space node as reported by the Twin service.
type NodeModel struct {
	NodeID      string `json:"nodeId"`
	NodeClass   string `json:"nodeClass,omitempty"`
	BrowseName  string `json:"browseName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Children    Flag   `json:"children,omitempty"`
}

// NodeReferenceModel is a reference from the browsed node to a target node.
type NodeReferenceModel struct {
	ReferenceTypeID string    `json:"referenceTypeId,omitempty"`
	Direction       string    `json:"direction,omitempty"`
	Target          NodeModel `json:"target"`
}

// ServiceResult carries the OPC UA status of a failed operation.
type ServiceResult struct {
	StatusCode   uint32 `json:"statusCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// BrowseResponse is a single browse page. References is nil when the
// response omits the field or sets it to null.
type BrowseResponse struct {
	Node              *NodeModel            `json:"node,omitempty"`
	References        *[]NodeReferenceModel `json:"references"`
	ContinuationToken string                `json:"continuationToken,omitempty"`
	ErrorInfo         *ServiceResult        `json:"errorInfo,omitempty"`
}

// MethodArgument describes one input or output argument of a method.
type MethodArgument struct {
	Name         string      `json:"name,omitempty"`
	Description  string      `json:"description,omitempty"`
	Type         *NodeModel  `json:"type,omitempty"`
	ValueRank    string      `json:"valueRank,omitempty"`
	DefaultValue interface{} `json:"defaultValue,omitempty"`
}

// MethodMetadataResponse lists the arguments of a method.
type MethodMetadataResponse struct {
	ObjectID        string           `json:"objectId,omitempty"`
	InputArguments  []MethodArgument `json:"inputArguments,omitempty"`
	OutputArguments []MethodArgument `json:"outputArguments,omitempty"`
	ErrorInfo       *ServiceResult   `json:"errorInfo,omitempty"`
}

// MethodCallResponse holds the output arguments of a method call.
type MethodCallResponse struct {
	Results   []MethodCallArgument `json:"results,omitempty"`
	ErrorInfo *ServiceResult       `json:"errorInfo,omitempty"`
}

// Application is an OPC UA server registered with the platform.
type Application struct {
	ApplicationID   string   `json:"applicationId"`
	ApplicationURI  string   `json:"applicationUri,omitempty"`
	ApplicationName string   `json:"applicationName,omitempty"`
	DiscoveryURLs   []string `json:"discoveryUrls,omitempty"`
}

// ApplicationsPage contains a list of applications.
type ApplicationsPage struct {
	Items             []Application `json:"items"`
	ContinuationToken string        `json:"continuationToken,omitempty"`
}

// EndpointRegistration identifies a registered endpoint.
type EndpointRegistration struct {
	ID          string `json:"id"`
	EndpointURL string `json:"endpointUrl"`
}

// Endpoint is a registered OPC UA endpoint and its connection state.
type Endpoint struct {
	Registration    EndpointRegistration `json:"registration"`
	ApplicationID   string               `json:"applicationId,omitempty"`
	ActivationState string               `json:"activationState,omitempty"`
	EndpointState   string               `json:"endpointState,omitempty"`
}

// EndpointsPage contains a list of endpoints.
type EndpointsPage struct {
	Items             []Endpoint `json:"items"`
	ContinuationToken string     `json:"continuationToken,omitempty"`
}
