// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/absmach/iiot"
	"github.com/absmach/iiot/simulator"
)

const forward = "Forward"

var (
	_ iiot.Response = (*browseRes)(nil)
	_ iiot.Response = (*methodMetadataRes)(nil)
	_ iiot.Response = (*methodCallRes)(nil)
	_ iiot.Response = (*applicationsRes)(nil)
	_ iiot.Response = (*endpointsRes)(nil)
	_ iiot.Response = (*emptyRes)(nil)
)

type nodeRes struct {
	NodeID      string `json:"nodeId"`
	NodeClass   string `json:"nodeClass,omitempty"`
	BrowseName  string `json:"browseName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Children    bool   `json:"children"`
}

type referenceRes struct {
	ReferenceTypeID string  `json:"referenceTypeId"`
	Direction       string  `json:"direction"`
	Target          nodeRes `json:"target"`
}

type browseRes struct {
	Node              nodeRes        `json:"node"`
	References        []referenceRes `json:"references"`
	ContinuationToken string         `json:"continuationToken,omitempty"`
}

func newBrowseRes(page simulator.BrowsePage) browseRes {
	res := browseRes{
		Node:              toNodeRes(page.Node, len(page.Node.Children) > 0),
		References:        make([]referenceRes, 0, len(page.References)),
		ContinuationToken: page.ContinuationToken,
	}
	for _, ref := range page.References {
		res.References = append(res.References, referenceRes{
			ReferenceTypeID: ref.ReferenceTypeID,
			Direction:       forward,
			Target:          toNodeRes(ref.Target, ref.HasChildren),
		})
	}

	return res
}

func toNodeRes(n simulator.Node, children bool) nodeRes {
	return nodeRes{
		NodeID:      n.ID,
		NodeClass:   n.Class,
		BrowseName:  n.BrowseName,
		DisplayName: n.DisplayName,
		Children:    children,
	}
}

func (res browseRes) Code() int {
	return http.StatusOK
}

func (res browseRes) Headers() map[string]string {
	return map[string]string{}
}

func (res browseRes) Empty() bool {
	return false
}

type argumentRes struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        *nodeRes `json:"type,omitempty"`
}

type methodMetadataRes struct {
	ObjectID        string        `json:"objectId"`
	InputArguments  []argumentRes `json:"inputArguments"`
	OutputArguments []argumentRes `json:"outputArguments"`
}

func toArgumentsRes(args []simulator.Argument) []argumentRes {
	res := make([]argumentRes, 0, len(args))
	for _, arg := range args {
		res = append(res, argumentRes{
			Name:        arg.Name,
			Description: arg.Description,
			Type:        &nodeRes{NodeID: arg.DataType, DisplayName: arg.DataType, NodeClass: "DataType"},
		})
	}

	return res
}

func (res methodMetadataRes) Code() int {
	return http.StatusOK
}

func (res methodMetadataRes) Headers() map[string]string {
	return map[string]string{}
}

func (res methodMetadataRes) Empty() bool {
	return false
}

type methodCallRes struct {
	Results []callArgument `json:"results"`
}

func (res methodCallRes) Code() int {
	return http.StatusOK
}

func (res methodCallRes) Headers() map[string]string {
	return map[string]string{}
}

func (res methodCallRes) Empty() bool {
	return false
}

type applicationRes struct {
	ApplicationID   string   `json:"applicationId"`
	ApplicationURI  string   `json:"applicationUri"`
	ApplicationName string   `json:"applicationName"`
	DiscoveryURLs   []string `json:"discoveryUrls"`
}

type applicationsRes struct {
	Items []applicationRes `json:"items"`
}

func (res applicationsRes) Code() int {
	return http.StatusOK
}

func (res applicationsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res applicationsRes) Empty() bool {
	return false
}

type registrationRes struct {
	ID          string `json:"id"`
	EndpointURL string `json:"endpointUrl"`
}

type endpointRes struct {
	Registration    registrationRes `json:"registration"`
	ApplicationID   string          `json:"applicationId"`
	ActivationState string          `json:"activationState"`
	EndpointState   string          `json:"endpointState"`
}

type endpointsRes struct {
	Items []endpointRes `json:"items"`
}

func (res endpointsRes) Code() int {
	return http.StatusOK
}

func (res endpointsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res endpointsRes) Empty() bool {
	return false
}

type emptyRes struct {
	code int
}

func (res emptyRes) Code() int {
	return res.code
}

func (res emptyRes) Headers() map[string]string {
	return map[string]string{}
}

func (res emptyRes) Empty() bool {
	return true
}
