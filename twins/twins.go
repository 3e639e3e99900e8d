// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package twins

import (
	"context"

	"github.com/absmach/iiot/pkg/errors"
)

// Node classes reported by OPC UA servers.
const (
	NodeClassObject        = "Object"
	NodeClassVariable      = "Variable"
	NodeClassMethod        = "Method"
	NodeClassObjectType    = "ObjectType"
	NodeClassVariableType  = "VariableType"
	NodeClassReferenceType = "ReferenceType"
	NodeClassDataType      = "DataType"
	NodeClassView          = "View"
)

var (
	// ErrContractViolation indicates a browse response that is missing
	// required structure. It is never retried.
	ErrContractViolation = errors.New("browse response violates the browse contract")

	// ErrCancelled indicates that the traversal was stopped by its context.
	ErrCancelled = errors.New("browse traversal cancelled")

	// ErrLimitExceeded indicates that the traversal discovered more nodes than allowed.
	ErrLimitExceeded = errors.New("browse traversal node limit exceeded")

	// ErrBrowse indicates failure to fetch a browse page.
	ErrBrowse = errors.New("failed to browse node")

	errPageLimit = errors.New("continuation token chain exceeds page limit")
)

// NodeReference is one entry discovered in the server address space.
type NodeReference struct {
	NodeID      string `json:"node_id"`
	NodeClass   string `json:"node_class"`
	HasChildren bool   `json:"has_children"`
	BrowseName  string `json:"browse_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Page is a single browse response. An empty ContinuationToken
// means that there are no more pages for the browsed node.
type Page struct {
	References        []NodeReference
	ContinuationToken string
}

// Browser returns one page of child references of a node.
// An empty nodeID browses the root of the address space and an
// empty continuationToken requests the first page.
type Browser interface {
	BrowsePage(ctx context.Context, nodeID, continuationToken string) (Page, error)
}
