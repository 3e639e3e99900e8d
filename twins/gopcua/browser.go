// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package gopcua provides a twins.Browser that talks to an OPC UA server
// directly. It is used to cross-check the Twin service against the server.
package gopcua

import (
	"context"

	"github.com/absmach/iiot/pkg/errors"
	"github.com/absmach/iiot/twins"
	opcuaGopcua "github.com/gopcua/opcua"
	"github.com/gopcua/opcua/id"
	uaGopcua "github.com/gopcua/opcua/ua"
)

var (
	errFailedConn        = errors.New("failed to connect")
	errFailedParseNodeID = errors.New("failed to parse node id")
	errFailedAttributes  = errors.New("failed to read node attributes")
	errNoPaging          = errors.New("continuation tokens are not issued by the direct browser")
)

var _ twins.Browser = (*Browser)(nil)

// Browser browses hierarchical forward references of a single OPC UA
// server. Every node is returned in one page.
type Browser struct {
	client *opcuaGopcua.Client
}

// NewBrowser connects to the OPC UA server at serverURL without security.
func NewBrowser(ctx context.Context, serverURL string) (*Browser, error) {
	opts := []opcuaGopcua.Option{
		opcuaGopcua.SecurityMode(uaGopcua.MessageSecurityModeNone),
	}

	oc := opcuaGopcua.NewClient(serverURL, opts...)
	if err := oc.Connect(ctx); err != nil {
		return nil, errors.Wrap(errFailedConn, err)
	}

	return &Browser{client: oc}, nil
}

// Close closes the server connection.
func (b *Browser) Close() error {
	return b.client.Close()
}

func (b *Browser) BrowsePage(ctx context.Context, nodeID, continuationToken string) (twins.Page, error) {
	if continuationToken != "" {
		return twins.Page{}, errors.Wrap(twins.ErrContractViolation, errNoPaging)
	}
	if err := ctx.Err(); err != nil {
		return twins.Page{}, errors.Wrap(twins.ErrCancelled, err)
	}

	n := uaGopcua.NewNumericNodeID(0, id.RootFolder)
	if nodeID != "" {
		parsed, err := uaGopcua.ParseNodeID(nodeID)
		if err != nil {
			return twins.Page{}, errors.Wrap(errFailedParseNodeID, err)
		}
		n = parsed
	}

	refs, err := b.client.Node(n).ReferencedNodes(id.HierarchicalReferences, uaGopcua.BrowseDirectionForward, uaGopcua.NodeClassAll, true)
	if err != nil {
		return twins.Page{}, err
	}

	page := twins.Page{References: make([]twins.NodeReference, 0, len(refs))}
	for _, rn := range refs {
		if err := ctx.Err(); err != nil {
			return twins.Page{}, errors.Wrap(twins.ErrCancelled, err)
		}
		ref, err := reference(rn)
		if err != nil {
			return twins.Page{}, err
		}
		page.References = append(page.References, ref)
	}

	return page, nil
}

func reference(n *opcuaGopcua.Node) (twins.NodeReference, error) {
	attrs, err := n.Attributes(
		uaGopcua.AttributeIDNodeClass,
		uaGopcua.AttributeIDBrowseName,
	)
	if err != nil {
		return twins.NodeReference{}, errors.Wrap(errFailedAttributes, err)
	}

	ref := twins.NodeReference{
		NodeID: n.ID.String(),
	}

	switch err := attrs[0].Status; err {
	case uaGopcua.StatusOK:
		class := uaGopcua.NodeClass(attrs[0].Value.Int())
		ref.NodeClass = nodeClass(class)
		ref.HasChildren = class != uaGopcua.NodeClassMethod
	default:
		return twins.NodeReference{}, errors.Wrap(errFailedAttributes, err)
	}

	switch err := attrs[1].Status; err {
	case uaGopcua.StatusOK:
		ref.BrowseName = attrs[1].Value.String()
		ref.DisplayName = ref.BrowseName
	case uaGopcua.StatusBadAttributeIDInvalid:
	default:
		return twins.NodeReference{}, errors.Wrap(errFailedAttributes, err)
	}

	return ref, nil
}

func nodeClass(c uaGopcua.NodeClass) string {
	switch c {
	case uaGopcua.NodeClassObject:
		return twins.NodeClassObject
	case uaGopcua.NodeClassVariable:
		return twins.NodeClassVariable
	case uaGopcua.NodeClassMethod:
		return twins.NodeClassMethod
	case uaGopcua.NodeClassObjectType:
		return twins.NodeClassObjectType
	case uaGopcua.NodeClassVariableType:
		return twins.NodeClassVariableType
	case uaGopcua.NodeClassReferenceType:
		return twins.NodeClassReferenceType
	case uaGopcua.NodeClassDataType:
		return twins.NodeClassDataType
	case uaGopcua.NodeClassView:
		return twins.NodeClassView
	default:
		return "Unspecified"
	}
}
