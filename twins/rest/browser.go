// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package rest provides a twins.Browser backed by the Twin service REST API.
package rest

import (
	"context"
	"fmt"

	"github.com/absmach/iiot/pkg/errors"
	sdk "github.com/absmach/iiot/pkg/sdk/go"
	"github.com/absmach/iiot/twins"
)

var (
	errMissingReferences = errors.New("response has no references")
	errMissingTarget     = errors.New("reference has no target node id")
)

var _ twins.Browser = (*browser)(nil)

type browser struct {
	sdk        sdk.SDK
	endpointID string
}

// NewBrowser returns a browser for the activated endpoint.
func NewBrowser(s sdk.SDK, endpointID string) twins.Browser {
	return &browser{
		sdk:        s,
		endpointID: endpointID,
	}
}

func (b *browser) BrowsePage(ctx context.Context, nodeID, continuationToken string) (twins.Page, error) {
	var (
		res    sdk.BrowseResponse
		sdkerr errors.SDKError
	)
	switch continuationToken {
	case "":
		res, sdkerr = b.sdk.Browse(ctx, b.endpointID, nodeID)
	default:
		res, sdkerr = b.sdk.BrowseNext(ctx, b.endpointID, continuationToken)
	}
	if sdkerr != nil {
		if errors.Contains(sdkerr, sdk.ErrFailedDecode) {
			return twins.Page{}, errors.Wrap(twins.ErrContractViolation, sdkerr)
		}
		return twins.Page{}, sdkerr
	}

	return ToPage(res)
}

// ToPage validates a browse response and converts it to a page.
func ToPage(res sdk.BrowseResponse) (twins.Page, error) {
	if res.ErrorInfo != nil && res.ErrorInfo.StatusCode != 0 {
		return twins.Page{}, errors.Wrap(twins.ErrBrowse, fmt.Errorf("status 0x%08X: %s", res.ErrorInfo.StatusCode, res.ErrorInfo.ErrorMessage))
	}
	if res.References == nil {
		return twins.Page{}, errors.Wrap(twins.ErrContractViolation, errMissingReferences)
	}

	refs := make([]twins.NodeReference, 0, len(*res.References))
	for _, ref := range *res.References {
		if ref.Target.NodeID == "" {
			return twins.Page{}, errors.Wrap(twins.ErrContractViolation, errMissingTarget)
		}
		refs = append(refs, twins.NodeReference{
			NodeID:      ref.Target.NodeID,
			NodeClass:   ref.Target.NodeClass,
			HasChildren: bool(ref.Target.Children),
			BrowseName:  ref.Target.BrowseName,
			DisplayName: ref.Target.DisplayName,
		})
	}

	return twins.Page{
		References:        refs,
		ContinuationToken: res.ContinuationToken,
	}, nil
}
