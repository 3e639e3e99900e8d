// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/absmach/iiot/pkg/errors"
	"github.com/absmach/iiot/twins"
)

var _ twins.Browser = (*AddressSpace)(nil)

// ErrUnknownToken indicates a continuation token the address space did not issue.
var ErrUnknownToken = errors.New("unknown continuation token")

type cursor struct {
	nodeID string
	offset int
}

// AddressSpace is an in-memory paged browser. Tokens are issued as
// t1, t2, ... in the order pages are served.
type AddressSpace struct {
	mu        sync.Mutex
	pageSize  int
	children  map[string][]twins.NodeReference
	malformed map[string]bool
	failures  map[string]error
	cursors   map[string]cursor
	calls     map[string]int
	tokens    int
	hook      func(nodeID string)
}

// NewAddressSpace returns an empty address space serving pages of at most
// pageSize references. A pageSize below one serves every child in one page.
func NewAddressSpace(pageSize int) *AddressSpace {
	return &AddressSpace{
		pageSize:  pageSize,
		children:  make(map[string][]twins.NodeReference),
		malformed: make(map[string]bool),
		failures:  make(map[string]error),
		cursors:   make(map[string]cursor),
		calls:     make(map[string]int),
	}
}

// Add appends refs to the children of parent. An empty parent is the root.
func (as *AddressSpace) Add(parent string, refs ...twins.NodeReference) *AddressSpace {
	as.mu.Lock()
	defer as.mu.Unlock()

	as.children[parent] = append(as.children[parent], refs...)
	return as
}

// Malformed makes browsing nodeID return a response without references.
func (as *AddressSpace) Malformed(nodeID string) *AddressSpace {
	as.mu.Lock()
	defer as.mu.Unlock()

	as.malformed[nodeID] = true
	return as
}

// Fail makes browsing nodeID return err.
func (as *AddressSpace) Fail(nodeID string, err error) *AddressSpace {
	as.mu.Lock()
	defer as.mu.Unlock()

	as.failures[nodeID] = err
	return as
}

// OnBrowse registers a function called with the node id of every first page request.
func (as *AddressSpace) OnBrowse(hook func(nodeID string)) *AddressSpace {
	as.mu.Lock()
	defer as.mu.Unlock()

	as.hook = hook
	return as
}

// Calls returns the number of pages served for nodeID.
func (as *AddressSpace) Calls(nodeID string) int {
	as.mu.Lock()
	defer as.mu.Unlock()

	return as.calls[nodeID]
}

func (as *AddressSpace) BrowsePage(ctx context.Context, nodeID, continuationToken string) (twins.Page, error) {
	as.mu.Lock()
	hook := as.hook
	as.mu.Unlock()
	if hook != nil && continuationToken == "" {
		hook(nodeID)
	}

	as.mu.Lock()
	defer as.mu.Unlock()

	as.calls[nodeID]++
	if err, ok := as.failures[nodeID]; ok {
		return twins.Page{}, err
	}
	if as.malformed[nodeID] {
		return twins.Page{}, errors.Wrap(twins.ErrContractViolation, errors.New("missing references"))
	}

	offset := 0
	if continuationToken != "" {
		c, ok := as.cursors[continuationToken]
		if !ok || c.nodeID != nodeID {
			return twins.Page{}, ErrUnknownToken
		}
		delete(as.cursors, continuationToken)
		offset = c.offset
	}

	children := as.children[nodeID]
	end := len(children)
	if as.pageSize > 0 && offset+as.pageSize < end {
		end = offset + as.pageSize
	}
	page := twins.Page{
		References: append([]twins.NodeReference{}, children[offset:end]...),
	}
	if end < len(children) {
		as.tokens++
		token := fmt.Sprintf("t%d", as.tokens)
		as.cursors[token] = cursor{nodeID: nodeID, offset: end}
		page.ContinuationToken = token
	}

	return page, nil
}
