// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package twins

import (
	"sort"
	"sync"
	"sync/atomic"
)

// visitedSet records every node discovered during one traversal.
// It is safe for concurrent use.
type visitedSet struct {
	nodes sync.Map
	count atomic.Int64
}

// add stores ref unless a reference with the same node id is already
// present. It reports whether ref was stored.
func (vs *visitedSet) add(ref NodeReference) bool {
	if _, loaded := vs.nodes.LoadOrStore(ref.NodeID, ref); loaded {
		return false
	}
	vs.count.Add(1)
	return true
}

func (vs *visitedSet) len() int {
	return int(vs.count.Load())
}

// references returns the stored references ordered by node id.
func (vs *visitedSet) references(nodeClass string) []NodeReference {
	refs := make([]NodeReference, 0, vs.len())
	vs.nodes.Range(func(_, v any) bool {
		ref := v.(NodeReference)
		if matchesClass(ref, nodeClass) {
			refs = append(refs, ref)
		}
		return true
	})
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].NodeID < refs[j].NodeID
	})
	return refs
}
