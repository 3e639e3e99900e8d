// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package twins

import (
	"context"
	"strings"
	"sync"

	"github.com/absmach/iiot/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	defMaxNodes = 100000
	defMaxPages = 10000
)

// Config tunes the traversal. Zero values select the defaults.
type Config struct {
	// Parallelism is the number of sibling nodes browsed concurrently.
	Parallelism int `env:"PARALLELISM" envDefault:"1"`

	// MaxNodes bounds the number of distinct nodes one traversal may collect.
	MaxNodes int `env:"MAX_NODES" envDefault:"100000"`

	// MaxPages bounds the number of pages fetched for a single node.
	MaxPages int `env:"MAX_PAGES" envDefault:"10000"`
}

// Service specifies an API that must be fulfilled by the domain service
// implementation, and all of its decorators (e.g. logging & metrics).
type Service interface {
	// CollectFlatPage returns all references of a single node, following
	// continuation tokens until the browser reports no more pages. The
	// result keeps the page order and is not deduplicated.
	CollectFlatPage(ctx context.Context, nodeID string) ([]NodeReference, error)

	// CollectSubtree returns every node reachable from nodeID, each node id
	// at most once. A non-empty nodeClass keeps only the references whose
	// class matches it case-insensitively. The start node itself is only
	// present if some browsed node reports it as a child.
	CollectSubtree(ctx context.Context, nodeID, nodeClass string) ([]NodeReference, error)
}

var _ Service = (*service)(nil)

type service struct {
	browser Browser
	config  Config
}

// New instantiates the twins browse service.
func New(browser Browser, config Config) Service {
	if config.Parallelism < 1 {
		config.Parallelism = 1
	}
	if config.MaxNodes < 1 {
		config.MaxNodes = defMaxNodes
	}
	if config.MaxPages < 1 {
		config.MaxPages = defMaxPages
	}

	return &service{
		browser: browser,
		config:  config,
	}
}

func (svc *service) CollectFlatPage(ctx context.Context, nodeID string) ([]NodeReference, error) {
	var refs []NodeReference
	token := ""
	for pages := 0; ; pages++ {
		if pages == svc.config.MaxPages {
			return nil, errors.Wrap(ErrContractViolation, errPageLimit)
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(ErrCancelled, err)
		}
		page, err := svc.browser.BrowsePage(ctx, nodeID, token)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, errors.Wrap(ErrCancelled, ctxErr)
			}
			return nil, browseError(err)
		}
		refs = append(refs, page.References...)
		if page.ContinuationToken == "" {
			return refs, nil
		}
		token = page.ContinuationToken
	}
}

func (svc *service) CollectSubtree(ctx context.Context, nodeID, nodeClass string) ([]NodeReference, error) {
	visited := &visitedSet{}

	var err error
	switch svc.config.Parallelism {
	case 1:
		err = svc.walk(ctx, nodeID, visited)
	default:
		err = svc.walkParallel(ctx, nodeID, visited)
	}
	if err != nil {
		return nil, err
	}

	return visited.references(nodeClass), nil
}

// frame holds the children of one browsed node and the position of the
// next child to visit.
type frame struct {
	children []NodeReference
	next     int
}

// walk is a depth-first pre-order traversal driven by an explicit stack.
func (svc *service) walk(ctx context.Context, nodeID string, visited *visitedSet) error {
	children, err := svc.CollectFlatPage(ctx, nodeID)
	if err != nil {
		return err
	}
	stack := []*frame{{children: children}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.children) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.children[top.next]
		top.next++

		added, err := svc.visit(ctx, child, visited)
		if err != nil {
			return err
		}
		if !added || !child.HasChildren {
			continue
		}
		grandChildren, err := svc.CollectFlatPage(ctx, child.NodeID)
		if err != nil {
			return err
		}
		stack = append(stack, &frame{children: grandChildren})
	}

	return nil
}

// walkParallel browses the hierarchy level by level, fetching up to
// Parallelism nodes of the same level concurrently.
func (svc *service) walkParallel(ctx context.Context, nodeID string, visited *visitedSet) error {
	children, err := svc.CollectFlatPage(ctx, nodeID)
	if err != nil {
		return err
	}
	frontier, err := svc.visitAll(ctx, children, visited)
	if err != nil {
		return err
	}

	for len(frontier) > 0 {
		var (
			mu   sync.Mutex
			next []string
		)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(svc.config.Parallelism)
		for _, id := range frontier {
			id := id
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				refs, err := svc.CollectFlatPage(gctx, id)
				if err != nil {
					return err
				}
				ids, err := svc.visitAll(gctx, refs, visited)
				if err != nil {
					return err
				}
				mu.Lock()
				next = append(next, ids...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrap(ErrCancelled, err)
		}
		frontier = next
	}

	return nil
}

// visitAll records refs and returns the ids of the newly discovered
// nodes that have to be browsed.
func (svc *service) visitAll(ctx context.Context, refs []NodeReference, visited *visitedSet) ([]string, error) {
	var ids []string
	for _, ref := range refs {
		added, err := svc.visit(ctx, ref, visited)
		if err != nil {
			return nil, err
		}
		if added && ref.HasChildren {
			ids = append(ids, ref.NodeID)
		}
	}

	return ids, nil
}

// visit checks for cancellation and records ref. It reports whether ref
// was seen for the first time in this traversal.
func (svc *service) visit(ctx context.Context, ref NodeReference, visited *visitedSet) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.Wrap(ErrCancelled, err)
	}
	if !visited.add(ref) {
		return false, nil
	}
	if visited.len() > svc.config.MaxNodes {
		return false, ErrLimitExceeded
	}

	return true, nil
}

func matchesClass(ref NodeReference, nodeClass string) bool {
	return nodeClass == "" || strings.EqualFold(ref.NodeClass, nodeClass)
}

func browseError(err error) error {
	switch {
	case errors.Contains(err, ErrContractViolation),
		errors.Contains(err, ErrCancelled):
		return err
	default:
		return errors.Wrap(ErrBrowse, err)
	}
}
