// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build integration

package gopcua_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/absmach/iiot/pkg/errors"
	"github.com/absmach/iiot/twins"
	"github.com/absmach/iiot/twins/gopcua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowsePage(t *testing.T) {
	b, err := gopcua.NewBrowser(context.Background(), serverURL)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	defer b.Close()

	cases := []struct {
		desc   string
		nodeID string
		token  string
		child  string
		err    error
	}{
		{
			desc:  "browse root folder",
			child: "i=85",
		},
		{
			desc:   "browse objects folder",
			nodeID: "i=85",
			child:  "i=2253",
		},
		{
			desc:  "browse with continuation token",
			token: "t1",
			err:   twins.ErrContractViolation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			page, err := b.BrowsePage(context.Background(), tc.nodeID, tc.token)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.err, err))
			if tc.err != nil {
				return
			}
			assert.Empty(t, page.ContinuationToken)
			var ids []string
			for _, ref := range page.References {
				ids = append(ids, ref.NodeID)
			}
			assert.Contains(t, ids, tc.child)
		})
	}
}

func TestCollectSubtree(t *testing.T) {
	b, err := gopcua.NewBrowser(context.Background(), serverURL)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	defer b.Close()

	svc := twins.New(b, twins.Config{Parallelism: 1})
	refs, err := svc.CollectSubtree(context.Background(), "ns=3;s=OpcPlc", "Method")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.NotEmpty(t, refs)
	for _, ref := range refs {
		assert.Equal(t, twins.NodeClassMethod, ref.NodeClass)
		assert.False(t, ref.HasChildren)
	}
}
