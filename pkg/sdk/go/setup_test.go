// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/absmach/iiot/logger"
	sdk "github.com/absmach/iiot/pkg/sdk/go"
	"github.com/absmach/iiot/pkg/uuid"
	"github.com/absmach/iiot/simulator"
	"github.com/absmach/iiot/simulator/api"
	"github.com/stretchr/testify/require"
)

const (
	validToken = "token"
	instanceID = "5de9b29a-feb9-11ed-be56-0242ac120002"
	serverURL  = "opc.tcp://opcplc:50000"
)

func newSimulatorServer(t *testing.T, pageSize int) *httptest.Server {
	svc := simulator.New(simulator.Config{PageSize: pageSize}, simulator.DefaultAddressSpace(), uuid.NewMock())
	ts := httptest.NewServer(api.MakeHandler(svc, logger.NewMock(), instanceID, validToken))
	t.Cleanup(ts.Close)

	return ts
}

func newRawServer(t *testing.T, status int, body string) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", string(sdk.CTJSON))
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	return ts
}

func activate(t *testing.T, s sdk.SDK) string {
	ctx := context.Background()
	err := s.DiscoverServer(ctx, serverURL)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	page, err := s.Endpoints(ctx)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.Len(t, page.Items, 1)
	err = s.ActivateEndpoint(ctx, page.Items[0].Registration.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	return page.Items[0].Registration.ID
}
