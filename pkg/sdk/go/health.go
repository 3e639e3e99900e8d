// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/absmach/iiot"
	"github.com/absmach/iiot/pkg/errors"
)

func (sdk iiotSDK) Health(ctx context.Context, service string) (iiot.HealthInfo, errors.SDKError) {
	reqURL := sdk.url(service, healthEndpoint)
	_, body, sdkerr := sdk.processRequest(ctx, http.MethodGet, reqURL, nil, http.StatusOK)
	if sdkerr != nil {
		return iiot.HealthInfo{}, errors.NewSDKErrorWithStatus(errors.Wrap(ErrFetchHealth, sdkerr), sdkerr.StatusCode())
	}

	var h iiot.HealthInfo
	if err := json.Unmarshal(body, &h); err != nil {
		return iiot.HealthInfo{}, errors.NewSDKError(errors.Wrap(ErrFailedDecode, err))
	}

	return h, nil
}
