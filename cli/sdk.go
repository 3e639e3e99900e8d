// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import iiotsdk "github.com/absmach/iiot/pkg/sdk/go"

// Keep SDK handle in global var.
var sdk iiotsdk.SDK

// SetSDK sets the IIoT platform SDK instance.
func SetSDK(s iiotsdk.SDK) {
	sdk = s
}
