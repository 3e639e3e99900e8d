// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"

	"github.com/absmach/iiot/pkg/errors"
	iiotsdk "github.com/absmach/iiot/pkg/sdk/go"
	"github.com/spf13/cobra"
)

var errInvalidArguments = errors.New("method arguments must be a JSON array of {\"value\", \"dataType\"} objects")

// NewMetadataCmd returns the method metadata command.
func NewMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <endpoint_id> <method_id>",
		Short: "Method metadata",
		Long: "Gets input and output arguments of the method\n" +
			"usage:\n" +
			"\tiiot-cli metadata <endpoint_id> <method_id>",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			meta, err := sdk.MethodMetadata(cmd.Context(), args[0], args[1])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, meta)
		},
	}
}

// NewCallCmd returns the method call command.
func NewCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <endpoint_id> <method_id> [arguments]",
		Short: "Call method",
		Long: "Calls the method with arguments given as JSON array\n" +
			"usage:\n" +
			"\tiiot-cli call <endpoint_id> <method_id> '[{\"value\":1,\"dataType\":\"Double\"}]' --object <object_id>",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 || len(args) > 3 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			req := iiotsdk.MethodCallRequest{
				MethodID: args[1],
				ObjectID: ObjectID,
			}
			if len(args) == 3 {
				if err := json.Unmarshal([]byte(args[2]), &req.Arguments); err != nil {
					logErrorCmd(*cmd, errors.Wrap(errInvalidArguments, err))
					return
				}
			}
			res, err := sdk.CallMethod(cmd.Context(), args[0], req)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, res)
		},
	}
}
