// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/absmach/iiot/twins"
	"github.com/absmach/iiot/twins/rest"
	"github.com/spf13/cobra"
)

// NewBrowseCmd returns the command listing all references of a node.
func NewBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <endpoint_id> [node_id]",
		Short: "Browse node",
		Long: "Lists every reference of the node, following continuation tokens.\n" +
			"The root folder is browsed when node_id is omitted.\n" +
			"usage:\n" +
			"\tiiot-cli browse <endpoint_id> [node_id]",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 || len(args) > 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			svc := twins.New(rest.NewBrowser(sdk, args[0]), collectorConfig())
			refs, err := svc.CollectFlatPage(cmd.Context(), nodeArg(args, 1))
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, refs)
		},
	}
}

// NewTreeCmd returns the command collecting the subtree of a node.
func NewTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <endpoint_id> [node_id]",
		Short: "Browse subtree",
		Long: "Recursively collects every node reachable from the node.\n" +
			"Use --class to keep only nodes of one class.\n" +
			"usage:\n" +
			"\tiiot-cli tree <endpoint_id> [node_id] --class Variable",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 || len(args) > 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			svc := twins.New(rest.NewBrowser(sdk, args[0]), collectorConfig())
			refs, err := svc.CollectSubtree(cmd.Context(), nodeArg(args, 1), NodeClass)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, refs)
		},
	}
}

// NewNodeCmd returns the command performing one raw browse call.
func NewNodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "node <endpoint_id> [node_id] [continuation_token]",
		Short: "Browse single page",
		Long: "Performs one browse call and prints the response as returned by the Twin service.\n" +
			"usage:\n" +
			"\tiiot-cli node <endpoint_id> [node_id] [continuation_token]",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 || len(args) > 3 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			res, err := sdk.BrowseRaw(cmd.Context(), args[0], nodeArg(args, 1), nodeArg(args, 2))
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, res)
		},
	}
}

func nodeArg(args []string, idx int) string {
	if len(args) > idx {
		return args[idx]
	}

	return ""
}
