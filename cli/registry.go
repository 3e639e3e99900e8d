// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import "github.com/spf13/cobra"

var cmdEndpoints = []cobra.Command{
	{
		Use:   "get",
		Short: "Get endpoints",
		Long: "Lists registered endpoints\n" +
			"usage:\n" +
			"\tiiot-cli endpoints get",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			page, err := sdk.Endpoints(cmd.Context())
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, page)
		},
	},
	{
		Use:   "activate <endpoint_id>",
		Short: "Activate endpoint",
		Long: "Activates the endpoint so it can be browsed\n" +
			"usage:\n" +
			"\tiiot-cli endpoints activate <endpoint_id>",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if err := sdk.ActivateEndpoint(cmd.Context(), args[0]); err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logOKCmd(*cmd)
		},
	},
}

var cmdApplications = []cobra.Command{
	{
		Use:   "discover <discovery_url>",
		Short: "Discover server",
		Long: "Registers the OPC UA server reachable at discovery_url\n" +
			"usage:\n" +
			"\tiiot-cli applications discover opc.tcp://opcplc:50000",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if err := sdk.DiscoverServer(cmd.Context(), args[0]); err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logOKCmd(*cmd)
		},
	},
	{
		Use:   "get",
		Short: "Get applications",
		Long: "Lists registered applications\n" +
			"usage:\n" +
			"\tiiot-cli applications get",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			page, err := sdk.Applications(cmd.Context())
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, page)
		},
	},
	{
		Use:   "delete <application_id>",
		Short: "Delete application",
		Long: "Unregisters the application and its endpoints\n" +
			"usage:\n" +
			"\tiiot-cli applications delete <application_id>",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if err := sdk.DeleteApplication(cmd.Context(), args[0]); err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logOKCmd(*cmd)
		},
	},
}

// NewEndpointsCmd returns endpoints command.
func NewEndpointsCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "endpoints [get | activate]",
		Short: "Endpoints management",
		Long:  `Registry endpoints management: list and activate endpoints`,
	}

	for i := range cmdEndpoints {
		cmd.AddCommand(&cmdEndpoints[i])
	}

	return &cmd
}

// NewApplicationsCmd returns applications command.
func NewApplicationsCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "applications [discover | get | delete]",
		Short: "Applications management",
		Long:  `Registry applications management: discover, list and delete OPC UA servers`,
	}

	for i := range cmdApplications {
		cmd.AddCommand(&cmdApplications[i])
	}

	return &cmd
}
