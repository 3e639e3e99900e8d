// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains cli main function to run the IIoT platform cli.
package main

import (
	"log"

	"github.com/absmach/iiot/cli"
	sdk "github.com/absmach/iiot/pkg/sdk/go"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
)

const defHostURL = "http://localhost:9080"

func main() {
	sdkConf := sdk.Config{
		HostURL:         defHostURL,
		TLSVerification: false,
	}

	// Root
	rootCmd := &cobra.Command{
		Use:   "iiot-cli",
		Short: "Exercise the OPC UA Twin and Registry APIs",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			raw, parallelism, maxNodes := cli.RawOutput, cli.Parallelism, cli.MaxNodes
			cfg, err := cli.ParseConfig(sdkConf)
			if err != nil {
				log.Fatalf("Failed to parse config: %s", err)
			}

			pf := cmd.Flags()
			if pf.Changed("raw") {
				cli.RawOutput = raw
			}
			if pf.Changed("parallelism") {
				cli.Parallelism = parallelism
			}
			if pf.Changed("max-nodes") {
				cli.MaxNodes = maxNodes
			}
			cli.SetSDK(sdk.NewSDK(applyFlags(cmd, sdkConf, cfg)))
		},
	}

	// API commands
	healthCmd := cli.NewHealthCmd()
	browseCmd := cli.NewBrowseCmd()
	treeCmd := cli.NewTreeCmd()
	nodeCmd := cli.NewNodeCmd()
	metadataCmd := cli.NewMetadataCmd()
	callCmd := cli.NewCallCmd()
	endpointsCmd := cli.NewEndpointsCmd()
	applicationsCmd := cli.NewApplicationsCmd()
	configCmd := cli.NewConfigCmd()

	// Root Commands
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(endpointsCmd)
	rootCmd.AddCommand(applicationsCmd)
	rootCmd.AddCommand(configCmd)

	// Root Flags
	rootCmd.PersistentFlags().StringVarP(
		&sdkConf.HostURL,
		"host-url",
		"u",
		sdkConf.HostURL,
		"IIoT platform host URL",
	)

	rootCmd.PersistentFlags().StringVarP(
		&sdkConf.Token,
		"token",
		"t",
		"",
		"Bearer token sent with every request",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&sdkConf.TLSVerification,
		"tls",
		"s",
		sdkConf.TLSVerification,
		"Verify the server TLS certificate",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&sdkConf.CurlFlag,
		"curl",
		"x",
		false,
		"Print the curl command of each request",
	)

	rootCmd.PersistentFlags().StringVar(
		&cli.ConfigPath,
		"config",
		"",
		"IIoT cli config path",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		false,
		"Enables raw output mode for easier parsing of output",
	)

	// Browse Flags
	rootCmd.PersistentFlags().StringVarP(
		&cli.NodeClass,
		"class",
		"c",
		"",
		"Node class filter",
	)

	rootCmd.PersistentFlags().IntVarP(
		&cli.Parallelism,
		"parallelism",
		"p",
		1,
		"Number of nodes browsed concurrently",
	)

	rootCmd.PersistentFlags().IntVarP(
		&cli.MaxNodes,
		"max-nodes",
		"m",
		0,
		"Maximal number of collected nodes, zero for no limit",
	)

	// Method Flags
	rootCmd.PersistentFlags().StringVarP(
		&cli.ObjectID,
		"object",
		"O",
		"",
		"Object the method is called on",
	)

	cc.Init(&cc.Config{
		RootCmd:       rootCmd,
		Headings:      cc.HiCyan + cc.Bold + cc.Underline,
		Commands:      cc.HiYellow + cc.Bold,
		Example:       cc.Italic,
		ExecName:      cc.Bold,
		Flags:         cc.Bold,
		FlagsDataType: cc.Italic + cc.HiBlue,
	})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// applyFlags gives explicitly set flags precedence over the config file.
func applyFlags(cmd *cobra.Command, flags, cfg sdk.Config) sdk.Config {
	pf := cmd.Flags()
	if pf.Changed("host-url") {
		cfg.HostURL = flags.HostURL
	}
	if pf.Changed("token") {
		cfg.Token = flags.Token
	}
	if pf.Changed("tls") {
		cfg.TLSVerification = flags.TLSVerification
	}
	cfg.CurlFlag = flags.CurlFlag

	return cfg
}
