// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"bytes"
	"testing"

	"github.com/absmach/iiot/cli"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

type outputLog uint8

const (
	usageLog outputLog = iota
	errLog
	entityLog
	okLog
)

func executeCommand(t *testing.T, root *cobra.Command, args ...string) string {
	buffer := new(bytes.Buffer)
	root.SetOut(buffer)
	root.SetErr(buffer)
	root.SetArgs(args)
	err := root.Execute()
	assert.NoError(t, err, "Error executing command")
	return buffer.String()
}

func setFlags(rootCmd *cobra.Command) *cobra.Command {
	// Root Flags
	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		cli.RawOutput,
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

	// Method Flags
	rootCmd.PersistentFlags().StringVarP(
		&cli.ObjectID,
		"object",
		"O",
		"",
		"Object the method is called on",
	)

	return rootCmd
}

func newRootCmd(cmds ...*cobra.Command) *cobra.Command {
	rootCmd := &cobra.Command{Use: "iiot-cli"}
	for _, cmd := range cmds {
		rootCmd.AddCommand(cmd)
	}

	return setFlags(rootCmd)
}
