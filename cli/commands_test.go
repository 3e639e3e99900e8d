// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

// Twin commands
const (
	healthCmd   = "health"
	browseCmd   = "browse"
	treeCmd     = "tree"
	nodeCmd     = "node"
	metadataCmd = "metadata"
	callCmd     = "call"
)

// Registry commands
const (
	endpointsCmd    = "endpoints"
	applicationsCmd = "applications"
	getCmd          = "get"
	activateCmd     = "activate"
	discoverCmd     = "discover"
	delCmd          = "delete"
)
