// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package fixture contains the Twin end-to-end test fixture. It waits for
// the platform services, registers an OPC UA server, activates its
// endpoint and exposes browse and method helpers for test suites.
package fixture
