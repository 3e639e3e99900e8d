// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package twins contains the domain concept definitions needed to browse
// the address space of an OPC UA server exposed by the Twin service of the
// IIoT platform. A Browser returns one page of child references for a node,
// and the Service drains those pages and walks the node hierarchy without
// visiting the same node twice.
package twins
