// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package simulator contains an in-memory IIoT platform used to run the
// end-to-end fixture locally. It serves the Twin browse and method APIs
// over a static address space and the Registry application and endpoint
// APIs.
package simulator
