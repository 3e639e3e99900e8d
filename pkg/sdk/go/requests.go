// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk

// DiagnosticsModel selects the diagnostics level of a request.
type DiagnosticsModel struct {
	Level string `json:"level"`
}

// RequestHeader is sent with every method request.
type RequestHeader struct {
	Diagnostics *DiagnosticsModel `json:"diagnostics,omitempty"`
}

// VerboseHeader returns a header requesting verbose diagnostics.
func VerboseHeader() *RequestHeader {
	return &RequestHeader{
		Diagnostics: &DiagnosticsModel{Level: DiagnosticsVerbose},
	}
}

// MethodCallArgument is a typed method argument or result.
type MethodCallArgument struct {
	Value    interface{} `json:"value"`
	DataType string      `json:"dataType,omitempty"`
}

type methodMetadataRequest struct {
	MethodID string         `json:"methodId"`
	Header   *RequestHeader `json:"header,omitempty"`
}

// MethodCallRequest invokes the method MethodID on the object ObjectID.
type MethodCallRequest struct {
	MethodID  string               `json:"methodId"`
	ObjectID  string               `json:"objectId,omitempty"`
	Arguments []MethodCallArgument `json:"arguments,omitempty"`
	Header    *RequestHeader       `json:"header,omitempty"`
}

type discoveryRequest struct {
	DiscoveryURL string `json:"discoveryUrl"`
}
