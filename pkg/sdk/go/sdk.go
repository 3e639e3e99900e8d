// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/absmach/iiot"
	"github.com/absmach/iiot/pkg/apiutil"
	"github.com/absmach/iiot/pkg/errors"
	"moul.io/http2curl"
)

const (
	// CTJSON represents JSON content type.
	CTJSON ContentType = "application/json"

	// DiagnosticsVerbose requests verbose diagnostics from the Twin service.
	DiagnosticsVerbose = "Verbose"

	// ActivatedAndConnected is the activation state of a connected endpoint.
	ActivatedAndConnected = "ActivatedAndConnected"

	// EndpointReady is the state of an endpoint that accepts requests.
	EndpointReady = "Ready"

	twinEndpoint     = "twin/v2"
	registryEndpoint = "registry/v2"
	healthEndpoint   = "healthz"

	defTimeout = 30 * time.Second
)

// ContentType represents all possible content types.
type ContentType string

var _ SDK = (*iiotSDK)(nil)

var (
	// ErrFailedFetch indicates that fetching of entity data failed.
	ErrFailedFetch = errors.New("failed to fetch entity")

	// ErrFailedDecode indicates a response body that could not be decoded.
	ErrFailedDecode = errors.New("failed to decode response body")

	// ErrFetchHealth indicates that fetching of health check failed.
	ErrFetchHealth = errors.New("failed to fetch health check")
)

// SDK contains the IIoT platform API definition used by the end-to-end fixture.
type SDK interface {
	// Browse returns the first browse page of the node on the endpoint.
	// An empty nodeID browses the root folder.
	//
	// example:
	//  page, _ := sdk.Browse(ctx, "endpointID", "i=85")
	//  fmt.Println(page.ContinuationToken)
	Browse(ctx context.Context, endpointID, nodeID string) (BrowseResponse, errors.SDKError)

	// BrowseNext returns the browse page identified by the continuation token.
	BrowseNext(ctx context.Context, endpointID, continuationToken string) (BrowseResponse, errors.SDKError)

	// BrowseRaw performs one browse call and returns the undecoded response
	// object. A non-empty continuation token requests the next page.
	BrowseRaw(ctx context.Context, endpointID, nodeID, continuationToken string) (map[string]interface{}, errors.SDKError)

	// MethodMetadata returns the argument metadata of the method node.
	//
	// example:
	//  meta, _ := sdk.MethodMetadata(ctx, "endpointID", "ns=2;s=Add")
	//  fmt.Println(meta.InputArguments)
	MethodMetadata(ctx context.Context, endpointID, methodID string) (MethodMetadataResponse, errors.SDKError)

	// CallMethod invokes the method on the object.
	CallMethod(ctx context.Context, endpointID string, req MethodCallRequest) (MethodCallResponse, errors.SDKError)

	// DiscoverServer asks the registry to discover the OPC UA server at discoveryURL.
	DiscoverServer(ctx context.Context, discoveryURL string) errors.SDKError

	// Applications lists registered applications.
	Applications(ctx context.Context) (ApplicationsPage, errors.SDKError)

	// DeleteApplication unregisters the application and its endpoints.
	DeleteApplication(ctx context.Context, applicationID string) errors.SDKError

	// Endpoints lists registered endpoints.
	Endpoints(ctx context.Context) (EndpointsPage, errors.SDKError)

	// ActivateEndpoint activates the endpoint so it can be browsed.
	ActivateEndpoint(ctx context.Context, endpointID string) errors.SDKError

	// Health returns the health check of the named service.
	//
	// example:
	//  health, _ := sdk.Health(ctx, "twin")
	//  fmt.Println(health.Status)
	Health(ctx context.Context, service string) (iiot.HealthInfo, errors.SDKError)
}

type iiotSDK struct {
	hostURL  string
	token    string
	client   *http.Client
	curlFlag bool
}

// Config contains sdk configuration parameters.
type Config struct {
	HostURL         string
	Token           string
	Timeout         time.Duration
	TLSVerification bool
	CurlFlag        bool
}

// NewSDK returns new IIoT platform SDK instance.
func NewSDK(conf Config) SDK {
	timeout := conf.Timeout
	if timeout == 0 {
		timeout = defTimeout
	}

	return &iiotSDK{
		hostURL: strings.TrimSuffix(conf.HostURL, "/"),
		token:   conf.Token,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !conf.TLSVerification,
				},
			},
		},
		curlFlag: conf.CurlFlag,
	}
}

// processRequest creates and send a new HTTP request, and checks for errors in the HTTP response.
// It then returns the response headers, the response body, and the associated error(s) (if any).
func (sdk iiotSDK) processRequest(ctx context.Context, method, reqURL string, data []byte, expectedRespCodes ...int) (http.Header, []byte, errors.SDKError) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(data))
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(err)
	}

	req.Header.Add("Content-Type", string(CTJSON))
	req.Header.Add("Accept", string(CTJSON))
	if header := apiutil.AuthorizationHeader(sdk.token); header != "" {
		req.Header.Set("Authorization", header)
	}

	if sdk.curlFlag {
		curlCommand, err := http2curl.GetCurlCommand(req)
		if err != nil {
			return nil, nil, errors.NewSDKError(err)
		}
		log.Println(curlCommand.String())
	}

	resp, err := sdk.client.Do(req)
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(err)
	}
	defer resp.Body.Close()

	sdkerr := errors.CheckError(resp, expectedRespCodes...)
	if sdkerr != nil {
		return make(http.Header), []byte{}, sdkerr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(err)
	}

	return resp.Header, body, nil
}

func (sdk iiotSDK) withQueryParams(endpoint string, params map[string]string) string {
	q := url.Values{}
	for key, val := range params {
		if val != "" {
			q.Set(key, val)
		}
	}
	if len(q) == 0 {
		return sdk.url(endpoint)
	}

	return sdk.url(endpoint) + "?" + q.Encode()
}

func (sdk iiotSDK) url(parts ...string) string {
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, sdk.hostURL)
	escaped = append(escaped, parts...)

	return strings.Join(escaped, "/")
}
