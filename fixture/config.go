// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"time"

	"github.com/absmach/iiot/internal/env"
	"github.com/absmach/iiot/twins"
)

// EnvPrefix is the prefix of the fixture environment variables.
const EnvPrefix = "IIOT_E2E_"

// Config defines the fixture parameters.
type Config struct {
	// HostURL is the base URL of the platform REST API.
	HostURL string `env:"HOST_URL" envDefault:"http://localhost:9080"`

	// Token is the optional bearer token sent with every request.
	Token string `env:"TOKEN" envDefault:""`

	// ServerURL is the discovery URL of the OPC UA server under test.
	ServerURL string `env:"SERVER_URL" envDefault:"opc.tcp://opcplc:50000"`

	// Services are the services that must report healthy before the fixture starts.
	Services []string `env:"SERVICES" envDefault:"twin,registry"`

	// MaxWait bounds every wait performed by the fixture.
	MaxWait time.Duration `env:"MAX_WAIT" envDefault:"5m"`

	// PollInterval is the initial interval between two polls.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"1s"`

	// RequestTimeout is the timeout of a single REST request.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	Collector twins.Config `envPrefix:"COLLECTOR_"`
}

// LoadConfig reads the fixture configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
