// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/absmach/iiot/pkg/errors"
	iiotsdk "github.com/absmach/iiot/pkg/sdk/go"
	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"
)

type remotes struct {
	HostURL         string `toml:"host_url"`
	TLSVerification bool   `toml:"tls_verification"`
}

type collector struct {
	Parallelism string `toml:"parallelism"`
	MaxNodes    string `toml:"max_nodes"`
}

type config struct {
	Remotes   remotes   `toml:"remotes"`
	Collector collector `toml:"collector"`
	Token     string    `toml:"token"`
	RawOutput string    `toml:"raw_output"`
}

// Readable by all user groups but writeable by the user only.
const filePermission = 0o644

var (
	errReadFail            = errors.New("failed to read config file")
	errNoKey               = errors.New("no such key")
	errUnsupportedKeyValue = errors.New("unsupported data type for key")
	errWritingConfig       = errors.New("error in writing the updated config to file")
	errInvalidURL          = errors.New("invalid url")
	errURLParseFail        = errors.New("failed to parse url")
	defaultConfigPath      = "./config.toml"
)

func read(file string) (config, error) {
	c := config{}
	data, err := os.Open(file)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}
	defer data.Close()

	buf, err := io.ReadAll(data)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}

	if err := toml.Unmarshal(buf, &c); err != nil {
		return config{}, err
	}

	return c, nil
}

// ParseConfig parses the config file and applies it to the SDK configuration.
// A missing file is created with default values.
func ParseConfig(sdkConf iiotsdk.Config) (iiotsdk.Config, error) {
	if ConfigPath == "" {
		ConfigPath = defaultConfigPath
	}

	_, err := os.Stat(ConfigPath)
	switch {
	case os.IsNotExist(err):
		defaultConfig := config{
			Remotes: remotes{
				HostURL:         "http://localhost:9080",
				TLSVerification: false,
			},
		}
		buf, err := toml.Marshal(defaultConfig)
		if err != nil {
			return sdkConf, err
		}
		if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
			return sdkConf, errors.Wrap(errWritingConfig, err)
		}
	case err != nil:
		return sdkConf, err
	}

	config, err := read(ConfigPath)
	if err != nil {
		return sdkConf, err
	}

	if config.Collector.Parallelism != "" {
		parallelism, err := strconv.Atoi(config.Collector.Parallelism)
		if err != nil {
			return sdkConf, err
		}
		Parallelism = parallelism
	}

	if config.Collector.MaxNodes != "" {
		maxNodes, err := strconv.Atoi(config.Collector.MaxNodes)
		if err != nil {
			return sdkConf, err
		}
		MaxNodes = maxNodes
	}

	if config.RawOutput != "" {
		rawOutput, err := strconv.ParseBool(config.RawOutput)
		if err != nil {
			return sdkConf, err
		}
		RawOutput = rawOutput
	}

	if config.Remotes.HostURL != "" {
		sdkConf.HostURL = config.Remotes.HostURL
	}
	if config.Token != "" {
		sdkConf.Token = config.Token
	}
	sdkConf.TLSVerification = config.Remotes.TLSVerification

	return sdkConf, nil
}

// NewConfigCmd returns config command storing params in the local TOML file.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <key> <value>",
		Short: "CLI local config",
		Long:  "Local param storage to prevent repetitive passing of keys",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			if err := setConfigValue(args[0], args[1]); err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logOKCmd(*cmd)
		},
	}
}

func setConfigValue(key, value string) error {
	config, err := read(ConfigPath)
	if err != nil {
		return err
	}

	if strings.Contains(key, "url") {
		u, err := url.Parse(value)
		if err != nil {
			return errors.Wrap(errInvalidURL, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return errInvalidURL
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errURLParseFail
		}
	}

	configKeyToField := map[string]interface{}{
		"host_url":         &config.Remotes.HostURL,
		"tls_verification": &config.Remotes.TLSVerification,
		"parallelism":      &config.Collector.Parallelism,
		"max_nodes":        &config.Collector.MaxNodes,
		"raw_output":       &config.RawOutput,
		"token":            &config.Token,
	}

	fieldPtr, ok := configKeyToField[key]
	if !ok {
		return errNoKey
	}

	fieldValue := reflect.ValueOf(fieldPtr).Elem()

	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(value)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		fieldValue.SetBool(boolValue)
	default:
		return errUnsupportedKeyValue
	}

	buf, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
		return errors.Wrap(errWritingConfig, err)
	}

	return nil
}
