package config

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	fiberrors "github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/log"
)

const DefaultConfigPath = "/etc/fibctl/fibctl.toml"

const (
	ROUTE_TMPL_PREFIX   = "prefix"
	ROUTE_TMPL_NEXTHOPS = "nexthops"
	ROUTE_TMPL_COUNT    = "count"
)

const DefaultRouteTemplate = "{{prefix}} via {{nexthops}}"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			Host:      "localhost",
			TimeoutMs: 5000,
			ClientID:  786,
		},
		Ports: PortsConfig{
			FibAgentPort:    60100,
			DecisionRepPort: 60004,
		},
		Kernel: KernelConfig{
			Protocol: 99,
			Table:    254,
		},
		API: APIConfig{
			ListenAddr: "127.0.0.1:60180",
		},
		Output: OutputConfig{
			RouteTemplate: DefaultRouteTemplate,
		},
	}
}

// LoadConfig reads configPath on top of the defaults. When the file does
// not exist, defaults are returned unless explicit is set, in which case it
// is an error.
func LoadConfig(configPath string, explicit bool) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fiberrors.NewConfigError("failed to get absolute path", err)
		} else {
			configFile = path
		}
	}

	config := Default()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if explicit {
			return nil, fiberrors.NewConfigError(fmt.Sprintf("configuration file not found: %s", configFile), nil)
		}
		log.Debugf("Configuration file %s not found, using defaults", configFile)
		return config, nil
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fiberrors.NewConfigError("failed to read config file", err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(content))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fiberrors.NewConfigError("failed to parse config file", err)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			log.Errorf("%s", serr.String())
			return nil, fiberrors.NewConfigError("unknown keys in config file", err)
		}
		return nil, fiberrors.NewConfigError("failed to parse config file", err)
	}

	config._absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)

	return config, nil
}

func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

// Hash returns the MD5 of the serialized effective configuration, flags
// included, so two processes can tell whether they run the same settings.
func (c *Config) Hash() (string, error) {
	buf, err := c.SerializeConfig()
	if err != nil {
		return "", err
	}
	sum := md5.Sum(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
