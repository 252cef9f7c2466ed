package config

import (
	"net"
	"strconv"
	"time"
)

type Config struct {
	// General holds connection settings shared by every command.
	General GeneralConfig `toml:"general" json:"general"`
	// Ports holds the RPC ports of the routing daemon modules.
	Ports PortsConfig `toml:"ports" json:"ports"`
	// Kernel selects the kernel routes owned by the routing daemon.
	Kernel KernelConfig `toml:"kernel" json:"kernel"`
	// API configures the diagnostics HTTP server.
	API APIConfig `toml:"api" json:"api"`
	// Output configures text rendering.
	Output OutputConfig `toml:"output" json:"output"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// Host is the address or name of the host running the FIB agent and the decision module (default: localhost).
	Host string `toml:"host" json:"host" validate:"required,hostname_rfc1123|ip"`
	// TimeoutMs bounds every RPC, connection setup included (default: 5000).
	TimeoutMs int `toml:"timeout_ms" json:"timeout_ms" validate:"min=1,max=600000"`
	// ClientID is the FIB client whose routes are read and written (default: 786, the routing daemon).
	ClientID int16 `toml:"client_id" json:"client_id" validate:"gte=0"`
}

type PortsConfig struct {
	// FibAgentPort is the FIB agent RPC port (default: 60100).
	FibAgentPort uint16 `toml:"fib_agent_port" json:"fib_agent_port" validate:"min=1"`
	// DecisionRepPort is the decision module RPC port (default: 60004).
	DecisionRepPort uint16 `toml:"decision_rep_port" json:"decision_rep_port" validate:"min=1"`
}

type KernelConfig struct {
	// Protocol is the rtnetlink protocol id of routes owned by the daemon (default: 99).
	Protocol int `toml:"protocol" json:"protocol" validate:"min=0,max=255"`
	// Table is the kernel routing table the daemon programs (default: 254, main).
	Table int `toml:"table" json:"table" validate:"min=1"`
	// IncludeDefault keeps default routes (0.0.0.0/0, ::/0) in kernel listings (default: false).
	IncludeDefault bool `toml:"include_default" json:"include_default"`
}

type APIConfig struct {
	// ListenAddr is the host:port the diagnostics API listens on (default: 127.0.0.1:60180).
	ListenAddr string `toml:"listen_addr" json:"listen_addr" validate:"hostport_or_empty"`
}

type OutputConfig struct {
	// RouteTemplate renders one route per line in text output. Available variables: {{prefix}}, {{nexthops}}, {{count}}.
	RouteTemplate string `toml:"route_template" json:"route_template" validate:"required,route_template"`
}

// Timeout returns the RPC timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.General.TimeoutMs) * time.Millisecond
}

// AgentAddr returns the FIB agent "host:port".
func (c *Config) AgentAddr() string {
	return net.JoinHostPort(c.General.Host, strconv.Itoa(int(c.Ports.FibAgentPort)))
}

// DecisionAddr returns the decision module "host:port".
func (c *Config) DecisionAddr() string {
	return net.JoinHostPort(c.General.Host, strconv.Itoa(int(c.Ports.DecisionRepPort)))
}

// ConfigFilePath returns the file the configuration was loaded from, or ""
// for built-in defaults.
func (c *Config) ConfigFilePath() string {
	return c._absConfigFilePath
}
