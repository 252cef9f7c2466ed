package config

// Overrides holds command line values that replace file values. Nil fields
// keep the file (or default) value.
type Overrides struct {
	Host            *string
	FibAgentPort    *uint16
	DecisionRepPort *uint16
	ClientID        *int16
	TimeoutMs       *int
}

// ApplyOverrides merges o into c. Validation is left to ValidateConfig.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Host != nil {
		c.General.Host = *o.Host
	}
	if o.FibAgentPort != nil {
		c.Ports.FibAgentPort = *o.FibAgentPort
	}
	if o.DecisionRepPort != nil {
		c.Ports.DecisionRepPort = *o.DecisionRepPort
	}
	if o.ClientID != nil {
		c.General.ClientID = *o.ClientID
	}
	if o.TimeoutMs != nil {
		c.General.TimeoutMs = *o.TimeoutMs
	}
}
