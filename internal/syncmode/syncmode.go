package syncmode

import (
	"go.uber.org/zap"
)

// Mode selects where the structured store is expected to replicate.
// The persistence contract is identical either way; the mode only records
// the outcome of the capability check.
type Mode string

const (
	ModeCloud Mode = "cloud"
	ModeLocal Mode = "local"
)

// String returns the string representation of the mode
func (m Mode) String() string {
	return string(m)
}

// Probe reports whether a cloud sync container is available at startup
type Probe interface {
	Available() bool
}

// ProbeFunc adapts a function to the Probe interface
type ProbeFunc func() bool

// Available implements Probe
func (f ProbeFunc) Available() bool {
	return f()
}

// NoCloud is the probe for builds without any cloud container
var NoCloud Probe = ProbeFunc(func() bool { return false })

// Detect runs the capability check once and returns the resulting mode
func Detect(probe Probe, logger *zap.Logger) Mode {
	if probe != nil && probe.Available() {
		logger.Info("Cloud sync container available", zap.String("mode", string(ModeCloud)))
		return ModeCloud
	}
	logger.Info("No cloud sync container, staying local", zap.String("mode", string(ModeLocal)))
	return ModeLocal
}
