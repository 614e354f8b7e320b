// Package config provides the configuration schema, loader, and file watcher
// for the Tilawa recitation analysis service.
package config

// LogLevel controls log verbosity for the Tilawa server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for Tilawa.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server ServerConfig `yaml:"server"`
	Engine EngineConfig `yaml:"engine"`
}

// ServerConfig holds network and logging settings for the Tilawa server.
type ServerConfig struct {
	// ListenAddr is the TCP address the API server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// MetricsAddr is the TCP address the Prometheus /metrics endpoint listens
	// on (e.g., ":9090"). The metrics listener is separate from the API
	// listener so that scrapes never compete with analysis traffic.
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the API server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// EngineConfig holds the tunable parameters of the analysis engine.
type EngineConfig struct {
	// UnrelatedThreshold is the different-verse detection threshold in the
	// open interval (0, 1). Zero selects the engine default.
	UnrelatedThreshold float64 `yaml:"unrelated_threshold"`

	// BestMatchThreshold is the minimum phonetic similarity score for the
	// best-match endpoint to report a verse match, in the open interval
	// (0, 1). Zero selects the matcher default.
	BestMatchThreshold float64 `yaml:"best_match_threshold"`

	// ComputeDiff controls whether the engine computes a code-point diff
	// itself when an analysis request carries none. Nil means enabled.
	ComputeDiff *bool `yaml:"compute_diff"`
}

// DiffFallback resolves the ComputeDiff tri-state into a boolean.
func (e EngineConfig) DiffFallback() bool {
	return e.ComputeDiff == nil || *e.ComputeDiff
}
