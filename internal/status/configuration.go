package status

import "strings"

const (
	configurationRootKeySuffixConstant                = ".root"
	configurationDeepKeySuffixConstant                = ".deep"
	configurationLocalOnlyKeySuffixConstant           = ".local_only"
	configurationQuietKeySuffixConstant               = ".quiet"
	configurationSequentialKeySuffixConstant          = ".sequential"
	configurationNoColorKeySuffixConstant             = ".no_color"
	configurationProbeTimeoutSecondsKeySuffixConstant = ".probe_timeout_seconds"
	defaultScanRootConstant                           = "."
)

// CommandConfiguration captures persistent settings for the status command.
type CommandConfiguration struct {
	Root                string `mapstructure:"root"`
	Deep                bool   `mapstructure:"deep"`
	LocalOnly           bool   `mapstructure:"local_only"`
	Quiet               bool   `mapstructure:"quiet"`
	Sequential          bool   `mapstructure:"sequential"`
	NoColor             bool   `mapstructure:"no_color"`
	ProbeTimeoutSeconds int    `mapstructure:"probe_timeout_seconds"`
}

// DefaultCommandConfiguration returns baseline configuration values for the status command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Root: defaultScanRootConstant,
	}
}

// DefaultConfigurationValues maps baseline settings onto configuration keys
// beneath the provided prefix for registration with the configuration loader.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + configurationRootKeySuffixConstant:                defaults.Root,
		configurationPrefix + configurationDeepKeySuffixConstant:                defaults.Deep,
		configurationPrefix + configurationLocalOnlyKeySuffixConstant:           defaults.LocalOnly,
		configurationPrefix + configurationQuietKeySuffixConstant:               defaults.Quiet,
		configurationPrefix + configurationSequentialKeySuffixConstant:          defaults.Sequential,
		configurationPrefix + configurationNoColorKeySuffixConstant:             defaults.NoColor,
		configurationPrefix + configurationProbeTimeoutSecondsKeySuffixConstant: defaults.ProbeTimeoutSeconds,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Root = strings.TrimSpace(configuration.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaultScanRootConstant
	}
	if sanitized.ProbeTimeoutSeconds < 0 {
		sanitized.ProbeTimeoutSeconds = 0
	}

	return sanitized
}
