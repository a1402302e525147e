package config

const (
	defaultOutDir    = "~/wwtxtp/txtp"
	defaultLogDir    = "~/.local/share/wwtxtp/logs"
	defaultIndexDir  = "~/.local/share/wwtxtp"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutDir:   defaultOutDir,
			LogDir:   defaultLogDir,
			IndexDir: defaultIndexDir,
		},
		Generate: Generate{
			GenerateUnused: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
