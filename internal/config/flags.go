package config

import "flag"

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging")
	flagUOPath        = flag.String("uo-path", "", "Client installation folder")
	flagClientVersion = flag.String("client-version", "", "Client version, e.g. 7.0.15.1")
	flagLogFile       = flag.String("log-file", "", "Write logs to this file")
	flagScale         = flag.Int("scale", 0, "Radar pixels per tile")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagUOPath != "" {
		cfg.Data.UOPath = *flagUOPath
	}
	if *flagClientVersion != "" {
		cfg.Data.ClientVersion = *flagClientVersion
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagScale > 0 {
		cfg.Radar.Scale = *flagScale
	}
}
