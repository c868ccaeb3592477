package config

const (
	defaultIngestBind      = "tcp://127.0.0.1:5557"
	defaultDispatchConnect = "tcp://127.0.0.1:5558"

	defaultScoringIterations = 600_000
	defaultScoringThreshold  = 50.0

	defaultChannelCapacity = 1024

	defaultConnectAttempts       = 30
	defaultConnectBackoffSeconds = 1

	defaultDataDir    = "~/.local/share/sift/data"
	defaultResultsDir = "~/.local/share/sift/results"
	defaultLogDir     = "~/.local/share/sift/logs"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Endpoints: Endpoints{
			IngestBind:      defaultIngestBind,
			DispatchConnect: defaultDispatchConnect,
		},
		Scoring: Scoring{
			Iterations: defaultScoringIterations,
			Threshold:  defaultScoringThreshold,
		},
		Pipeline: Pipeline{
			ChannelCapacity: defaultChannelCapacity,
		},
		Dispatch: Dispatch{
			ConnectAttempts:       defaultConnectAttempts,
			ConnectBackoffSeconds: defaultConnectBackoffSeconds,
		},
		Paths: Paths{
			DataDir:    defaultDataDir,
			ResultsDir: defaultResultsDir,
			LogDir:     defaultLogDir,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
