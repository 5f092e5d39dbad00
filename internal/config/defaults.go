package config

import "path/filepath"

const (
	defaultConfigPath = "~/.config/tagclean/config.toml"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
	defaultRetention  = 30
	defaultFFprobe    = "ffprobe"
	defaultFFmpeg     = "ffmpeg"
	historyFileName   = "history.db"
)

var defaultExtensions = []string{".flac", ".mp3", ".m4a", ".ogg", ".opus", ".wav", ".aiff"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	stateDir := defaultStateDir()
	return Config{
		Paths: Paths{
			LogDir:      filepath.Join(stateDir, "logs"),
			HistoryPath: filepath.Join(stateDir, historyFileName),
			LockDir:     filepath.Join(stateDir, "locks"),
		},
		Scan: Scan{
			Recursive:  true,
			Extensions: append([]string(nil), defaultExtensions...),
		},
		Tools: Tools{
			FFprobe: defaultFFprobe,
			FFmpeg:  defaultFFmpeg,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetention,
		},
	}
}
