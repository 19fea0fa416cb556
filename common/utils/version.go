package utils

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X .../common/utils.Version=..." at build time.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildTime = "unknown"
)

func init() {
	if CommitSHA != "unknown" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			CommitSHA = setting.Value
		case "vcs.time":
			if BuildTime == "unknown" {
				BuildTime = setting.Value
			}
		}
	}
}

func GetVersionInfo() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit_sha": CommitSHA,
		"build_time": BuildTime,
		"go_version": runtime.Version(),
	}
}

func GetVersionString() string {
	sha := CommitSHA
	if len(sha) > 7 {
		sha = sha[:7]
	}
	return fmt.Sprintf("%s-%s", Version, sha)
}
