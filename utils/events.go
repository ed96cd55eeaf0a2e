package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/analytics-go"
)

// SegmentWriteKey is set at build time; telemetry is skipped when empty.
var SegmentWriteKey string

func getContext() *analytics.Context {
	version := "local"
	if build, ok := debug.ReadBuildInfo(); ok && strings.TrimSpace(build.Main.Version) != "" {
		version = strings.TrimSpace(build.Main.Version)
	}

	timezone, _ := time.Now().Zone()
	locale := os.Getenv("LANG")

	return &analytics.Context{
		App: analytics.AppInfo{
			Name:    "csvload",
			Version: version,
		},
		Location: analytics.LocationInfo{},
		OS: analytics.OSInfo{
			Name: fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH),
		},
		Locale:   locale,
		Timezone: timezone,
	}
}

func getUserId() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(home, ".csvload")
	if _, err = os.Stat(configDir); os.IsNotExist(err) {
		if err := os.Mkdir(configDir, 0o755); err != nil {
			return "", err
		}
	}

	userId := uuid.New().String()

	idFile := filepath.Join(configDir, "id")
	if _, err = os.Stat(idFile); os.IsNotExist(err) {
		if err := os.WriteFile(idFile, []byte(userId), 0o755); err != nil {
			return "", err
		}
	} else {
		data, err := os.ReadFile(idFile)
		if err != nil {
			return "", err
		}
		userId = string(data)
	}

	return userId, nil
}

// TrackIngestEvent sends an anonymous usage event. Failures are logged and
// never interrupt a running ingest.
func TrackIngestEvent(disabled bool, event string, properties map[string]interface{}) {
	if disabled || SegmentWriteKey == "" {
		return
	}

	userId, err := getUserId()
	if err != nil {
		logger.Debug().Str("err", err.Error()).Msg("failed to resolve telemetry id")
		return
	}

	client := analytics.New(SegmentWriteKey)
	defer client.Close()

	props := analytics.NewProperties()
	for key, value := range properties {
		props.Set(key, value)
	}

	if err := client.Enqueue(analytics.Track{
		UserId:     userId,
		Event:      event,
		Properties: props,
		Context:    getContext(),
	}); err != nil {
		logger.Debug().Str("err", err.Error()).Msg("failed to enqueue telemetry event")
	}
}
