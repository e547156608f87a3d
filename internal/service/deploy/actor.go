package deploy

import (
	"context"
	"os"
	"os/user"

	"github.com/oshokin/qt-deploy/internal/logger"
)

// detectActor gathers host and user information for the run summary,
// so a shared run log tells who produced a release. Best effort only.
func detectActor(ctx context.Context) (hostname, username string) {
	hostname, err := os.Hostname()
	if err != nil {
		logger.DebugKV(ctx, "Unable to detect hostname", "error", err)

		hostname = "unknown"
	}

	current, err := user.Current()
	if err != nil {
		logger.DebugKV(ctx, "Unable to detect current user", "error", err)

		return hostname, "unknown"
	}

	return hostname, current.Username
}
