package core

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// PlatformString returns a human-readable OS description.
// Examples: "Microsoft Windows 11 Pro 10.0.22631 (amd64)", "ubuntu 24.04 (amd64)".
func PlatformString(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil || info.Platform == "" {
		return fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH)
	}

	name := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	return fmt.Sprintf("%s (%s)", name, runtime.GOARCH)
}
