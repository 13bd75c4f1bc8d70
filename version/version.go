// Package version exposes build information injected via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// These are overridden at build time, e.g.
//
//	-ldflags "-X github.com/jackzampolin/ocrstudio/version.GitRelease=v0.1.0"
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
	GoInfo        = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)
