package build

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// The following fields are populated at buildtime with -ldflags -X.
var (
	AppVersion  = "dev"
	GitRevision = ""
)

// Info build info
type Info struct {
	AppVersion  string `json:"version"`
	GitRevision string `json:"git_revision,omitempty"`
	GoVersion   string `json:"go_version"`
	Platform    string `json:"platform"`
}

func (b Info) String() string {
	rev := b.GitRevision
	if rev == "" {
		rev = "unknown"
	}
	return fmt.Sprintf("%v (rev %v, %v, %v)", b.AppVersion, rev, b.GoVersion, b.Platform)
}

// GetInfo return build info. Without a revision set at link time it falls back to
// the VCS stamp the go command embeds.
func GetInfo() Info {
	info := Info{
		AppVersion:  AppVersion,
		GitRevision: GitRevision,
		GoVersion:   runtime.Version(),
		Platform:    fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if info.GitRevision == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.GitRevision = s.Value
				}
			}
		}
	}
	return info
}
