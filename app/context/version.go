package context

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// VersionInfo describes the build of the application.
type VersionInfo struct {
	Semantic string
	Commit   string
	Dirty    bool
}

// String returns the version in a human readable format.
func (v *VersionInfo) String() string {
	var sb strings.Builder
	sb.WriteString(v.Semantic)
	if v.Commit != "" {
		commit := v.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&sb, " (%s", commit)
		if v.Dirty {
			sb.WriteString("-dirty")
		}
		sb.WriteString(")")
	}

	return sb.String()
}

// GetVersion returns the version of the running binary, read from the build
// information embedded by the Go toolchain.
func GetVersion() (*VersionInfo, error) {
	vi := &VersionInfo{Semantic: "(devel)"}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return vi, nil
	}

	if v := info.Main.Version; v != "" {
		vi.Semantic = v
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			vi.Commit = s.Value
		case "vcs.modified":
			vi.Dirty = s.Value == "true"
		}
	}

	return vi, nil
}
