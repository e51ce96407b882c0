package provenance

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UnknownVersion is reported when no revision can be determined.
const UnknownVersion = "unknown"

// timestampLayout is ISO-8601 with a numeric offset, "+00:00" for UTC.
const timestampLayout = "2006-01-02T15:04:05-07:00"

// Stamp identifies one generation run.
type Stamp struct {
	Version   string
	Generated string
	RunID     string
}

// New stamps a run started now, taking the version from the git checkout
// containing dir ("" for the working directory).
func New(ctx context.Context, dir string) Stamp {
	return Stamp{
		Version:   GitVersion(ctx, dir),
		Generated: FormatTimestamp(time.Now()),
		RunID:     uuid.NewString(),
	}
}

// GitVersion returns the short hash of HEAD, or UnknownVersion when git is
// missing or dir is not inside a repository.
func GitVersion(ctx context.Context, dir string) string {
	args := []string{"rev-parse", "--short", "HEAD"}
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return UnknownVersion
	}
	if v := strings.TrimSpace(string(out)); v != "" {
		return v
	}
	return UnknownVersion
}

// FormatTimestamp renders t in UTC at second precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timestampLayout)
}
