package media

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultTool is looked up on PATH when no explicit path is configured.
const DefaultTool = "ffmpeg"

// ErrToolNotFound is returned when the extraction tool cannot be resolved.
var ErrToolNotFound = errors.New("ffmpeg not found. Install it or set FFMPEG_PATH to full executable path (e.g. C:/ffmpeg/bin/ffmpeg.exe)")

// Resolution describes where the extraction tool was found, if anywhere.
type Resolution struct {
	Configured string
	Resolved   string
	Available  bool
}

// Resolver locates the extraction tool: explicit path first, then PATH.
type Resolver struct {
	configured string

	lookPath func(string) (string, error)
	probe    func(ctx context.Context, exe string) error
}

func NewResolver(explicitPath string) *Resolver {
	return &Resolver{
		configured: strings.TrimSpace(explicitPath),
		lookPath:   exec.LookPath,
		probe:      probeVersion,
	}
}

// Configured returns the executable name that will be resolved.
func (r *Resolver) Configured() string {
	if r.configured != "" {
		return r.configured
	}
	return DefaultTool
}

// Resolve looks the tool up and checks that it runs.
func (r *Resolver) Resolve(ctx context.Context) Resolution {
	res := Resolution{Configured: r.Configured()}

	path, err := r.lookPath(res.Configured)
	if err != nil {
		log.Debug().Err(err).Str("tool", res.Configured).Msg("extraction tool lookup failed")
		return res
	}
	res.Resolved = path

	if err := r.probe(ctx, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("extraction tool did not run")
		return res
	}
	res.Available = true
	return res
}

// Executable returns the resolved path or ErrToolNotFound.
func (r *Resolver) Executable(ctx context.Context) (string, error) {
	res := r.Resolve(ctx)
	if !res.Available {
		return "", ErrToolNotFound
	}
	return res.Resolved, nil
}

func probeVersion(ctx context.Context, exe string) error {
	cmd := exec.CommandContext(ctx, exe, "-version")
	return cmd.Run()
}
