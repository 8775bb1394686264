// Package jarhell runs the platform-collision check in an isolated worker
// process. Comparing class identities against the platform's own namespace
// must not happen on the host's classpath, so the binary re-invokes itself
// with a dedicated command and a single request/response exchange.
package jarhell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/miivari/jaraudit/internal/domain"
)

// WorkerChecker implements domain.CollisionChecker by spawning the hidden
// jarhell-worker command of this same binary.
type WorkerChecker struct {
	// Binary overrides the executable to spawn. Defaults to the running one.
	Binary string
	// PlatformClassList is forwarded to the worker when set.
	PlatformClassList string
}

func New() *WorkerChecker { return &WorkerChecker{} }

// Check invokes the worker, waits for completion, and interprets exit status
// plus payload. A non-zero exit without a well-framed payload, or a payload
// that cannot be parsed, is a *domain.ToolCrashedError, never "no collisions".
func (c *WorkerChecker) Check(ctx context.Context, jars []domain.ArchiveRef) ([]domain.CollisionEntry, error) {
	binary := c.Binary
	if binary == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, &domain.ToolCrashedError{Detail: "locating worker binary", Err: err}
		}
		binary = exe
	}

	args := []string{"jarhell-worker"}
	if c.PlatformClassList != "" {
		args = append(args, "--platform-classlist", c.PlatformClassList)
	}
	for _, jar := range jars {
		args = append(args, "--jar", jar.Coordinate+"="+jar.Path)
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		detail := "worker canceled before completion"
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			detail = "worker timed out"
		}
		return nil, &domain.ToolCrashedError{Detail: detail, Err: ctxErr}
	}

	collisions, ok := ParsePayload(stdout.String())
	if !ok {
		detail := fmt.Sprintf("no structured payload (stderr: %s)", strings.TrimSpace(stderr.String()))
		return nil, &domain.ToolCrashedError{Detail: detail, Err: runErr}
	}
	if runErr != nil && len(collisions) == 0 {
		// Well-framed payload but a failing exit with nothing reported:
		// the worker died after framing, treat as a crash.
		return nil, &domain.ToolCrashedError{Detail: "worker exited abnormally with empty payload", Err: runErr}
	}
	return collisions, nil
}
