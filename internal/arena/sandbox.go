package arena

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// #region sandbox
// CommandSandbox runs an arena command in a per-round scratch directory.
// The scratch dir is the sandbox: it is created at Run start and removed on
// every exit path, so nothing survives between rounds except what the
// snapshot store carries forward.
type CommandSandbox struct {
	Spec        Spec
	ScratchRoot string
}

// NewCommandSandbox returns an executor for the given arena spec.
func NewCommandSandbox(spec Spec, scratchRoot string) *CommandSandbox {
	return &CommandSandbox{Spec: spec, ScratchRoot: scratchRoot}
}

// Run executes one round to completion or timeout.
func (s *CommandSandbox) Run(ctx context.Context, req RunRequest) (RawResult, error) {
	scratch := filepath.Join(s.ScratchRoot, "sandbox-"+uuid.New().String())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return RawResult{}, &ExecutionError{Arena: s.Spec.ID, Round: req.Round, Reason: "create sandbox", Err: err}
	}
	defer os.RemoveAll(scratch)

	timeout := time.Duration(s.Spec.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultPath := filepath.Join(scratch, "result.json")
	args := append([]string{}, s.Spec.Command[1:]...)
	args = append(args, "-o", resultPath, "-r", strconv.Itoa(req.Round), "--seed", strconv.FormatInt(req.Seed, 10))
	for _, name := range req.Players {
		args = append(args, req.Dirs[name])
	}

	cmd := exec.CommandContext(runCtx, s.Spec.Command[0], args...)
	cmd.Dir = s.Spec.Dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	log.Printf("[ARENA] %s round %d: running %s", s.Spec.ID, req.Round, s.Spec.Command[0])
	runErr := cmd.Run()
	timedOut := runCtx.Err() == context.DeadlineExceeded

	raw, parseErr := readResult(resultPath)
	raw.Log = out.String()

	switch {
	case parseErr == nil:
		// A written result wins even after timeout or nonzero exit: the
		// arena got far enough to attribute the outcome itself.
		return raw, nil
	case timedOut:
		return raw, fmt.Errorf("arena %s round %d after %s: %w", s.Spec.ID, req.Round, timeout, ErrExecutionTimeout)
	case runErr != nil:
		return raw, &ExecutionError{Arena: s.Spec.ID, Round: req.Round, Reason: "command failed: " + truncate(out.String(), 400), Err: runErr}
	default:
		return raw, &ExecutionError{Arena: s.Spec.ID, Round: req.Round, Reason: "no result written", Err: parseErr}
	}
}

// #endregion sandbox

// #region helpers

func readResult(path string) (RawResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RawResult{}, err
	}
	var raw RawResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawResult{}, fmt.Errorf("parse result: %w", err)
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// #endregion helpers
