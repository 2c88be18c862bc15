// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package execengine runs tool snippets and skill scripts under the
// adapter.CodeInterpreter collaborator, enforcing the timeout law of
// spec.md §5 and guaranteeing that a failure inside the child process
// never escapes as a Go error — it always comes back as a non-zero
// ExecResult.
//
// Grounded on original_source's ToolExecutor/SkillExecutor.
package execengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/adapter"
)

// timeoutSentinel is the stderr text spec.md §4.6/§5 mandate on timeout,
// alongside return_code 124.
const timeoutSentinel = "执行超时"

// runWithTimeout bounds fn to timeout and normalizes its outcome: a
// deadline exceeded becomes the timeout ExecResult, any other error
// becomes a return_code 1 ExecResult, and neither ever propagates as a Go
// error to the caller.
func runWithTimeout(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (adapter.ExecResult, error)) adapter.ExecResult {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := fn(runCtx)
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return adapter.ExecResult{Stderr: timeoutSentinel, ReturnCode: 124}
	}
	if err == nil {
		return result
	}
	return adapter.ExecResult{Stderr: fmt.Sprintf("execution error: %v", err), ReturnCode: 1}
}
