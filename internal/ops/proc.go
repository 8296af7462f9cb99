package ops

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// MaxTasklistRows limits the process table to the busiest processes.
const MaxTasklistRows = 20

type procRow struct {
	pid  int32
	name string
	cpu  float64
	mem  float32
}

// Tasklist formats a point-in-time snapshot of running processes,
// busiest CPU consumers first. Processes that vanish mid-walk are
// silently skipped; the snapshot carries no liveness guarantee.
func Tasklist(ctx context.Context, _ []string, _ string) (Result, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return Result{}, osError("tasklist", err)
	}

	rows := make([]procRow, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, _ := p.CPUPercentWithContext(ctx)
		memPct, _ := p.MemoryPercentWithContext(ctx)
		rows = append(rows, procRow{pid: p.Pid, name: name, cpu: cpuPct, mem: memPct})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].cpu > rows[j].cpu })
	if len(rows) > MaxTasklistRows {
		rows = rows[:MaxTasklistRows]
	}

	var sb strings.Builder
	sb.WriteString("PID     Name                    CPU%    Memory%\n")
	sb.WriteString(strings.Repeat("-", 50))
	for _, r := range rows {
		name := r.name
		if len(name) > 20 {
			name = name[:20]
		}
		fmt.Fprintf(&sb, "\n%-7d %-20s %-7.1f %.1f", r.pid, name, r.cpu, r.mem)
	}
	return ok(sb.String()), nil
}

// Taskkill terminates a process by pid or by name. The Windows-style
// "/pid N" and "/im name" forms produced by the translator are accepted
// alongside a bare pid or name. Kill of a vanished process reports
// not-found; it never ends the session.
func Taskkill(ctx context.Context, args []string, _ string) (Result, error) {
	target := args[0]
	byName := false

	switch strings.ToLower(target) {
	case "/pid":
		if len(args) < 2 {
			return Result{}, invalidArgument("taskkill", "/pid requires a process id")
		}
		target = args[1]
	case "/im":
		if len(args) < 2 {
			return Result{}, invalidArgument("taskkill", "/im requires a process name")
		}
		target = args[1]
		byName = true
	}

	if pid, err := strconv.Atoi(target); err == nil && !byName {
		return killByPid(ctx, int32(pid))
	}
	return killByName(ctx, target)
}

func killByPid(ctx context.Context, pid int32) (Result, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return Result{}, &HandlerError{Kind: KindNotFound, Op: "taskkill", Msg: fmt.Sprintf("process %d does not exist", pid)}
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		return Result{}, killError(pid, err)
	}
	return ok(fmt.Sprintf("Terminated process %d", pid)), nil
}

func killByName(ctx context.Context, name string) (Result, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return Result{}, osError("taskkill", err)
	}

	killed := 0
	for _, p := range procs {
		pname, err := p.NameWithContext(ctx)
		if err != nil || !strings.EqualFold(pname, name) {
			continue
		}
		if err := p.TerminateWithContext(ctx); err != nil {
			return Result{}, killError(p.Pid, err)
		}
		killed++
	}
	if killed == 0 {
		return Result{}, &HandlerError{Kind: KindNotFound, Op: "taskkill", Msg: fmt.Sprintf("no process named '%s'", name)}
	}
	return ok(fmt.Sprintf("Terminated %d process(es) named '%s'", killed, name)), nil
}

func killError(pid int32, err error) *HandlerError {
	if errors.Is(err, process.ErrorProcessNotRunning) {
		return &HandlerError{Kind: KindNotFound, Op: "taskkill", Msg: fmt.Sprintf("process %d no longer exists", pid)}
	}
	if strings.Contains(err.Error(), "permission") || strings.Contains(err.Error(), "not permitted") {
		return &HandlerError{Kind: KindPermissionDenied, Op: "taskkill", Msg: fmt.Sprintf("not allowed to terminate process %d", pid)}
	}
	return &HandlerError{Kind: KindInvalidArgument, Op: "taskkill", Msg: err.Error()}
}
