package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// cpuSampleInterval is the measurement window for the cpu command.
const cpuSampleInterval = 500 * time.Millisecond

// CPU reports overall CPU utilization over a short sample window.
func CPU(ctx context.Context, _ []string, _ string) (Result, error) {
	percents, err := cpu.PercentWithContext(ctx, cpuSampleInterval, false)
	if err != nil {
		return Result{}, osError("cpu", err)
	}
	usage := 0.0
	if len(percents) > 0 {
		usage = percents[0]
	}
	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		cores = 0
	}
	return ok(fmt.Sprintf("CPU Usage: %.1f%% (Cores: %d)", usage, cores)), nil
}

// Mem reports virtual memory utilization.
func Mem(ctx context.Context, _ []string, _ string) (Result, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Result{}, osError("mem", err)
	}
	const gb = 1 << 30
	return ok(fmt.Sprintf("Memory: %.1f%% used (%.1fGB / %.1fGB)",
		vm.UsedPercent, float64(vm.Used)/gb, float64(vm.Total)/gb)), nil
}
