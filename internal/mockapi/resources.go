package mockapi

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"botpanel/internal/models"
)

const mb = 1024 * 1024

// sampleResources reads live host telemetry so the dashboard's system
// panel shows real numbers even against the mock backend. Sampling is
// best-effort: a probe failure leaves that figure at zero.
func sampleResources(ctx context.Context) models.SystemResources {
	var out models.SystemResources

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		out.CPUUsage = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		out.MemoryUsage = float64(vm.Used) / mb
		out.MemoryTotal = float64(vm.Total) / mb
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		out.DiskUsage = float64(du.Used) / mb
		out.DiskTotal = float64(du.Total) / mb
	}
	return out
}
