package check

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/backmassage/vidshrink/internal/config"
	"github.com/backmassage/vidshrink/internal/display"
)

// checkHost logs OS, CPU, memory and free space on the output volume.
// Failures are logged as warnings.
func checkHost(ctx context.Context, log Logger, cfg *config.Config) {
	if hi, err := host.InfoWithContext(ctx); err == nil {
		log.Info("OS: %s %s (kernel %s, %s)", hi.Platform, hi.PlatformVersion, hi.KernelVersion, hi.KernelArch)
	} else {
		log.Warn("Host info unavailable: %v", err)
	}

	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		log.Warn("CPU count unavailable: %v", err)
	} else {
		model := "unknown model"
		if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 && infos[0].ModelName != "" {
			model = infos[0].ModelName
		}
		log.Info("CPU: %d logical cores, %s", logical, model)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		log.Info("Memory: %s available of %s", display.FormatBytes(int64(vm.Available)), display.FormatBytes(int64(vm.Total)))
	} else {
		log.Warn("Memory info unavailable: %v", err)
	}

	dir := existingDir(cfg.OutputDir)
	usage, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		log.Warn("Disk usage unavailable for %s: %v", dir, err)
		return
	}
	free := display.FormatBytes(int64(usage.Free))
	if usage.Free < lowDiskBytes {
		log.Warn("Disk: only %s free on %s", free, dir)
		return
	}
	log.Info("Disk: %s free of %s on %s", free, display.FormatBytes(int64(usage.Total)), dir)
}
