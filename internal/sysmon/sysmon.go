// Package sysmon reads point-in-time host statistics for the stats endpoint
// and the TUI header.
package sysmon

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/appsweep/appsweep/pkg/utils"
)

// DiskStats describes the root volume.
type DiskStats struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
	TotalHuman  string  `json:"total_human"`
	FreeHuman   string  `json:"free_human"`
}

// MemoryStats describes physical memory.
type MemoryStats struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

// Stats is the full snapshot.
type Stats struct {
	Disk          DiskStats   `json:"disk"`
	Memory        MemoryStats `json:"memory"`
	CPUPercent    float64     `json:"cpu_percent"`
	UptimeSeconds uint64      `json:"uptime_seconds"`
	CollectedAt   time.Time   `json:"collected_at"`
}

// Collect gathers a snapshot. Probes that fail leave their section zeroed;
// a partially filled snapshot is still returned.
func Collect() (*Stats, error) {
	stats := &Stats{CollectedAt: time.Now()}

	if usage, err := disk.Usage("/"); err == nil {
		stats.Disk = DiskStats{
			Total:       usage.Total,
			Used:        usage.Used,
			Free:        usage.Free,
			UsedPercent: usage.UsedPercent,
			TotalHuman:  utils.FormatBytes(int64(usage.Total)),
			FreeHuman:   utils.FormatBytes(int64(usage.Free)),
		}
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.Memory = MemoryStats{
			Total:       vm.Total,
			Used:        vm.Used,
			Available:   vm.Available,
			UsedPercent: vm.UsedPercent,
		}
	}

	if percents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	if uptime, err := host.Uptime(); err == nil {
		stats.UptimeSeconds = uptime
	}

	return stats, nil
}
