package app

import "syscall"

// diskUsage returns disk usage stats for the given path, or nil on error.
func diskUsage(path string) map[string]any {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return nil
	}
	total := stat.Blocks * uint64(stat.Bsize)
	avail := stat.Bavail * uint64(stat.Bsize)
	used := total - stat.Bfree*uint64(stat.Bsize)
	out := map[string]any{
		"total_bytes":     total,
		"used_bytes":      used,
		"available_bytes": avail,
	}
	if total > 0 {
		out["used_percent"] = float64(used) / float64(total) * 100
	}
	return out
}
