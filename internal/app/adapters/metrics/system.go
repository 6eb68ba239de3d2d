package metrics

import (
	"context"
	"github.com/shirou/gopsutil/cpu"
	"time"
)

// CollectSystem samples host CPU usage into CPUUsage until ctx is done.
func CollectSystem(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if percent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percent) > 0 {
			CPUUsage.Set(percent[0])
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
