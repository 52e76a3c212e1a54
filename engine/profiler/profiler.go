// package profiler reports frame rate, culling and memory statistics through the engine logger.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/charmbracelet/log"
)

// FrameStats is what one tick reports to the profiler.
type FrameStats struct {
	// Visible is the number of instances the culler kept.
	Visible int
	// Total is the number of instances the culler examined.
	Total int
	// RingWaits is the ring's cumulative count of blocked slot advances.
	RingWaits uint64
}

// Profiler tracks frame rate, visibility and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastWaits      uint64

	visibleSum int
	totalSum   int

	logger *log.Logger
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: a variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.With("profiler")
	}
	return p
}

// Tick should be called once per frame with that frame's statistics.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, average visible vs. total instances, ring waits, heap usage,
// allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - stats: the statistics of the frame just submitted
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats FrameStats) bool {
	p.frameCount++
	p.visibleSum += stats.Visible
	p.totalSum += stats.Total

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	visible := float64(p.visibleSum) / float64(p.frameCount)
	total := float64(p.totalSum) / float64(p.frameCount)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info("frame stats",
		"fps", fps,
		"visible", visible,
		"total", total,
		"waits", stats.RingWaits-p.lastWaits,
		"heapMB", allocMB,
		"allocMBps", allocRateMB,
		"gc", gcCount,
		"lastPauseUs", lastPauseUs,
		"maxPauseUs", maxPauseUs,
		"sysMB", sysMB,
	)

	p.frameCount = 0
	p.visibleSum = 0
	p.totalSum = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.lastWaits = stats.RingWaits
	return true
}
