package profiler

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(WithInterval(time.Hour), WithLogger(log.New(&buf)))

	for i := 0; i < 10; i++ {
		if p.Tick(FrameStats{Visible: 6, Total: 10}) {
			t.Fatalf("tick %d logged before the interval elapsed", i)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}

	// pretend the interval has passed
	p.lastTime = time.Now().Add(-2 * time.Hour)
	if !p.Tick(FrameStats{Visible: 6, Total: 10, RingWaits: 4}) {
		t.Fatal("Tick() did not log after the interval")
	}
	out := buf.String()
	for _, want := range []string{"frame stats", "visible=6", "total=10", "waits=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if p.frameCount != 0 || p.visibleSum != 0 || p.lastWaits != 4 {
		t.Errorf("counters not reset: frames %d visible %d waits %d", p.frameCount, p.visibleSum, p.lastWaits)
	}
}
