package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	Reset()
	defer Reset()

	stop := Track("pipeline.normalize")
	time.Sleep(time.Millisecond)
	stop()
	Track("pipeline.normalize")()
	Track("export.obj")()

	ss := Snapshot()
	if ss["pipeline.normalize"] < time.Millisecond {
		t.Errorf("normalize total %v, want at least 1ms", ss["pipeline.normalize"])
	}
	if _, ok := ss["export.obj"]; !ok {
		t.Errorf("export.obj not recorded")
	}
	if SumWithPrefix("pipeline.") != ss["pipeline.normalize"] {
		t.Errorf("SumWithPrefix mismatch")
	}
}

func TestTopN(t *testing.T) {
	Reset()
	defer Reset()

	mu.Lock()
	totals["a"] = 1500 * time.Microsecond
	totals["b"] = 3 * time.Millisecond
	totals["c"] = 200 * time.Microsecond
	mu.Unlock()

	got := TopN(2)
	if got != "b:3ms, a:1.5ms" {
		t.Errorf("TopN(2) = %q", got)
	}
	if !strings.HasSuffix(TopN(10), "c:0.2ms") {
		t.Errorf("TopN(10) = %q", TopN(10))
	}
}
