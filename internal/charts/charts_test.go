package charts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tcgtools/drawcalc/internal/sim"
)

func TestRenderReport(t *testing.T) {
	union := sim.Probability(0.574)
	report := &sim.Report{
		PerCombo: map[string]sim.Probability{
			"opener": 0.3375,
			"backup": 0.2952,
		},
		UnionAll:      &union,
		MultiStarter:  map[int]sim.Probability{2: 0.098, 3: 0},
		MultiHandTrap: map[int]sim.Probability{1: 0.3375, 2: 0.03, 3: 0, 4: 0},
	}

	path := filepath.Join(t.TempDir(), "report.html")
	if err := RenderReport(report, DefaultChartConfig(), path); err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)

	for _, want := range []string{"opener", "backup", "Any combo", "2+ starters", "1+ hand traps", "Opening-hand probabilities"} {
		if !strings.Contains(html, want) {
			t.Errorf("chart HTML missing %q", want)
		}
	}
}

func TestRenderReportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	if err := RenderReport(&sim.Report{}, DefaultChartConfig(), path); err == nil {
		t.Error("RenderReport() accepted an empty report")
	}
}

func TestRenderReportLabelsSorted(t *testing.T) {
	report := &sim.Report{
		PerCombo: map[string]sim.Probability{
			"zeta":  0.1,
			"alpha": 0.2,
		},
	}

	path := filepath.Join(t.TempDir(), "report.html")
	if err := RenderReport(report, DefaultChartConfig(), path); err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if strings.Index(html, "alpha") > strings.Index(html, "zeta") {
		t.Error("combo labels not sorted alphabetically")
	}
}
