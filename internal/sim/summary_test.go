package sim

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kingrea/plantbalance/internal/model"
)

func simulateFixture(t *testing.T, orders []model.ProductionOrder, window model.DateRange) *model.SimulationResult {
	t.Helper()
	result, err := Simulate(pulpPlant(t), orders, window)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	return result
}

func TestSummarizeCumulativeTotalsMatchDays(t *testing.T) {
	result := simulateFixture(t, []model.ProductionOrder{
		order(date(2024, 1, 1), "pulpA", "digester1", "40"),
		order(date(2024, 1, 2), "pulpA", "digester1", "25"),
		order(date(2024, 1, 2), "pulpA", "digester1", "5"),
	}, model.DateRange{})

	summary := Summarize(result)

	wantWood := decimal.Zero
	wantQty := decimal.Zero
	for _, day := range result.Days {
		wantWood = wantWood.Add(day.ResourceBalance["wood"])
		wantQty = wantQty.Add(day.ProductQuantities["pulpA"])
	}
	if !summary.ResourceTotals["wood"].Equal(wantWood) {
		t.Fatalf("wood total = %s, want %s", summary.ResourceTotals["wood"], wantWood)
	}
	if !summary.ProductTotals["pulpA"].Equal(wantQty) {
		t.Fatalf("pulpA total = %s, want %s", summary.ProductTotals["pulpA"], wantQty)
	}
	if !wantWood.Equal(decimal.NewFromInt(140)) {
		t.Fatalf("fixture drifted: wood sum %s", wantWood)
	}
}

func TestSummarizePeakAndAverage(t *testing.T) {
	// Ratios 0.8 and 0.4 over a three-day window; the empty third day still
	// counts in the average denominator.
	result := simulateFixture(t, []model.ProductionOrder{
		order(date(2024, 1, 1), "pulpA", "digester1", "40"),
		order(date(2024, 1, 2), "pulpA", "digester1", "20"),
	}, model.DateRange{Start: date(2024, 1, 1), End: date(2024, 1, 3)})

	summary := Summarize(result)
	if len(summary.Utilization) != 1 {
		t.Fatalf("expected 1 utilization stat, got %d", len(summary.Utilization))
	}
	stat := summary.Utilization[0]
	if stat.MachineID != "digester1" || stat.Key != "wood" {
		t.Fatalf("unexpected stat %+v", stat)
	}
	if math.Abs(stat.Peak-0.8) > 1e-9 {
		t.Fatalf("peak = %v, want 0.8", stat.Peak)
	}
	if stat.PeakDate != date(2024, 1, 1) {
		t.Fatalf("peak date = %s, want 2024-01-01", stat.PeakDate)
	}
	if want := (0.8 + 0.4) / 3; math.Abs(stat.Average-want) > 1e-9 {
		t.Fatalf("average = %v, want %v", stat.Average, want)
	}
	if stat.OverCapacity || stat.Unbounded {
		t.Fatalf("unexpected flags on %+v", stat)
	}

	// The peak must equal an observed daily ratio and dominate all of them.
	for _, day := range result.Days {
		usage, ok := day.MachineUsage["digester1"]
		if !ok {
			continue
		}
		if ratio, ok := usage.Utilization("wood"); ok && ratio > stat.Peak+1e-9 {
			t.Fatalf("daily ratio %v exceeds peak %v", ratio, stat.Peak)
		}
	}
}

func TestSummarizePeakTieKeepsEarliestDate(t *testing.T) {
	result := simulateFixture(t, []model.ProductionOrder{
		order(date(2024, 1, 1), "pulpA", "digester1", "30"),
		order(date(2024, 1, 2), "pulpA", "digester1", "30"),
	}, model.DateRange{})

	stat := Summarize(result).Utilization[0]
	if stat.PeakDate != date(2024, 1, 1) {
		t.Fatalf("tie must keep the earliest date, got %s", stat.PeakDate)
	}
}

func TestSummarizePropagatesOverCapacity(t *testing.T) {
	result := simulateFixture(t, []model.ProductionOrder{
		order(date(2024, 1, 1), "pulpA", "digester1", "60"),
	}, model.DateRange{})

	stat := Summarize(result).Utilization[0]
	if !stat.OverCapacity {
		t.Fatal("over-capacity day must be flagged in the summary")
	}
	if math.Abs(stat.Peak-1.2) > 1e-9 {
		t.Fatalf("peak = %v, want 1.2", stat.Peak)
	}
}

func TestSummarizeUnboundedUsage(t *testing.T) {
	plant := pulpPlant(t)
	machine, err := plant.Machine("digester1")
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	machine.Capacity = map[string]decimal.Decimal{}

	result, err := Simulate(plant, []model.ProductionOrder{
		order(date(2024, 1, 1), "pulpA", "digester1", "10"),
		order(date(2024, 1, 2), "pulpA", "digester1", "30"),
	}, model.DateRange{})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	stat := Summarize(result).Utilization[0]
	if !stat.Unbounded || !stat.OverCapacity {
		t.Fatalf("expected unbounded flags, got %+v", stat)
	}
	if stat.PeakDate != date(2024, 1, 1) {
		t.Fatalf("first usage date = %s, want 2024-01-01", stat.PeakDate)
	}
	if !stat.PeakUsed.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("max usage = %s, want 60", stat.PeakUsed)
	}
}

func TestSummarizeEmptyResult(t *testing.T) {
	result := simulateFixture(t, nil, model.DateRange{})
	summary := Summarize(result)
	if len(summary.ResourceTotals) != 0 || len(summary.ProductTotals) != 0 || len(summary.Utilization) != 0 {
		t.Fatalf("empty run must produce an empty summary, got %+v", summary)
	}
}
