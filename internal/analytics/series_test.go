package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kingrea/plantbalance/internal/model"
)

func sampleResult() *model.SimulationResult {
	machine := &model.Machine{
		ID: "d1", Name: "Digester 1", GroupID: "dig",
		Capacity: map[string]decimal.Decimal{"ton": decimal.NewFromInt(120)},
	}
	plant := model.NewPlant(
		map[string]*model.Resource{
			"steam": {ID: "steam", Name: "Steam", Unit: "t"},
			"fiber": {ID: "fiber", Name: "Fiber", Unit: "t"},
		},
		map[string]*model.MachineGroup{"dig": {ID: "dig", Name: "Digesters"}},
		map[string]*model.Machine{"d1": machine},
		map[string]*model.Product{"pulp": {ID: "pulp", Name: "Pulp", Unit: "t"}},
	)

	day := func(y int, m time.Month, d int, qty, ton, steam, fiber int64) *model.DaySummary {
		usage := model.NewMachineUsage(machine)
		usage.AddCapacity(map[string]decimal.Decimal{"ton": decimal.NewFromInt(ton)})
		return &model.DaySummary{
			Date:              model.NewDate(y, m, d),
			ProductQuantities: map[string]decimal.Decimal{"pulp": decimal.NewFromInt(qty)},
			MachineUsage:      map[string]*model.MachineUsage{"d1": usage},
			ResourceBalance: map[string]decimal.Decimal{
				"steam": decimal.NewFromInt(steam),
				"fiber": decimal.NewFromInt(fiber),
			},
		}
	}

	return &model.SimulationResult{
		Plant: plant,
		Range: model.DateRange{Start: model.NewDate(2024, time.January, 1), End: model.NewDate(2024, time.January, 2)},
		Days: []*model.DaySummary{
			day(2024, time.January, 1, 100, 90, -30, -70),
			day(2024, time.January, 2, 80, 60, -18, -50),
		},
	}
}

func sum(points []Point) float64 {
	var total float64
	for _, p := range points {
		total += p.Value
	}
	return total
}

func TestResourceSeriesPreservesDailyTotals(t *testing.T) {
	series := ResourceSeries(sampleResult(), DefaultSlotsPerDay)
	var steam *Series
	for i := range series {
		if series[i].ID == "steam" {
			steam = &series[i]
		}
	}
	if steam == nil {
		t.Fatal("no steam series")
	}
	if steam.Category != CategoryResource || steam.Unit != "t" {
		t.Fatalf("unexpected series %+v", steam)
	}
	if len(steam.Points) != 48 {
		t.Fatalf("expected 48 points, got %d", len(steam.Points))
	}
	if got := sum(steam.Points[:24]); math.Abs(got+30) > 1e-9 {
		t.Fatalf("first day total = %v, want -30", got)
	}
	if got := sum(steam.Points[24:]); math.Abs(got+18) > 1e-9 {
		t.Fatalf("second day total = %v, want -18", got)
	}
}

func TestProductSeriesUsesProductUnits(t *testing.T) {
	series := ProductSeries(sampleResult(), DefaultSlotsPerDay)
	if len(series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(series))
	}
	pulp := series[0]
	if pulp.ID != "pulp" || pulp.Unit != "t" || pulp.Label != "Pulp" {
		t.Fatalf("unexpected series %+v", pulp)
	}
	if got := sum(pulp.Points[:24]); math.Abs(got-100) > 1e-9 {
		t.Fatalf("first day total = %v, want 100", got)
	}
}

func TestMachineCapacitySeriesIdentifiesMachineAndKey(t *testing.T) {
	series := MachineCapacitySeries(sampleResult(), DefaultSlotsPerDay)
	if len(series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(series))
	}
	capacity := series[0]
	if capacity.ID != "d1::ton" || capacity.Category != CategoryMachineCapacity {
		t.Fatalf("unexpected series %+v", capacity)
	}
	if capacity.Label != "Digester 1 - ton" {
		t.Fatalf("unexpected label %q", capacity.Label)
	}
	if got := sum(capacity.Points[24:]); math.Abs(got-60) > 1e-9 {
		t.Fatalf("second day total = %v, want 60", got)
	}
}

func TestBuildHourlySeriesCombinesCategories(t *testing.T) {
	series, err := BuildHourlySeries(sampleResult(), DefaultSlotsPerDay)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	seen := map[Category]bool{}
	for _, s := range series {
		seen[s.Category] = true
	}
	for _, want := range []Category{CategoryResource, CategoryProduct, CategoryMachineCapacity} {
		if !seen[want] {
			t.Fatalf("missing category %s", want)
		}
	}
}

func TestBuildHourlySeriesRejectsBadSlots(t *testing.T) {
	if _, err := BuildHourlySeries(sampleResult(), 0); err == nil {
		t.Fatal("expected error for zero slots")
	}
}

func TestSeriesWithoutDataAreDropped(t *testing.T) {
	result := sampleResult()
	for _, day := range result.Days {
		day.ResourceBalance["fiber"] = decimal.Zero
	}
	series := ResourceSeries(result, DefaultSlotsPerDay)
	for _, s := range series {
		if s.ID == "fiber" {
			t.Fatal("all-zero series must be dropped")
		}
	}
}
