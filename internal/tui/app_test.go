package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/kingrea/plantbalance/internal/analytics"
	"github.com/kingrea/plantbalance/internal/model"
)

func sampleApp(t *testing.T) App {
	t.Helper()
	machine := &model.Machine{
		ID: "d1", Name: "Digester 1", GroupID: "dig",
		Capacity: map[string]decimal.Decimal{"ton": decimal.NewFromInt(120)},
	}
	plant := model.NewPlant(
		map[string]*model.Resource{"steam": {ID: "steam", Name: "Steam", Unit: "t"}},
		map[string]*model.MachineGroup{"dig": {ID: "dig", Name: "Digesters"}},
		map[string]*model.Machine{"d1": machine},
		map[string]*model.Product{"pulp": {ID: "pulp", Name: "Pulp", Unit: "t"}},
	)
	usage := model.NewMachineUsage(machine)
	usage.AddCapacity(map[string]decimal.Decimal{"ton": decimal.NewFromInt(90)})
	result := &model.SimulationResult{
		Plant: plant,
		Range: model.DateRange{Start: model.NewDate(2024, time.January, 1), End: model.NewDate(2024, time.January, 1)},
		Days: []*model.DaySummary{{
			Date:              model.NewDate(2024, time.January, 1),
			ProductQuantities: map[string]decimal.Decimal{"pulp": decimal.NewFromInt(100)},
			MachineUsage:      map[string]*model.MachineUsage{"d1": usage},
			ResourceBalance:   map[string]decimal.Decimal{"steam": decimal.NewFromInt(-30)},
		}},
	}
	summary := &model.Summary{
		Range:          result.Range,
		ResourceTotals: result.OverallResourceBalance(),
		ProductTotals:  result.OverallProductQuantities(),
		Utilization: []model.UtilizationStat{{
			MachineID: "d1", MachineName: "Digester 1", Key: "ton",
			Peak: 0.75, PeakDate: model.NewDate(2024, time.January, 1), Average: 0.75,
		}},
	}
	series, err := analytics.BuildHourlySeries(result, analytics.DefaultSlotsPerDay)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	return NewApp(result, summary, series, 2)
}

func TestViewRendersTabsAndWindow(t *testing.T) {
	app := sampleApp(t)
	view := app.View()
	for _, want := range []string{"2024-01-01", "Daily Balance", "Production", "Utilization"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTabKeySwitchesActiveTable(t *testing.T) {
	app := sampleApp(t)
	updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	next, ok := updated.(App)
	if !ok {
		t.Fatalf("unexpected model type %T", updated)
	}
	if next.active != 1 {
		t.Fatalf("active tab = %d, want 1", next.active)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	back := updated.(App)
	if back.active != 0 {
		t.Fatalf("active tab = %d, want 0", back.active)
	}
}

func TestQuitKeys(t *testing.T) {
	app := sampleApp(t)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("expected quit message")
	} else if _, ok := msg.(tea.QuitMsg); !ok {
		t.Fatalf("unexpected message %T", msg)
	}
}

func TestWindowSizeResizesTables(t *testing.T) {
	app := sampleApp(t)
	updated, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	resized := updated.(App)
	if resized.width != 120 || resized.height != 40 {
		t.Fatalf("size not recorded: %dx%d", resized.width, resized.height)
	}
	if got := resized.tables[0].Height(); got != 34 {
		t.Fatalf("table height = %d, want 34", got)
	}
}
