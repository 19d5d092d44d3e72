// internal/export/excel.go
//
// Writes the simulation result to an Excel workbook with one sheet per view:
// daily production, daily resource balances, machine utilization, and the
// horizon summary. Values are written as numbers so the workbook stays usable
// for downstream spreadsheet work.

package export

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/kingrea/plantbalance/internal/model"
)

const (
	sheetProduction  = "Production"
	sheetResources   = "Resource Balance"
	sheetUtilization = "Utilization"
	sheetSummary     = "Summary"
)

// WriteWorkbook renders the result and summary into an xlsx file at path.
func WriteWorkbook(path string, result *model.SimulationResult, summary *model.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeProduction(f, result); err != nil {
		return err
	}
	if err := writeResources(f, result); err != nil {
		return err
	}
	if err := writeUtilization(f, result); err != nil {
		return err
	}
	if err := writeSummary(f, result, summary); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: drop default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

func writeProduction(f *excelize.File, result *model.SimulationResult) error {
	if _, err := f.NewSheet(sheetProduction); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := setRow(f, sheetProduction, 1, "Date", "Product", "Quantity", "Unit"); err != nil {
		return err
	}
	row := 2
	for _, day := range result.Days {
		for _, id := range sortedKeys(day.ProductQuantities) {
			name, unit := id, ""
			if product, ok := result.Plant.Products[id]; ok {
				name, unit = product.Name, product.Unit
			}
			quantity, _ := day.ProductQuantities[id].Float64()
			if err := setRow(f, sheetProduction, row, day.Date.String(), name, quantity, unit); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeResources(f *excelize.File, result *model.SimulationResult) error {
	if _, err := f.NewSheet(sheetResources); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := setRow(f, sheetResources, 1, "Date", "Resource", "Balance", "Unit"); err != nil {
		return err
	}
	row := 2
	for _, day := range result.Days {
		for _, id := range sortedKeys(day.ResourceBalance) {
			balance, _ := day.ResourceBalance[id].Float64()
			err := setRow(f, sheetResources, row,
				day.Date.String(), result.Plant.ResourceLabel(id), balance, result.Plant.ResourceUnit(id))
			if err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeUtilization(f *excelize.File, result *model.SimulationResult) error {
	if _, err := f.NewSheet(sheetUtilization); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := setRow(f, sheetUtilization, 1, "Date", "Machine", "Capacity Key", "Used", "Limit", "Utilization", "Over Capacity"); err != nil {
		return err
	}
	row := 2
	for _, day := range result.Days {
		machineIDs := make([]string, 0, len(day.MachineUsage))
		for id := range day.MachineUsage {
			machineIDs = append(machineIDs, id)
		}
		sort.Strings(machineIDs)
		for _, machineID := range machineIDs {
			usage := day.MachineUsage[machineID]
			for _, key := range sortedKeys(usage.CapacityUsed) {
				used, _ := usage.CapacityUsed[key].Float64()
				values := []any{day.Date.String(), usage.Machine.Name, key, used}
				if ratio, ok := usage.Utilization(key); ok {
					limit, _ := usage.Machine.Capacity[key].Float64()
					values = append(values, limit, ratio)
				} else {
					values = append(values, nil, nil)
				}
				values = append(values, usage.OverCapacity(key))
				if err := setRow(f, sheetUtilization, row, values...); err != nil {
					return err
				}
				row++
			}
		}
	}
	return nil
}

func writeSummary(f *excelize.File, result *model.SimulationResult, summary *model.Summary) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	row := 1
	if err := setRow(f, sheetSummary, row, "Window", summary.Range.Start.String(), summary.Range.End.String()); err != nil {
		return err
	}
	row += 2

	if err := setRow(f, sheetSummary, row, "Product", "Total Quantity", "Unit"); err != nil {
		return err
	}
	row++
	for _, id := range sortedKeys(summary.ProductTotals) {
		name, unit := id, ""
		if product, ok := result.Plant.Products[id]; ok {
			name, unit = product.Name, product.Unit
		}
		total, _ := summary.ProductTotals[id].Float64()
		if err := setRow(f, sheetSummary, row, name, total, unit); err != nil {
			return err
		}
		row++
	}
	row++

	if err := setRow(f, sheetSummary, row, "Resource", "Net Balance", "Unit"); err != nil {
		return err
	}
	row++
	for _, id := range sortedKeys(summary.ResourceTotals) {
		total, _ := summary.ResourceTotals[id].Float64()
		if err := setRow(f, sheetSummary, row, result.Plant.ResourceLabel(id), total, result.Plant.ResourceUnit(id)); err != nil {
			return err
		}
		row++
	}
	row++

	if err := setRow(f, sheetSummary, row, "Machine", "Capacity Key", "Peak", "Peak Date", "Average", "Over Capacity"); err != nil {
		return err
	}
	row++
	for _, stat := range summary.Utilization {
		var peak, average any
		if !stat.Unbounded {
			peak, average = stat.Peak, stat.Average
		}
		if err := setRow(f, sheetSummary, row, stat.MachineName, stat.Key, peak, stat.PeakDate.String(), average, stat.OverCapacity); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, value := range values {
		if value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("export: set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func sortedKeys(values map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
