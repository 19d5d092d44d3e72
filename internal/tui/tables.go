package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/kingrea/plantbalance/internal/analytics"
	"github.com/kingrea/plantbalance/internal/model"
)

const defaultTableHeight = 16

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(defaultTableHeight),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return t
}

func dailyBalanceTable(result *model.SimulationResult, decimals int32) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Resource", Width: 24},
		{Title: "Balance", Width: 14},
		{Title: "Unit", Width: 8},
	}
	var rows []table.Row
	for _, day := range result.Days {
		for _, id := range sortedKeys(day.ResourceBalance) {
			rows = append(rows, table.Row{
				day.Date.String(),
				result.Plant.ResourceLabel(id),
				day.ResourceBalance[id].StringFixed(decimals),
				result.Plant.ResourceUnit(id),
			})
		}
	}
	return newTable(columns, rows)
}

func productionTable(result *model.SimulationResult, decimals int32) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Product", Width: 26},
		{Title: "Quantity", Width: 14},
		{Title: "Unit", Width: 8},
	}
	var rows []table.Row
	for _, day := range result.Days {
		for _, id := range sortedKeys(day.ProductQuantities) {
			name, unit := id, ""
			if product, ok := result.Plant.Products[id]; ok {
				name, unit = product.Name, product.Unit
			}
			rows = append(rows, table.Row{
				day.Date.String(),
				name,
				day.ProductQuantities[id].StringFixed(decimals),
				unit,
			})
		}
	}
	return newTable(columns, rows)
}

func cumulativeTable(plant *model.Plant, summary *model.Summary, decimals int32) table.Model {
	columns := []table.Column{
		{Title: "Kind", Width: 10},
		{Title: "Name", Width: 26},
		{Title: "Total", Width: 14},
		{Title: "Unit", Width: 8},
	}
	var rows []table.Row
	for _, id := range sortedKeys(summary.ProductTotals) {
		name, unit := id, ""
		if product, ok := plant.Products[id]; ok {
			name, unit = product.Name, product.Unit
		}
		rows = append(rows, table.Row{"product", name, summary.ProductTotals[id].StringFixed(decimals), unit})
	}
	for _, id := range sortedKeys(summary.ResourceTotals) {
		rows = append(rows, table.Row{
			"resource",
			plant.ResourceLabel(id),
			summary.ResourceTotals[id].StringFixed(decimals),
			plant.ResourceUnit(id),
		})
	}
	return newTable(columns, rows)
}

func utilizationTable(summary *model.Summary, decimals int32) table.Model {
	columns := []table.Column{
		{Title: "Machine", Width: 22},
		{Title: "Key", Width: 18},
		{Title: "Peak", Width: 9},
		{Title: "Peak Date", Width: 12},
		{Title: "Average", Width: 9},
		{Title: "Flag", Width: 14},
	}
	var rows []table.Row
	for _, stat := range summary.Utilization {
		peak, average := fmt.Sprintf("%.1f%%", stat.Peak*100), fmt.Sprintf("%.1f%%", stat.Average*100)
		flag := ""
		if stat.Unbounded {
			peak, average = "-", "-"
			flag = "no limit"
		} else if stat.OverCapacity {
			flag = "over capacity"
		}
		rows = append(rows, table.Row{
			stat.MachineName,
			stat.Key,
			peak,
			stat.PeakDate.String(),
			average,
			flag,
		})
	}
	return newTable(columns, rows)
}

func seriesTable(series []analytics.Series) table.Model {
	columns := []table.Column{
		{Title: "Series", Width: 30},
		{Title: "Category", Width: 18},
		{Title: "Unit", Width: 8},
		{Title: "Points", Width: 8},
		{Title: "Total", Width: 14},
	}
	rows := make([]table.Row, 0, len(series))
	for _, s := range series {
		rows = append(rows, table.Row{
			s.Label,
			string(s.Category),
			s.Unit,
			fmt.Sprintf("%d", len(s.Points)),
			fmt.Sprintf("%.2f", s.Total()),
		})
	}
	return newTable(columns, rows)
}

func sortedKeys(values map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
