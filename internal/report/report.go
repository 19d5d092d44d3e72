// internal/report/report.go
//
// Renders simulation results as a plain-text report: one block per day
// followed by the consolidated horizon summary. The formatter only reads the
// result and summary objects; how they were computed is the simulator's
// business.

package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kingrea/plantbalance/internal/model"
)

// DefaultDecimals is the number of decimal places shown for quantities.
const DefaultDecimals = 2

// Format renders the full report with the given decimal precision.
func Format(result *model.SimulationResult, summary *model.Summary, decimals int32) string {
	if len(result.Days) == 0 {
		return "No production orders in the requested range."
	}

	var b strings.Builder
	for _, day := range result.Days {
		writeDay(&b, result.Plant, day, decimals)
	}
	writeSummary(&b, result.Plant, summary, decimals)
	return strings.TrimSpace(b.String())
}

func writeDay(b *strings.Builder, plant *model.Plant, day *model.DaySummary, decimals int32) {
	fmt.Fprintf(b, "Day %s\n", day.Date)

	if len(day.ProductQuantities) > 0 {
		b.WriteString("  Planned production:\n")
		for _, id := range sortedIDs(day.ProductQuantities) {
			fmt.Fprintf(b, "    - %s\n", formatProduct(plant, id, day.ProductQuantities[id], decimals))
		}
	}

	if len(day.MachineUsage) > 0 {
		b.WriteString("  Machine usage:\n")
		usages := make([]*model.MachineUsage, 0, len(day.MachineUsage))
		for _, usage := range day.MachineUsage {
			usages = append(usages, usage)
		}
		sort.Slice(usages, func(i, j int) bool {
			return usages[i].Machine.Name < usages[j].Machine.Name
		})
		for _, usage := range usages {
			writeMachineUsage(b, plant, usage, decimals)
		}
	}

	if len(day.ResourceBalance) > 0 {
		b.WriteString("  Resource balance:\n")
		for _, id := range sortedIDs(day.ResourceBalance) {
			fmt.Fprintf(b, "    - %s\n", formatResource(plant, id, day.ResourceBalance[id], decimals))
		}
	}

	if alerts := day.CapacityAlerts(); len(alerts) > 0 {
		sort.Slice(alerts, func(i, j int) bool {
			if alerts[i].MachineID != alerts[j].MachineID {
				return alerts[i].MachineID < alerts[j].MachineID
			}
			return alerts[i].Key < alerts[j].Key
		})
		b.WriteString("  Capacity alerts:\n")
		for _, alert := range alerts {
			if alert.Unbounded {
				fmt.Fprintf(b, "    - %s (%s) uses %s with no declared %s limit\n",
					alert.MachineName, alert.MachineID, alert.Used.StringFixed(decimals), alert.Key)
				continue
			}
			fmt.Fprintf(b, "    - %s (%s) exceeds %s: %s / %s\n",
				alert.MachineName, alert.MachineID, alert.Key,
				alert.Used.StringFixed(decimals), alert.Limit.StringFixed(decimals))
		}
	}
	b.WriteString("\n")
}

func writeMachineUsage(b *strings.Builder, plant *model.Plant, usage *model.MachineUsage, decimals int32) {
	fmt.Fprintf(b, "    - %s (%s)\n", usage.Machine.Name, usage.Machine.ID)
	for _, key := range sortedIDs(usage.CapacityUsed) {
		used := usage.CapacityUsed[key]
		if ratio, ok := usage.Utilization(key); ok {
			fmt.Fprintf(b, "        %s: %s / %s (%.1f%%)\n",
				key, used.StringFixed(decimals), usage.Machine.Capacity[key].StringFixed(decimals), ratio*100)
		} else {
			fmt.Fprintf(b, "        %s: %s (no declared limit)\n", key, used.StringFixed(decimals))
		}
	}
	if len(usage.ResourceBalance) > 0 {
		b.WriteString("        Attributed resources:\n")
		for _, id := range sortedIDs(usage.ResourceBalance) {
			fmt.Fprintf(b, "          %s\n", formatResource(plant, id, usage.ResourceBalance[id], decimals))
		}
	}
}

func writeSummary(b *strings.Builder, plant *model.Plant, summary *model.Summary, decimals int32) {
	b.WriteString("Horizon summary:\n")
	if len(summary.ProductTotals) > 0 {
		b.WriteString("  Cumulative production:\n")
		for _, id := range sortedIDs(summary.ProductTotals) {
			fmt.Fprintf(b, "    - %s\n", formatProduct(plant, id, summary.ProductTotals[id], decimals))
		}
	}
	if len(summary.ResourceTotals) > 0 {
		b.WriteString("  Cumulative resource balance:\n")
		for _, id := range sortedIDs(summary.ResourceTotals) {
			fmt.Fprintf(b, "    - %s\n", formatResource(plant, id, summary.ResourceTotals[id], decimals))
		}
	}
	if len(summary.Utilization) > 0 {
		b.WriteString("  Utilization peaks:\n")
		for _, stat := range summary.Utilization {
			if stat.Unbounded {
				fmt.Fprintf(b, "    - %s (%s) - %s: %s used with no declared limit (first on %s)\n",
					stat.MachineName, stat.MachineID, stat.Key,
					stat.PeakUsed.StringFixed(decimals), stat.PeakDate)
				continue
			}
			line := fmt.Sprintf("    - %s (%s) - %s: peak %.1f%% on %s (%s of %s), average %.1f%%",
				stat.MachineName, stat.MachineID, stat.Key,
				stat.Peak*100, stat.PeakDate,
				stat.PeakUsed.StringFixed(decimals), stat.Capacity.StringFixed(decimals),
				stat.Average*100)
			if stat.OverCapacity {
				line += " [over capacity]"
			}
			b.WriteString(line + "\n")
		}
	}
}

func formatProduct(plant *model.Plant, id string, quantity decimal.Decimal, decimals int32) string {
	name, unit := id, ""
	if product, ok := plant.Products[id]; ok {
		name, unit = product.Name, product.Unit
	}
	if unit != "" {
		return fmt.Sprintf("%s: %s %s", name, quantity.StringFixed(decimals), unit)
	}
	return fmt.Sprintf("%s: %s", name, quantity.StringFixed(decimals))
}

func formatResource(plant *model.Plant, id string, value decimal.Decimal, decimals int32) string {
	name := plant.ResourceLabel(id)
	unit := plant.ResourceUnit(id)
	if unit != "" {
		return fmt.Sprintf("%s: %s %s", name, value.StringFixed(decimals), unit)
	}
	return fmt.Sprintf("%s: %s", name, value.StringFixed(decimals))
}

func sortedIDs(values map[string]decimal.Decimal) []string {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
