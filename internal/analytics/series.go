// internal/analytics/series.go
//
// Expands daily simulation figures into evenly spread hourly series for the
// dashboard. A day's total is split across the configured number of slots, so
// summing a day's points always recovers the daily figure.

package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kingrea/plantbalance/internal/model"
)

// Category labels what a series measures.
type Category string

const (
	CategoryResource        Category = "resource_balance"
	CategoryProduct         Category = "product_output"
	CategoryMachineCapacity Category = "machine_capacity"
)

// DefaultSlotsPerDay spreads daily totals over 24 hourly points.
const DefaultSlotsPerDay = 24

// Point is one value at a timestamp.
type Point struct {
	Timestamp time.Time
	Value     float64
}

// Series is one expanded time series. Unit is empty when the underlying
// quantity has no display unit (machine capacity keys, unnamed products).
type Series struct {
	ID       string
	Label    string
	Category Category
	Unit     string
	Points   []Point
}

// Total sums every point in the series.
func (s Series) Total() float64 {
	var total float64
	for _, point := range s.Points {
		total += point.Value
	}
	return total
}

// BuildHourlySeries expands every category for the result. Series that never
// carry a nonzero value are dropped.
func BuildHourlySeries(result *model.SimulationResult, slotsPerDay int) ([]Series, error) {
	if slotsPerDay <= 0 {
		return nil, fmt.Errorf("analytics: slots per day must be positive, got %d", slotsPerDay)
	}
	var series []Series
	series = append(series, ResourceSeries(result, slotsPerDay)...)
	series = append(series, ProductSeries(result, slotsPerDay)...)
	series = append(series, MachineCapacitySeries(result, slotsPerDay)...)
	return series, nil
}

// ResourceSeries expands the per-day resource balances.
func ResourceSeries(result *model.SimulationResult, slotsPerDay int) []Series {
	ids := map[string]bool{}
	for id := range result.Plant.Resources {
		ids[id] = true
	}
	for _, day := range result.Days {
		for id := range day.ResourceBalance {
			ids[id] = true
		}
	}
	return expand(result, sortedKeys(ids), CategoryResource, slotsPerDay,
		func(day *model.DaySummary, id string) float64 {
			value, _ := day.ResourceBalance[id].Float64()
			return value
		},
		func(id string) (string, string) {
			return result.Plant.ResourceLabel(id), result.Plant.ResourceUnit(id)
		})
}

// ProductSeries expands the per-day produced quantities.
func ProductSeries(result *model.SimulationResult, slotsPerDay int) []Series {
	ids := map[string]bool{}
	for id := range result.Plant.Products {
		ids[id] = true
	}
	for _, day := range result.Days {
		for id := range day.ProductQuantities {
			ids[id] = true
		}
	}
	return expand(result, sortedKeys(ids), CategoryProduct, slotsPerDay,
		func(day *model.DaySummary, id string) float64 {
			value, _ := day.ProductQuantities[id].Float64()
			return value
		},
		func(id string) (string, string) {
			if product, ok := result.Plant.Products[id]; ok {
				return product.Name, product.Unit
			}
			return id, ""
		})
}

// MachineCapacitySeries expands per machine+capacity-key usage. Series ids
// take the form "machine::key".
func MachineCapacitySeries(result *model.SimulationResult, slotsPerDay int) []Series {
	ids := map[string]bool{}
	for _, day := range result.Days {
		for machineID, usage := range day.MachineUsage {
			for key := range usage.CapacityUsed {
				ids[machineID+"::"+key] = true
			}
		}
	}
	return expand(result, sortedKeys(ids), CategoryMachineCapacity, slotsPerDay,
		func(day *model.DaySummary, id string) float64 {
			machineID, key := splitCapacityID(id)
			usage, ok := day.MachineUsage[machineID]
			if !ok {
				return 0
			}
			value, _ := usage.CapacityUsed[key].Float64()
			return value
		},
		func(id string) (string, string) {
			machineID, key := splitCapacityID(id)
			name := machineID
			if machine, ok := result.Plant.Machines[machineID]; ok {
				name = machine.Name
			}
			return name + " - " + key, ""
		})
}

func expand(result *model.SimulationResult, ids []string, category Category, slotsPerDay int,
	extract func(*model.DaySummary, string) float64, describe func(string) (label, unit string)) []Series {

	var out []Series
	for _, id := range ids {
		points := make([]Point, 0, len(result.Days)*slotsPerDay)
		hasData := false
		for _, day := range result.Days {
			total := extract(day, id)
			if !hasData && (total > 1e-9 || total < -1e-9) {
				hasData = true
			}
			base := day.Date.Time()
			portion := total / float64(slotsPerDay)
			step := 24 * time.Hour / time.Duration(slotsPerDay)
			for slot := 0; slot < slotsPerDay; slot++ {
				points = append(points, Point{
					Timestamp: base.Add(time.Duration(slot) * step),
					Value:     portion,
				})
			}
		}
		if !hasData {
			continue
		}
		label, unit := describe(id)
		out = append(out, Series{ID: id, Label: label, Category: category, Unit: unit, Points: points})
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func splitCapacityID(id string) (machineID, key string) {
	machineID, key, _ = strings.Cut(id, "::")
	return machineID, key
}
