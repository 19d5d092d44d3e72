// internal/sim/summary.go
//
// Reduces the day sequence into the horizon summary: cumulative balances and
// quantities, plus per machine/capacity-key utilization peaks and averages.
// The aggregator is pure and cannot fail on well-formed day summaries;
// over-capacity conditions are carried through as flags, never raised.

package sim

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kingrea/plantbalance/internal/model"
)

type pairKey struct {
	machineID string
	capKey    string
}

type utilizationAccum struct {
	machine *model.Machine
	key     string

	ratioSum     float64
	peak         float64
	peakDate     model.Date
	peakUsed     decimal.Decimal
	hasPeak      bool
	overCapacity bool
	unbounded    bool
	firstUsed    model.Date
	maxUsed      decimal.Decimal
}

// Summarize aggregates a simulation result over its whole window. Average
// utilization divides by the number of days in range: a day where the machine
// sat idle counts as zero, it does not shrink the denominator.
func Summarize(result *model.SimulationResult) *model.Summary {
	summary := &model.Summary{
		Range:          result.Range,
		ResourceTotals: result.OverallResourceBalance(),
		ProductTotals:  result.OverallProductQuantities(),
	}

	accums := map[pairKey]*utilizationAccum{}
	for _, day := range result.Days {
		for _, usage := range day.MachineUsage {
			for key, used := range usage.CapacityUsed {
				if used.IsZero() {
					continue
				}
				pk := pairKey{machineID: usage.Machine.ID, capKey: key}
				accum, ok := accums[pk]
				if !ok {
					accum = &utilizationAccum{machine: usage.Machine, key: key}
					accums[pk] = accum
				}
				accum.observe(day.Date, usage, used)
			}
		}
	}

	days := len(result.Days)
	stats := make([]model.UtilizationStat, 0, len(accums))
	for _, accum := range accums {
		stats = append(stats, accum.stat(days))
	}
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.Unbounded != b.Unbounded {
			return a.Unbounded
		}
		if a.Peak != b.Peak {
			return a.Peak > b.Peak
		}
		if a.MachineID != b.MachineID {
			return a.MachineID < b.MachineID
		}
		return a.Key < b.Key
	})
	summary.Utilization = stats
	return summary
}

func (a *utilizationAccum) observe(day model.Date, usage *model.MachineUsage, used decimal.Decimal) {
	ratio, ok := usage.Utilization(a.key)
	if !ok {
		// Nonzero usage against a zero or undeclared limit: no ratio exists.
		a.unbounded = true
		a.overCapacity = true
		if a.firstUsed.IsZero() {
			a.firstUsed = day
		}
		if used.GreaterThan(a.maxUsed) {
			a.maxUsed = used
		}
		return
	}
	a.ratioSum += ratio
	if usage.OverCapacity(a.key) {
		a.overCapacity = true
	}
	// Strict comparison keeps the earliest date on ties; days arrive in order.
	if !a.hasPeak || ratio > a.peak {
		a.hasPeak = true
		a.peak = ratio
		a.peakDate = day
		a.peakUsed = used
	}
}

func (a *utilizationAccum) stat(daysInRange int) model.UtilizationStat {
	stat := model.UtilizationStat{
		MachineID:    a.machine.ID,
		MachineName:  a.machine.Name,
		Key:          a.key,
		Capacity:     a.machine.Capacity[a.key],
		OverCapacity: a.overCapacity,
		Unbounded:    a.unbounded,
	}
	if a.unbounded {
		stat.PeakDate = a.firstUsed
		stat.PeakUsed = a.maxUsed
		return stat
	}
	stat.Peak = a.peak
	stat.PeakDate = a.peakDate
	stat.PeakUsed = a.peakUsed
	if daysInRange > 0 {
		stat.Average = a.ratioSum / float64(daysInRange)
	}
	return stat
}
