// internal/model/report.go
//
// Report-side types. The simulator emits one DaySummary per calendar day in
// the requested window and a SimulationResult wrapping the whole run; the
// aggregator reduces that into a Summary. All of it is derived data: nothing
// here mutates the plant or the plan.

package model

import "github.com/shopspring/decimal"

// MachineUsage aggregates what one machine did during one day: raw capacity
// consumption per capacity key and the resource balance attributed to steps
// that ran on it.
type MachineUsage struct {
	Machine         *Machine
	CapacityUsed    map[string]decimal.Decimal
	ResourceBalance map[string]decimal.Decimal
}

// NewMachineUsage returns an empty usage record for the machine.
func NewMachineUsage(machine *Machine) *MachineUsage {
	return &MachineUsage{
		Machine:         machine,
		CapacityUsed:    map[string]decimal.Decimal{},
		ResourceBalance: map[string]decimal.Decimal{},
	}
}

// AddCapacity accumulates capacity consumption. Zero values are skipped so
// the maps only carry keys that actually saw usage.
func (u *MachineUsage) AddCapacity(values map[string]decimal.Decimal) {
	for key, value := range values {
		if value.IsZero() {
			continue
		}
		u.CapacityUsed[key] = u.CapacityUsed[key].Add(value)
	}
}

// AddResourceBalance accumulates signed resource deltas.
func (u *MachineUsage) AddResourceBalance(values map[string]decimal.Decimal) {
	for key, value := range values {
		if value.IsZero() {
			continue
		}
		u.ResourceBalance[key] = u.ResourceBalance[key].Add(value)
	}
}

// Utilization returns used/declared for a capacity key. ok is false when the
// machine declares no (or zero) capacity for the key; the ratio is undefined
// there and callers must consult OverCapacity instead of dividing.
func (u *MachineUsage) Utilization(key string) (ratio float64, ok bool) {
	capacity, declared := u.Machine.Capacity[key]
	if !declared || capacity.IsZero() {
		return 0, false
	}
	used := u.CapacityUsed[key]
	ratio, _ = used.Div(capacity).Float64()
	return ratio, true
}

// OverCapacity reports whether usage of the key exceeds the declared limit,
// or whether there is nonzero usage against a zero/undeclared limit.
func (u *MachineUsage) OverCapacity(key string) bool {
	used := u.CapacityUsed[key]
	if used.IsZero() {
		return false
	}
	capacity, declared := u.Machine.Capacity[key]
	if !declared || capacity.IsZero() {
		return true
	}
	return used.GreaterThan(capacity)
}

// CapacityAlert flags one machine capacity key that was exceeded on a day.
// Unbounded means the machine declared no limit for the key at all, in which
// case Ratio is meaningless and left at zero.
type CapacityAlert struct {
	MachineID   string
	MachineName string
	Key         string
	Used        decimal.Decimal
	Limit       decimal.Decimal
	Ratio       float64
	Unbounded   bool
}

// DaySummary is the daily report: per-product planned quantities, per-machine
// usage, and the signed resource balance of the day.
type DaySummary struct {
	Date              Date
	ProductQuantities map[string]decimal.Decimal
	MachineUsage      map[string]*MachineUsage
	ResourceBalance   map[string]decimal.Decimal
}

// CapacityAlerts collects every over-capacity condition observed on the day.
func (d *DaySummary) CapacityAlerts() []CapacityAlert {
	var alerts []CapacityAlert
	for _, usage := range d.MachineUsage {
		for key, used := range usage.CapacityUsed {
			if !usage.OverCapacity(key) {
				continue
			}
			alert := CapacityAlert{
				MachineID:   usage.Machine.ID,
				MachineName: usage.Machine.Name,
				Key:         key,
				Used:        used,
			}
			if capacity, declared := usage.Machine.Capacity[key]; declared && !capacity.IsZero() {
				alert.Limit = capacity
				alert.Ratio, _ = usage.Utilization(key)
			} else {
				alert.Unbounded = true
			}
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// SimulationResult is the outcome of one simulation run: the plant it was
// computed against, the resolved window, and one DaySummary per day in it.
type SimulationResult struct {
	Plant *Plant
	Range DateRange
	Days  []*DaySummary
}

// OverallResourceBalance sums the per-day resource balances over the window.
func (r *SimulationResult) OverallResourceBalance() map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, day := range r.Days {
		for id, value := range day.ResourceBalance {
			totals[id] = totals[id].Add(value)
		}
	}
	return totals
}

// OverallProductQuantities sums planned production per product over the window.
func (r *SimulationResult) OverallProductQuantities() map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, day := range r.Days {
		for id, quantity := range day.ProductQuantities {
			totals[id] = totals[id].Add(quantity)
		}
	}
	return totals
}

// UtilizationStat is the per machine and capacity key view over the whole
// window: the peak day (earliest date wins ties) and the mean ratio across
// every day in range, days without usage counting as zero.
type UtilizationStat struct {
	MachineID   string
	MachineName string
	Key         string

	Peak     float64
	PeakDate Date
	PeakUsed decimal.Decimal
	Capacity decimal.Decimal
	Average  float64

	// OverCapacity is set when any day exceeded the declared limit.
	// Unbounded additionally marks usage against a zero/undeclared limit,
	// where no ratio exists at all.
	OverCapacity bool
	Unbounded    bool
}

// Summary is the aggregate report over the whole simulated window.
type Summary struct {
	Range          DateRange
	ResourceTotals map[string]decimal.Decimal
	ProductTotals  map[string]decimal.Decimal
	Utilization    []UtilizationStat
}
