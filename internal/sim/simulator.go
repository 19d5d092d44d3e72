// internal/sim/simulator.go
//
// The balance simulator. It walks the requested window one calendar day at a
// time, resolves each order's recipe steps against the plant, and accumulates
// resource deltas, machine capacity usage, and produced quantities. One pass
// per order over its product's steps, O(1) per step via the plant indexes;
// days with no orders still produce an (empty) DaySummary.

package sim

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kingrea/plantbalance/internal/model"
)

// machineShare is one machine touched by a step together with the fraction of
// the order quantity allocated to it.
type machineShare struct {
	machine *model.Machine
	share   decimal.Decimal
}

// Simulate computes a DaySummary for every day in the window. Zero window
// bounds default to the first/last order date present. The plant and orders
// are never mutated; calling Simulate twice on the same inputs yields
// identical results.
func Simulate(plant *model.Plant, orders []model.ProductionOrder, window model.DateRange) (*model.SimulationResult, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	window = resolveWindow(window, orders)

	byDay := make(map[model.Date][]model.ProductionOrder)
	for _, order := range orders {
		if !window.Contains(order.Date) {
			continue
		}
		byDay[order.Date] = append(byDay[order.Date], order)
	}

	result := &model.SimulationResult{Plant: plant, Range: window}
	if window.Start.IsZero() || window.End.IsZero() {
		// An open bound that no order date could close: nothing to simulate.
		return result, nil
	}

	for day := window.Start; !day.After(window.End); day = day.Next() {
		summary, err := simulateDay(plant, day, byDay[day])
		if err != nil {
			return nil, err
		}
		result.Days = append(result.Days, summary)
	}
	return result, nil
}

func simulateDay(plant *model.Plant, day model.Date, orders []model.ProductionOrder) (*model.DaySummary, error) {
	summary := &model.DaySummary{
		Date:              day,
		ProductQuantities: map[string]decimal.Decimal{},
		MachineUsage:      map[string]*model.MachineUsage{},
		ResourceBalance:   map[string]decimal.Decimal{},
	}

	for _, order := range orders {
		product, err := plant.Product(order.ProductID)
		if err != nil {
			return nil, err
		}
		summary.ProductQuantities[product.ID] = summary.ProductQuantities[product.ID].Add(order.Quantity)

		for i := range product.Steps {
			step := &product.Steps[i]
			shares, err := resolveStepMachines(plant, step, order)
			if err != nil {
				return nil, err
			}
			for _, target := range shares {
				factor := order.Quantity.Mul(target.share)
				usage, ok := summary.MachineUsage[target.machine.ID]
				if !ok {
					usage = model.NewMachineUsage(target.machine)
					summary.MachineUsage[target.machine.ID] = usage
				}
				usage.AddCapacity(scale(step.CapacityUsage, factor))

				delta := scale(step.Effects, factor)
				usage.AddResourceBalance(delta)
				for id, value := range delta {
					summary.ResourceBalance[id] = summary.ResourceBalance[id].Add(value)
				}
			}
		}
	}
	return summary, nil
}

// resolveStepMachines maps a step onto concrete machines. Fixed-machine and
// order-machine steps resolve to a single machine with share 1; group steps
// split the quantity across the group by normalized allocation shares.
func resolveStepMachines(plant *model.Plant, step *model.RecipeStep, order model.ProductionOrder) ([]machineShare, error) {
	switch step.Target {
	case model.TargetOrderMachine:
		machine, err := plant.Machine(order.MachineID)
		if err != nil {
			return nil, err
		}
		if step.RequiredGroup != "" && machine.GroupID != step.RequiredGroup {
			// The order's machine and the step's expectation diverge. Surface
			// it instead of silently favoring either machine.
			return nil, fmt.Errorf("sim: order for %q on %s uses machine %q outside required group %q",
				order.ProductID, order.Date, machine.ID, step.RequiredGroup)
		}
		return []machineShare{{machine: machine, share: decimal.NewFromInt(1)}}, nil

	case model.TargetMachine:
		machine, err := plant.Machine(step.MachineID)
		if err != nil {
			return nil, err
		}
		return []machineShare{{machine: machine, share: decimal.NewFromInt(1)}}, nil

	case model.TargetGroup:
		machines, err := plant.MachinesInGroup(step.GroupID)
		if err != nil {
			return nil, err
		}
		return allocateGroup(step, machines)

	default:
		return nil, fmt.Errorf("sim: step %q has unknown target %q", step.Name, step.Target)
	}
}

// allocateGroup normalizes allocation shares over the group's machines. With
// no allocation every machine gets an equal share; with one, shares are
// scaled so the listed machines sum to 1. An all-zero allocation falls back
// to an equal split over the machines it names.
func allocateGroup(step *model.RecipeStep, machines []*model.Machine) ([]machineShare, error) {
	if len(step.Allocation) == 0 {
		share := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(machines))))
		shares := make([]machineShare, 0, len(machines))
		for _, machine := range machines {
			shares = append(shares, machineShare{machine: machine, share: share})
		}
		return shares, nil
	}

	named := make([]machineShare, 0, len(machines))
	total := decimal.Zero
	for _, machine := range machines {
		value, ok := step.Allocation[machine.ID]
		if !ok {
			continue
		}
		if value.IsNegative() {
			return nil, fmt.Errorf("sim: step %q: negative allocation for machine %q", step.Name, machine.ID)
		}
		named = append(named, machineShare{machine: machine, share: value})
		total = total.Add(value)
	}
	if len(named) == 0 {
		return nil, fmt.Errorf("sim: step %q: allocation matches no machine in group %q", step.Name, step.GroupID)
	}
	if total.IsZero() {
		share := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(named))))
		for i := range named {
			named[i].share = share
		}
		return named, nil
	}
	shares := named[:0]
	for _, entry := range named {
		if entry.share.IsZero() {
			continue
		}
		entry.share = entry.share.Div(total)
		shares = append(shares, entry)
	}
	return shares, nil
}

// resolveWindow closes any open window bound using the order dates that fall
// inside the bounds that were given.
func resolveWindow(window model.DateRange, orders []model.ProductionOrder) model.DateRange {
	if !window.Start.IsZero() && !window.End.IsZero() {
		return window
	}
	derived := window
	for _, order := range orders {
		if !window.Contains(order.Date) {
			continue
		}
		if window.Start.IsZero() && (derived.Start.IsZero() || order.Date.Before(derived.Start)) {
			derived.Start = order.Date
		}
		if window.End.IsZero() && (derived.End.IsZero() || order.Date.After(derived.End)) {
			derived.End = order.Date
		}
	}
	return derived
}

func scale(values map[string]decimal.Decimal, factor decimal.Decimal) map[string]decimal.Decimal {
	if len(values) == 0 {
		return nil
	}
	scaled := make(map[string]decimal.Decimal, len(values))
	for key, value := range values {
		scaled[key] = value.Mul(factor)
	}
	return scaled
}
