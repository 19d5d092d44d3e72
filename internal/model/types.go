// internal/model/types.go
//
// Core value types for the plant balance engine. A Plant is the resolved,
// indexed configuration: resources, machine groups, machines with daily
// capacities, and multi-step product recipes. Everything here is immutable
// once the catalog resolver has produced it; the simulator only reads.

package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Resource is a material or utility tracked by the balance, e.g. wood in m3
// or high-pressure steam in tons.
type Resource struct {
	ID   string
	Name string
	Unit string
}

// MachineGroup is a purely organizational grouping of machines. It carries no
// computational effect beyond recipe steps that target a whole group.
type MachineGroup struct {
	ID   string
	Name string
}

// Machine is physical equipment with zero or more declared daily capacities,
// keyed by capacity metric (a resource id or a generic throughput key such as
// "chip_throughput").
type Machine struct {
	ID       string
	Name     string
	GroupID  string
	Capacity map[string]decimal.Decimal
}

// StepTarget selects which machine(s) a recipe step runs on.
type StepTarget string

const (
	// TargetMachine pins the step to a single machine by id.
	TargetMachine StepTarget = "machine"
	// TargetGroup spreads the step across a machine group, optionally using
	// per-machine allocation shares.
	TargetGroup StepTarget = "group"
	// TargetOrderMachine runs the step on the machine named by the production
	// order itself.
	TargetOrderMachine StepTarget = "order_machine"
)

// RecipeStep is one stage of a product recipe. Effects holds signed per-unit
// resource coefficients (positive = consumption, negative = generation);
// CapacityUsage holds per-unit consumption of the target machine's declared
// capacity keys.
type RecipeStep struct {
	Name          string
	Target        StepTarget
	MachineID     string
	GroupID       string
	RequiredGroup string
	Allocation    map[string]decimal.Decimal
	CapacityUsage map[string]decimal.Decimal
	Effects       map[string]decimal.Decimal
}

// Product is something the plant manufactures, described by an ordered
// sequence of recipe steps. Step order has no effect on the computed balance
// but is preserved for reporting.
type Product struct {
	ID    string
	Name  string
	Unit  string
	Steps []RecipeStep
}

// ProductionOrder is one plan entry: produce Quantity units of a product on a
// date. MachineID is the order's final machine, used for attribution and for
// steps targeting the order machine; individual steps may touch other
// machines.
type ProductionOrder struct {
	Date      Date
	ProductID string
	MachineID string
	Quantity  decimal.Decimal
}

// Plant is the complete resolved plant configuration with id indexes.
type Plant struct {
	Resources     map[string]*Resource
	MachineGroups map[string]*MachineGroup
	Machines      map[string]*Machine
	Products      map[string]*Product

	machinesByGroup map[string][]*Machine
}

// NewPlant builds the group index over an already-validated entity set. The
// catalog resolver is the only expected caller outside of tests.
func NewPlant(resources map[string]*Resource, groups map[string]*MachineGroup, machines map[string]*Machine, products map[string]*Product) *Plant {
	byGroup := make(map[string][]*Machine, len(groups))
	for id := range groups {
		byGroup[id] = nil
	}
	for _, machine := range machines {
		byGroup[machine.GroupID] = append(byGroup[machine.GroupID], machine)
	}
	return &Plant{
		Resources:       resources,
		MachineGroups:   groups,
		Machines:        machines,
		Products:        products,
		machinesByGroup: byGroup,
	}
}

// Machine returns the machine with the given id.
func (p *Plant) Machine(id string) (*Machine, error) {
	machine, ok := p.Machines[id]
	if !ok {
		return nil, &ValidationError{Kind: DanglingReference, Entity: "machine", ID: id}
	}
	return machine, nil
}

// Product returns the product with the given id.
func (p *Plant) Product(id string) (*Product, error) {
	product, ok := p.Products[id]
	if !ok {
		return nil, &ValidationError{Kind: DanglingReference, Entity: "product", ID: id}
	}
	return product, nil
}

// MachinesInGroup returns the machines registered under a group. An empty
// group is an error: a group-targeted step cannot be allocated to nothing.
func (p *Plant) MachinesInGroup(groupID string) ([]*Machine, error) {
	machines, ok := p.machinesByGroup[groupID]
	if !ok {
		return nil, &ValidationError{Kind: DanglingReference, Entity: "machine_group", ID: groupID}
	}
	if len(machines) == 0 {
		return nil, fmt.Errorf("model: no machines registered in group %q", groupID)
	}
	return machines, nil
}

// ResourceLabel returns "Name" for a known resource and the raw id otherwise,
// so formatters never drop data the catalog does not describe.
func (p *Plant) ResourceLabel(id string) string {
	if resource, ok := p.Resources[id]; ok && resource.Name != "" {
		return resource.Name
	}
	return id
}

// ResourceUnit returns the display unit for a resource id, or "".
func (p *Plant) ResourceUnit(id string) string {
	if resource, ok := p.Resources[id]; ok {
		return resource.Unit
	}
	return ""
}
