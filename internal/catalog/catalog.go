// internal/catalog/catalog.go
//
// Loads and resolves the plant configuration document. Resolution validates
// everything eagerly - duplicate ids, dangling references, negative values -
// and indexes the entities so the simulator gets O(1) lookups. The produced
// *model.Plant is immutable from here on.

package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/kingrea/plantbalance/internal/model"
)

// Document is the raw, unvalidated shape of the plant configuration file.
type Document struct {
	Resources     []ResourceDoc `json:"resources"`
	MachineGroups []GroupDoc    `json:"machine_groups"`
	Machines      []MachineDoc  `json:"machines"`
	Products      []ProductDoc  `json:"products"`
}

// ResourceDoc declares one tracked material or utility.
type ResourceDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// GroupDoc declares one machine group.
type GroupDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MachineDoc declares one machine and its daily capacities per capacity key.
type MachineDoc struct {
	ID       string                     `json:"id"`
	Name     string                     `json:"name"`
	GroupID  string                     `json:"group_id"`
	Capacity map[string]decimal.Decimal `json:"capacity"`
}

// StepDoc declares one recipe step.
type StepDoc struct {
	Name            string                     `json:"name"`
	Target          string                     `json:"target"`
	MachineID       string                     `json:"machine_id"`
	GroupID         string                     `json:"group_id"`
	RequiredGroup   string                     `json:"required_group"`
	Allocation      map[string]decimal.Decimal `json:"allocation"`
	CapacityUsage   map[string]decimal.Decimal `json:"capacity_usage"`
	ResourceChanges map[string]decimal.Decimal `json:"resource_changes"`
}

// ProductDoc declares one product and its ordered recipe.
type ProductDoc struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Unit  string    `json:"unit"`
	Steps []StepDoc `json:"steps"`
}

// Load reads and parses the configuration file, then resolves it.
func Load(path string) (*model.Plant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &model.ValidationError{
			Kind:   model.MalformedInput,
			Entity: "configuration",
			ID:     path,
			Detail: err.Error(),
		}
	}
	plant, err := Resolve(doc)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return plant, nil
}

// Resolve validates the document and indexes it into a Plant. It is a pure
// function of its input: no I/O, no mutation of the document.
func Resolve(doc Document) (*model.Plant, error) {
	resources := make(map[string]*model.Resource, len(doc.Resources))
	for _, item := range doc.Resources {
		if item.ID == "" {
			return nil, malformed("resource", "", "missing id")
		}
		if _, exists := resources[item.ID]; exists {
			return nil, duplicate("resource", item.ID)
		}
		resources[item.ID] = &model.Resource{ID: item.ID, Name: fallback(item.Name, item.ID), Unit: item.Unit}
	}

	groups := make(map[string]*model.MachineGroup, len(doc.MachineGroups))
	for _, item := range doc.MachineGroups {
		if item.ID == "" {
			return nil, malformed("machine_group", "", "missing id")
		}
		if _, exists := groups[item.ID]; exists {
			return nil, duplicate("machine_group", item.ID)
		}
		groups[item.ID] = &model.MachineGroup{ID: item.ID, Name: fallback(item.Name, item.ID)}
	}

	machines := make(map[string]*model.Machine, len(doc.Machines))
	for _, item := range doc.Machines {
		if item.ID == "" {
			return nil, malformed("machine", "", "missing id")
		}
		if _, exists := machines[item.ID]; exists {
			return nil, duplicate("machine", item.ID)
		}
		if _, ok := groups[item.GroupID]; !ok {
			return nil, dangling("machine_group", item.GroupID, fmt.Sprintf("referenced by machine %q", item.ID))
		}
		capacity := make(map[string]decimal.Decimal, len(item.Capacity))
		for key, value := range item.Capacity {
			if value.IsNegative() {
				return nil, malformed("machine", item.ID, fmt.Sprintf("negative capacity for %q", key))
			}
			capacity[key] = value
		}
		machines[item.ID] = &model.Machine{
			ID:       item.ID,
			Name:     fallback(item.Name, item.ID),
			GroupID:  item.GroupID,
			Capacity: capacity,
		}
	}

	products := make(map[string]*model.Product, len(doc.Products))
	for _, item := range doc.Products {
		if item.ID == "" {
			return nil, malformed("product", "", "missing id")
		}
		if _, exists := products[item.ID]; exists {
			return nil, duplicate("product", item.ID)
		}
		steps := make([]model.RecipeStep, 0, len(item.Steps))
		for i, stepDoc := range item.Steps {
			step, err := resolveStep(stepDoc, item.ID, i, resources, groups, machines)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		}
		products[item.ID] = &model.Product{
			ID:    item.ID,
			Name:  fallback(item.Name, item.ID),
			Unit:  item.Unit,
			Steps: steps,
		}
	}

	return model.NewPlant(resources, groups, machines, products), nil
}

func resolveStep(doc StepDoc, productID string, index int, resources map[string]*model.Resource, groups map[string]*model.MachineGroup, machines map[string]*model.Machine) (model.RecipeStep, error) {
	location := fmt.Sprintf("product %q step %d (%s)", productID, index, fallback(doc.Name, "unnamed"))

	target := model.StepTarget(doc.Target)
	switch target {
	case model.TargetMachine:
		if doc.MachineID == "" {
			return model.RecipeStep{}, malformed("step", doc.Name, location+": target \"machine\" requires machine_id")
		}
		if _, ok := machines[doc.MachineID]; !ok {
			return model.RecipeStep{}, dangling("machine", doc.MachineID, "referenced by "+location)
		}
	case model.TargetGroup:
		if doc.GroupID == "" {
			return model.RecipeStep{}, malformed("step", doc.Name, location+": target \"group\" requires group_id")
		}
		if _, ok := groups[doc.GroupID]; !ok {
			return model.RecipeStep{}, dangling("machine_group", doc.GroupID, "referenced by "+location)
		}
	case model.TargetOrderMachine:
		if doc.RequiredGroup != "" {
			if _, ok := groups[doc.RequiredGroup]; !ok {
				return model.RecipeStep{}, dangling("machine_group", doc.RequiredGroup, "referenced by "+location)
			}
		}
	default:
		return model.RecipeStep{}, malformed("step", doc.Name, fmt.Sprintf("%s: unsupported target %q", location, doc.Target))
	}

	for id := range doc.ResourceChanges {
		if _, ok := resources[id]; !ok {
			return model.RecipeStep{}, dangling("resource", id, "referenced by "+location)
		}
	}
	for id, share := range doc.Allocation {
		if _, ok := machines[id]; !ok {
			return model.RecipeStep{}, dangling("machine", id, "referenced by allocation in "+location)
		}
		if share.IsNegative() {
			return model.RecipeStep{}, malformed("step", doc.Name, fmt.Sprintf("%s: negative allocation for machine %q", location, id))
		}
	}

	return model.RecipeStep{
		Name:          doc.Name,
		Target:        target,
		MachineID:     doc.MachineID,
		GroupID:       doc.GroupID,
		RequiredGroup: doc.RequiredGroup,
		Allocation:    doc.Allocation,
		CapacityUsage: doc.CapacityUsage,
		Effects:       doc.ResourceChanges,
	}, nil
}

func fallback(value, alternative string) string {
	if value == "" {
		return alternative
	}
	return value
}

func duplicate(entity, id string) error {
	return &model.ValidationError{Kind: model.DuplicateID, Entity: entity, ID: id}
}

func dangling(entity, id, detail string) error {
	return &model.ValidationError{Kind: model.DanglingReference, Entity: entity, ID: id, Detail: detail}
}

func malformed(entity, id, detail string) error {
	return &model.ValidationError{Kind: model.MalformedInput, Entity: entity, ID: id, Detail: detail}
}
