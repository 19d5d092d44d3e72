// internal/plan/plan.go
//
// Loads the production plan and selects the slice of it the simulator should
// see. A plan stays independent of the catalog until Validate is called; the
// filter only looks at dates.

package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kingrea/plantbalance/internal/model"
)

// Plan is an ordered collection of production orders.
type Plan struct {
	Orders []model.ProductionOrder
}

// Document is the raw shape of the plan file.
type Document struct {
	Orders []OrderDoc `json:"orders"`
}

// OrderDoc is one raw plan entry.
type OrderDoc struct {
	Date      string          `json:"date"`
	ProductID string          `json:"product_id"`
	MachineID string          `json:"machine_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// Load reads and parses the plan file. Quantities must be non-negative and
// dates valid calendar days; violations surface as MalformedInput.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan: read %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &model.ValidationError{
			Kind:   model.MalformedInput,
			Entity: "plan",
			ID:     path,
			Detail: err.Error(),
		}
	}
	p, err := Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("plan: %s: %w", path, err)
	}
	return p, nil
}

// Parse validates the raw document into a Plan, preserving document order.
func Parse(doc Document) (*Plan, error) {
	orders := make([]model.ProductionOrder, 0, len(doc.Orders))
	for i, item := range doc.Orders {
		date, err := model.ParseDate(item.Date)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		if item.ProductID == "" {
			return nil, &model.ValidationError{
				Kind:   model.MalformedInput,
				Entity: "order",
				Detail: fmt.Sprintf("order %d: missing product_id", i),
			}
		}
		if item.Quantity.IsNegative() {
			return nil, &model.ValidationError{
				Kind:   model.MalformedInput,
				Entity: "order",
				ID:     item.ProductID,
				Detail: fmt.Sprintf("order %d: negative quantity %s", i, item.Quantity),
			}
		}
		orders = append(orders, model.ProductionOrder{
			Date:      date,
			ProductID: item.ProductID,
			MachineID: item.MachineID,
			Quantity:  item.Quantity,
		})
	}
	return &Plan{Orders: orders}, nil
}

// Filter returns the orders inside the inclusive window, date ascending and
// stable within a date (original plan order preserved). Zero bounds leave the
// window open on that side. An inverted window is EmptyRange; a window that
// simply matches nothing returns an empty plan.
func (p *Plan) Filter(window model.DateRange) (*Plan, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	filtered := make([]model.ProductionOrder, 0, len(p.Orders))
	for _, order := range p.Orders {
		if window.Contains(order.Date) {
			filtered = append(filtered, order)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.Before(filtered[j].Date)
	})
	return &Plan{Orders: filtered}, nil
}

// Range returns the [min, max] order dates present in the plan, or a zero
// range for an empty plan.
func (p *Plan) Range() model.DateRange {
	var window model.DateRange
	for _, order := range p.Orders {
		if window.Start.IsZero() || order.Date.Before(window.Start) {
			window.Start = order.Date
		}
		if window.End.IsZero() || order.Date.After(window.End) {
			window.End = order.Date
		}
	}
	return window
}

// Validate checks that every order references a product and machine known to
// the plant. All dangling references are reported, not just the first.
func (p *Plan) Validate(plant *model.Plant) error {
	var errs []error
	for i, order := range p.Orders {
		if _, ok := plant.Products[order.ProductID]; !ok {
			errs = append(errs, &model.ValidationError{
				Kind:   model.DanglingReference,
				Entity: "product",
				ID:     order.ProductID,
				Detail: fmt.Sprintf("referenced by order %d (%s)", i, order.Date),
			})
		}
		if _, ok := plant.Machines[order.MachineID]; !ok {
			errs = append(errs, &model.ValidationError{
				Kind:   model.DanglingReference,
				Entity: "machine",
				ID:     order.MachineID,
				Detail: fmt.Sprintf("referenced by order %d (%s)", i, order.Date),
			})
		}
	}
	return errors.Join(errs...)
}
