// Package interaction provides the stock observable and disturbance
// value objects used by configuration-driven experiments. Custom
// implementations of the sim contracts can stand in for them.
package interaction

import (
	"fmt"
	"strings"
)

// Observable categories recognized by the engine. They double as the
// per-category folder names under the explicit-observables directory.
const (
	CategoryBus    = "BUS"
	CategorySync   = "SYNC"
	CategoryInjec  = "INJEC"
	CategoryShunt  = "SHUNT"
	CategoryDctl   = "DCTL"
	CategoryBranch = "BRANCH"
)

// Categories lists the observable categories in engine order.
func Categories() []string {
	return []string{
		CategoryBus,
		CategorySync,
		CategoryInjec,
		CategoryShunt,
		CategoryDctl,
		CategoryBranch,
	}
}

// Observable is a measurement request for one named component.
// Quantity is optional; when empty the engine records the category's
// default quantity.
type Observable struct {
	Category string
	Target   string
	Quantity string
}

// String renders the observables-file line for the request.
func (o Observable) String() string {
	if o.Quantity == "" {
		return fmt.Sprintf("%s %s", o.Category, o.Target)
	}
	return fmt.Sprintf("%s %s %s", o.Category, o.Target, o.Quantity)
}

// Disturbance is an engine directive applied at a simulated time.
type Disturbance struct {
	T         float64
	Directive string
}

// Time returns the scheduled application time in seconds.
func (d Disturbance) Time() float64 { return d.T }

// String renders the disturbance in engine format, time first.
func (d Disturbance) String() string {
	return strings.TrimSpace(fmt.Sprintf("%.3f %s", d.T, d.Directive))
}
