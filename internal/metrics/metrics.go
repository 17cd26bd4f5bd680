// Package metrics provides scalar summaries of a run. Each metric observes
// the live particles once per tick; Bounces additionally implements
// sim.ContactObserver.
package metrics

import "github.com/san-kum/spherebounce/internal/sim"

// Standard returns the metrics recorded by batch runs.
func Standard() []sim.Metric {
	return []sim.Metric{NewKineticEnergy(), NewMeanHeight(), NewMeanSpeed(), NewPopulation(), NewBounces()}
}
