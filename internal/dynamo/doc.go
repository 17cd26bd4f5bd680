// Package dynamo provides the core primitives shared by the sphere simulation.
//
// The package defines the pieces every other package agrees on:
//
//   - [Host]: the visual-proxy collaborator (spawn, destroy, scale, move)
//   - [ProxyID]: opaque handle to a proxy owned by exactly one particle
//   - [Config]: batch run configuration (timestep, duration, recording)
//   - [Result]: recorded frames and metric values of a batch run
//   - sentinel errors for configuration and tick validation
//
// # Example
//
//	host := dynamo.NewNopHost()
//	s, _ := sim.New(host, src, opts)
//	result, _ := s.Run(ctx, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Nothing in the simulation core is safe for concurrent use. A simulator and
// its host are driven from a single goroutine; run independent simulators in
// parallel with sim.Ensemble.
package dynamo
