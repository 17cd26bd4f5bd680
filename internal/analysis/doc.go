// Package analysis provides offline tools over recorded runs:
//
//   - [PowerSpectrum] and [DominantFrequency]: spectrum of a sampled signal,
//     typically the mean particle height, to find the bounce rate
//   - [GeneratePhasePortrait]: height against vertical velocity for one slot
//   - [GenerateBounceSection]: state of one slot at every bounce
//   - [Sweep]: re-runs a scene across a parameter range and records a metric
//
// # Bounce rate
//
//	freq, _ := analysis.DominantFrequency(result.MeanHeight(), cfg.Dt*float64(cfg.RecordEvery))
package analysis
