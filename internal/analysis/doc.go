// Package analysis summarizes recorded telemetry series.
//
//   - [PowerSpectrum]: power per frequency bin of a detrended series
//   - [DominantFrequency]: strongest non-zero frequency, e.g. of the live
//     sphere count under a periodic spawn script
//   - [Describe]: mean, spread and tail percentiles, e.g. of frame deltas
package analysis
