// Package optim searches config parameter grids for the combination that
// minimises a run metric.
package optim
