// Package automation runs batches of headless sessions: YAML scenarios of
// named steps, and sweeps of one config parameter across a range.
package automation
