// Package render writes simulation results. Every format shows the visible
// stocks of a model as columns and one row per round, round 0 first.
package render
