// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// SearchIndex and RouteCache hold immutable snapshots that are replaced
// whole on every rebuild. Scheduler runs their periodic jobs.
package services
