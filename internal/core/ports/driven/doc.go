// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - ContentSource: Reads documents from the content store over HTTP
//   - ConfigStore: Flattened key/value configuration (file or memory)
//   - SchedulerStore: Scheduler task state and run history (memory or SQLite)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
