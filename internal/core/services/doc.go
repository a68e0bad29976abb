// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - EntryStore: in-memory ordered list, no I/O
//   - Coordinator: persists and publishes list changes, applies remote ones
//   - SettingsService: get-or-create settings and broker retargeting
//
// Services are pure Go with no CGO dependencies.
package services
