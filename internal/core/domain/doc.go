// Package domain defines the core business entities for shoplist.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ShoppingEntry: One line of the shopping list
//   - Settings: User settings persisted in settings.json
//   - BrokerTarget: Where and as whom the MQTT session connects
//   - Origin: Tag that drives echo suppression
//   - AppConfig: Application configuration from config.toml
//
// It also owns the JSON document formats shared by the entries file,
// the settings file and the broker payload.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
