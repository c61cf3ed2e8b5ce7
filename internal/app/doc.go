// Package app contains the application layer: board sessions and the use
// cases they expose.
//
// Application Layer Responsibilities:
//   - Orchestrate board operations (generate, edit, undo, save, import)
//   - Coordinate the resolver, the library and the preferences through ports
//   - Turn every user action into exactly one undo step
//
// What does NOT belong here:
//   - HTTP or CLI specifics (that's adapters and cmd)
//   - Storage backends and the symbol service wire format (that's adapters)
//   - Card and snapshot types (that's the domain layer)
package app
