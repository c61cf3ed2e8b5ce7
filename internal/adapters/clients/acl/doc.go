// Package acl provides the Anti-Corruption Layer between the remote symbol
// service and the domain.
//
// The service speaks its own JSON dialect (`_id`, nested keyword objects,
// extra fields we never use). Nothing of that shape leaves this package.
//
// # Failure Mapping
//
// The symbol service is best-effort. Failures are split by whether an answer
// was received at all:
//   - Any non-2xx status → zero results, no error (the answer is "nothing")
//   - Malformed or untranslatable JSON → zero results, no error
//   - Transport failure after retries → [domain.ErrUnavailable]
//   - [clients.ErrCircuitOpen] → [domain.ErrUnavailable]
//
// Callers rely on this split: an answer may be cached, an unavailable error
// may not.
//
// # Package Components
//
//   - [SymbolClient]: search and image addresses, plus the health check
//   - [MapClientError]: client error to domain error mapping
//   - decodePictograms: answer body to [domain.SymbolRecord] values
package acl
