// Package protocol defines the binary wire format between a navkit
// session and its client runtime.
//
// Every websocket message is a frame: a single type byte followed by a
// type-specific payload. Server-to-client frames carry DOM patches or
// module commands (load/invoke/release of client-side helper modules).
// Client-to-server frames carry events: clicks on hydrated elements,
// navigations with the new absolute location, and module-command results.
//
// Integers are unsigned varints (ZigZag for signed); strings are varint
// length-prefixed UTF-8. Decoders validate length prefixes against the
// remaining buffer and an allocation ceiling so a malicious peer cannot
// force large allocations.
package protocol
