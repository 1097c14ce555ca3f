// Package toonsafe provides:
//
// - A never-throws serialization boundary for LLM payloads: SafeEncode and
//   SafeDecode always return a usable result or a clearly tagged failure
// - TOON-first encoding with a guaranteed JSON fallback, and the symmetric
//   two-tier decode chain (TOON, then JSON, then a tagged failure carrying
//   both diagnostics)
// - Defensive pre/post-processing for the messy text models actually emit:
//   markdown fence stripping (ExtractPayload) and grammar-conflict string
//   rewriting (Sanitize)
//
// Design policy:
// - The core is pure and synchronous: no I/O, no shared state, safe for
//   unrestricted concurrent use.
// - Failure is data, not control flow: the TOON codec's errors stop at this
//   boundary and become result tags.
// - Diagnostics are injected (WithLogger), never global.
//
// Typical usage:
//
//	body := toonsafe.EncodeToString(payload)
//	res := toonsafe.SafeDecode(responseText)
//	if res.Format == toonsafe.FormatFailed {
//		// res.Err explains both failure modes
//	}
package toonsafe
