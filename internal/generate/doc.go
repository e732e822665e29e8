// Package generate validates image generation arguments and talks to the
// external image generation service.
//
// # Validation
//
// ParseArgs accepts the untyped value decoded from a tools/call "arguments"
// field and narrows it to a Request. Only field presence and field types are
// checked: a size outside the advertised set is passed through unchanged and
// left for the external service to reject.
//
// # Generators
//
// Generator abstracts the external call so the server can be exercised without
// network access. OpenAIGenerator is the production implementation and always
// requests exactly one image returned by URL.
package generate
