package api

// Test-only exports for internal functions.
var (
	DecodeJSONVariant = decodeJSONVariant
	DecodeYAMLVariant = decodeYAMLVariant
)

// Missing reports the tags h has no handler for.
func (h Handlers) Missing() []string { return h.missing() }
