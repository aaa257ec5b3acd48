package jsonschema

// Test-only exports for internal functions.
var (
	TagOptions   = tagOptions
	TagContains  = tagContains
	SplitTypeArg = splitTypeArgs
)
