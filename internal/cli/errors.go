package cli

// Error codes reported in CLI responses. E001 to E006 match the codes of
// schema.LoadError so schema failures pass through unchanged.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error

	ErrCodeBadInput      = "E201" // Descriptor file unreadable or not a mapping
	ErrCodeCompileFailed = "E202" // Descriptor rejected by the compiler
	ErrCodeSchemaIssues  = "E203" // Descriptor does not match the schema
	ErrCodeStoreFailed   = "E204" // Compile log unavailable

	ErrCodeTestFailed  = "E301" // One or more scenarios failed
	ErrCodeNondeterministic = "E302" // Replay disagreed with the log
)
