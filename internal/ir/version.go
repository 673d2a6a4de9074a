package ir

// Version constants for the IR schema and the generator.
const (
	// IRVersion is the IR schema version.
	IRVersion = "1"

	// ToolVersion is the ev-cli version.
	ToolVersion = "0.1.0"
)
