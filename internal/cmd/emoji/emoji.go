// Package emoji provides symbol constants for CLI output.
// These symbols keep status columns readable in terminals without color.
package emoji

// Symbol constants for CLI output.
const (
	// Success marks a documented endpoint or a passing threshold.
	Success = "✓"

	// Error marks an undocumented endpoint or a failed threshold.
	Error = "✗"

	// Warning marks an ambiguous endpoint or a structural warning.
	Warning = "!"

	// Info marks informational notes such as ambiguous table rows.
	Info = "i"

	// Unknown represents unknown or indeterminate states.
	Unknown = "?"
)
