package doortypes

// Settings holds the message templates sent to invokers when a command fails.
// Prefixes may carry color or formatting codes understood by the host.
type Settings struct {
	// ErrorPrefix precedes every usage entry that is not at fault.
	ErrorPrefix string `mapstructure:"error_prefix" yaml:"error_prefix"`
	// InvalidArgumentPrefix precedes the usage entry that caused the error.
	// With the defaults, "/tp x y z" called as "/tp 5 2 a" renders "/tp x y -->z".
	InvalidArgumentPrefix string `mapstructure:"invalid_argument_prefix" yaml:"invalid_argument_prefix"`
	// UsageErrorFormat has one %s slot for the rendered usage line.
	UsageErrorFormat string `mapstructure:"usage_error_format" yaml:"usage_error_format"`
	// PermissionError may contain a %s slot for the required permission node.
	PermissionError string `mapstructure:"permission_error" yaml:"permission_error"`
	// InvalidSubcommandError may contain a %s slot for the comma-joined branch names.
	InvalidSubcommandError string `mapstructure:"invalid_subcommand_error" yaml:"invalid_subcommand_error"`
}

// DefaultSettings returns the stock templates.
func DefaultSettings() *Settings {
	return &Settings{
		ErrorPrefix:            "",
		InvalidArgumentPrefix:  "-->",
		UsageErrorFormat:       "Usage: %s",
		PermissionError:        "Permission required not granted.",
		InvalidSubcommandError: "Invalid subcommand. Subcommands are: %s",
	}
}
