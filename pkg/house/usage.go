package house

import (
	"fmt"
	"reflect"
	"strings"

	"frontdoor/pkg/doortypes"
)

// synthesizeUsage renders one entry per parameter: <name> for required arguments,
// [name=default] for optional ones and <... name ...> for a glob.
func synthesizeUsage(params []doortypes.Parameter) []string {
	usage := make([]string, 0, len(params))
	for _, param := range params {
		argName := param.Name
		if param.Glob {
			argName = "... " + argName + " ..."
		}

		if param.Optional {
			def := param.DefaultText
			if !param.Nullable {
				def = fmt.Sprint(param.Default)
			}
			usage = append(usage, "["+argName+"="+def+"]")
		} else {
			usage = append(usage, "<"+argName+">")
		}
	}
	return usage
}

// formatError renders the usage line for commandName, marking the entry at
// errorIndex with the invalid argument prefix. -1 marks nothing.
func (c *HouseCommand) formatError(commandName string, errorIndex int) string {
	var b strings.Builder
	b.WriteString(commandName)

	for i, entry := range c.usage {
		b.WriteByte(' ')
		if i == errorIndex {
			b.WriteString(c.settings.InvalidArgumentPrefix)
		} else {
			b.WriteString(c.settings.ErrorPrefix)
		}
		b.WriteString(entry)
	}

	return strings.TrimSpace(b.String())
}

// typeDisplayName is used in place of an undeclared parameter name.
func typeDisplayName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
