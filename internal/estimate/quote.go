package estimate

import (
	"fmt"
	"strings"
)

// Printable renders the quote the way it is printed or mailed.
func Printable(id string, c Contact, e *Estimate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quote %s\n", id)
	for _, f := range []struct{ label, value string }{
		{"Name", c.Name},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Address", c.Address},
	} {
		if f.value != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
		}
	}
	if c.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", c.Message)
	}

	b.WriteString("\n")
	if e.Empty() {
		b.WriteString("No pieces selected.\n")
	}
	for _, line := range e.Lines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", e.Total())
	return b.String()
}
