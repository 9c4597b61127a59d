package ledger

import (
	"log"
	"strings"
)

// Placeholders extracts the {{name}} placeholder names referenced by a
// description template, in order of first appearance.
func Placeholders(template string) []string {
	names := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			return names
		}
		rest = rest[start+2:]
		end := strings.Index(rest, "}}")
		if end < 0 {
			return names
		}
		name := strings.TrimSpace(rest[:end])
		rest = rest[end+2:]
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
}

// Render substitutes {{name}} placeholders with the matching variable.
// A placeholder with no matching variable renders as empty and logs a
// warning; description rendering must never block a financial commit.
func Render(template string, vars map[string]string) string {
	var out strings.Builder
	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			out.WriteString(rest)
			return out.String()
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			out.WriteString(rest)
			return out.String()
		}

		out.WriteString(rest[:start])
		name := strings.TrimSpace(rest[start+2 : start+2+end])
		value, ok := vars[name]
		if !ok {
			log.Printf("[ledger] WARN: template placeholder {{%s}} has no variable, rendering empty", name)
		}
		out.WriteString(value)
		rest = rest[start+2+end+2:]
	}
}
