// internal/dispatch/render/render.go
package render

import (
	"strings"

	"notification-service/internal/dispatch/validator"
)

// Render substitutes every occurrence of {{name}} in content with the
// stringified coerced value, for every key present in values. Placeholders
// whose key is absent (an optional attribute not supplied) are left verbatim
// so they surface visibly instead of silently vanishing. Pure function:
// rendering the same inputs twice yields identical output.
func Render(content string, values validator.Values) string {
	out := content
	for name, value := range values {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value.String())
	}
	return out
}
