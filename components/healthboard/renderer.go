package healthboard

import "io"

// Renderer describes the template renderer contract needed by the card and
// the HTTP layer.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
