package aggregate

import (
	"encoding/json"
	"io"
	"strings"

	"tutoreval/domain/annotation"
)

// WriteJSON encodes conversations as a JSON array. An indent of zero or less
// writes compact output.
func WriteJSON(w io.Writer, conversations []annotation.Conversation, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if conversations == nil {
		conversations = []annotation.Conversation{}
	}
	return enc.Encode(conversations)
}
