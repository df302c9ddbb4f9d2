package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// ANSI escape sequences used by Format.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// detailWidth is the column at which Format wraps the detail paragraph.
const detailWidth = 70

var colorEnabled = true

// DisableColors turns off ANSI sequences in Format and PrintError, for
// output that is not a terminal.
func DisableColors() {
	colorEnabled = false
}

// EnableColors turns ANSI sequences back on.
func EnableColors() {
	colorEnabled = true
}

// paint wraps text in the given sequences when colors are enabled.
func paint(text string, codes ...string) string {
	if !colorEnabled || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + colorReset
}

// Format renders the error as a block for the terminal:
//
//	ERROR R002: Cyclic dependency detected
//
//	  Cause: read memo b: signals: cyclic dependency
//
//	  Evaluating a memo required the value of ...
//
//	  Hint: Break the cycle by reading one of the values with Peek.
func (e *SignalsError) Format() string {
	var b strings.Builder

	label := "ERROR:"
	if e.Code != "" {
		label = "ERROR " + e.Code + ":"
	}
	fmt.Fprintf(&b, "\n%s %s\n\n", paint(label, colorBold, colorRed), paint(e.Message, colorBold))

	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s %s\n\n", paint("Cause:", colorGray), e.Wrapped.Error())
	}
	if lines := wrapText(e.Detail, detailWidth); len(lines) > 0 {
		for _, line := range lines {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", paint("Hint:", colorCyan), e.Suggestion)
	}
	if e.Example != "" {
		b.WriteString("  " + paint("Example:", colorCyan) + "\n")
		for _, line := range strings.Split(e.Example, "\n") {
			b.WriteString("    " + paint(line, colorBlue) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatCompact returns the one-line form, the same as Error.
func (e *SignalsError) FormatCompact() string {
	return e.Error()
}

// FormatJSON returns the error as a JSON object for machine consumers.
// Empty optional fields are omitted.
func (e *SignalsError) FormatJSON() string {
	out := struct {
		Code       string   `json:"code,omitempty"`
		Category   Category `json:"category"`
		Message    string   `json:"message"`
		Detail     string   `json:"detail,omitempty"`
		Cause      string   `json:"cause,omitempty"`
		Suggestion string   `json:"suggestion,omitempty"`
	}{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText greedily packs the words of text into lines of at most width
// bytes. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// PrintError writes err to w. A SignalsError anywhere in the chain gets
// the full Format block; anything else a single ERROR line.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var se *SignalsError
	if stderrors.As(err, &se) {
		io.WriteString(w, se.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint("ERROR:", colorBold, colorRed), err.Error())
}
