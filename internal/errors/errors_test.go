package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/signals/pkg/reactive"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "runtime error",
			code:    "R002",
			wantMsg: "Cyclic dependency detected",
			wantCat: CategoryRuntime,
		},
		{
			name:    "config error",
			code:    "C001",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "fetch error",
			code:    "F001",
			wantMsg: "Resource fetch failed",
			wantCat: CategoryFetch,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "page %q not found", "home2")
	if err.Message != `page "home2" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `page "home2" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestSignalsError_Error(t *testing.T) {
	err := New("R001")
	want := "R001: Handle used after dispose"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New("F001").Wrap(fmt.Errorf("status 503"))
	want = "F001: Resource fetch failed: status 503"
	if got := wrapped.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// Without code
	err2 := &SignalsError{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}
}

func TestSignalsError_Builders(t *testing.T) {
	err := New("R004").
		WithDetail("detail").
		WithSuggestion("suggestion").
		WithExample("example")

	if err.Detail != "detail" || err.Suggestion != "suggestion" || err.Example != "example" {
		t.Errorf("builders did not set fields: %+v", err)
	}
}

func TestSignalsError_Unwrap(t *testing.T) {
	inner := stderrors.New("inner")
	err := New("F001").Wrap(inner)

	if !stderrors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "X002") != nil {
		t.Error("FromError(nil) should be nil")
	}

	plain := stderrors.New("boom")
	se := FromError(plain, "X002")
	if se.Code != "X002" || !stderrors.Is(se, plain) {
		t.Errorf("unexpected wrap: %+v", se)
	}

	existing := New("R004")
	if got := FromError(fmt.Errorf("mount: %w", existing), "X002"); got != existing {
		t.Error("FromError should return an existing SignalsError")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{reactive.ErrUseAfterDispose, "R001"},
		{fmt.Errorf("flush: %w", reactive.ErrCyclicDependency), "R002"},
		{reactive.ErrPassLimit, "R003"},
		{New("R004"), "R004"},
		{stderrors.New("other"), "X002"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Classify(tt.err, "X002")
			if got.Code != tt.want {
				t.Errorf("Classify(%v).Code = %q, want %q", tt.err, got.Code, tt.want)
			}
		})
	}

	if Classify(nil, "X002") != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R002").Wrap(stderrors.New("read memo b")).WithExample("b.Peek()")
	out := err.Format()

	for _, want := range []string{
		"ERROR R002: Cyclic dependency detected",
		"Cause: read memo b",
		"Hint: Break the cycle",
		"Example:",
		"    b.Peek()",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
}

func TestFormat_Colors(t *testing.T) {
	EnableColors()
	out := New("R001").Format()
	if !strings.Contains(out, colorRed) {
		t.Error("Format() should use colors when enabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("C001").Wrap(stderrors.New("runtime.max_passes must be positive"))
	want := "C001: Invalid configuration: runtime.max_passes must be positive"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("F002").Wrap(stderrors.New("status 500"))

	var decoded map[string]string
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", jerr)
	}
	if decoded["code"] != "F002" || decoded["category"] != "fetch" || decoded["cause"] != "status 500" {
		t.Errorf("unexpected JSON: %v", decoded)
	}
	if _, ok := decoded["suggestion"]; ok {
		t.Error("empty suggestion should be omitted")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six seven" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText of empty text should be nil")
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, New("X001"))
	if !strings.Contains(buf.String(), "ERROR X001: Unknown tour page") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("registry is empty")
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("code %s has an incomplete template: %+v", code, tmpl)
		}
	}

	Register("T001", ErrorTemplate{Category: CategoryCLI, Message: "Test"})
	if New("T001").Message != "Test" {
		t.Error("registered template not found")
	}
}
