package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "render error",
			code:    "E101",
			wantMsg: "Previous node has no host handle",
			wantCat: CategoryRender,
		},
		{
			name:    "host error",
			code:    "E103",
			wantMsg: "Host operation failed",
			wantCat: CategoryHost,
		},
		{
			name:    "config error",
			code:    "E202",
			wantMsg: "Unsupported configuration file format",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
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
	err := Newf(CategoryScenario, "step %d has no tree", 3)
	if err.Message != "step 3 has no tree" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != "" {
		t.Errorf("Code = %q, want empty", err.Code)
	}
}

func TestError_Error(t *testing.T) {
	err := New("E106")
	if got, want := err.Error(), "E106: Maximum tree depth exceeded"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := fmt.Errorf("boom")
	err = New("E106").WithDetail("depth 11").Wrap(cause)
	if got, want := err.Error(), "E106: Maximum tree depth exceeded: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New("E101")
	decorated := New("E101").WithDetail("div#main")
	wrapped := fmt.Errorf("render: %w", decorated)

	if !stderrors.Is(wrapped, sentinel) {
		t.Error("errors.Is should match errors with the same code")
	}
	if stderrors.Is(wrapped, New("E102")) {
		t.Error("errors.Is should not match a different code")
	}
	if Is(New("E101"), &Error{Message: "no code"}) {
		t.Error("uncoded target should never match")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("attribute rejected")
	err := New("E103").Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable")
	}
	if Code(fmt.Errorf("x: %w", err)) != "E103" {
		t.Errorf("Code() = %q, want E103", Code(err))
	}
	if Code(cause) != "" {
		t.Error("Code() of a plain error should be empty")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E105").Format()
	for _, want := range []string{"ERROR E105: Container is in a failed state", "Hint: Call Reset"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
	if got := New("E105").FormatCompact(); got != "E105: Container is in a failed state" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("wrapText = %v, want %v", lines, want)
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("E301"); !ok {
		t.Error("E301 should be registered")
	}
	if _, ok := Lookup("E000"); ok {
		t.Error("E000 should not be registered")
	}
}
