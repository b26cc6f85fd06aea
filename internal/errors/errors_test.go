package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestBuildError_ErrorFormatting(t *testing.T) {
	e := New(CategoryTool, SeverityFatal, "external tool failed")
	if got := e.Error(); got != "tool (fatal): external tool failed" {
		t.Errorf("unexpected message: %s", got)
	}

	cause := fmt.Errorf("exit status 1")
	wrapped := ToolFailed("pdflatex", cause)
	if got := wrapped.Error(); got != "tool (fatal): pdflatex failed: exit status 1" {
		t.Errorf("unexpected wrapped message: %s", got)
	}
}

func TestBuildError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("exit status 2")
	wrapped := ToolFailed("biber", cause)

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestBuildError_Category(t *testing.T) {
	e := StagingError("acquire", fmt.Errorf("permission denied"))
	if !IsCategory(e, CategoryFileSystem) {
		t.Errorf("expected filesystem category, got %s", GetCategory(e))
	}
	if GetCategory(fmt.Errorf("plain")) != CategoryInternal {
		t.Error("plain errors should classify as internal")
	}
}

func TestBuildError_WithContext(t *testing.T) {
	e := ToolFailed("pdflatex", fmt.Errorf("exit status 1")).WithContext("pass", 2)
	if e.Context["tool"] != "pdflatex" {
		t.Errorf("expected tool context, got %v", e.Context["tool"])
	}
	if e.Context["pass"] != 2 {
		t.Errorf("expected pass context, got %v", e.Context["pass"])
	}
}
