package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "docsite.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "docsite.yaml" {
			t.Errorf("expected context file=docsite.yaml, got %v", file)
		}
		if err.Error() != "[config:fatal] invalid configuration" {
			t.Errorf("unexpected Error(): %s", err.Error())
		}
	})

	t.Run("Wrapped detection", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := fmt.Errorf("head: %w", FileSystemError("write manifest").WithCause(cause).Build())

		if !HasCategory(err, CategoryFileSystem) {
			t.Error("expected wrapped error to have filesystem category")
		}
		if !errors.Is(err, cause) {
			t.Error("expected chain to contain cause")
		}
		classified, ok := AsClassified(err)
		if !ok || !classified.CanRetry() {
			t.Error("expected retryable filesystem error")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain errors to be internal")
		}
	})

	t.Run("Is compares category and message", func(t *testing.T) {
		a := ValidationError("locale missing").WithContext("locale", "ja").Build()
		b := ValidationError("locale missing").Build()
		if !errors.Is(a, b) {
			t.Error("expected equal category+message to match")
		}
		if errors.Is(a, ConfigError("locale missing").Build()) {
			t.Error("expected different category not to match")
		}
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
		retry    RetryStrategy
	}{
		{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
		{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
		{"NotFoundError", NotFoundError("test"), CategoryNotFound, SeverityError, RetryUserAction},
		{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryImmediate},
		{"BuildError", BuildError("test"), CategoryBuild, SeverityFatal, RetryNever},
		{"RuntimeError", RuntimeError("test"), CategoryRuntime, SeverityFatal, RetryNever},
		{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			if err.Category() != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category())
			}
			if err.Severity() != tt.severity {
				t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
			}
			if err.RetryStrategy() != tt.retry {
				t.Errorf("expected retry strategy %s, got %s", tt.retry, err.RetryStrategy())
			}
		})
	}
}
