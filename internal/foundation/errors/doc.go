// Package errors provides the classified error type used across docsite.
//
// Every failure that can reach the CLI carries a category (config, validation,
// filesystem, build, internal), a severity and a retry hint, plus structured
// context for logging. The CLI adapter maps categories to process exit codes.
//
// Example usage:
//
//	err := errors.FileSystemError("read content directory").
//		WithContext("path", dir).
//		WithCause(walkErr).
//		Build()
package errors
