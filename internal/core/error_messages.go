// Package core provides the business logic for multi-source table consolidation.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Source File Errors (FILE001-FILE099)
//
// Errors related to locating and reading source files:
//
//	FILE001 - Unsupported format: This file type cannot be read
//	          Action: Convert the file to CSV or XLSX and try again
//	          Patterns: "unsupported file format"
//
//	FILE002 - Empty file: The source file has no content
//	          Action: Check that the export produced data rows
//	          Patterns: "empty file"
//
//	FILE003 - No sheets: The workbook contains no sheets
//	          Action: Re-export the workbook with at least one sheet
//	          Patterns: "workbook has no sheets"
//
//	FILE004 - Bad header: The file's header row could not be parsed
//	          Action: Ensure the file is well-formed CSV
//	          Patterns: "read header"
//
//	FILE005 - Bad record: A data row could not be parsed
//	          Action: Check the file for unbalanced quotes or stray delimiters
//	          Patterns: "read record"
//
//	FILE006 - Not found: A file could not be found at the given path
//	          Action: Check the path in your run file
//	          Patterns: "no such file"
//
//	FILE007 - Access denied: A file could not be opened
//	          Action: Check file permissions
//	          Patterns: "permission denied"
//
// # Run File Errors (RUN001-RUN099)
//
// Errors related to parsing and resolving the run file:
//
//	RUN001 - Invalid YAML: The run file is not valid YAML
//	         Action: Check indentation and quoting in the run file
//	         Patterns: "parse run file"
//
//	RUN002 - No sources: The run file defines no sources
//	         Action: Add at least one entry under sources
//	         Patterns: "no sources defined"
//
//	RUN003 - Unknown layout: A source references a layout that is not registered
//	         Action: Use a registered layout name or an inline mapping
//	         Patterns: "unknown layout"
//
//	RUN004 - Unknown aggregation: The aggregation function is not supported
//	         Action: Use count, sum, mean, min, or max
//	         Patterns: "unknown aggregation"
//
// # Configuration Errors (CFG001-CFG099)
//
// Errors related to environment configuration:
//
//	CFG001 - Invalid config: The environment configuration is invalid
//	         Action: Review the listed settings and correct them
//	         Patterns: "validation failed"
//
//	CFG002 - Bad duration: A timeout setting could not be parsed
//	         Action: Use values like 10s or 1m
//	         Patterns: "invalid duration"
//
// # Output Errors (OUT001-OUT099)
//
// Errors related to persisting results:
//
//	OUT001 - Output directory: The output directory could not be created
//	         Action: Check permissions on the output path
//	         Patterns: "create output dir"
//
//	OUT002 - Error log: The error log could not be written
//	         Action: Check disk space and permissions on the output directory
//	         Patterns: "write error report"
//
// # Database Errors (DB001-DB099)
//
// Errors related to the optional PostgreSQL destination:
//
//	DB001 - Connection failed: Unable to connect to the database
//	        Action: Check DATABASE_URL and that the server is reachable
//	        Patterns: "failed to connect"
//
//	DB002 - Connection refused: The database refused the connection
//	        Action: Check that the server is running and accepting connections
//	        Patterns: "connection refused"
//
//	DB003 - Connection reset: The database connection was interrupted
//	        Action: Please try again
//	        Patterns: "connection reset"
//
//	DB004 - Timeout: The database operation timed out
//	        Action: Raise TABFUSE_DB_CONNECT_TIMEOUT or try again later
//	        Patterns: "timeout"
//
//	DB005 - Create table: The destination table could not be created
//	        Action: Check the configured table name and database permissions
//	        Patterns: "create destination table"
//
//	DB006 - Insert failed: Rows could not be inserted into the destination table
//	        Action: Check that the table's schema matches the output columns
//	        Patterns: "insert rows"
//
//	DB007 - No table: Database loading is enabled but no table is set
//	        Action: Set TABFUSE_DB_TABLE or disable the database destination
//	        Patterns: "no destination table"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones (e.g. "failed to connect" is checked before
// "connection refused").
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check the run's error_log.json for the original technical error
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// Source File Errors (FILE001-FILE007)
	// These errors occur while locating and reading source files.
	// =========================================================================
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "This file type cannot be read",
			Action:  "Convert the file to CSV or XLSX and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The source file has no content",
			Action:  "Check that the export produced data rows",
			Code:    "FILE002",
		},
	},
	{
		pattern: "workbook has no sheets",
		msg: UserMessage{
			Message: "The workbook contains no sheets",
			Action:  "Re-export the workbook with at least one sheet",
			Code:    "FILE003",
		},
	},
	{
		pattern: "read header",
		msg: UserMessage{
			Message: "The file's header row could not be parsed",
			Action:  "Ensure the file is well-formed CSV",
			Code:    "FILE004",
		},
	},
	{
		pattern: "read record",
		msg: UserMessage{
			Message: "A data row could not be parsed",
			Action:  "Check the file for unbalanced quotes or stray delimiters",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "A file could not be found at the given path",
			Action:  "Check the path in your run file",
			Code:    "FILE006",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "A file could not be opened",
			Action:  "Check file permissions",
			Code:    "FILE007",
		},
	},

	// =========================================================================
	// Run File Errors (RUN001-RUN004)
	// These errors occur while parsing and resolving the run file.
	// =========================================================================
	{
		pattern: "parse run file",
		msg: UserMessage{
			Message: "The run file is not valid YAML",
			Action:  "Check indentation and quoting in the run file",
			Code:    "RUN001",
		},
	},
	{
		pattern: "no sources defined",
		msg: UserMessage{
			Message: "The run file defines no sources",
			Action:  "Add at least one entry under sources",
			Code:    "RUN002",
		},
	},
	{
		pattern: "unknown layout",
		msg: UserMessage{
			Message: "A source references a layout that is not registered",
			Action:  "Use a registered layout name or an inline mapping",
			Code:    "RUN003",
		},
	},
	{
		pattern: "unknown aggregation",
		msg: UserMessage{
			Message: "The aggregation function is not supported",
			Action:  "Use count, sum, mean, min, or max",
			Code:    "RUN004",
		},
	},

	// =========================================================================
	// Configuration Errors (CFG001-CFG002)
	// These errors occur while loading environment configuration.
	// =========================================================================
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "The environment configuration is invalid",
			Action:  "Review the listed settings and correct them",
			Code:    "CFG001",
		},
	},
	{
		pattern: "invalid duration",
		msg: UserMessage{
			Message: "A timeout setting could not be parsed",
			Action:  "Use values like 10s or 1m",
			Code:    "CFG002",
		},
	},

	// =========================================================================
	// Output Errors (OUT001-OUT002)
	// These errors occur while persisting results.
	// =========================================================================
	{
		pattern: "create output dir",
		msg: UserMessage{
			Message: "The output directory could not be created",
			Action:  "Check permissions on the output path",
			Code:    "OUT001",
		},
	},
	{
		pattern: "write error report",
		msg: UserMessage{
			Message: "The error log could not be written",
			Action:  "Check disk space and permissions on the output directory",
			Code:    "OUT002",
		},
	},

	// =========================================================================
	// Database Errors (DB001-DB007)
	// These errors occur when the optional PostgreSQL destination is in use.
	// =========================================================================
	{
		pattern: "failed to connect",
		msg: UserMessage{
			Message: "Unable to connect to the database",
			Action:  "Check DATABASE_URL and that the server is reachable",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "The database refused the connection",
			Action:  "Check that the server is running and accepting connections",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "The database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The database operation timed out",
			Action:  "Raise TABFUSE_DB_CONNECT_TIMEOUT or try again later",
			Code:    "DB004",
		},
	},
	{
		pattern: "create destination table",
		msg: UserMessage{
			Message: "The destination table could not be created",
			Action:  "Check the configured table name and database permissions",
			Code:    "DB005",
		},
	},
	{
		pattern: "insert rows",
		msg: UserMessage{
			Message: "Rows could not be inserted into the destination table",
			Action:  "Check that the table's schema matches the output columns",
			Code:    "DB006",
		},
	},
	{
		pattern: "no destination table",
		msg: UserMessage{
			Message: "Database loading is enabled but no table is set",
			Action:  "Set TABFUSE_DB_TABLE or disable the database destination",
			Code:    "DB007",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// the run's error_log.json for the original technical error when users
// report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New("unsupported file format: .pdf")
//	msg := MapError(err)
//	// msg.Code == "FILE001"
//	// msg.Message == "This file type cannot be read"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "This file type cannot be read (Code: FILE001). Convert the file to CSV or XLSX and try again"
//
// This is the primary function for displaying errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean
// message for display.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. The returned UserError preserves the original
// technical error for logging via Unwrap(), while providing a clean user
// message via Error().
//
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
