// error_messages.go defines user-friendly error messages with codes for support reference.
// Data problems found by a check are never errors; only infrastructure failures
// reach this mapping.
//
//	IMP001 - Unknown importer: Importer not found
//	         Patterns: "unknown importer"
//
//	CHK001 - Check cancelled
//	         Patterns: "context canceled"
//
//	CHK002 - Check timed out
//	         Patterns: "context deadline exceeded"
//
//	CHK003 - Invalid source type selection
//	         Patterns: "invalid source type"
//
//	CHK004 - All check slots busy
//	         Patterns: "too many concurrent checks"
//
//	DB001 - Missing table
//	        Patterns: "no such table" (sqlite), "does not exist" (postgres)
//
//	DB002 - Missing column
//	        Patterns: "no such column"
//
//	DB004 - Connection refused
//	        Patterns: "connection refused"
//
//	DB005 - Connection interrupted
//	        Patterns: "connection reset", "database is closed"
//
//	DB006 - Timeout
//	        Patterns: "timeout"
//
//	ERR000 - Unknown error: check application logs for the original error
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are defined
// before general ones.

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
	// Importer Errors (IMP001)
	// =========================================================================
	{
		pattern: "unknown importer",
		msg: UserMessage{
			Message: "Importer not found",
			Action:  "List the registered importers and check the name",
			Code:    "IMP001",
		},
	},

	// =========================================================================
	// Check Errors (CHK001-CHK004)
	// Context errors are matched before the generic "timeout" pattern.
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Check was cancelled",
			Action:  "Please try again",
			Code:    "CHK001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Check timed out",
			Action:  "Try again later or raise CHECK_TIMEOUT",
			Code:    "CHK002",
		},
	},
	{
		pattern: "invalid source type",
		msg: UserMessage{
			Message: "Invalid source type selection",
			Action:  "Use a comma-separated list of positive source type ids",
			Code:    "CHK003",
		},
	},
	{
		pattern: "too many concurrent checks",
		msg: UserMessage{
			Message: "Too many checks are running",
			Action:  "Please try again shortly",
			Code:    "CHK004",
		},
	},

	// =========================================================================
	// Database Errors (DB001-DB006)
	// =========================================================================
	{
		pattern: "no such table",
		msg: UserMessage{
			Message: "A required table is missing from the project database",
			Action:  "Create the project database tables before checking",
			Code:    "DB001",
		},
	},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "A required table is missing from the project database",
			Action:  "Create the project database tables before checking",
			Code:    "DB001",
		},
	},
	{
		pattern: "no such column",
		msg: UserMessage{
			Message: "A required column is missing from the project database",
			Action:  "Check the project database schema",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "database is closed",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
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
//	err := errors.New(`ERROR: relation "link" does not exist (SQLSTATE 42P01)`)
//	msg := MapError(err)
//	// msg.Code == "DB001"
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
//
// Example:
//
//	if IsUserFacing(err) {
//	    showToUser(FormatUserError(err))
//	} else {
//	    log.Error(err) // Log technical error
//	    showToUser("An error occurred. Please try again.")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}
