package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// NotLoadedMessage is returned for any query while no repository is loaded.
const NotLoadedMessage = "❌ Please load a repository first."

// timeoutMessage guides the user toward queries that fit the deadline.
const timeoutMessage = `⚠️ The request timed out. Please try:
1. A more specific query
2. Asking about a smaller part of the code
3. Breaking your question into smaller parts`

// renderError turns a generation failure into a user-facing message.
// Deadline errors get actionable guidance; everything else is reported
// as-is.
func renderError(err error) string {
	if isTimeout(err) {
		return timeoutMessage
	}
	return fmt.Sprintf("❌ Error generating explanation: %v", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded")
}
