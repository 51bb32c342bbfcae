// Package demo holds the login checks used by the two demo forms. The unsafe
// check is deliberately vulnerable and leaks which part of the login failed.
package demo

import (
	"fmt"
	"strings"
)

// Outcome is the result kind of a login evaluation.
type Outcome string

const (
	Success       Outcome = "success"
	WrongPassword Outcome = "wrong_password"
	UserNotFound  Outcome = "user_not_found"
	XSSTriggered  Outcome = "xss_triggered"
	RateLimited   Outcome = "rate_limited"
	Failure       Outcome = "failure"
)

// Account is a plaintext demo credential.
type Account struct {
	Username string
	Password string
}

// UnsafeAccounts is the plaintext table shown on the unsafe demo.
var UnsafeAccounts = []Account{
	{Username: "admin", Password: "password123"},
	{Username: "user", Password: "12345"},
	{Username: "enigma", Password: "museum"},
}

// Safe demo credentials.
const (
	SafeUsername = "admin"
	SafePassword = "secure123"
)

// Result is what a demo form shows after a submit.
type Result struct {
	Outcome Outcome
	User    string
	Message string
}

// OK reports whether the result is a successful login.
func (r Result) OK() bool {
	return r.Outcome == Success
}

var xssMarkers = []string{"<script", "<img", "onerror"}

// EvaluateUnsafe runs the vulnerable login. Script payloads short-circuit to
// the XSS disclosure and a quote-comment username logs in as admin.
func EvaluateUnsafe(accounts []Account, username, password string) Result {
	for _, m := range xssMarkers {
		if strings.Contains(username, m) {
			return Result{Outcome: XSSTriggered}
		}
	}

	if strings.Contains(username, "admin'") && strings.Contains(username, "--") {
		return Result{Outcome: Success, User: "admin", Message: "Login successful for admin"}
	}

	exists := false
	for _, a := range accounts {
		if a.Username != username {
			continue
		}
		if a.Password == password {
			return Result{Outcome: Success, User: username, Message: fmt.Sprintf("Login successful for %s", username)}
		}
		exists = true
	}

	if exists {
		return Result{Outcome: WrongPassword, User: username, Message: fmt.Sprintf("Incorrect password for user: %s", username)}
	}
	return Result{Outcome: UserNotFound, Message: fmt.Sprintf("User not found: %s", username)}
}

// Messages shown by the safe demo. Failures never say which field was wrong.
const (
	SafeSuccessMessage     = "Login successful! Welcome back."
	SafeFailureMessage     = "Incorrect username or password."
	SafeRateLimitedMessage = "Too many login attempts. Try again later."
)

// SafeResult builds the safe demo result for a verified or rejected login.
func SafeResult(username string, ok bool) Result {
	if ok {
		return Result{Outcome: Success, User: username, Message: SafeSuccessMessage}
	}
	return Result{Outcome: Failure, Message: SafeFailureMessage}
}

// RateLimitedResult is returned once the attempt limit is reached.
func RateLimitedResult() Result {
	return Result{Outcome: RateLimited, Message: SafeRateLimitedMessage}
}

// Sanitize strips angle brackets from input.
func Sanitize(input string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(input)
}
