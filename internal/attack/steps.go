package attack

// Step is one page of a walkthrough.
type Step struct {
	Title       string
	Explanation string
	Code        string
}

var scenarioSteps = map[Scenario][]Step{
	XSS: {
		{
			Title:       "Payload inserted",
			Explanation: "Malicious JavaScript has been placed in the username field. The page will echo whatever the user typed without escaping it.",
			Code:        XSSPayload,
		},
		{
			Title:       "The server echoes input",
			Explanation: "A vulnerable page builds its HTML by string concatenation, so the payload becomes part of the markup instead of plain text.",
			Code:        `out.innerHTML = "Welcome " + username;`,
		},
		{
			Title:       "The browser runs it",
			Explanation: "The image fails to load, the onerror handler fires, and the attacker's script runs with the victim's cookies and session.",
			Code:        `alert("XSS Attack!")`,
		},
		{
			Title:       "Try it yourself",
			Explanation: "Continue to the login form and press the login button. A simulation of what the attack would do appears in a popup.",
			Code:        `username = ` + XSSPayload,
		},
	},
	SQL: {
		{
			Title:       "Payload inserted",
			Explanation: "The username now ends in a quote followed by an SQL comment marker. The password can be anything.",
			Code:        "Username: admin' --\nPassword: anything",
		},
		{
			Title:       "The query is built by concatenation",
			Explanation: "A vulnerable login pastes the input straight into the SQL text.",
			Code:        "SELECT * FROM users\n WHERE username = '" + SQLUsernamePayload + "' AND password = 'anything'",
		},
		{
			Title:       "The password check disappears",
			Explanation: "The quote closes the string and -- comments out the rest of the query, so only the username is checked.",
			Code:        "SELECT * FROM users WHERE username = 'admin'",
		},
		{
			Title:       "Try it yourself",
			Explanation: "Continue to the login form and press the login button. You are logged in as admin without knowing the password.",
			Code:        "Login successful for admin",
		},
	},
}

// StepsFor returns a copy of the fixed step list for s.
func StepsFor(s Scenario) []Step {
	steps := scenarioSteps[s]
	if len(steps) == 0 {
		return nil
	}
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}
