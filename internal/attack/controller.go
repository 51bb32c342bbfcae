// Package attack drives the guided walkthrough shown on the unsafe login demo
// after the user starts a simulated XSS or SQL injection attack.
package attack

import "sync"

// Scenario names a simulated attack.
type Scenario string

const (
	None Scenario = ""
	XSS  Scenario = "xss"
	SQL  Scenario = "sql"
)

// ParseScenario accepts "xss" and "sql".
func ParseScenario(s string) (Scenario, bool) {
	switch Scenario(s) {
	case XSS, SQL:
		return Scenario(s), true
	}
	return None, false
}

// Payloads written into the demo form when a scenario starts.
const (
	XSSPayload         = `<img src="x" onerror="alert('XSS Attack!')">`
	SQLUsernamePayload = "admin' --"
	SQLPasswordPayload = "anything"
)

// State is the walkthrough phase.
type State string

const (
	Idle      State = "idle"
	Stepping  State = "stepping"
	Completed State = "completed"
)

// FormValues mirrors the two demo inputs.
type FormValues struct {
	Username string
	Password string
}

// Controller is the walkthrough state of one unsafe-login mount.
type Controller struct {
	mu        sync.Mutex
	scenario  Scenario
	step      int
	completed bool
	form      FormValues
}

// NewController returns an idle controller with empty form values.
func NewController() *Controller {
	return &Controller{}
}

// StartScenario begins the walkthrough for kind and writes its payload into
// the form. Unknown kinds are ignored.
func (c *Controller) StartScenario(kind Scenario) bool {
	if _, ok := scenarioSteps[kind]; !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scenario = kind
	c.step = 0
	c.completed = false
	switch kind {
	case XSS:
		c.form.Username = XSSPayload
	case SQL:
		c.form.Username = SQLUsernamePayload
		c.form.Password = SQLPasswordPayload
	}
	return true
}

// NextStep moves forward one step. On the last step it marks the scenario
// completed, which requests the disclosure. It reports whether anything changed.
func (c *Controller) NextStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scenario == None || c.completed {
		return false
	}
	if c.step < len(scenarioSteps[c.scenario])-1 {
		c.step++
		return true
	}
	c.completed = true
	return true
}

// FinishWalkthrough returns to the plain login form. The injected form
// values are kept so the user can submit them.
func (c *Controller) FinishWalkthrough() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scenario = None
	c.step = 0
	c.completed = false
}

// SetFormValues records what the user submitted.
func (c *Controller) SetFormValues(username, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = FormValues{Username: username, Password: password}
}

// FormValues returns the current form contents.
func (c *Controller) FormValues() FormValues {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Scenario returns the active scenario, None when idle.
func (c *Controller) Scenario() Scenario {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scenario
}

// StepIndex returns the zero-based current step.
func (c *Controller) StepIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// IsCompleted reports whether the last step was confirmed.
func (c *Controller) IsCompleted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// IsWalkthroughActive is true while a scenario replaces the login form.
func (c *Controller) IsWalkthroughActive() bool {
	return c.Scenario() != None
}

// State derives the walkthrough phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.scenario == None:
		return Idle
	case c.completed:
		return Completed
	default:
		return Stepping
	}
}

// Steps returns the step list of the active scenario.
func (c *Controller) Steps() []Step {
	return StepsFor(c.Scenario())
}

// CurrentStep returns the active step. ok is false when idle.
func (c *Controller) CurrentStep() (Step, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	steps := scenarioSteps[c.scenario]
	if len(steps) == 0 {
		return Step{}, false
	}
	return steps[c.step], true
}
