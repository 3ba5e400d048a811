//go:build linux

package verify

// The outcome of a single verification check
type Check struct {

	// A short description of what was checked
	Name string

	// Specifies whether the check passed
	Passed bool

	// Additional detail, such as the reason for a failure
	Detail string
}

// The outcome of all verification checks
type Report struct {
	Checks []Check
}

func (r *Report) add(name string, passed bool, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: passed, Detail: detail})
}

// Reports whether every check passed
func (r Report) Passed() bool {
	return len(r.Failures()) == 0
}

// Returns the checks that did not pass
func (r Report) Failures() []Check {
	failures := []Check{}
	for _, check := range r.Checks {
		if !check.Passed {
			failures = append(failures, check)
		}
	}

	return failures
}
