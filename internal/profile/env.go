//go:build linux

package profile

// Represents an environment variable exported by the generated environment file
type EnvVar struct {
	Name  string
	Value string
}

// Appends environment variables to an existing list, ignoring and returning any whose names clash
// with a variable that is already present. Earlier layers always win.
func appendEnvVars(vars []EnvVar, additions []EnvVar) ([]EnvVar, []EnvVar) {
	merged := vars
	ignored := []EnvVar{}

	// Add each additional variable to the list if it doesn't clash with an existing name
outer:
	for _, addition := range additions {

		// Determine whether we already have a variable with the same name
		for _, existing := range merged {
			if existing.Name == addition.Name {
				ignored = append(ignored, addition)
				continue outer
			}
		}

		// Add the variable to the list
		merged = append(merged, addition)
	}

	return merged, ignored
}

// Looks up a variable by name
func lookupEnvVar(vars []EnvVar, name string) (string, bool) {
	for _, v := range vars {
		if v.Name == name {
			return v.Value, true
		}
	}

	return "", false
}
