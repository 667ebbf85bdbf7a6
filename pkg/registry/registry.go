package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

//go:embed activities.json
var embedded []byte

// Default returns the registry compiled into the binary.
func Default() (*ActivityRegistry, error) {
	return parse(embedded)
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry: %w", err)
	}
	return &reg, nil
}

// Lookup finds the activity bound to a task type.
func (r *ActivityRegistry) Lookup(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// TimeoutDuration parses Timeout, returning 0 when unset or malformed.
func (a Activity) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Check reports structural problems: missing ids or task types, duplicate
// task types, unparsable timeouts and activities without an input schema.
func (r *ActivityRegistry) Check() []error {
	var problems []error
	seen := map[string]bool{}

	for i, a := range r.Activities {
		name := a.ID
		if name == "" {
			name = fmt.Sprintf("activities[%d]", i)
			problems = append(problems, fmt.Errorf("%s: id is required", name))
		}
		if a.TaskType == "" {
			problems = append(problems, fmt.Errorf("%s: taskType is required", name))
		} else if seen[a.TaskType] {
			problems = append(problems, fmt.Errorf("%s: duplicate taskType %q", name, a.TaskType))
		}
		seen[a.TaskType] = true

		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				problems = append(problems, fmt.Errorf("%s: timeout %q: %v", name, a.Timeout, err))
			}
		}
		if len(a.InputSchema) == 0 {
			problems = append(problems, fmt.Errorf("%s: inputSchema is required", name))
		}
	}
	return problems
}
