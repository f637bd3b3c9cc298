// Package fixtures loads seed scenarios (YAML/JSON) describing data to create
// through the task service.
package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adda-Baaj/taskprobe/pkg/taskapi"
	"gopkg.in/yaml.v3"
)

// Scenario lists the entities to create, in the order they are applied:
// companies, users, tasks, then avatars.
type Scenario struct {
	Companies []taskapi.Company `json:"companies" yaml:"companies"`
	Users     []UserFixture     `json:"users" yaml:"users"`
	Tasks     []taskapi.Task    `json:"tasks" yaml:"tasks"`
	Avatars   []AvatarFixture   `json:"avatars" yaml:"avatars"`

	// Dir is the directory of the scenario file; relative avatar paths resolve against it.
	Dir string `json:"-" yaml:"-"`
}

// UserFixture is a user to create; WithTasks selects the createuserwithtasks endpoint.
type UserFixture struct {
	taskapi.User `yaml:",inline"`
	WithTasks    bool `json:"with_tasks" yaml:"with_tasks"`
}

// AvatarFixture uploads the file at Path for Email.
type AvatarFixture struct {
	Email string `json:"email" yaml:"email"`
	Path  string `json:"path" yaml:"path"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("scenario file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	sc, err := parseScenario(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	sc = sanitizeScenario(sc)
	if err := validateScenario(sc); err != nil {
		return nil, err
	}
	sc.Dir = filepath.Dir(path)
	return &sc, nil
}

// Size returns the number of requests the scenario will issue.
func (s *Scenario) Size() int {
	if s == nil {
		return 0
	}
	return len(s.Companies) + len(s.Users) + len(s.Tasks) + len(s.Avatars)
}

// AvatarPath resolves a relative avatar path against the scenario directory.
func (s *Scenario) AvatarPath(a AvatarFixture) string {
	if filepath.IsAbs(a.Path) || s == nil || s.Dir == "" {
		return a.Path
	}
	return filepath.Join(s.Dir, a.Path)
}

func parseScenario(data []byte, ext string) (Scenario, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var sc Scenario
		if err := d.fn(data, &sc); err != nil {
			errs = append(errs, fmt.Errorf("decode %s scenario: %w", d.name, err))
			continue
		}
		return sc, nil
	}
	if len(errs) > 0 {
		return Scenario{}, errors.Join(errs...)
	}
	return Scenario{}, errors.New("scenario file format not recognized (expected YAML or JSON)")
}

func sanitizeScenario(sc Scenario) Scenario {
	for i := range sc.Companies {
		c := &sc.Companies[i]
		c.Name = strings.TrimSpace(c.Name)
		c.Type = strings.TrimSpace(c.Type)
		c.OwnerEmail = strings.TrimSpace(c.OwnerEmail)
		for j := range c.Users {
			c.Users[j] = strings.TrimSpace(c.Users[j])
		}
	}
	for i := range sc.Users {
		u := &sc.Users[i]
		u.Email = strings.TrimSpace(u.Email)
		u.Name = strings.TrimSpace(u.Name)
	}
	for i := range sc.Tasks {
		t := &sc.Tasks[i]
		t.Title = strings.TrimSpace(t.Title)
		t.OwnerEmail = strings.TrimSpace(t.OwnerEmail)
		t.AssignEmail = strings.TrimSpace(t.AssignEmail)
	}
	for i := range sc.Avatars {
		a := &sc.Avatars[i]
		a.Email = strings.TrimSpace(a.Email)
		a.Path = strings.TrimSpace(a.Path)
	}
	return sc
}

func validateScenario(sc Scenario) error {
	if sc.Size() == 0 {
		return errors.New("scenario file contains no entries")
	}
	for i, c := range sc.Companies {
		if c.Name == "" {
			return fmt.Errorf("companies[%d]: company_name is required", i)
		}
	}
	for i, u := range sc.Users {
		if u.Email == "" {
			return fmt.Errorf("users[%d]: email is required", i)
		}
	}
	for i, t := range sc.Tasks {
		if t.Title == "" {
			return fmt.Errorf("tasks[%d]: task_title is required", i)
		}
		if t.AssignEmail == "" {
			return fmt.Errorf("tasks[%d]: email_assign is required", i)
		}
	}
	for i, a := range sc.Avatars {
		if a.Email == "" || a.Path == "" {
			return fmt.Errorf("avatars[%d]: email and path are required", i)
		}
	}
	return nil
}
