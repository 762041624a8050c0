package protocol

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed steps.yaml
var stepsFS embed.FS

// Step is one action of the guided recovery protocol.
type Step struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Caption string `yaml:"caption"`
}

type stepsFile struct {
	Protocol string `yaml:"protocol"`
	Version  int    `yaml:"version"`
	Steps    []Step `yaml:"steps"`
}

// fallback used when the embedded catalog cannot be read
var fallbackSteps = []Step{
	{ID: "stand", Title: "Stand up", Caption: "Break the freeze with a small change in posture."},
	{ID: "water", Title: "Drink water", Caption: "Hydration helps you feel steadier and more present."},
	{ID: "breathe", Title: "Breathe 60 seconds", Caption: "Slow, steady breaths. Inhale 4, exhale 6."},
	{ID: "replace", Title: "Small replacement action", Caption: "Read 1 page, stretch 2 minutes, or message a friend."},
}

var (
	stepsOnce sync.Once
	steps     []Step
)

// Steps returns the protocol steps in order.
func Steps() []Step {
	stepsOnce.Do(func() {
		data, err := stepsFS.ReadFile("steps.yaml")
		if err == nil {
			steps, err = parseSteps(data)
		}
		if err != nil {
			steps = fallbackSteps
		}
	})
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

func parseSteps(data []byte) ([]Step, error) {
	var f stepsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse steps: %w", err)
	}
	if strings.TrimSpace(f.Protocol) != "recovery" {
		return nil, fmt.Errorf("unexpected protocol: %q", f.Protocol)
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("no steps defined")
	}
	seen := make(map[string]bool, len(f.Steps))
	for _, s := range f.Steps {
		if s.ID == "" || s.Title == "" {
			return nil, errors.New("step missing id or title")
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate step %q", s.ID)
		}
		seen[s.ID] = true
	}
	return f.Steps, nil
}
