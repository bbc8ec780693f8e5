package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Responder kinds a persona can use to answer messages
const (
	ResponderLLM  = "llm"
	ResponderEcho = "echo"
)

// Persona describes how a chat front-end greets and answers users
type Persona struct {
	SystemPrompt string `yaml:"system_prompt"`
	Greeting     string `yaml:"greeting"`
	Responder    string `yaml:"responder"`
}

// personasFile represents the structure of personas.yaml
type personasFile struct {
	Personas map[string]Persona `yaml:"personas"`
}

const motivatorPrompt = "You are a helpful and creative assistant who tries your best to answer questions " +
	" in the most witty and funny way.  If you feel that a poetic touch is neede to " +
	" uplift the mood for the user, go ahead to write a sonnet.  Always be positive, " +
	" encouraging, and inspirational if possible."

// DefaultPersonas returns the built-in personas
func DefaultPersonas() map[string]Persona {
	return map[string]Persona{
		"motivator": {
			SystemPrompt: motivatorPrompt,
			Greeting:     "Hello there!  How are you?",
			Responder:    ResponderLLM,
		},
		"echo": {
			Greeting:  "How can I help you about Meta's 2023 10K?",
			Responder: ResponderEcho,
		},
	}
}

// loadPersonas merges personas from path over the built-in ones.
// A missing file is not an error.
func loadPersonas(path string) (map[string]Persona, error) {
	personas := DefaultPersonas()
	if path == "" {
		return personas, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return personas, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read personas file: %w", err)
	}

	var parsed personasFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse personas YAML: %w", err)
	}

	for name, p := range parsed.Personas {
		if p.Responder == "" {
			p.Responder = ResponderLLM
		}
		if p.Responder != ResponderLLM && p.Responder != ResponderEcho {
			return nil, fmt.Errorf("persona %q: unknown responder %q", name, p.Responder)
		}
		if p.Greeting == "" {
			return nil, fmt.Errorf("persona %q: greeting is required", name)
		}
		personas[name] = p
	}

	return personas, nil
}
