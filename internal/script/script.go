// Package script runs batch scripts against a command engine. A script declares
// invokers and channels, then a list of steps: a command line run as one of the
// invokers, optionally inside a channel, with the messages that invoker is
// expected to receive.
//
//	invokers:
//	  - name: alice
//	    permissions: ["demo.*"]
//	channels:
//	  - name: lobby
//	    members: [alice]
//	steps:
//	  - as: alice
//	    run: sum 2 40
//	    expect: ["42"]
package script

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Script is a parsed batch script.
type Script struct {
	Name     string        `yaml:"name"`
	Invokers []InvokerSpec `yaml:"invokers"`
	Channels []ChannelSpec `yaml:"channels"`
	Steps    []Step        `yaml:"steps"`
}

// InvokerSpec declares an invoker and the permission nodes it holds.
type InvokerSpec struct {
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

// ChannelSpec declares a channel and its initial members.
type ChannelSpec struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// Step is one command line.
type Step struct {
	// As names the invoker running the command.
	As string `yaml:"as"`
	// In names the channel, if any.
	In  string `yaml:"in"`
	Run string `yaml:"run"`
	// Expect lists the messages the invoker must receive, in order. When
	// omitted the output is not checked; an empty list expects silence.
	Expect []string `yaml:"expect"`
	// Unknown expects no command to be registered under the name.
	Unknown bool `yaml:"unknown"`
	// Fails expects the handler to return an error.
	Fails bool `yaml:"fails"`
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Parse decodes a script and checks every reference it makes.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) validate() error {
	var result *multierror.Error
	invokers := make(map[string]bool, len(s.Invokers))
	for _, inv := range s.Invokers {
		if inv.Name == "" {
			result = multierror.Append(result, errors.New("invoker without a name"))
			continue
		}
		if invokers[inv.Name] {
			result = multierror.Append(result, fmt.Errorf("invoker %q declared twice", inv.Name))
		}
		invokers[inv.Name] = true
	}

	channels := make(map[string]bool, len(s.Channels))
	for _, ch := range s.Channels {
		if ch.Name == "" {
			result = multierror.Append(result, errors.New("channel without a name"))
			continue
		}
		if channels[ch.Name] {
			result = multierror.Append(result, fmt.Errorf("channel %q declared twice", ch.Name))
		}
		channels[ch.Name] = true
		for _, m := range ch.Members {
			if !invokers[m] {
				result = multierror.Append(result, fmt.Errorf("channel %q: unknown member %q", ch.Name, m))
			}
		}
	}

	for i, step := range s.Steps {
		switch {
		case !invokers[step.As]:
			result = multierror.Append(result, fmt.Errorf("step %d: unknown invoker %q", i+1, step.As))
		case step.In != "" && !channels[step.In]:
			result = multierror.Append(result, fmt.Errorf("step %d: unknown channel %q", i+1, step.In))
		case strings.TrimSpace(step.Run) == "":
			result = multierror.Append(result, fmt.Errorf("step %d: nothing to run", i+1))
		}
	}
	return result.ErrorOrNil()
}
