// Package project classifies a Python project from filesystem evidence:
// its coarse type (poetry, pip_venv, setuptools, unknown) and the five
// capability flags with the evidence supporting each one.
//
// Only presence of files and declared tables is inspected. Nothing is
// executed and nothing is inferred beyond what a file literally declares.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Script is one declared script entry, in file order.
type Script struct {
	Name    string
	Command string
}

// Pyproject is the subset of pyproject.toml the analyzers consume.
// Script slices preserve declaration order, which the run-command detector
// relies on for its "first declared script" fallback.
type Pyproject struct {
	HasPoetrySection      bool
	PoetryDependencies    map[string]interface{}
	PoetryDevDependencies map[string]interface{}
	PoetryScripts         []Script
	ProjectScripts        []Script
	ProjectDeps           []string
	RequiresPython        string
}

// pyprojectDoc mirrors the TOML tables we read.
type pyprojectDoc struct {
	Tool struct {
		Poetry struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
			Scripts      map[string]string      `toml:"scripts"`
			Group        struct {
				Dev struct {
					Dependencies map[string]interface{} `toml:"dependencies"`
				} `toml:"dev"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
	Project struct {
		Dependencies   []string          `toml:"dependencies"`
		Scripts        map[string]string `toml:"scripts"`
		RequiresPython string            `toml:"requires-python"`
	} `toml:"project"`
}

// LoadPyproject reads and parses <root>/pyproject.toml. A missing or
// malformed file returns an error; callers treat that as "no evidence",
// never as a fatal condition.
func LoadPyproject(root string) (*Pyproject, error) {
	path := filepath.Join(root, "pyproject.toml")
	var doc pyprojectDoc
	md, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("parse pyproject.toml: %w", err)
	}

	p := &Pyproject{
		HasPoetrySection:      md.IsDefined("tool", "poetry"),
		PoetryDependencies:    doc.Tool.Poetry.Dependencies,
		PoetryDevDependencies: doc.Tool.Poetry.Group.Dev.Dependencies,
		ProjectDeps:           doc.Project.Dependencies,
		RequiresPython:        doc.Project.RequiresPython,
	}

	// MetaData.Keys is in file order; recover script declaration order
	// from it since the decoded maps have none.
	for _, key := range md.Keys() {
		parts := []string(key)
		switch {
		case len(parts) == 4 && parts[0] == "tool" && parts[1] == "poetry" && parts[2] == "scripts":
			name := parts[3]
			p.PoetryScripts = append(p.PoetryScripts, Script{Name: name, Command: doc.Tool.Poetry.Scripts[name]})
		case len(parts) == 3 && parts[0] == "project" && parts[1] == "scripts":
			name := parts[2]
			p.ProjectScripts = append(p.ProjectScripts, Script{Name: name, Command: doc.Project.Scripts[name]})
		}
	}
	return p, nil
}

// PoetryPythonConstraint returns the python version constraint declared
// under [tool.poetry.dependencies], or "".
func (p *Pyproject) PoetryPythonConstraint() string {
	if p == nil {
		return ""
	}
	if v, ok := p.PoetryDependencies["python"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// fileExists reports whether path is an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// dirExists reports whether path is an existing directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
