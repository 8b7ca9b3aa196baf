package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/jvm-classgen/classfile"
)

// recipe is a classgen.toml file describing the class to generate.
// Unset keys keep the flag defaults.
type recipe struct {
	Count   *int   `toml:"count"`
	Class   string `toml:"class"`
	Super   string `toml:"super"`
	Message string `toml:"message"`
	Source  string `toml:"source"`
	Out     string `toml:"out"`
	Major   uint16 `toml:"major"`
}

func loadRecipe(path string) (*recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var r recipe
	md, err := toml.Decode(string(data), &r)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	return &r, nil
}

// apply overlays the recipe onto cfg and returns the output path it names.
func (r *recipe) apply(cfg *helloConfig) string {
	if r.Class != "" {
		cfg.className = r.Class
	}
	if r.Super != "" {
		cfg.super = r.Super
	}
	if r.Message != "" {
		cfg.message = r.Message
	}
	if r.Source != "" {
		cfg.source = r.Source
	}
	if r.Count != nil {
		cfg.count = *r.Count
	}
	if r.Major != 0 {
		cfg.major = classfile.MajorVersion(r.Major)
	}
	return r.Out
}
