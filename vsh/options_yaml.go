// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vsh

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vshlang/vsh/interp"
)

// yamlOptions is the textual profile OptionsFromYAML decodes: a subset
// of Options restricted to fields that have a sensible YAML rendering
// (no io.Reader, no *http.Client, no ContentFunc thunks).
type yamlOptions struct {
	Files map[string]string `yaml:"files"`
	Env   map[string]string `yaml:"env"`
	Cwd   string            `yaml:"cwd"`

	ShellOpts struct {
		Errexit  bool `yaml:"errexit"`
		Nounset  bool `yaml:"nounset"`
		Pipefail bool `yaml:"pipefail"`
		XTrace   bool `yaml:"xtrace"`
		NoGlob   bool `yaml:"noglob"`
	} `yaml:"shell_opts"`

	HTTPAllowHosts []string  `yaml:"http_allow_hosts"`
	Clock          time.Time `yaml:"clock"`
	Color          bool      `yaml:"color"`
}

// OptionsFromYAML decodes a textual sandbox profile (initial files, env,
// allow-listed HTTP hosts, shell options) into an Options value, so a
// host can keep a profile next to the script instead of building Go
// literals by hand. Entropy is always nil (fully deterministic); a
// caller wanting HTTP egress enabled must still supply an *http.Client
// by setting Options.HTTP.Client after decoding.
func OptionsFromYAML(data []byte) (Options, error) {
	var y yamlOptions
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Options{}, err
	}
	files := make(map[string]FileSeed, len(y.Files))
	for name, content := range y.Files {
		files[name] = FileSeed{Data: []byte(content)}
	}
	opts := Options{
		Files: files,
		Env:   y.Env,
		Cwd:   y.Cwd,
		ShellOpts: interp.ShellOpts{
			Errexit:  y.ShellOpts.Errexit,
			Nounset:  y.ShellOpts.Nounset,
			Pipefail: y.ShellOpts.Pipefail,
			XTrace:   y.ShellOpts.XTrace,
			NoGlob:   y.ShellOpts.NoGlob,
		},
		Clock: y.Clock,
		Color: y.Color,
	}
	if len(y.HTTPAllowHosts) > 0 {
		opts.HTTP = &HTTPCapability{AllowHosts: y.HTTPAllowHosts}
	}
	return opts, nil
}
