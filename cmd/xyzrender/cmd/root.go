// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmd implements the commands of xyzrender.
package cmd

import (
	"github.com/spf13/cobra"

	"cogentcore.org/scene/base/logx"
	"cogentcore.org/scene/config"
)

// options are the flags shared by all commands.
type options struct {
	settings string
	prefs    string
	verbose  bool
	debug    bool
	quiet    bool
}

// Root returns the root command with all subcommands.
func Root() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:          "xyzrender",
		Short:        "Render a demo scene offscreen and pick objects in it",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&o.settings, "config", "c", "", "settings file (TOML)")
	pf.StringVarP(&o.prefs, "prefs", "p", "", "preferences file (TOML)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "log info messages")
	pf.BoolVar(&o.debug, "vv", false, "log debug messages")
	pf.BoolVarP(&o.quiet, "quiet", "q", false, "only log errors")

	root.AddCommand(renderCmd(o), pickCmd(o), dumpCmd(o))
	return root
}

// load sets up logging and returns the settings and preferences given
// by the flags, or the defaults.
func (o *options) load() (*config.Settings, *config.Preferences, error) {
	logx.SetDefaultLogger()
	s := config.Defaults()
	if o.settings != "" {
		var err error
		s, err = config.Open(o.settings)
		if err != nil {
			return nil, nil, err
		}
	}
	level := s.LogLevel()
	if o.debug || o.verbose || o.quiet {
		level = logx.LevelFromFlags(o.debug, o.verbose, o.quiet)
	}
	logx.UserLevel.Set(level)

	p := config.NewPreferences()
	if o.prefs != "" {
		var err error
		p, err = config.OpenPreferences(o.prefs)
		if err != nil {
			return nil, nil, err
		}
	}
	return s, p, nil
}
