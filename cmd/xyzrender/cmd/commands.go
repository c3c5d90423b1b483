// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"cogentcore.org/scene/base/errors"
	"cogentcore.org/scene/config"
	"cogentcore.org/scene/render"
	"cogentcore.org/scene/xyz"
)

func renderCmd(o *options) *cobra.Command {
	var out string
	var watch bool
	c := &cobra.Command{
		Use:   "render",
		Short: "Render one frame and write the output of every pass as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, prefs, err := o.load()
			if err != nil {
				return err
			}
			d := newDemo(s, prefs)
			defer d.close()
			if err := d.frame(); err != nil {
				return err
			}
			if err := d.writeOutputs(out); err != nil {
				return err
			}
			if !watch || o.prefs == "" {
				return nil
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			fmt.Fprintln(cmd.OutOrStdout(), "watching", o.prefs)
			return config.WatchPreferences(ctx, o.prefs, func(p *config.Preferences) {
				render.ApplyPreferences(d.renderer.DefaultShader, p)
				if errors.Log(d.frame()) == nil {
					errors.Log(d.writeOutputs(out))
				}
			})
		},
	}
	c.Flags().StringVarP(&out, "out", "o", ".", "directory the PNG files are written to")
	c.Flags().BoolVarP(&watch, "watch", "w", false, "render again when the preferences file changes")
	return c
}

func pickCmd(o *options) *cobra.Command {
	var faces bool
	c := &cobra.Command{
		Use:   "pick x y",
		Short: "Print what is drawn at the normalized device coordinates x, y in [-1, 1]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 32)
			if err != nil {
				return err
			}
			y, err := strconv.ParseFloat(args[1], 32)
			if err != nil {
				return err
			}
			s, prefs, err := o.load()
			if err != nil {
				return err
			}
			d := newDemo(s, prefs)
			defer d.close()
			sp := d.renderer.RenderPass(render.SelectionPassName).(*render.SelectionPass)
			if faces {
				sp.SetMode(render.SelectFaces)
			}
			if err := d.frame(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fx, fy := float32(x), float32(y)
			if faces {
				if n, face, ok := sp.FaceAtPosition(fx, fy); ok {
					fmt.Fprintf(w, "%s face %d\n", n.AsNodeBase().Path(), face)
					return nil
				}
				fmt.Fprintln(w, "nothing")
				return nil
			}
			if axis := sp.ToolHandleAxisAtPosition(fx, fy); axis != xyz.NoAxis {
				fmt.Fprintf(w, "tool handle axis %v\n", axis)
				return nil
			}
			if n := sp.NodeAtPosition(fx, fy); n != nil {
				fmt.Fprintf(w, "%s id %d\n", n.AsNodeBase().Path(), n.AsNodeBase().ID())
				return nil
			}
			fmt.Fprintln(w, "nothing")
			return nil
		},
	}
	c.Flags().BoolVarP(&faces, "faces", "f", false, "pick faces of the selection instead of objects")
	return c
}

func dumpCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the demo scene tree as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, prefs, err := o.load()
			if err != nil {
				return err
			}
			d := newDemo(s, prefs)
			defer d.close()
			d.queue.Wait()
			return xyz.DumpYAML(cmd.OutOrStdout(), d.scene.Root())
		},
	}
}
