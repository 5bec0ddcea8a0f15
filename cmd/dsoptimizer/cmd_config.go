// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/dsoptimizer/pkg/logging"
	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage run configuration files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "dsoptimizer.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(logging.ExpandPath(path)); err == nil && !force {
				ux.Warning(path + " already exists, pass --force to overwrite")
				return os.ErrExist
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				ux.Error(err.Error())
				return err
			}
			ux.Success("Wrote " + path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := config.Marshal(a.cfg)
			if err != nil {
				return err
			}
			ux.Plain(string(out))
			return nil
		},
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}
