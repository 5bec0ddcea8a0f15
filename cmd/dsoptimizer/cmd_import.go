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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/dsoptimizer/pkg/logging"
	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "import <results.csv>",
		Short:   "Rank structures from a previously exported results CSV",
		Example: "  dsoptimizer import results.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := logging.ExpandPath(args[0])
			f, err := os.Open(path)
			if err != nil {
				ux.Error(fmt.Sprintf("Cannot open %s", args[0]))
				return err
			}
			defer f.Close()

			res, err := benchmark.ReadCSV(f)
			if err != nil {
				ux.Error(err.Error())
				return err
			}
			a.logger.Info("imported results", "path", path, "rows", len(res.Rows), "failed", res.Failed)
			if res.Failed > 0 {
				ux.Warning(fmt.Sprintf("Skipped %d malformed rows", res.Failed))
			}

			ux.Title("IMPORTED RESULTS")
			ux.Plain(importedTable(res.Rows))
			ux.Plain(recommend.Recommendation(recommend.FromImported(res.Rows)))
			return nil
		},
	}
}
