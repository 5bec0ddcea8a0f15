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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

func newSuggestCmd(a *app) *cobra.Command {
	var intent intentFlags
	cmd := &cobra.Command{
		Use:     "suggest",
		Short:   "Print the scoring weights suggested for a workload intent",
		Example: "  dsoptimizer suggest --speed-critical",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			intent.apply(cmd.Flags(), &cfg)
			p := profile.Profile{}.WithIntent(cfg.Intent)
			w := cfg.ResolveWeights(p)

			ux.Title("SUGGESTED WEIGHTS")
			ux.Plain(ux.Table(
				[]string{"Time", "Space", "Suitability"},
				[][]string{{f2(w.Time), f2(w.Space), f2(w.Suitability)}},
			))
			if cfg.Weights == nil && ux.GetPersonality().ShowTips {
				ux.Muted(fmt.Sprintf("Tip: pass --time-weight %s --space-weight %s --suitability-weight %s to run to pin these.",
					f2(w.Time), f2(w.Space), f2(w.Suitability)))
			}
			return nil
		},
	}
	intent.register(cmd.Flags())
	return cmd
}
