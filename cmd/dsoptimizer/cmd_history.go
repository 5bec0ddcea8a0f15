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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/storage"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show or delete saved runs",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(store *storage.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					ux.Info("No saved runs")
					return nil
				}
				ux.Plain(historyTable(runs))
				return nil
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")

	var compare string
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store *storage.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printRun(run, splitPair(compare))
				return nil
			})
		},
	}
	show.Flags().StringVar(&compare, "compare", "", "compare two structures, e.g. BST,HashTable")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store *storage.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				ux.Success("Deleted run " + args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

// withStore opens history for the duration of fn.
func (a *app) withStore(fn func(*storage.Store) error) error {
	store, err := a.requireStore()
	if err != nil {
		ux.Error(err.Error())
		return err
	}
	defer store.Close()

	if err := fn(store); err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			ux.Error("No such run")
		} else {
			ux.Error(fmt.Sprintf("History: %v", err))
		}
		return err
	}
	return nil
}
