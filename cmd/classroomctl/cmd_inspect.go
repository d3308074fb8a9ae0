// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tomtom215/classroom/internal/backup"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print backup metadata and record counts without touching a store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0])
		},
	}
}

func runInspect(out io.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat backup file: %w", err)
	}
	doc, err := backup.DecodeFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "File:      %s (%s)\n", path, humanize.Bytes(uint64(info.Size()))) //nolint:gosec // file sizes are non-negative
	if doc.Metadata != nil {
		fmt.Fprintf(out, "Version:   %s\n", doc.Metadata.Version)
		if doc.Metadata.ExportedAt != nil {
			fmt.Fprintf(out, "Exported:  %s (%s)\n",
				doc.Metadata.ExportedAt.UTC().Format("2006-01-02 15:04:05 MST"),
				humanize.Time(*doc.Metadata.ExportedAt))
		}
		if doc.Metadata.ExportedBy != "" {
			fmt.Fprintf(out, "By:        %s\n", doc.Metadata.ExportedBy)
		}
	}
	if doc.Data == nil {
		fmt.Fprintln(out, "Data:      missing")
		return nil
	}
	fmt.Fprintf(out, "Encoding:  %s\n\n", doc.Data.Encoding())

	counts := doc.Data.Counts()
	var declared map[string]int
	if doc.Metadata != nil {
		declared = doc.Metadata.RecordCounts
	}
	return writeCounts(out, counts, declared)
}

// writeCounts prints one row per entity type with records, alongside the
// count declared in metadata when it differs.
func writeCounts(out io.Writer, counts map[backup.EntityType]int, declared map[string]int) error {
	entities := make([]string, 0, len(counts))
	total := 0
	for e, n := range counts {
		if n > 0 {
			entities = append(entities, string(e))
			total += n
		}
	}
	sort.Strings(entities)

	tw := newTable(out)
	fmt.Fprintln(tw, "ENTITY\tRECORDS\tDECLARED")
	for _, e := range entities {
		n := counts[backup.EntityType(e)]
		d := ""
		if want, ok := declared[e]; ok && want != n {
			d = humanize.Comma(int64(want))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e, humanize.Comma(int64(n)), d)
	}
	fmt.Fprintf(tw, "total\t%s\t\n", humanize.Comma(int64(total)))
	return tw.Flush()
}
