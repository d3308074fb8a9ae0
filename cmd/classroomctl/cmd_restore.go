// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/juju/ansiterm"
	"github.com/spf13/cobra"

	"github.com/tomtom215/classroom/internal/backup"
	"github.com/tomtom215/classroom/internal/database"
	"github.com/tomtom215/classroom/internal/logging"
)

// cliActor is recorded as the actor of restore runs started from the CLI.
const cliActor = "classroomctl"

func newRestoreCmd(root *rootOptions) *cobra.Command {
	var (
		opts         backup.Options
		sourceCourse string
	)

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore a backup file into the configured store",
		Long: `Restore a .json, .json.gz or .json.zst backup into the store.

Without course flags the whole backup is restored. --source-course with
--target-course copies one course's curriculum onto an existing course.
--target-course with --merge-all merges every course in the backup onto it.
The restore runs in a single transaction; --dry-run rolls it back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SourceCourseID = backup.ID(sourceCourse)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := database.New(&root.db)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing database")
				}
			}()

			return runRestore(ctx, cmd.OutOrStdout(), backup.NewEngine(db.Sqlx(), backup.WithHistory(db)), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.ClearExisting, "clear", false, "delete all restorable data first (full restores only)")
	f.StringVar(&sourceCourse, "source-course", "", "backup course id to copy")
	f.StringVar(&opts.RestoreToCourseID, "target-course", "", "existing course id to restore onto")
	f.BoolVar(&opts.MergeAllCourses, "merge-all", false, "merge every backup course onto --target-course")
	f.BoolVar(&opts.DryRun, "dry-run", false, "run the restore and roll it back")
	f.BoolVar(&opts.SkipUsers, "skip-users", false, "match users by email but never create them")
	f.BoolVar(&opts.SkipGrades, "skip-grades", false, "skip grades and grade criteria")
	f.BoolVar(&opts.SkipQuizAttempts, "skip-quiz-attempts", false, "skip quiz attempts")
	f.BoolVar(&opts.SkipExercises, "skip-exercises", false, "skip exercises and their submissions")
	f.BoolVar(&opts.SkipQuizQuestions, "skip-quiz-questions", false, "skip quiz questions")
	f.BoolVar(&opts.SkipLessonNotes, "skip-lesson-notes", false, "skip lesson notes")
	f.BoolVar(&opts.SkipPDFResources, "skip-pdf-resources", false, "skip PDF resources")
	return cmd
}

// Restorer is the engine surface the command drives.
type Restorer interface {
	Restore(ctx context.Context, doc *backup.Document, opts backup.Options) (*backup.Result, error)
}

func runRestore(ctx context.Context, out io.Writer, engine Restorer, path string, opts backup.Options) error {
	doc, err := backup.DecodeFile(path)
	if err != nil {
		return err
	}

	res, err := engine.Restore(backup.ContextWithActor(ctx, cliActor), doc, opts)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	return writeResult(out, res)
}

func writeResult(out io.Writer, res *backup.Result) error {
	status := "committed"
	if res.DryRun {
		status = "rolled back (dry run)"
	}
	fmt.Fprintf(out, "Restore %s: mode=%s encoding=%s in %s\n", status, res.Mode, res.Encoding, res.Duration.Round(time.Millisecond))
	if res.RunID != "" {
		fmt.Fprintf(out, "Run:      %s\n", res.RunID)
	}
	cw := ansiterm.NewWriter(out)
	for _, w := range res.Warnings {
		warnColor.Fprintf(cw, "Warning:  %s\n", w)
	}
	fmt.Fprintln(out)

	entities := make([]string, 0, len(res.Details))
	for e := range res.Details {
		entities = append(entities, string(e))
	}
	sort.Strings(entities)

	tw := newTable(out)
	fmt.Fprintln(tw, "ENTITY\tCREATED\tMATCHED\tSKIPPED\tDROPPED")
	for _, e := range entities {
		c := res.Details[backup.EntityType(e)]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e,
			humanize.Comma(int64(c.Created)), humanize.Comma(int64(c.Matched)),
			humanize.Comma(int64(c.Skipped)), humanize.Comma(int64(c.Dropped)))
	}
	fmt.Fprintf(tw, "total created\t%s\t\t\t\n", humanize.Comma(int64(res.Stats.Total())))
	return tw.Flush()
}
