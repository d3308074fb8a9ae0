// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

// Command classroomctl restores and inspects Classroom backup files
// without going through the HTTP API.
//
//	classroomctl inspect backup.json.zst
//	classroomctl restore backup.json.gz --dry-run
//	classroomctl restore backup.json --source-course 12 --target-course <uuid>
//
// The store is selected with --db-driver and --db-path, which default to
// DB_DRIVER and DB_PATH.
package main

import (
	"os"

	"github.com/tomtom215/classroom/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("classroomctl failed")
		os.Exit(1)
	}
}
