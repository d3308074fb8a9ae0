// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package main

import (
	"io"

	"github.com/juju/ansiterm"
)

// warnColor highlights restore warnings. ansiterm drops the escape codes
// when out is not a terminal.
var warnColor = ansiterm.Foreground(ansiterm.Yellow)

// newTable returns the column writer used for every tabular listing.
func newTable(out io.Writer) *ansiterm.TabWriter {
	return ansiterm.NewTabWriter(out, 0, 0, 2, ' ', 0)
}
