// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

/*
Package models defines the HTTP request and response shapes of the admin API.

Every endpoint answers with an APIResponse envelope. Restore results are the
backup package's Result type placed in Data; history rows and table counts
are rendered through RestoreRunView and TableCountsResponse.

The backup document itself is not modelled here. Its record types live in
the backup package next to the code that restores them.
*/
package models
