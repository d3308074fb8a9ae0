// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

// Package services adapts blocking components to suture.Service.
package services
