// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

/*
Package supervisor runs the server's long-lived services under a suture v4
supervisor tree.

	classroom (root)
	├── maintenance-layer
	│   └── login-lockout      auth.LockoutManager cleanup loop
	└── api-layer
	    └── http-server        services.HTTPServerService

Supervisor events are logged through sutureslog into the zerolog-backed
slog.Logger returned by logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMaintenanceService(lockout)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
