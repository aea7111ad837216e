// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

/*
Package supervisor runs Trilha's long-lived services under a suture v4 tree.

The tree has three layers so a failure in one does not take down the others:

	RootSupervisor ("trilha")
	├── DataSupervisor ("data-layer")
	│   └── StoreGCService (badger value log GC)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── EventRouterService (feedback events, if events enabled)
	│   └── AdaptationService (periodic sweep, if adaptation enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog into the zerolog stream.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
