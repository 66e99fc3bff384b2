// Package api serves projects, share tokens and snapshots over HTTP, and
// provides a client for that API.
//
// # Routes
//
//	GET    /healthz                               build info
//	GET    /api/v1/projects                       list projects
//	POST   /api/v1/projects                       create a project
//	GET    /api/v1/projects/{id}                  fetch a project
//	PUT    /api/v1/projects/{id}                  update name and/or settings
//	DELETE /api/v1/projects/{id}                  delete a project
//	GET    /api/v1/projects/{id}/snapshot.{fmt}   render json|svg|png|pdf|dot
//	POST   /api/v1/share                          settings -> share token and URL
//	GET    /api/v1/share/{token}                  share token -> settings
//
// Settings bodies use the same strict JSON form as settings files. Errors
// are JSON documents carrying the error code from pkg/errors:
//
//	{"error": {"code": "PROJECT_NOT_FOUND", "message": "..."}, "request_id": "..."}
//
// Every response carries an X-Request-ID header. Snapshot responses also
// carry X-Cache: hit or miss.
//
// # Server
//
//	srv := api.NewServer(api.Options{
//	    Store:       store,
//	    Snapshotter: pipeline.NewSnapshotter(cache, nil, logger),
//	    Logger:      logger,
//	    PublicURL:   "https://grid.example.com",
//	})
//	http.ListenAndServe(":8080", srv)
//
// # Client
//
//	c := api.NewClient("https://grid.example.com", nil)
//	p, err := c.CreateProject(ctx, "waves", settings.Default())
package api
