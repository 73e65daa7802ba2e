// Package starter wires the starter application into one http.Handler.
//
// The App serves server-rendered pages, the browser client, the live
// session socket and the two serverless functions under the configured base
// path, plus Prometheus metrics at the root:
//
//	{base}/                    pages, 404 for unmatched paths
//	{base}/_starter/client.js  browser client
//	{base}/_starter/ws         live session socket
//	{base}/api/hello           hello function
//	{base}/api/echo            echo function
//	/metrics                   Prometheus metrics, when enabled
//
// Typical use:
//
//	cfg, err := config.LoadOrDefault(".")
//	app, err := starter.New(cfg)
//	err = app.Run(ctx)
package starter
