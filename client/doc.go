// Package client provides the HTTP transport used by the mirror client,
// built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(30 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//		client.WithRetries(5),
//	)
//
// # Retries
//
// [Client.Fetch] re-issues a request that failed at the transport level
// (DNS, refused connections, resets, timeouts) until the attempt budget is
// spent. A response with an error status is not a transport failure and is
// returned as is. The delay between attempts is zero unless [WithBackoff]
// installs a policy:
//
//	client.WithBackoff(func() backoff.BackOff {
//		return backoff.NewExponentialBackOff()
//	})
//
// # Making Requests
//
// Construct a [URL] and [Request], then execute with [Client.Do]:
//
//	u := client.URL("https", "catboy.best", "/api")
//	req, err := client.Request(ctx, u, http.MethodGet)
//	err = c.Do(req, http.StatusOK, client.WithDestination(&status))
//
// # Downloading Files
//
// Stream a response body directly to disk with optional checksum
// verification and progress reporting:
//
//	err = c.Download(req, http.StatusOK, "/tmp/1.osz",
//		download.WithChecksum(md5.New(), expectedHex),
//		download.WithProgress(),
//	)
//
// # Observability
//
// [WithMetrics] registers Prometheus collectors and [WithTracer] opens an
// OpenTelemetry span per logical request. Every request carries an
// X-Request-ID header shared by all of its attempts.
package client
