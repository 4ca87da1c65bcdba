// Package throttle provides an [http.RoundTripper] that paces outbound
// mirror requests using a token-bucket limiter from
// [golang.org/x/time/rate].
//
// Throttling is opt-in; the mirror client only installs it when
// client.WithThrottle is supplied:
//
//	rt, err := throttle.NewRoundTripper(
//		throttle.Config{RPS: 2, Burst: 4},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//
// When the bucket is empty, requests block until a token becomes
// available or the request context ends.
package throttle
