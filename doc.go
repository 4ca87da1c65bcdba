// Package direct is a client for the catboy.best beatmap mirror.
//
// A [Client] is bound to one regional host, chosen with a [Server] tag:
//
//	c, err := direct.New(direct.Europe)
//
// It exposes the mirror's status endpoint, beatmap lookup, search and
// archive downloads:
//
//	status, err := c.Status(ctx)
//	bm, found, err := c.Beatmap(ctx, 75)
//	sets, err := c.Search(ctx, &direct.SearchQuery{Query: "camellia", Limit: 20})
//	res, err := c.Download(ctx, "1", direct.WithProgress())
//
// Downloads are gated by a per-client quota. Once spent, Download returns
// a result with code 429 without contacting the mirror.
//
// Transport behaviour such as retries, timeouts, metrics and tracing is
// configured through [WithHTTPOptions] with options from
// [github.com/osudirect/direct/client].
package direct
