// Command direct queries and downloads from the catboy.best beatmap mirror.
//
//	direct [flags] status
//	direct [flags] map <beatmap-id>
//	direct [flags] search [terms...]
//	direct [flags] download <set-id>...
package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/pflag"

	"github.com/osudirect/direct"
	"github.com/osudirect/direct/client"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

const usage = `usage: direct [flags] <command> [args]

commands:
  status               show mirror health
  map <beatmap-id>     show a single beatmap
  search [terms...]    search beatmap sets
  download <set-id>... download beatmap set archives

flags:
`

// run executes the CLI and returns the process exit code: 0 on success,
// 1 on failure and 2 on usage errors.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := loadConfig(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(stderr, usage+newFlagSet().FlagUsages())
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage+newFlagSet().FlagUsages())
		return 2
	}

	lvl, err := cfg.level()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))

	c, err := newClient(cfg, log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "status":
		err = status(ctx, c, stdout)
	case "map":
		err = beatmap(ctx, c, cmdArgs, stdout)
	case "search":
		err = search(ctx, c, cfg.searchQuery(cmdArgs), stdout)
	case "download":
		err = downloadAll(ctx, c, cfg, cmdArgs, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	var argErr usageError
	switch {
	case errors.As(err, &argErr):
		fmt.Fprintln(stderr, err)
		return 2
	case err != nil:
		log.Error(cmd, "error", err)
		return 1
	}

	return 0
}

type usageError string

func (e usageError) Error() string { return string(e) }

func newClient(cfg config, log *slog.Logger) (*direct.Client, error) {
	server, err := cfg.server()
	if err != nil {
		return nil, err
	}

	httpOpts := []client.Option{
		client.WithRetries(cfg.Retries),
		client.WithBackoff(func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 250 * time.Millisecond
			return b
		}),
	}
	if cfg.Timeout > 0 {
		httpOpts = append(httpOpts, client.WithTimeout(cfg.Timeout))
	}
	if cfg.RPS > 0 {
		httpOpts = append(httpOpts, client.WithThrottle(cfg.RPS, cfg.Burst))
	}

	return direct.New(server,
		direct.WithCustomURL(cfg.URL),
		direct.WithDownloadDir(cfg.Dir),
		direct.WithQuota(cfg.Quota),
		direct.WithLogger(log),
		direct.WithHTTPOptions(httpOpts...),
	)
}

func status(ctx context.Context, c *direct.Client, w io.Writer) error {
	st, err := c.Status(ctx)
	if err != nil {
		return err
	}

	return printJSON(w, st)
}

func beatmap(ctx context.Context, c *direct.Client, args []string, w io.Writer) error {
	if len(args) != 1 {
		return usageError("map takes exactly one beatmap id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return usageError(fmt.Sprintf("invalid beatmap id %q", args[0]))
	}

	bm, found, err := c.Beatmap(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("beatmap %d not found", id)
	}

	return printJSON(w, bm)
}

func search(ctx context.Context, c *direct.Client, q *direct.SearchQuery, w io.Writer) error {
	sets, err := c.Search(ctx, q)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range sets {
		fmt.Fprintf(tw, "%d\t%s - %s\t%s\t%d diffs\n", s.ID, s.Artist, s.Title, s.Creator, len(s.Beatmaps))
	}

	return tw.Flush()
}

// downloadAll fetches each set in turn. Refusals are reported and counted
// as failures but do not stop the remaining downloads.
func downloadAll(ctx context.Context, c *direct.Client, cfg config, ids []string, stdout, stderr io.Writer) error {
	if len(ids) == 0 {
		return usageError("download needs at least one set id")
	}
	if len(ids) > 1 && (cfg.Dest != "" || cfg.MD5 != "") {
		return usageError("--dest and --md5 apply to a single download")
	}

	var opts []direct.DownloadOption
	if cfg.Video {
		opts = append(opts, direct.WithVideo())
	}
	if cfg.Dest != "" {
		opts = append(opts, direct.WithDestPath(cfg.Dest))
	}
	if cfg.SkipExisting {
		opts = append(opts, direct.WithSkipExisting())
	}
	if cfg.Progress {
		opts = append(opts, direct.WithProgressBar(stderr))
	}

	var failed int
	for _, id := range ids {
		idOpts := opts
		if cfg.MD5 != "" {
			idOpts = append(idOpts[:len(idOpts):len(idOpts)], direct.WithChecksum(md5.New(), cfg.MD5))
		}

		res, err := c.Download(ctx, id, idOpts...)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s\tfailed\t%v\n", id, err)
			failed++
		case !res.Finished:
			fmt.Fprintf(stdout, "%s\trefused\t%d\n", id, res.Code)
			failed++
		default:
			fmt.Fprintf(stdout, "%s\tok\t%s\n", id, res.Path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(ids))
	}

	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
