package direct_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/osudirect/direct"
)

func ExampleResolveHost() {
	fmt.Println(direct.ResolveHost(direct.Europe, ""))
	fmt.Println(direct.ResolveHost(direct.Custom, "http://localhost:3000"))
	fmt.Println(direct.ResolveHost(direct.Custom, ""))
	// Output:
	// https://central.catboy.best
	// http://localhost:3000
	// https://catboy.best
}

func ExampleSearchQuery_Values() {
	mode := direct.ModeOsu
	q := &direct.SearchQuery{
		Query:  "freedom dive",
		Ranked: []direct.RankStatus{direct.Ranked, direct.Loved},
		Mode:   &mode,
	}

	fmt.Println(q.Values().Encode())
	// Output: mode=0&q=freedom+dive&status=1&status=4
}

func ExampleClient_Download() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("osz"))
	}))
	defer srv.Close()

	dir, err := os.MkdirTemp("", "direct-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	c, err := direct.New(direct.Custom,
		direct.WithCustomURL(srv.URL),
		direct.WithDownloadDir(dir),
		direct.WithQuota(1),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for range 2 {
		res, err := c.Download(context.Background(), "1")
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(res.Finished, res.Code, filepath.Base(res.Path))
	}
	// Output:
	// true 0 1n.osz
	// false 429 .
}
