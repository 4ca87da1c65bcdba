package client_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/osudirect/direct/client"
	"github.com/osudirect/direct/client/download"
)

func ExampleBuild() {
	c, err := client.Build(
		client.WithTimeout(10*time.Second),
		client.WithUserAgent("example/1.0"),
		client.WithRetries(5),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = c
	fmt.Println("client built")
	// Output: client built
}

func ExampleURL() {
	u := client.URL("https", "catboy.best", "/api/v2/search",
		client.WithQueryValues(url.Values{"q": {"freedom dive"}, "mode": {"0"}}),
	)

	fmt.Println(u.String())
	// Output: https://catboy.best/api/v2/search?mode=0&q=freedom+dive
}

func ExampleClient_Do() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"version":"2.4.1","server":"central"}`)
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	u, _ := url.Parse(ts.URL + "/api")
	req, err := c.Request(context.Background(), u, http.MethodGet)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	var status struct {
		Version string `json:"version"`
	}
	if err := c.Do(req, http.StatusOK, client.WithDestination(&status)); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(status.Version)
	// Output: 2.4.1
}

func ExampleClient_Download() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "archive bytes")
	}))
	defer ts.Close()

	dir, err := os.MkdirTemp("", "direct-example-*")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	c, err := client.Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	u, _ := url.Parse(ts.URL + "/d/1n")
	req, err := c.Request(context.Background(), u, http.MethodGet)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	dest := filepath.Join(dir, "1n.osz")
	if err := c.Download(req, http.StatusOK, dest, download.WithSkipExisting()); err != nil {
		fmt.Println("error:", err)
		return
	}

	b, _ := os.ReadFile(dest)
	fmt.Println(string(b))
	// Output: archive bytes
}
