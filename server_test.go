package direct

import (
	"testing"
)

func TestResolveHost(t *testing.T) {
	testCases := map[string]struct {
		server Server
		custom string
		exp    string
	}{
		"automatic":          {server: Automatic, exp: "https://catboy.best"},
		"europe":             {server: Europe, exp: "https://central.catboy.best"},
		"usWest":             {server: USWest, exp: "https://us.catboy.best"},
		"usCentral":          {server: USCentral, exp: "https://usc.catboy.best"},
		"usEast":             {server: USEast, exp: "https://use.catboy.best"},
		"brazil":             {server: Brazil, exp: "https://br.catboy.best"},
		"japan":              {server: Japan, exp: "https://jp.catboy.best"},
		"australia":          {server: Australia, exp: "https://aus.catboy.best"},
		"customIgnoredOther": {server: Japan, custom: "http://localhost:8080", exp: "https://jp.catboy.best"},
		"customURL":          {server: Custom, custom: "http://localhost:8080", exp: "http://localhost:8080"},
		"customDefault":      {server: Custom, exp: DefaultHost},
		"unknown":            {server: Server("Antarctica"), exp: DefaultHost},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			for range 3 {
				if got := ResolveHost(tc.server, tc.custom); got != tc.exp {
					t.Fatalf("exp %q, got %q", tc.exp, got)
				}
			}
		})
	}
}

func TestParseServer(t *testing.T) {
	testCases := map[string]struct {
		in     string
		exp    Server
		expErr bool
	}{
		"exact":      {in: "US West", exp: USWest},
		"lowerDash":  {in: "us-central", exp: USCentral},
		"underscore": {in: "US_EAST", exp: USEast},
		"padded":     {in: "  japan ", exp: Japan},
		"custom":     {in: "custom", exp: Custom},
		"unknown":    {in: "mars", expErr: true},
		"empty":      {in: "", expErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseServer(tc.in)
			if tc.expErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("exp nil err, got: %v", err)
			}
			if got != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, got)
			}
		})
	}
}
