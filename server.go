package direct

import (
	"fmt"
	"strings"
)

// Server is a region tag selecting a geographically routed mirror host.
type Server string

const (
	Automatic Server = "Automatic"
	Europe    Server = "Europe"
	USWest    Server = "US West"
	USCentral Server = "US Central"
	USEast    Server = "US East"
	Brazil    Server = "Brazil"
	Japan     Server = "Japan"
	Australia Server = "Australia"
	// Custom selects the URL passed to ResolveHost or WithCustomURL.
	Custom Server = "Custom"
)

// DefaultHost is used for Automatic, and for Custom when no URL is given.
const DefaultHost = "https://catboy.best"

var hosts = map[Server]string{
	Automatic: DefaultHost,
	Europe:    "https://central.catboy.best",
	USWest:    "https://us.catboy.best",
	USCentral: "https://usc.catboy.best",
	USEast:    "https://use.catboy.best",
	Brazil:    "https://br.catboy.best",
	Japan:     "https://jp.catboy.best",
	Australia: "https://aus.catboy.best",
}

// Servers lists every region tag in display order.
func Servers() []Server {
	return []Server{Automatic, Europe, USWest, USCentral, USEast, Brazil, Japan, Australia, Custom}
}

// ResolveHost maps server to its base URL. customURL is only consulted for
// Custom. Unknown tags resolve to DefaultHost.
func ResolveHost(server Server, customURL string) string {
	if server == Custom {
		if customURL == "" {
			return DefaultHost
		}
		return customURL
	}

	if host, ok := hosts[server]; ok {
		return host
	}

	return DefaultHost
}

// ParseServer matches s against the region tags, ignoring case and
// treating '-' and '_' as spaces ("us-west" parses as USWest).
func ParseServer(s string) (Server, error) {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(s))
	for _, srv := range Servers() {
		if strings.EqualFold(norm, string(srv)) {
			return srv, nil
		}
	}

	return "", fmt.Errorf("unknown server %q", s)
}

func (s Server) String() string {
	return string(s)
}
