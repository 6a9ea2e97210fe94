package utils

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// SplitURL parses a raw URL and returns it with the hostname lowercased
// and punycoded, plus the pieces the preview parser cares about. The
// fragment is returned separately because Go's url.Parse keeps it off the
// path.
func SplitURL(raw string) (normalized, host, path, fragment string, err error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", "", "", err
	}

	host = strings.ToLower(parsed.Hostname())
	if asciiHost, idnaErr := idna.ToASCII(host); idnaErr == nil {
		host = asciiHost
	}
	parsed.Host = host

	return parsed.String(), host, parsed.Path, parsed.Fragment, nil
}
