// Package safeurl decides whether a remote URL is safe to fetch. The
// resolver consults it before every network hop so the pipeline cannot be
// steered into loopback or private address space.
package safeurl

import (
	"net"
	"net/url"
	"strings"
)

// Checker reports whether the given URL may be fetched.
type Checker func(u *url.URL) bool

// New returns a Checker that rejects non-http(s) schemes and any host
// resolving to a loopback, private, link-local, or unspecified address.
// Hosts in allowHosts are accepted regardless of where they resolve.
func New(allowHosts []string) Checker {
	allowed := make(map[string]struct{}, len(allowHosts))
	for _, h := range allowHosts {
		allowed[strings.ToLower(h)] = struct{}{}
	}

	return func(u *url.URL) bool {
		if u == nil {
			return false
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false
		}

		host := strings.ToLower(u.Hostname())
		if host == "" {
			return false
		}
		if _, ok := allowed[host]; ok {
			return true
		}

		if ip := net.ParseIP(host); ip != nil {
			return publicIP(ip)
		}

		ips, err := net.LookupIP(host)
		if err != nil || len(ips) == 0 {
			// Fail closed; an unresolvable host cannot be fetched anyway.
			return false
		}
		for _, ip := range ips {
			if !publicIP(ip) {
				return false
			}
		}
		return true
	}
}

func publicIP(ip net.IP) bool {
	return !(ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast())
}
