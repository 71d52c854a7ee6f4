// Package site decides whether the lens is enabled for a page's host.
package site

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Mode selects where the lens is enabled.
type Mode string

// Enable modes.
const (
	Disabled Mode = "disabled"
	Current  Mode = "current"
	Domain   Mode = "domain"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case Disabled, Current, Domain:
		return true
	}
	return false
}

// Policy is the per-site enable setting.
type Policy struct {
	Mode        Mode   `json:"enableMode" toml:"enable_mode" yaml:"enable_mode"`
	CurrentSite string `json:"currentSite" toml:"current_site" yaml:"current_site"`
	MainDomain  string `json:"mainDomain" toml:"main_domain" yaml:"main_domain"`
}

// DefaultPolicy is the policy of a fresh install: disabled everywhere.
func DefaultPolicy() Policy {
	return Policy{Mode: Disabled}
}

// ForHost returns a policy in mode anchored at host, recording both the
// exact host and its main domain.
func ForHost(mode Mode, host string) Policy {
	host = normalizeHost(host)
	return Policy{Mode: mode, CurrentSite: host, MainDomain: MainDomain(host)}
}

// Allows reports whether the lens is enabled on host.
func (p Policy) Allows(host string) bool {
	host = normalizeHost(host)
	switch p.Mode {
	case Current:
		return host != "" && host == p.CurrentSite
	case Domain:
		if p.MainDomain == "" {
			return false
		}
		return host == p.MainDomain || strings.HasSuffix(host, "."+p.MainDomain)
	default:
		return false
	}
}

// AllowsURL reports whether the lens is enabled on the page at rawURL.
func (p Policy) AllowsURL(rawURL string) bool {
	return p.Allows(Host(rawURL))
}

// Host returns the hostname of rawURL, or "" if it has none.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return normalizeHost(u.Hostname())
}

// MainDomain returns the registrable domain of host, such as
// "example.co.uk" for "www.example.co.uk". Hosts the public suffix list
// cannot resolve fall back to their last two labels; IP addresses and
// single-label hosts are returned unchanged.
func MainDomain(host string) string {
	host = normalizeHost(host)
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

func normalizeHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
}
