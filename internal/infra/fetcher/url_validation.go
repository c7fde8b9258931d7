package fetcher

import (
	"net"
	"net/url"
	"strings"

	"pagegate/internal/domain/entity"
)

// metadataEndpoint is the well-known cloud instance metadata address.
// It sits inside the link-local range but is called out separately because
// it is the single most valuable SSRF target.
const metadataEndpoint = "169.254.169.254"

// ValidateURL parses and validates a raw URL before any network call.
// It rejects disallowed schemes and hostnames that textually match a
// private, loopback, link-local, or metadata address. The same check runs
// on every hop of a redirect chain, not just the initial URL.
//
// By default only literal address patterns are matched; a hostname that
// resolves via DNS to a private address is not caught. Passing
// resolveHosts=true closes that gap by resolving the hostname and
// validating every resolved address before the dial.
//
// Parameters:
//   - rawURL: The URL string to validate
//   - denyPrivateIPs: If true, reject private/reserved address patterns;
//     should always be true in production
//   - resolveHosts: If true, also validate DNS-resolved addresses
//
// Returns:
//   - *url.URL: The parsed URL on success
//   - *entity.FetchError: INVALID_URL or PRIVATE_IP on rejection
func ValidateURL(rawURL string, denyPrivateIPs, resolveHosts bool) (*url.URL, *entity.FetchError) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, entity.NewFetchError(entity.CodeInvalidURL, "parse error: "+err.Error())
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, entity.NewFetchError(entity.CodeInvalidURL,
			"scheme '"+u.Scheme+"' not allowed (only http/https)")
	}

	hostname := u.Hostname()
	if hostname == "" {
		return nil, entity.NewFetchError(entity.CodeInvalidURL, "empty hostname")
	}

	if !denyPrivateIPs {
		return u, nil
	}

	if ferr := checkHostLiteral(hostname); ferr != nil {
		return nil, ferr
	}

	if resolveHosts {
		if ferr := checkResolvedHost(hostname); ferr != nil {
			return nil, ferr
		}
	}

	return u, nil
}

// checkHostLiteral rejects hostnames that are themselves private or
// reserved address literals, plus the loopback hostname forms.
func checkHostLiteral(hostname string) *entity.FetchError {
	lower := strings.ToLower(hostname)

	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		return entity.NewFetchError(entity.CodePrivateIP,
			"hostname '"+hostname+"' is a loopback name")
	}

	ip := net.ParseIP(hostname)
	if ip == nil {
		// Not an address literal; nothing more to check textually.
		return nil
	}

	if hostname == metadataEndpoint {
		return entity.NewFetchError(entity.CodePrivateIP,
			"hostname targets the cloud metadata endpoint")
	}

	if isPrivateIP(ip) {
		return entity.NewFetchError(entity.CodePrivateIP,
			"hostname '"+hostname+"' is a private or reserved address")
	}

	return nil
}

// checkResolvedHost resolves hostname and validates every returned address.
// A resolution failure is reported as INVALID_URL since the fetch could not
// proceed anyway.
func checkResolvedHost(hostname string) *entity.FetchError {
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return entity.NewFetchError(entity.CodeInvalidURL,
			"DNS lookup failed for "+hostname+": "+err.Error())
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return entity.NewFetchError(entity.CodePrivateIP,
				"hostname '"+hostname+"' resolves to private address "+ip.String())
		}
	}

	return nil
}

// isPrivateIP checks if an IP address is in a private or reserved range.
// This function supports both IPv4 and IPv6 addresses.
//
// Blocked ranges:
//   - Loopback: 127.0.0.0/8 (IPv4), ::1 (IPv6)
//   - Private: 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16 (IPv4), fc00::/7 (IPv6)
//   - Link-local: 169.254.0.0/16 (IPv4), fe80::/10 (IPv6)
//   - Unspecified: 0.0.0.0, ::
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() {
		return true
	}

	if ip.IsPrivate() {
		return true
	}

	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	if ip.IsUnspecified() {
		return true
	}

	return false
}
