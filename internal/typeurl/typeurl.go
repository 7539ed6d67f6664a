// Package typeurl builds and parses Any type URLs of the form
// "<domain>/<fully.qualified.TypeName>", as used by google.protobuf.Any.
package typeurl

import "strings"

// GoogleAPIsDomain is the canonical domain used by Pack and CreateTypeURL.
const GoogleAPIsDomain = "type.googleapis.com"

// CreateTypeURL builds a type URL for fqn using the canonical Google domain.
func CreateTypeURL(fqn string) string {
	return GoogleAPIsDomain + "/" + fqn
}

// CreateTypeURLWithDomain builds a type URL for fqn using an arbitrary domain.
// The domain's trailing slash, if any, is trimmed.
func CreateTypeURLWithDomain(domain, fqn string) string {
	domain = strings.TrimSuffix(domain, "/")
	return domain + "/" + fqn
}

// ExtractTypeName returns the portion of url after the first "/". This is
// deliberately lenient: a url with no slash at all is returned unchanged, on
// the theory that diagnostics calling this helper want "some name" rather
// than an error. Strict validation is a separate concern — see Validate.
func ExtractTypeName(url string) string {
	idx := strings.Index(url, "/")
	if idx < 0 {
		return url
	}
	return url[idx+1:]
}

// ExtractDomain returns the portion of url before the first "/", or "" if
// there is no slash.
func ExtractDomain(url string) string {
	idx := strings.Index(url, "/")
	if idx < 0 {
		return ""
	}
	return url[:idx]
}

// Validate reports whether url is a well-formed type URL:
//  1. it contains at least one "/",
//  2. the domain before the first "/" is non-empty and contains a ".",
//  3. the type name after the first "/" is non-empty and contains a "."
//     (enforcing a packaged, dot-qualified name).
func Validate(url string) bool {
	idx := strings.Index(url, "/")
	if idx < 0 {
		return false
	}
	domain := url[:idx]
	name := url[idx+1:]
	if domain == "" || !strings.Contains(domain, ".") {
		return false
	}
	if name == "" || !strings.Contains(name, ".") {
		return false
	}
	return true
}
