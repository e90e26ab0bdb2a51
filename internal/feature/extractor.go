package feature

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// DefaultShorteners is the default list of known URL-shortener domains.
// A domain containing any of these substrings sets the is_shortened flag.
// The list is configuration data, not logic: replace it via WithShorteners.
var DefaultShorteners = []string{"bit.ly", "goo.gl", "t.co", "tinyurl.com"}

// DefaultSuspiciousTLDs is the default list of top-level domains that are
// statistically over-represented in phishing campaigns. A domain ending in
// any of these sets the has_suspicious_tld flag. Replaceable via
// WithSuspiciousTLDs.
var DefaultSuspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq"}

// ipv4Pattern matches a dotted-quad IPv4 address anywhere in the domain.
// Octets are not range-checked (999.999.999.999 matches); the feature flags
// the lexical shape of an IP, which is what matters for phishing detection.
var ipv4Pattern = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)

// Extractor converts raw URL strings into fixed-schema feature vectors.
// It is safe for concurrent use: all fields are set at construction time
// and never mutated afterwards.
type Extractor struct {
	// shorteners is the list of shortener domains checked by substring match.
	shorteners []string

	// suspiciousTLDs is the list of TLD suffixes checked by suffix match.
	suspiciousTLDs []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithShorteners replaces the default shortener-domain list.
func WithShorteners(domains []string) Option {
	return func(e *Extractor) {
		if len(domains) > 0 {
			e.shorteners = domains
		}
	}
}

// WithSuspiciousTLDs replaces the default suspicious-TLD list.
// Entries should include the leading dot (".tk").
func WithSuspiciousTLDs(tlds []string) Option {
	return func(e *Extractor) {
		if len(tlds) > 0 {
			e.suspiciousTLDs = tlds
		}
	}
}

// NewExtractor creates an Extractor with the default shortener and
// suspicious-TLD lists, overridable via options.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		shorteners:     DefaultShorteners,
		suspiciousTLDs: DefaultSuspiciousTLDs,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract converts a raw URL string into a feature vector.
//
// Returns ErrEmptyURL for an empty input and ErrInvalidURL (wrapped with
// the parser's reason) when the URL fails the authority/path split. It
// never silently produces features for unparseable input.
//
// Extract is deterministic: the same URL always yields an identical vector.
func (e *Extractor) Extract(rawURL string) (Vector, error) {
	if rawURL == "" {
		return nil, ErrEmptyURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	// The authority component, including userinfo when present. A URL
	// without a scheme ("example.com") parses with an empty authority and
	// the whole string as path; domain features are zero in that case.
	domain := parsed.Host
	if parsed.User != nil {
		domain = parsed.User.String() + "@" + parsed.Host
	}

	// EscapedPath preserves the percent-encoded form so path_length counts
	// the characters as they appeared in the input.
	path := parsed.EscapedPath()

	v := make(Vector, SchemaSize)

	v[idxURLLength] = float64(len(rawURL))
	v[idxNumDigits] = float64(countFunc(rawURL, unicode.IsDigit))
	v[idxNumSpecialChars] = float64(countFunc(rawURL, isSpecial))

	v[idxHasHTTP] = boolFeature(strings.Contains(rawURL, "http://") || strings.Contains(rawURL, "https://"))
	v[idxHasHTTPS] = boolFeature(strings.HasPrefix(rawURL, "https"))

	v[idxNumDots] = float64(strings.Count(domain, "."))
	v[idxNumHyphens] = float64(strings.Count(domain, "-"))
	v[idxDomainLength] = float64(len(domain))
	v[idxNumParams] = float64(strings.Count(rawURL, "?"))
	v[idxPathLength] = float64(len(path))

	v[idxHasIPAddress] = boolFeature(ipv4Pattern.MatchString(domain))
	v[idxIsShortened] = boolFeature(e.isShortened(domain))
	v[idxHasAtSymbol] = boolFeature(strings.Contains(rawURL, "@"))

	// Not clamped: a domain without a dot yields -1.
	v[idxNumSubdomains] = float64(strings.Count(domain, ".") - 1)

	// Also matches well-formed "http://" URLs; see the package comment.
	v[idxHasMalformedURL] = boolFeature(strings.Contains(rawURL, "http:/") || strings.Contains(rawURL, "https:/"))
	v[idxNumEncodedChars] = float64(strings.Count(rawURL, "%"))
	v[idxHasSuspiciousTLD] = boolFeature(e.hasSuspiciousTLD(domain))

	return v, nil
}

// isShortened reports whether the domain contains any known shortener domain.
func (e *Extractor) isShortened(domain string) bool {
	for _, s := range e.shorteners {
		if strings.Contains(domain, s) {
			return true
		}
	}
	return false
}

// hasSuspiciousTLD reports whether the domain ends with a suspicious TLD.
func (e *Extractor) hasSuspiciousTLD(domain string) bool {
	for _, tld := range e.suspiciousTLDs {
		if strings.HasSuffix(domain, tld) {
			return true
		}
	}
	return false
}

// isSpecial reports whether the rune is neither alphanumeric nor underscore.
func isSpecial(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}

// countFunc counts the runes in s for which fn returns true.
func countFunc(s string, fn func(rune) bool) int {
	n := 0
	for _, r := range s {
		if fn(r) {
			n++
		}
	}
	return n
}

// boolFeature converts a boolean flag to its 0/1 feature value.
func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
