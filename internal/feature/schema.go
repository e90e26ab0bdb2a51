package feature

// Feature indices into a Vector, in schema order.
// The order is part of the trained-artifact contract: a classifier scores
// vectors positionally, so reordering or renaming entries silently corrupts
// every prediction made with an existing artifact.
const (
	idxURLLength = iota
	idxNumDigits
	idxNumSpecialChars
	idxHasHTTP
	idxHasHTTPS
	idxNumDots
	idxNumHyphens
	idxDomainLength
	idxNumParams
	idxPathLength
	idxHasIPAddress
	idxIsShortened
	idxHasAtSymbol
	idxNumSubdomains
	idxHasMalformedURL
	idxNumEncodedChars
	idxHasSuspiciousTLD

	// SchemaSize is the number of features in the schema.
	SchemaSize
)

// schemaNames lists the feature names in schema order.
var schemaNames = [SchemaSize]string{
	idxURLLength:        "url_length",
	idxNumDigits:        "num_digits",
	idxNumSpecialChars:  "num_special_chars",
	idxHasHTTP:          "has_http",
	idxHasHTTPS:         "has_https",
	idxNumDots:          "num_dots",
	idxNumHyphens:       "num_hyphens",
	idxDomainLength:     "domain_length",
	idxNumParams:        "num_params",
	idxPathLength:       "path_length",
	idxHasIPAddress:     "has_ip_address",
	idxIsShortened:      "is_shortened",
	idxHasAtSymbol:      "has_at_symbol",
	idxNumSubdomains:    "num_subdomains",
	idxHasMalformedURL:  "has_malformed_url",
	idxNumEncodedChars:  "num_encoded_chars",
	idxHasSuspiciousTLD: "has_suspicious_tld",
}

// SchemaNames returns a copy of the feature names in schema order.
// Callers may not rely on mutating the returned slice.
func SchemaNames() []string {
	names := make([]string, SchemaSize)
	copy(names, schemaNames[:])
	return names
}

// Vector is a fixed-schema numeric feature vector, indexed in schema order.
// Values are integers or 0/1 flags stored as float64 for the classifier.
type Vector []float64

// Map returns the vector as a name-to-value mapping.
// Useful for display and debugging; classifiers consume vectors positionally.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v))
	for i, val := range v {
		if i < len(schemaNames) {
			m[schemaNames[i]] = val
		}
	}
	return m
}

// Get returns the value for a named feature and whether the name exists.
func (v Vector) Get(name string) (float64, bool) {
	for i, n := range schemaNames {
		if n == name && i < len(v) {
			return v[i], true
		}
	}
	return 0, false
}
