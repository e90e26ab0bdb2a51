// Package feature implements deterministic lexical feature extraction from
// raw URL strings. It is the single source of truth for the feature schema
// shared by training and inference.
//
// The extractor is a pure function: no network access, no side effects,
// and identical output for identical input. The schema (feature names and
// their order) is fixed; any trained model artifact records the schema it
// was fitted on, and the predictor refuses to score vectors against a
// mismatched schema.
//
// Two of the features deserve a note. num_subdomains is defined as the dot
// count of the domain minus one and is intentionally not clamped, so a
// domain without a dot yields -1. has_malformed_url matches "http:/" and
// "https:/" substrings, which by construction also match every well-formed
// "http://" URL; the redundancy with has_http is a documented property of
// the schema, not a bug to fix, because trained artifacts depend on it.
package feature
