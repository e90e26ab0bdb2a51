// Package server provides the web front-end for URL analysis.
//
// The server renders a small HTML interface: a form on the index page and
// a verdict page for submitted URLs, plus a JSON health endpoint. All
// scoring goes through the predictor; any failure there renders a visible
// error page rather than a default verdict, because silently reporting a
// URL as legitimate on an internal error would defeat the tool's purpose.
package server
