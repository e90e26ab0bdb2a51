// Package predictor scores URLs against a persisted model artifact.
//
// A Predictor loads the artifact once, verifies that its feature schema
// matches the extractor of the running process, and then serves concurrent
// predictions over the immutable model state. Feature extraction is
// deterministic, so repeated verdicts for the same URL are served from a
// sharded LRU cache.
package predictor
