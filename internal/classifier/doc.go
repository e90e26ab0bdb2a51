// Package classifier implements the ensemble classifiers used to score URL
// feature vectors: gradient-boosted trees and random forests. The two
// strategies are interchangeable behind the Classifier interface and are
// selected by Kind, never hardcoded.
//
// Both ensembles are built from the same CART-style regression trees and
// produce a probability distribution over the two classes, with index 1
// holding the phishing probability to match the fixed label polarity.
//
// Fitting is deterministic for a given (data, kind, seed) triple, including
// under parallel tree construction: every tree derives its own RNG from the
// run seed and its tree index, so the schedule of goroutines cannot change
// the result.
package classifier
