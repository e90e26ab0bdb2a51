// Package main provides the entry point for the phishguard CLI.
//
// PhishGuard is a phishing URL detector. It trains tree-ensemble models on
// labeled URL datasets and classifies URLs from lexical features alone,
// without contacting the target.
//
// Usage:
//
//	phishguard train <dataset.csv>
//	phishguard predict <url>
//	phishguard serve
//
// See --help for all available options.
package main

// main is the entry point for phishguard.
func main() {
	Execute()
}
