package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/url"

	"github.com/spf13/cobra"
	"golang.org/x/net/publicsuffix"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/feature"
	"github.com/phishguard/phishguard/internal/predictor"
)

// NewPredictCmd creates the predict command.
func NewPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict <url>",
		Short: "Classify a URL as phishing or legitimate",
		Long: `Predict classifies a single URL using the trained model artifact.

Only the URL string itself is analyzed; no request is ever sent to the
target. The verdict and a confidence percentage are printed, and with
--verbose the extracted feature vector is shown as well.

Examples:
  phishguard predict https://example.com/login
  phishguard predict --json http://192.168.0.1/secure-verify
  phishguard predict -v https://bit.ly/3xYzAbC`,
		Args: cobra.ExactArgs(1),
		RunE: runPredictCmd,
	}

	cmd.Flags().String("model", "",
		"Model artifact path (default: XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .phishguard in current or home directory)")
	cmd.Flags().BoolP("json", "j", false, "Output the verdict as JSON")

	return cmd
}

// predictResult is the JSON output shape of the predict command.
type predictResult struct {
	URL        string  `json:"url"`
	Verdict    string  `json:"verdict"`
	Confidence float64 `json:"confidence"`
}

// runPredictCmd executes the predict command.
func runPredictCmd(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	verbose := getVerboseFlag(cmd)

	cfg := config.NewConfig()
	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := loadFileConfig(cfg); err != nil {
		return err
	}
	cfg.ModelPath, err = cmd.Flags().GetString("model")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	logger := setupLogger(verbose)

	p := predictor.New(artifact.NewStore(cfg.ModelPath),
		predictor.WithExtractor(buildExtractor(cfg)),
		predictor.WithLogger(logger),
	)

	pred, vec, err := p.Explain(rawURL)
	if err != nil {
		return fmt.Errorf("failed to classify %q: %w", rawURL, err)
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(predictResult{
			URL:        rawURL,
			Verdict:    pred.Label.String(),
			Confidence: pred.Confidence,
		})
	}

	if pred.Safe() {
		fmt.Fprintf(out, "LEGITIMATE  %s\n", rawURL)
	} else {
		fmt.Fprintf(out, "PHISHING    %s\n", rawURL)
	}
	fmt.Fprintf(out, "Confidence: %.1f%%\n", pred.Confidence)

	if verbose {
		printFeatureBreakdown(out, rawURL, vec)
	}
	return nil
}

// printFeatureBreakdown writes the registered domain and the extracted
// feature vector in schema order.
func printFeatureBreakdown(out io.Writer, rawURL string, vec feature.Vector) {
	fmt.Fprintln(out)
	if domain := registeredDomain(rawURL); domain != "" {
		fmt.Fprintf(out, "Registered domain: %s\n", domain)
	}
	fmt.Fprintln(out, "Features:")
	for i, name := range feature.SchemaNames() {
		fmt.Fprintf(out, "  %-22s %g\n", name, vec[i])
	}
}

// registeredDomain returns the eTLD+1 of the URL host, or "" when it
// cannot be determined (IP hosts, single-label hosts).
func registeredDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return domain
}
