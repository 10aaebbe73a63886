package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/registrarlabs/namegate/internal/cache"
	"github.com/registrarlabs/namegate/internal/config"
	"github.com/registrarlabs/namegate/internal/export"
	"github.com/registrarlabs/namegate/internal/httpclient"
	"github.com/registrarlabs/namegate/internal/pipeline"
	"github.com/registrarlabs/namegate/internal/registry"
	"github.com/registrarlabs/namegate/internal/rules"

	_ "github.com/registrarlabs/namegate/internal/registry/providers/offline" // register offline fallback provider

	finanvoProvider "github.com/registrarlabs/namegate/internal/registry/providers/finanvo"
	rocProvider "github.com/registrarlabs/namegate/internal/registry/providers/rocapi"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "namegate",
		Short: "Company name availability checker",
		Long:  "Validates proposed company names against registrar naming rules, searches for conflicting registrations, and suggests compliant alternatives.",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	rootCmd.AddCommand(
		checkCmd(),
		batchCmd(),
		suggestCmd(),
		providersCmd(),
		rulesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <name>",
		Short: "Check a single company name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := buildChecker()
			if err != nil {
				return err
			}

			v, err := checker.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return export.WriteJSON(os.Stdout, []*pipeline.Verdict{v})
			}

			printVerdict(v)

			alt, _ := cmd.Flags().GetInt("alternatives")
			if alt > 0 || (!v.IsAvailable && alt == 0) {
				count := alt
				if count == 0 {
					count = 5
				}
				set, err := checker.Alternatives(cmd.Context(), v, count)
				if err != nil {
					return err
				}
				printAlternatives(set)
			}

			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Emit the verdict as JSON")
	cmd.Flags().Int("alternatives", 0, "Also suggest N alternatives (default 5 when the name is unavailable)")

	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Check a list of names (one per line), preserving order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := readNames(args[0])
			if err != nil {
				return err
			}

			checker, err := buildChecker()
			if err != nil {
				return err
			}

			verdicts, err := checker.CheckBatch(cmd.Context(), names)
			if err != nil {
				slog.Warn("batch interrupted, reporting partial results", "error", err)
			}

			var done []*pipeline.Verdict
			for _, v := range verdicts {
				if v != nil {
					done = append(done, v)
				}
			}

			format, _ := cmd.Flags().GetString("format")
			switch format {
			case "json":
				return export.WriteJSON(os.Stdout, done)
			case "csv":
				return export.WriteCSV(os.Stdout, done)
			default:
				for _, v := range done {
					status := "AVAILABLE"
					if !v.IsAvailable {
						status = "UNAVAILABLE"
					}
					fmt.Printf("%-50s %-12s %3d/100  %s\n", v.Name, status, v.Score, v.Recommendation)
				}
				fmt.Printf("\nChecked %d of %d names\n", len(done), len(names))
				return nil
			}
		},
	}

	cmd.Flags().String("format", "table", "Output format: table, json, csv")

	return cmd
}

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <name>",
		Short: "Suggest available alternative names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := buildChecker()
			if err != nil {
				return err
			}

			v, err := checker.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			count, _ := cmd.Flags().GetInt("count")
			set, err := checker.Alternatives(cmd.Context(), v, count)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return export.WriteJSON(os.Stdout, set.Verdicts)
			}

			printAlternatives(set)
			return nil
		},
	}

	cmd.Flags().Int("count", 0, "How many alternatives to return (default: top_n from config)")
	cmd.Flags().Bool("json", false, "Emit alternatives as JSON")

	return cmd
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List registered registry providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range registry.List() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Validate and display the effective rule set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ruleSet := rules.Default()
			if cfg.RulesFile != "" {
				ruleSet, err = rules.LoadFile(cfg.RulesFile)
				if err != nil {
					return err
				}
			}

			fmt.Printf("Length: %d to %d characters\n", ruleSet.MinLength, ruleSet.MaxLength)
			fmt.Printf("Forbidden words (%d): %s\n", len(ruleSet.ForbiddenWords), strings.Join(ruleSet.ForbiddenWords, ", "))
			fmt.Printf("Allowed suffixes (%d): %s\n", len(ruleSet.AllowedSuffixes), strings.Join(ruleSet.AllowedSuffixes, ", "))
			fmt.Printf("Weights: error %d, warning %d\n", ruleSet.ErrorWeight, ruleSet.WarningWeight)
			return nil
		},
	}

	return cmd
}

func buildChecker() (*pipeline.Checker, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	configureProviders(cfg)
	return pipeline.New(cfg)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func configureProviders(cfg *config.Config) {
	// Set up the response cache
	var fileCache *cache.FileCache
	if !cfg.NoCache {
		ttl, err := time.ParseDuration(cfg.CacheTTL)
		if err != nil {
			ttl = time.Hour
		}
		fc, err := cache.New(cfg.CacheDir, ttl)
		if err != nil {
			slog.Warn("failed to create cache, continuing without", "error", err)
		} else {
			fileCache = fc
		}
	}

	// Set up the shared HTTP client
	timeout, err := time.ParseDuration(cfg.LookupTimeout)
	if err != nil {
		timeout = 3 * time.Second
	}
	opts := []httpclient.Option{
		httpclient.WithRateLimit(cfg.RateLimit),
		httpclient.WithTimeout(timeout),
	}
	if fileCache != nil {
		opts = append(opts, httpclient.WithCache(fileCache))
	}
	if cfg.NoCache {
		opts = append(opts, httpclient.WithNoCache())
	}
	client := httpclient.New(opts...)

	// Configure Finanvo provider
	if p, err := registry.Get("finanvo"); err == nil {
		if fp, ok := p.(*finanvoProvider.Finanvo); ok {
			apiKey := cfg.Finanvo.APIKey
			if apiKey == "" {
				apiKey = os.Getenv("FINANVO_API_KEY")
			}
			apiSecret := cfg.Finanvo.APISecret
			if apiSecret == "" {
				apiSecret = os.Getenv("FINANVO_API_SECRET")
			}
			fp.Configure(apiKey, apiSecret, cfg.Finanvo.BaseURL, client)
		}
	}

	// Configure ROC provider
	if p, err := registry.Get("rocapi"); err == nil {
		if rp, ok := p.(*rocProvider.ROC); ok && cfg.ROC.ClientID != "" {
			rp.Configure(cfg.ROC.ClientID, cfg.ROC.ClientSecret, cfg.ROC.TokenURL, cfg.ROC.BaseURL)
		}
	}
}

func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening name list: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading name list: %w", err)
	}
	return names, nil
}

func printVerdict(v *pipeline.Verdict) {
	status := "AVAILABLE"
	if !v.IsAvailable {
		status = "UNAVAILABLE"
	}
	fmt.Printf("%s: %s (score %d/100)\n", v.Name, status, v.Score)
	if v.Degraded {
		fmt.Println("  (registry unreachable, degraded offline result)")
	}
	fmt.Printf("  %s\n", v.Recommendation)

	if len(v.Matches) > 0 {
		fmt.Printf("  Conflicts (%d):\n", len(v.Matches))
		for _, m := range v.Matches {
			fmt.Printf("    %-50s %.2f  %s\n", m.Name, m.Score, m.Tier)
		}
	}
	for _, code := range v.Validation.Errors {
		fmt.Printf("  ERROR  %s\n", code)
	}
	for _, code := range v.Validation.Warnings {
		fmt.Printf("  WARN   %s\n", code)
	}
}

func printAlternatives(set *pipeline.AlternativeSet) {
	if len(set.Verdicts) == 0 {
		fmt.Println("\nNo available alternatives found.")
		return
	}

	fmt.Printf("\nAlternatives for %q:\n", set.Original)
	for i, v := range set.Verdicts {
		fmt.Printf("  %2d. %-50s %3d/100\n", i+1, v.Name, v.Score)
	}
	if set.Insufficient {
		fmt.Printf("  (only %d of %d requested survived filtering)\n", len(set.Verdicts), set.Requested)
	}
	if set.Degraded {
		fmt.Println("  (some results computed in degraded offline mode)")
	}
}
