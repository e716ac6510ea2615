package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gemini-go/internal/config"
	"github.com/dmitrijs2005/gemini-go/logging"
	"github.com/spf13/cobra"
)

// needsAPIKey marks commands that talk to the API.
var needsAPIKey = map[string]string{"api": "true"}

// Execute loads the configuration for args and runs the matching command.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	cmd := NewApp(cfg, out, errOut).RootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

func loadConfig(args []string) (cfg *config.Config, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("load config: %v", p)
		}
	}()
	return config.LoadConfig(args), nil
}

func (a *App) RootCmd() *cobra.Command {
	var (
		configPath string
		apiKey     string
		baseURL    string
		timeout    time.Duration
		regPath    string
		conc       int
		rateLimit  float64
		logLevel   string
		logFormat  string
		metrics    string
	)

	root := &cobra.Command{
		Use:           "gemini-files",
		Short:         "Manage files stored by the Gemini API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("api-key") {
				a.cfg.APIKey = apiKey
			}
			if f.Changed("base-url") {
				a.cfg.BaseURL = baseURL
			}
			if f.Changed("timeout") {
				a.cfg.Timeout = timeout
			}
			if f.Changed("registry") {
				a.cfg.RegistryPath = regPath
			}
			if f.Changed("concurrency") {
				a.cfg.Concurrency = conc
			}
			if f.Changed("rate-limit") {
				a.cfg.RateLimit = rateLimit
			}
			if f.Changed("log-level") {
				a.cfg.LogLevel = logLevel
			}
			if f.Changed("log-format") {
				a.cfg.LogFormat = logFormat
			}
			if f.Changed("metrics-file") {
				a.cfg.MetricsFile = metrics
			}

			if err := a.cfg.Validate(); err != nil {
				return err
			}

			a.logger = logging.New(a.errOut, a.cfg.LogLevel, a.cfg.LogFormat)

			if cmd.Annotations["api"] == "true" && a.cfg.APIKey == "" {
				key, err := promptAPIKey(a.errOut)
				if err != nil {
					return err
				}
				a.cfg.APIKey = key
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.writeMetrics()
		},
	}

	pf := root.PersistentFlags()
	// Read before cobra runs, see config.LoadConfig; declared here so it is accepted.
	pf.StringVarP(&configPath, "config", "c", "", "path to a JSON or YAML config file")
	pf.StringVar(&apiKey, "api-key", "", "Gemini API key")
	pf.StringVar(&baseURL, "base-url", a.cfg.BaseURL, "API base URL")
	pf.DurationVar(&timeout, "timeout", a.cfg.Timeout, "HTTP timeout per request")
	pf.StringVar(&regPath, "registry", a.cfg.RegistryPath, "path of the local upload registry")
	pf.IntVar(&conc, "concurrency", a.cfg.Concurrency, "parallel uploads")
	pf.Float64Var(&rateLimit, "rate-limit", a.cfg.RateLimit, "requests per second, 0 for no limit")
	pf.StringVar(&logLevel, "log-level", a.cfg.LogLevel, "debug, info, warn or error")
	pf.StringVar(&logFormat, "log-format", a.cfg.LogFormat, "text or json")
	pf.StringVar(&metrics, "metrics-file", a.cfg.MetricsFile, "write Prometheus metrics to this file")

	root.AddCommand(a.uploadCmd())
	root.AddCommand(a.listCmd())
	root.AddCommand(a.getCmd())
	root.AddCommand(a.deleteCmd())
	root.AddCommand(a.versionCmd())

	return root
}
