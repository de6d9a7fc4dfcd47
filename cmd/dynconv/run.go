package main

import (
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/viant/gmetric"

	"github.com/funvibe/dynconv/internal/binder"
	"github.com/funvibe/dynconv/internal/config"
	"github.com/funvibe/dynconv/internal/interop"
	"github.com/funvibe/dynconv/internal/scenario"
	"github.com/funvibe/dynconv/internal/trace"
)

const metricURI = "/v1/metric/"

// RunCommand executes a scenario file.
type RunCommand struct {
	Scenario string `short:"s" long:"scenario" description:"scenario file" required:"true"`
	Config   string `short:"c" long:"config" description:"dynconv.yaml (default: searched upward from the scenario)"`
	Trace    string `short:"t" long:"trace" description:"sqlite database receiving one row per bind"`
	Limit    int    `short:"l" long:"limit" description:"polymorphic limit of every call site"`
	Metrics  bool   `short:"m" long:"metrics" description:"print the gmetric operation report after the run"`
	Verbose  bool   `short:"v" long:"verbose" description:"print resolution decisions to stderr"`
}

func (c *RunCommand) Execute(_ []string) error {
	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return c.run(os.Stdout, os.Stderr, color)
}

func (c *RunCommand) loadConfig() (*config.Config, error) {
	path := c.Config
	if path == "" {
		found, err := config.FindConfig(filepath.Dir(c.Scenario))
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if c.Trace != "" {
		cfg.Trace = c.Trace
	}
	if c.Limit > 0 {
		cfg.PolymorphicLimit = c.Limit
	}
	if c.Metrics && !cfg.Metrics {
		cfg.Metrics = true
		cfg.MetricName = config.DefaultMetricName
	}
	cfg.Verbose = cfg.Verbose || c.Verbose
	return cfg, nil
}

func (c *RunCommand) run(stdout, stderr io.Writer, color bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := scenario.Load(c.Scenario)
	if err != nil {
		return err
	}

	opts := []binder.Option{binder.WithPolymorphicLimit(cfg.PolymorphicLimit)}
	if !cfg.DisableInterop {
		opts = append(opts, binder.WithInterop(interop.New(s.Universe)))
	}
	if cfg.Verbose {
		opts = append(opts, binder.WithLog(func(format string, args ...interface{}) {
			fmt.Fprintf(stderr, config.LogPrefix+format+"\n", args...)
		}))
	}
	var metrics *gmetric.Service
	if cfg.Metrics {
		metrics = gmetric.New()
		opts = append(opts, binder.WithCounter(binder.NewCounter(metrics, cfg.MetricName)))
	}
	var store *trace.Store
	if cfg.Trace != "" {
		if store, err = trace.Open(cfg.Trace); err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, binder.WithTracer(store))
	}

	report, err := s.Run(binder.New(nil, opts...))
	if err != nil {
		return err
	}

	p := printer{out: stdout, color: color}
	p.report(s.Name, report)
	if store != nil && cfg.Verbose {
		summary, err := store.Summary()
		if err != nil {
			return err
		}
		for _, count := range summary {
			fmt.Fprintf(stderr, "%s%s: %d\n", config.LogPrefix, count.Event, count.Binds)
		}
	}
	if metrics != nil {
		if err := dumpMetrics(stdout, metrics); err != nil {
			return err
		}
	}

	if failed := report.Failures(); failed > 0 {
		return fmt.Errorf("%d of %d calls did not meet their expectation", failed, len(report.Results))
	}
	return nil
}

// dumpMetrics writes the JSON operation report gmetric serves over HTTP.
func dumpMetrics(out io.Writer, metrics *gmetric.Service) error {
	rec := httptest.NewRecorder()
	gmetric.NewHandler(metricURI, metrics).ServeHTTP(rec, httptest.NewRequest("GET", metricURI+"operations", nil))
	if _, err := fmt.Fprintln(out, rec.Body.String()); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
