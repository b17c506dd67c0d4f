// cmd/resume-checker/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"resume-checker/internal/app"
	"resume-checker/internal/common/config"
	"resume-checker/internal/common/errors"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/common/observability"
	"resume-checker/internal/upload"
	"resume-checker/internal/workflow"
)

type options struct {
	file       string
	domain     string
	role       string
	jd         string
	jdFile     string
	path       string
	configPath string
	listRoles  bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("resume-checker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.file, "file", "", "resume file (.pdf or .docx)")
	fs.StringVar(&o.domain, "domain", "", "career domain")
	fs.StringVar(&o.role, "role", "", "target role within the domain")
	fs.StringVar(&o.jd, "jd", "", "job description text; selects the analysis path")
	fs.StringVar(&o.jdFile, "jd-file", "", "read the job description from a file")
	fs.StringVar(&o.path, "path", "", "prediction or analysis (default depends on -jd)")
	fs.StringVar(&o.configPath, "config", "", "config file (default configs/config.yaml)")
	fs.BoolVar(&o.listRoles, "list-roles", false, "print the domain catalog and exit")
	err := fs.Parse(args)
	return o, err
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain returns the process exit code: 0 on success, 1 when the run
// fails, 2 on bad flags, config or setup. Deferred cleanup always runs.
func realMain(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	var cfg *config.Config
	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "config load failed: %v\n", err)
		return 2
	}

	// stdout carries the result document.
	output := cfg.Logging.Output
	if output == "" || output == "stdout" {
		output = "stderr"
	}
	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clients, err := app.NewClients(ctx, cfg, log)
	if err != nil {
		zapLog.Error("client setup failed", zap.Error(err))
		return 2
	}
	defer clients.Close()

	if opts.listRoles {
		writeJSON(stdout, clients.Catalog.Entries())
		return 0
	}

	if err := run(ctx, opts, clients, log, obs, stdout); err != nil {
		writeError(stderr, err)
		return 1
	}
	return 0
}

func run(ctx context.Context, opts options, clients *app.Clients, log logger.Logger, obs *observability.Observability, out io.Writer) error {
	if opts.file == "" {
		return errors.NewMissingFieldError("file")
	}
	jd := opts.jd
	if opts.jdFile != "" {
		raw, err := os.ReadFile(opts.jdFile)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		jd = string(raw)
	}

	path := workflow.Path(opts.path)
	if path == "" {
		path = workflow.PathPrediction
		if jd != "" {
			path = workflow.PathAnalysis
		}
	}

	file, err := upload.FromPath(opts.file)
	if err != nil {
		return err
	}

	session := workflow.NewSession(clients.Dependencies(log, obs))

	if err := session.SelectFile(file); err != nil {
		return err
	}
	if err := session.StartExtraction(ctx); err != nil {
		return err
	}
	if err := session.SelectDomain(opts.domain); err != nil {
		return err
	}
	if err := session.SelectRole(opts.role); err != nil {
		return err
	}
	if jd != "" {
		if err := session.SetJobDescription(jd); err != nil {
			return err
		}
	}
	if err := session.Submit(ctx, path); err != nil {
		return err
	}

	result, err := clients.Presenter().Present(session.Snapshot())
	if err != nil {
		return err
	}
	writeJSON(out, result)
	return nil
}

func writeJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w io.Writer, err error) {
	body := map[string]interface{}{"error": err.Error()}
	if stdErr, ok := errors.As(err); ok {
		body = map[string]interface{}{
			"error": map[string]interface{}{
				"code":    stdErr.Code,
				"kind":    stdErr.Kind,
				"message": stdErr.Message,
				"details": stdErr.Details,
			},
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}
