// Command cdns-debug decodes C-DNS capture files and prints them in
// human-readable (or JSON) form, testing that the files parse and,
// with --dump-serialized, that re-encoding round-trips.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jroosing/cdns/internal/bufpool"
	"github.com/jroosing/cdns/internal/cdns"
	"github.com/jroosing/cdns/internal/config"
	"github.com/jroosing/cdns/internal/format"
	"github.com/jroosing/cdns/internal/inspect"
	"github.com/jroosing/cdns/internal/logging"
)

func main() {
	var (
		dumpSerialized bool
		jsonOutput     bool
		logLevel       string
		serve          bool
		configPath     string
	)
	flag.BoolVar(&dumpSerialized, "dump-serialized", false, "write FILE.new.cdns by re-encoding the decoded file")
	flag.BoolVar(&jsonOutput, "json", false, "render decoded files as JSON instead of text")
	flag.StringVar(&logLevel, "log-level", "INFO", "diagnostic log level (DEBUG, INFO, WARN, ERROR)")
	flag.BoolVar(&serve, "serve", false, "after decoding, serve the first file over the HTTP inspection API until interrupted")
	flag.StringVar(&configPath, "config", "", "path to a YAML config file (overrides CDNS_CONFIG)")
	flag.Usage = printHelp
	flag.Parse()

	if flag.NArg() == 0 {
		printHelp()
		return
	}

	logger := logging.Configure(logging.Config{Level: logLevel})

	if serve {
		runServe(configPath, flag.Args()[0], logger)
		return
	}

	type result struct {
		path string
		err  error
	}
	files := flag.Args()
	results := make([]result, len(files))

	bufpool.RunBounded(0, len(files), func(i int) {
		results[i] = result{path: files[i], err: processFile(files[i], dumpSerialized, jsonOutput, logger)}
	})

	exitCode := 0
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "====================\nFailed to decode %s\n====================\n%v\n", r.path, r.err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func processFile(path string, dumpSerialized, jsonOutput bool, logger interface {
	Info(msg string, args ...any)
}) error {
	buffer, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	file, err := cdns.Decode(buffer)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	logger.Info("decoded capture", "file", path, "blocks", len(file.FileBlocks))

	fmt.Printf("====================\nFile: %s\n====================\n\n", path)
	if jsonOutput {
		out, err := format.JSON(&file)
		if err != nil {
			return fmt.Errorf("format %s: %w", path, err)
		}
		fmt.Println(string(out))
	} else if err := format.Text(os.Stdout, &file); err != nil {
		return fmt.Errorf("format %s: %w", path, err)
	}

	if dumpSerialized {
		buf := bufpool.Get()
		defer bufpool.Put(buf)
		reencoded, err := cdns.Encode(file)
		if err != nil {
			return fmt.Errorf("re-encode %s: %w", path, err)
		}
		buf.Write(reencoded)
		if err := os.WriteFile(path+".new.cdns", buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write %s.new.cdns: %w", path, err)
		}
	}

	return nil
}

func runServe(configPath, path string, logger *slog.Logger) {
	cfg, err := config.Load(config.ResolveConfigPath(configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Inspect.Enabled = true
	if cfg.Inspect.Host == "" {
		cfg.Inspect.Host = "127.0.0.1"
	}
	if cfg.Inspect.Port == 0 {
		cfg.Inspect.Port = 8080
	}

	buffer, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}
	file, err := cdns.Decode(buffer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode %s: %v\n", path, err)
		os.Exit(1)
	}

	srv := inspect.New(cfg, logger)
	srv.LoadFile(path, &file)
	logger.Info("inspection server listening", "addr", srv.Addr(), "file", path)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "serve: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}
}

func printHelp() {
	fmt.Fprint(os.Stderr, `Test if a C-DNS file can be parsed.
Print the content of the file in human readable form.

Usage: cdns-debug [flags] FILE...

Flags:
  -h, --help              Print this help message
  --dump-serialized        Create a new FILE.new.cdns file by re-encoding the
                           content. Useful to test that round-trip conversion
                           is lossless.
  --json                   Render decoded files as JSON instead of text.
  --log-level LEVEL        Diagnostic log level (DEBUG, INFO, WARN, ERROR).
  --serve                  Decode the first FILE and serve it over the HTTP
                           inspection API until interrupted (ignores other
                           FILE arguments and --json/--dump-serialized).
  --config PATH            Config file for --serve (overrides CDNS_CONFIG).
`)
}
