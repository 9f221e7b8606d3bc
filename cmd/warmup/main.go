// Command warmup polls an API's status endpoint until it answers 200 or a
// deadline passes. When a trailing command is given it is executed once the
// API is up, so the tool can gate test runs on readiness.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"time"
)

func main() {
	baseURL := flag.String("base-url", "http://127.0.0.1:8080", "base URL of the API")
	statusPath := flag.String("status-path", "/status", "path polled for readiness")
	timeout := flag.Duration("timeout", 30*time.Second, "how long to keep polling before giving up")
	pollInterval := flag.Duration("poll-interval", 250*time.Millisecond, "delay between polls")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	url := *baseURL + *statusPath
	if !waitForReady(ctx, url, *pollInterval) {
		slog.Error("API did not become ready", "url", url, "timeout", *timeout)
		os.Exit(1)
	}
	slog.Info("API is ready", "url", url)

	if args := flag.Args(); len(args) > 0 {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin
		if err := cmd.Run(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				os.Exit(exitErr.ExitCode())
			}
			slog.Error("run command", "error", err)
			os.Exit(1)
		}
	}
}

// waitForReady polls url until it returns 200 or ctx expires. Connection
// errors and non-200 answers are both treated as not-ready.
func waitForReady(ctx context.Context, url string, interval time.Duration) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			slog.Error("build request", "error", err)
			return false
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}

		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
