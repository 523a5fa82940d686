package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/sales/internal/health"
	"github.com/vladislavdragonenkov/sales/internal/version"
)

func TestStartMetricsServer_Endpoints(t *testing.T) {
	logger := log.WithField("test", "http")

	port := findFreePort(t)
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := healthcheck.NewHandler(version.String())
	srv := startMetricsServer(ctx, addr, logger, healthHandler)
	if srv == nil {
		t.Fatal("startMetricsServer should not return nil")
	}

	// Даём серверу время на запуск
	waitForServer(t, addr)

	for _, path := range []string{"/metrics", "/healthz", "/readyz", "/livez"} {
		resp, err := http.Get(fmt.Sprintf("http://%s%s", addr, path))
		if err != nil {
			t.Fatalf("failed to get %s: %v", path, err)
		}

		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200 for %s, got %d", path, resp.StatusCode)
		}
		if len(body) == 0 {
			t.Errorf("%s should return non-empty response", path)
		}
	}
}

func TestStartMetricsServer_ShutdownOnContextCancel(t *testing.T) {
	logger := log.WithField("test", "http-shutdown")

	port := findFreePort(t)
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	ctx, cancel := context.WithCancel(context.Background())

	healthHandler := healthcheck.NewHandler(version.String())
	startMetricsServer(ctx, addr, logger, healthHandler)

	waitForServer(t, addr)
	cancel()

	// После остановки сервер перестаёт принимать подключения.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err != nil {
			return
		}
		_ = conn.Close()
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("metrics server did not stop after context cancel")
}

func findFreePort(t *testing.T) int {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer lis.Close()

	return lis.Addr().(*net.TCPAddr).Port
}

func waitForServer(t *testing.T, addr string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("server at %s did not start", addr)
}
