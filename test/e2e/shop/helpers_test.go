package shop_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	dockercontainer "github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vphone/simshop/pkg/shopsdk"
)

/*
 * Common constants and helper functions for shop service end-to-end tests.
 * This includes container setup, a stub identity provider, and assertions.
 */

const (
	testImageName = "simshop-test:latest"

	testEnvironmentID = "4a2b8f0e-3c1d-4e5f-9a6b-7c8d9e0f1a2b"
	testWalletAppID   = "9f8e7d6c-5b4a-3f2e-1d0c-b9a8f7e6d5c4"
	testAccessToken   = "e2e-access-token"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Shop Service Docker image...")

	// Build the Docker image once before all tests
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	// Run all tests
	exitCode := m.Run()

	// Clean up the Docker image after all tests complete
	fmt.Fprintf(os.Stdout, "Cleaning up Shop Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image if it doesn't exist.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/simshop/Dockerfile",
		"../../../")
	cmd.Dir = "." // Ensure we're in the test directory
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// stubProvider is a scripted stand-in for the identity provider. One HTTP
// server covers both the OAuth2 token endpoint and the presentation API.
// Each status poll advances through the configured script; the last entry
// repeats once the script runs out.
type stubProvider struct {
	server   *http.Server
	listener net.Listener

	mu          sync.Mutex
	script      []stubTick
	polls       int
	tokenCalls  int
	createCalls int
}

// stubTick is one scripted poll result.
type stubTick struct {
	status string
	fields map[string]string // credential fields released with this status
}

// newStubProvider starts the stub on an ephemeral port bound to all
// interfaces so the service container can reach it through the host gateway.
func newStubProvider(t *testing.T, script []stubTick) *stubProvider {
	t.Helper()
	require.NotEmpty(t, script, "stub provider needs at least one scripted status")

	listener, err := net.Listen("tcp", "0.0.0.0:0")
	require.NoError(t, err)

	p := &stubProvider{listener: listener, script: script}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /"+testEnvironmentID+"/as/token", p.handleToken)
	mux.HandleFunc("POST /environments/"+testEnvironmentID+"/presentationSessions", p.handleCreate)
	mux.HandleFunc("GET /environments/"+testEnvironmentID+"/presentationSessions/{id}", p.handleStatus)

	p.server = &http.Server{Handler: mux, ReadHeaderTimeout: 3 * time.Second}
	go func() { _ = p.server.Serve(listener) }()

	t.Cleanup(func() { _ = p.server.Close() })
	return p
}

// port returns the listener's host port.
func (p *stubProvider) port() int {
	return p.listener.Addr().(*net.TCPAddr).Port
}

func (p *stubProvider) handleToken(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.tokenCalls++
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": testAccessToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (p *stubProvider) handleCreate(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.createCalls++
	n := p.createCalls
	p.mu.Unlock()

	sessionID := fmt.Sprintf("e2e-session-%04d", n)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":          sessionID,
		"status":      "INITIAL",
		"expiresAt":   time.Now().UTC().Add(10 * time.Minute).Format(time.RFC3339),
		"environment": map[string]string{"id": testEnvironmentID},
		"_links": map[string]any{
			"qr": map[string]string{"href": "https://wallet.example/qr/" + sessionID},
		},
	})
}

func (p *stubProvider) handleStatus(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	tick := p.script[min(p.polls, len(p.script)-1)]
	p.polls++
	p.mu.Unlock()

	body := map[string]any{
		"id":     r.PathValue("id"),
		"status": tick.status,
	}
	if len(tick.fields) > 0 {
		data := make([]map[string]string, 0, len(tick.fields))
		for k, v := range tick.fields {
			data = append(data, map[string]string{"key": k, "value": v})
		}
		body["sessionData"] = map[string]any{
			"credentialsDataList": []map[string]any{
				{"type": "Digital ID", "data": data},
			},
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// setupShopContainer starts the shop service in a container pointed at the
// stub provider and returns an SDK client plus a cleanup func.
func setupShopContainer(t *testing.T, provider *stubProvider, extraEnv map[string]string) (*shopsdk.SDKClient, func()) {
	t.Helper()
	ctx := context.Background()

	// The stub runs on the host; host.docker.internal resolves to the host
	// gateway from inside the container.
	providerURL := fmt.Sprintf("http://host.docker.internal:%d", provider.port())

	env := map[string]string{
		"PING_AUTH_BASE_URL":  providerURL,
		"PING_API_BASE_URL":   providerURL,
		"PING_ENVIRONMENT_ID": testEnvironmentID,
		"PING_CLIENT_ID":      "e2e-client",
		"PING_CLIENT_SECRET":  "e2e-secret",
		"PING_WALLET_APP_ID":  testWalletAppID,
		"SHOP_DATABASE_FILE":  "/shop.db",
		"SHOP_POLL_INTERVAL":  "100ms",
		"ENV":                 "test",
		"LOG_LEVEL":           "info",
		"LOG_FORMAT":          "json",
		// Relaxed rate limits so rapid test requests don't trip the
		// production profiles
		"RATELIMIT_STRICT_REQUESTS":  "1000",
		"RATELIMIT_STRICT_BURST":     "1000",
		"RATELIMIT_LENIENT_REQUESTS": "10000",
		"RATELIMIT_LENIENT_BURST":    "10000",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		HostConfigModifier: func(hc *dockercontainer.HostConfig) {
			hc.ExtraHosts = append(hc.ExtraHosts, "host.docker.internal:host-gateway")
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	client := shopsdk.NewSDKClient(fmt.Sprintf("http://%s:%s", host, mappedPort.Port()))

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return client, cleanup
}

// waitForWizardStep polls the wizard until it reaches the wanted step.
func waitForWizardStep(t *testing.T, client *shopsdk.SDKClient, id, step string) *shopsdk.WizardStateResponse {
	t.Helper()

	var state *shopsdk.WizardStateResponse
	require.Eventually(t, func() bool {
		s, err := client.GetWizard(context.Background(), id)
		if err != nil {
			return false
		}
		state = s
		return s.Step == step
	}, 15*time.Second, 100*time.Millisecond, "wizard never reached step %q", step)

	return state
}

// submitDetails builds a manual credential entry form.
func submitDetails(sortCode, accountNumber string) shopsdk.SubmitDetailsRequest {
	return shopsdk.SubmitDetailsRequest{
		Name:          "Typed Name",
		SortCode:      sortCode,
		AccountNumber: accountNumber,
	}
}

// assertAPIError checks that an error is an APIError with the given status
// and code.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *shopsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.True(t, strings.EqualFold(code, apiErr.Code), "expected code %q, got %q", code, apiErr.Code)
}
