package cli_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/cli"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestRun_ValidateCommand_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
[outreach]
history_limit = 20
max_follow_up_depth = 3

[linkedin]
connection_template = "Hi {{firstName}}, let's connect"

[[email.signature]]
role = "sales_rep"
text = "-- Sales team"
`)

	err := cli.Run(context.Background(), []string{"reachout", "validate", "--config", configPath}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_WithoutConfig(t *testing.T) {
	err := cli.Run(context.Background(), []string{"reachout", "validate"}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_InvalidConfig(t *testing.T) {
	configPath := writeConfig(t, `
[outreach]
history_limit = 5000
`)

	err := cli.Run(context.Background(), []string{"reachout", "validate", "--config", configPath}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_DuplicateSignature(t *testing.T) {
	configPath := writeConfig(t, `
[[email.signature]]
role = "sales_rep"
text = "one"

[[email.signature]]
role = "sales_rep"
text = "two"
`)

	err := cli.Run(context.Background(), []string{"reachout", "validate", "--config", configPath}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_MissingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nonexistent.toml")

	err := cli.Run(context.Background(), []string{"reachout", "validate", "--config", configPath}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_RejectedProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	err := cli.Run(context.Background(), []string{
		"reachout", "validate",
		"--instantly-api-key", "bad-key",
		"--instantly-base-url", srv.URL,
	}, "test")
	gt.Error(t, err).Is(cli.ErrProviderInvalid)
}

func TestRun_ValidateCommand_HalfConfiguredNotify(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"reachout", "validate",
		"--slack-bot-token", "xoxb-test",
	}, "test")
	gt.Value(t, err).NotNil()
}
