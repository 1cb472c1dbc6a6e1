package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/cli/config"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestLoadAppConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "full configuration",
			content: `
[outreach]
history_limit = 100
max_follow_up_depth = 4
sync_concurrency = 8

[linkedin]
connection_template = "Hi {{firstName}}, I'd like to connect"
message_template = "Thanks for connecting {{firstName}}"

[[email.signature]]
role = "sales_rep"
text = "Best,\nThe sales team"

[[email.signature]]
role = "manager"
text = "Regards"
`,
		},
		{
			name:    "empty file uses defaults",
			content: "",
		},
		{
			name: "history limit above maximum",
			content: `
[outreach]
history_limit = 1000
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "negative follow-up depth",
			content: `
[outreach]
max_follow_up_depth = -1
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "unknown signature role",
			content: `
[[email.signature]]
role = "intern"
text = "hi"
`,
			wantErr: config.ErrInvalidRole,
		},
		{
			name: "signature without text",
			content: `
[[email.signature]]
role = "admin"
`,
			wantErr: config.ErrMissingText,
		},
		{
			name: "duplicate signature role",
			content: `
[[email.signature]]
role = "admin"
text = "a"

[[email.signature]]
role = "admin"
text = "b"
`,
			wantErr: config.ErrDuplicateSignature,
		},
		{
			name:    "malformed TOML",
			content: `[outreach`,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadAppConfiguration(writeTOML(t, tt.content))
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, cfg).NotNil()
		})
	}
}

func TestLoadAppConfiguration_ValidationAlsoInvalidConfig(t *testing.T) {
	path := writeTOML(t, `
[[email.signature]]
role = "intern"
text = "hi"
`)
	_, err := config.LoadAppConfiguration(path)
	gt.Error(t, err).Is(config.ErrInvalidConfig)
	gt.Error(t, err).Is(config.ErrInvalidRole)
}

func TestLoadAppConfiguration_NotFound(t *testing.T) {
	_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Error(t, err).Is(config.ErrConfigNotFound)
}

func TestToOutreachConfig(t *testing.T) {
	cfg, err := config.LoadAppConfiguration(writeTOML(t, `
[outreach]
history_limit = 30
max_follow_up_depth = 2
sync_concurrency = 3

[linkedin]
connection_template = "Hello {{firstName}}"

[[email.signature]]
role = "sales_rep"
text = "-- Rep"
`))
	gt.NoError(t, err).Required()

	oc := cfg.ToOutreachConfig()
	gt.Value(t, oc.HistoryLimit).Equal(30)
	gt.Value(t, oc.MaxFollowUpDepth).Equal(2)
	gt.Value(t, oc.SyncConcurrency).Equal(3)
	gt.Value(t, oc.ConnectionTemplate).Equal("Hello {{firstName}}")
	gt.Value(t, oc.MessageTemplate).Equal("")
	gt.Value(t, oc.Signatures[types.UserRoleSalesRep]).Equal("-- Rep")
	gt.Value(t, len(oc.Signatures)).Equal(1)
}

func TestAppConfigureWithoutPath(t *testing.T) {
	var app config.App
	cfg, err := app.Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.ToOutreachConfig().Signatures == nil).Equal(true)
}
