package leadsource_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/service/leadsource"
	"github.com/secmon-lab/reachout/pkg/utils/safe"
)

const sample = `Email,First_Name,last_name,phone,company,job_title,linkedin_url,tags,extra
jane@acme.example,Jane,Doe,+1 415 555 0100,Acme,CTO,https://www.linkedin.com/in/jane,enterprise;warm,x
john@globex.example,John,,,"Globex, Inc.",,,,

bob@initech.example
`

func TestParseCSV(t *testing.T) {
	leads, err := leadsource.ParseCSV(strings.NewReader(sample))
	gt.NoError(t, err).Required()
	gt.Array(t, leads).Length(3).Required()

	jane := leads[0]
	gt.Value(t, jane.Email).Equal("jane@acme.example")
	gt.Value(t, jane.FirstName).Equal("Jane")
	gt.Value(t, jane.Phone).Equal("+1 415 555 0100")
	gt.Value(t, jane.LinkedInURL).Equal("https://www.linkedin.com/in/jane")
	gt.Value(t, jane.Tags).Equal([]string{"enterprise", "warm"})
	gt.Value(t, jane.Source).Equal(types.LeadSourceImport)

	gt.Value(t, leads[1].Company).Equal("Globex, Inc.")
	gt.Array(t, leads[1].Tags).Length(0)

	gt.Value(t, leads[2].Email).Equal("bob@initech.example")
	gt.Value(t, leads[2].FirstName).Equal("")
}

func TestParseCSVErrors(t *testing.T) {
	_, err := leadsource.ParseCSV(strings.NewReader(""))
	gt.Value(t, err).NotNil()

	_, err = leadsource.ParseCSV(strings.NewReader("name,company\nJane,Acme\n"))
	gt.Value(t, err).NotNil()
	gt.String(t, err.Error()).Contains("email column")
}

func TestOpenLocal(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.csv")
	gt.NoError(t, os.WriteFile(path, []byte(sample), 0o600)).Required()

	for _, uri := range []string{path, "file://" + path} {
		r, err := leadsource.Open(ctx, uri)
		gt.NoError(t, err).Required()
		data, err := io.ReadAll(r)
		safe.Close(ctx, r)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal(sample)
	}

	_, err := leadsource.Open(ctx, filepath.Join(t.TempDir(), "missing.csv"))
	gt.Value(t, err).NotNil()
	_, err = leadsource.Open(ctx, "")
	gt.Value(t, err).NotNil()
}

func TestParseGCSURI(t *testing.T) {
	bucket, object, err := leadsource.ParseGCSURI("gs://sales-data/imports/2026/leads.csv")
	gt.NoError(t, err).Required()
	gt.Value(t, bucket).Equal("sales-data")
	gt.Value(t, object).Equal("imports/2026/leads.csv")

	for _, bad := range []string{"gs://", "gs://bucket", "gs://bucket/", "gs:///object"} {
		_, _, err := leadsource.ParseGCSURI(bad)
		gt.Value(t, err).NotNil()
	}
}

func TestOpenGCS(t *testing.T) {
	uri := os.Getenv("TEST_LEADSOURCE_GCS_URI")
	if uri == "" {
		t.Skip("TEST_LEADSOURCE_GCS_URI is not set")
	}

	ctx := context.Background()
	r, err := leadsource.Open(ctx, uri)
	gt.NoError(t, err).Required()
	defer safe.Close(ctx, r)

	leads, err := leadsource.ParseCSV(r)
	gt.NoError(t, err).Required()
	t.Logf("read %d leads from %s", len(leads), uri)
}
