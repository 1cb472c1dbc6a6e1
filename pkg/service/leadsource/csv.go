package leadsource

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// Column names accepted in the header row
const (
	ColEmail       = "email"
	ColFirstName   = "first_name"
	ColLastName    = "last_name"
	ColPhone       = "phone"
	ColCompany     = "company"
	ColJobTitle    = "job_title"
	ColLinkedInURL = "linkedin_url"
	ColTags        = "tags"
)

// TagSeparator splits the tags column
const TagSeparator = ";"

// ParseCSV reads leads from r. The first row is the header and must contain an email column;
// other known columns are optional and unknown ones are ignored.
func ParseCSV(r io.Reader) ([]*model.Lead, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, goerr.New("lead CSV is empty")
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read lead CSV header")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[name] = i
	}
	if _, ok := columns[ColEmail]; !ok {
		return nil, goerr.New("lead CSV has no email column", goerr.V("header", header))
	}

	var leads []*model.Lead
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read lead CSV row")
		}

		get := func(col string) string {
			i, ok := columns[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if isBlank(record) {
			continue
		}

		lead := &model.Lead{
			Email:       get(ColEmail),
			FirstName:   get(ColFirstName),
			LastName:    get(ColLastName),
			Phone:       get(ColPhone),
			Company:     get(ColCompany),
			JobTitle:    get(ColJobTitle),
			LinkedInURL: get(ColLinkedInURL),
			Source:      types.LeadSourceImport,
		}
		if tags := get(ColTags); tags != "" {
			lead.Tags = strings.Split(tags, TagSeparator)
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
