package salesfinity_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/service/salesfinity"
)

func TestFormatPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"(415) 555-0100", "+14155550100"},
		{"1-415-555-0100", "+14155550100"},
		{"+44 20 7946 0958", "+442079460958"},
		{"0044 20 7946 0958", "+442079460958"},
		{"", ""},
		{"n/a", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			gt.Value(t, salesfinity.FormatPhone(tc.in, salesfinity.DefaultCountryCode)).Equal(tc.want)
		})
	}
}

func TestMapLeadToContact(t *testing.T) {
	lead := &model.Lead{
		ID:        model.NewLeadID(),
		Email:     "test.lead@example.com",
		FirstName: "Test",
		LastName:  "Lead",
		Company:   "Example",
		JobTitle:  "VP Sales",
		Phone:     "415 555 0100",
	}
	contact := salesfinity.MapLeadToContact(lead)
	gt.Value(t, contact.Phone).Equal("+14155550100")
	gt.Value(t, contact.Title).Equal("VP Sales")
	gt.Value(t, contact.ExternalID).Equal(string(lead.ID))

	gt.Value(t, salesfinity.MapLeadToContact(&model.Lead{Email: "x@example.com"}).Phone).Equal("")
}

func TestDispositionToOutcome_Total(t *testing.T) {
	cases := map[string]types.CallOutcome{
		"answered":          types.CallOutcomeAnswered,
		"voicemail":         types.CallOutcomeVoicemail,
		"no_answer":         types.CallOutcomeNoAnswer,
		"busy":              types.CallOutcomeBusy,
		"wrong_number":      types.CallOutcomeWrongNumber,
		"not_interested":    types.CallOutcomeNotInterested,
		"interested":        types.CallOutcomeInterested,
		"meeting_scheduled": types.CallOutcomeMeetingScheduled,
		"Meeting Scheduled": types.CallOutcomeMeetingScheduled,
		"gatekeeper":        types.CallOutcomeAnswered,
		"":                  types.CallOutcomeAnswered,
	}
	for name, want := range cases {
		got := salesfinity.DispositionToOutcome(name)
		gt.Value(t, got).Equal(want)
		gt.Bool(t, got.IsValid()).True()
	}
}

func TestMapCallToOutreach(t *testing.T) {
	leadID := model.NewLeadID()
	at := time.Date(2026, 2, 3, 15, 0, 0, 0, time.UTC)

	out := salesfinity.MapCallToOutreach(&salesfinity.CallLog{
		ID:           "call-1",
		Contact:      salesfinity.Contact{ID: "contact-1", Phone: "+14155550100"},
		Disposition:  salesfinity.Disposition{ExternalName: "interested"},
		Duration:     185,
		RecordingURL: "https://rec.example.com/1.mp3",
		Notes:        "wants a demo",
		CreatedAt:    &at,
	}, leadID)

	gt.Value(t, out.LeadID).Equal(leadID)
	gt.Value(t, out.Status).Equal(types.OutreachStatusCompleted)
	gt.Value(t, out.Call.Outcome).Equal(types.CallOutcomeInterested)
	gt.Number(t, out.Call.DurationSeconds).Equal(185)
	gt.Value(t, out.Call.DialedNumber).Equal("+14155550100")
	gt.Bool(t, out.Response.Received).True()
	gt.Value(t, out.Response.Sentiment).Equal(types.SentimentPositive)
	gt.Value(t, out.ExternalIDs.SalesfinityID).Equal("contact-1")

	negative := salesfinity.MapCallToOutreach(&salesfinity.CallLog{
		Contact: salesfinity.Contact{ID: "c"}, Disposition: salesfinity.Disposition{ExternalName: "not_interested"},
	}, leadID)
	gt.Value(t, negative.Response.Sentiment).Equal(types.SentimentNegative)

	voicemail := salesfinity.MapCallToOutreach(&salesfinity.CallLog{
		Contact: salesfinity.Contact{ID: "c"}, Disposition: salesfinity.Disposition{ExternalName: "voicemail"},
	}, leadID)
	gt.Bool(t, voicemail.Response.Received).False()
}

func TestContactLinkageRoundTrip(t *testing.T) {
	fake := &fakeSalesfinity{}
	svc := newService(t, fake, "good")
	ctx := context.Background()

	lead := &model.Lead{ID: model.NewLeadID(), Email: "test.lead@example.com", FirstName: "Test", LastName: "Lead", Phone: "4155550100"}
	added, err := svc.AddContact(ctx, "list-1", salesfinity.MapLeadToContact(lead))
	gt.NoError(t, err).Required()

	// The provider echoes the contact on the call log once it has been dialed
	at := time.Now().UTC()
	fake.calls = append(fake.calls, &salesfinity.CallLog{
		ID:          "call-1",
		Contact:     *fake.contacts["list-1"][0],
		Disposition: salesfinity.Disposition{ExternalName: "interested"},
		CreatedAt:   &at,
	})

	call, err := svc.FindLatestCall(ctx, added.Key())
	gt.NoError(t, err).Required()
	gt.Value(t, call.Contact.ExternalID).Equal(string(lead.ID))

	out := salesfinity.MapCallToOutreach(call, lead.ID)
	gt.Value(t, out.LeadID).Equal(lead.ID)
	gt.Value(t, out.ExternalIDs.SalesfinityID).Equal(added.Key())
	gt.Value(t, out.ExternalID()).Equal(added.Key())
	gt.Value(t, out.Call.DialedNumber).Equal("+14155550100")
}
