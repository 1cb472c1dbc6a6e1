package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

func TestChannel_OutreachType(t *testing.T) {
	tests := []struct {
		channel types.Channel
		want    types.OutreachType
	}{
		{types.ChannelInstantly, types.OutreachTypeEmail},
		{types.ChannelPersonalEmail, types.OutreachTypeEmail},
		{types.ChannelSalesfinity, types.OutreachTypeCall},
		{types.ChannelLinkedIn, types.OutreachTypeLinkedIn},
		{types.ChannelOther, types.OutreachTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.channel.String(), func(t *testing.T) {
			gt.Value(t, tt.channel.OutreachType()).Equal(tt.want)
		})
	}
}

func TestChannel_LeadSource(t *testing.T) {
	for _, c := range types.AllChannels() {
		t.Run(c.String(), func(t *testing.T) {
			gt.Bool(t, c.LeadSource().IsValid()).True()
		})
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.Channel
		wantErr bool
	}{
		{name: "display form", input: "Personal Email", want: types.ChannelPersonalEmail},
		{name: "slug form", input: "personal-email", want: types.ChannelPersonalEmail},
		{name: "instantly slug", input: "instantly", want: types.ChannelInstantly},
		{name: "linkedin display", input: "LinkedIn", want: types.ChannelLinkedIn},
		{name: "unknown", input: "fax", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseChannel(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}
