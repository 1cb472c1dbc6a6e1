package types

import "fmt"

// Channel is the provider an outreach is sent through. Each channel is bound to exactly one provider.
type Channel string

const (
	ChannelInstantly     Channel = "Instantly"
	ChannelPersonalEmail Channel = "Personal Email"
	ChannelSalesfinity   Channel = "Salesfinity"
	ChannelLinkedIn      Channel = "LinkedIn"
	ChannelOther         Channel = "Other"
)

// AllChannels returns all valid channels
func AllChannels() []Channel {
	return []Channel{
		ChannelInstantly,
		ChannelPersonalEmail,
		ChannelSalesfinity,
		ChannelLinkedIn,
		ChannelOther,
	}
}

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	switch c {
	case ChannelInstantly, ChannelPersonalEmail, ChannelSalesfinity, ChannelLinkedIn, ChannelOther:
		return true
	default:
		return false
	}
}

func (c Channel) String() string {
	return string(c)
}

// OutreachType returns the outreach type a channel produces
func (c Channel) OutreachType() OutreachType {
	switch c {
	case ChannelInstantly, ChannelPersonalEmail:
		return OutreachTypeEmail
	case ChannelSalesfinity:
		return OutreachTypeCall
	case ChannelLinkedIn:
		return OutreachTypeLinkedIn
	default:
		return OutreachTypeOther
	}
}

// LeadSource returns the lead source recorded when a lead is contacted through the channel
func (c Channel) LeadSource() LeadSource {
	switch c {
	case ChannelInstantly:
		return LeadSourceInstantly
	case ChannelPersonalEmail:
		return LeadSourcePersonalEmail
	case ChannelSalesfinity:
		return LeadSourceSalesfinity
	case ChannelLinkedIn:
		return LeadSourceLinkedIn
	default:
		return LeadSourceOther
	}
}

// ParseChannel parses a string into a Channel. URL-friendly lowercase forms are accepted.
func ParseChannel(s string) (Channel, error) {
	switch s {
	case "instantly":
		return ChannelInstantly, nil
	case "personal-email", "personal_email":
		return ChannelPersonalEmail, nil
	case "salesfinity":
		return ChannelSalesfinity, nil
	case "linkedin":
		return ChannelLinkedIn, nil
	case "other":
		return ChannelOther, nil
	}

	c := Channel(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid channel: %s", s)
	}
	return c, nil
}
