package usecase

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/service/instantly"
	"github.com/secmon-lab/reachout/pkg/service/phantombuster"
	"github.com/secmon-lab/reachout/pkg/service/salesfinity"
	"github.com/secmon-lab/reachout/pkg/utils/errutil"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// SyncOutreachStatus reconciles one outreach with its provider. Records without an external
// id are returned unchanged. The provider state is merged field by field and the record is
// saved only when the merge changed something, so repeated syncs are idempotent.
func (uc *OutreachUseCase) SyncOutreachStatus(ctx context.Context, id model.OutreachID) (*model.Outreach, error) {
	outreach, _, err := uc.syncOutreach(ctx, id)
	return outreach, err
}

func (uc *OutreachUseCase) syncOutreach(ctx context.Context, id model.OutreachID) (*model.Outreach, bool, error) {
	outreach, err := loadOutreach(ctx, uc.repo, id)
	if err != nil {
		return nil, false, err
	}
	if outreach.ExternalID() == "" {
		return outreach, false, nil
	}

	user := uc.performer(ctx, outreach.PerformedBy)

	remote, err := uc.fetchRemote(ctx, user, outreach)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to fetch remote outreach state",
			goerr.V(model.OutreachIDKey, outreach.ID),
			goerr.V(model.ChannelKey, outreach.Channel))
	}
	if remote == nil {
		return outreach, false, nil
	}

	hadReply := outreach.Response.Received
	if !outreach.Merge(remote.AsUpdate()) {
		return outreach, false, nil
	}

	saved, err := uc.repo.Outreach().Update(ctx, outreach)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to save synced outreach", goerr.V(model.OutreachIDKey, outreach.ID))
	}

	if !hadReply && saved.Response.Received {
		uc.onFirstReply(ctx, saved)
	}
	return saved, true, nil
}

// performer returns the user whose integration performed the outreach. A missing user falls
// back to the process defaults.
func (uc *OutreachUseCase) performer(ctx context.Context, id model.UserID) *model.User {
	if id == "" {
		return nil
	}
	user, err := uc.repo.User().Get(ctx, id)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			bestEffort(ctx, goerr.Wrap(err, "failed to get performing user", goerr.V(model.UserIDKey, id)), "user lookup")
		}
		return nil
	}
	return user
}

// fetchRemote returns the provider's view of outreach mapped into an Outreach, or nil when the
// provider has nothing yet
func (uc *OutreachUseCase) fetchRemote(ctx context.Context, user *model.User, outreach *model.Outreach) (*model.Outreach, error) {
	switch outreach.Channel {
	case types.ChannelInstantly:
		svc, err := uc.registry.Email(user)
		if err != nil {
			return nil, err
		}
		record, err := svc.GetLeadStatus(ctx, outreach.ExternalIDs.InstantlyCampaignID, outreach.ExternalIDs.InstantlyID)
		if err != nil {
			return nil, err
		}
		return instantly.MapLeadStatusToOutreach(record, outreach.LeadID), nil

	case types.ChannelSalesfinity:
		svc, err := uc.registry.Call(user)
		if err != nil {
			return nil, err
		}
		call, err := svc.FindLatestCall(ctx, outreach.ExternalIDs.SalesfinityID)
		if err != nil {
			return nil, err
		}
		if call == nil {
			return nil, nil
		}
		return salesfinity.MapCallToOutreach(call, outreach.LeadID), nil

	case types.ChannelLinkedIn:
		client, err := uc.registry.LinkedIn(user)
		if err != nil {
			return nil, err
		}
		output, err := client.GetContainerOutput(ctx, outreach.ExternalIDs.LinkedInActivityID)
		if err != nil {
			return nil, err
		}
		return phantombuster.MapContainerToOutreach(output, outreach.LeadID), nil

	default:
		return nil, nil
	}
}

// onFirstReply bumps the campaign counters and notifies the team. Both are best-effort.
func (uc *OutreachUseCase) onFirstReply(ctx context.Context, outreach *model.Outreach) {
	if outreach.CampaignID != "" {
		if campaign, err := uc.repo.Campaign().Get(ctx, outreach.CampaignID); err != nil {
			bestEffort(ctx, goerr.Wrap(err, "failed to get campaign", goerr.V(model.CampaignIDKey, outreach.CampaignID)), "reply metrics")
		} else {
			campaign.Metrics.Replies++
			if outreach.Call != nil && outreach.Call.Outcome == types.CallOutcomeMeetingScheduled {
				campaign.Metrics.Meetings++
			}
			if _, err := uc.repo.Campaign().Update(ctx, campaign); err != nil {
				bestEffort(ctx, goerr.Wrap(err, "failed to update campaign", goerr.V(model.CampaignIDKey, campaign.ID)), "reply metrics")
			}
		}
	}

	if uc.notifier == nil {
		return
	}
	lead, err := uc.repo.Lead().Get(ctx, outreach.LeadID)
	if err != nil {
		bestEffort(ctx, goerr.Wrap(err, "failed to get lead", goerr.V(model.LeadIDKey, outreach.LeadID)), "reply notification")
		return
	}
	if err := uc.notifier.NotifyReply(ctx, outreach, lead); err != nil {
		bestEffort(ctx, err, "reply notification")
	}
}

// SyncOptions narrows a batch sync
type SyncOptions struct {
	Channel     *types.Channel
	Limit       int
	Concurrency int
}

// SyncResult counts the outcome of a batch sync
type SyncResult struct {
	Total     int `json:"total"`
	Synced    int `json:"synced"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// SyncAll syncs every syncable outreach with bounded concurrency. A failing record is logged
// and counted; it does not stop the batch.
func (uc *OutreachUseCase) SyncAll(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	var listOpts []interfaces.ListOption
	if opts.Channel != nil {
		listOpts = append(listOpts, interfaces.WithChannel(*opts.Channel))
	}
	if opts.Limit > 0 {
		listOpts = append(listOpts, interfaces.WithLimit(opts.Limit))
	}

	targets, err := uc.repo.Outreach().ListSyncable(ctx, listOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list syncable outreaches")
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = uc.cfg.SyncConcurrency
	}

	var synced, unchanged, failed atomic.Int64
	var eg errgroup.Group
	eg.SetLimit(concurrency)

	for _, target := range targets {
		eg.Go(func() error {
			_, changed, err := uc.syncOutreach(ctx, target.ID)
			switch {
			case err != nil:
				failed.Add(1)
				_ = errutil.Handle(ctx, err, "outreach sync failed")
			case changed:
				synced.Add(1)
			default:
				unchanged.Add(1)
			}
			return nil
		})
	}
	_ = eg.Wait()

	result := &SyncResult{
		Total:     len(targets),
		Synced:    int(synced.Load()),
		Unchanged: int(unchanged.Load()),
		Failed:    int(failed.Load()),
	}
	logging.From(ctx).Info("outreach sync finished",
		"total", result.Total,
		"synced", result.Synced,
		"unchanged", result.Unchanged,
		"failed", result.Failed)
	return result, nil
}
