package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/usecase"
)

func campaignRoutes(uc *usecase.UseCases) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", listCampaignsHandler(uc.Campaign))
		r.Post("/", createCampaignHandler(uc.Campaign))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", getCampaignHandler(uc.Campaign))
			r.Put("/", updateCampaignHandler(uc.Campaign))
			r.Delete("/", deleteCampaignHandler(uc.Campaign))

			r.Post("/leads", addCampaignLeadsHandler(uc.Campaign))
			r.Delete("/leads", removeCampaignLeadsHandler(uc.Campaign))
			r.Delete("/leads/{leadID}", removeCampaignLeadHandler(uc.Campaign))
			r.Post("/team", addTeamMemberHandler(uc.Campaign))
			r.Delete("/team", removeTeamMemberHandler(uc.Campaign))
			r.Delete("/team/{userID}", removeTeamMemberHandler(uc.Campaign))
			r.Put("/status", updateCampaignStatusHandler(uc.Campaign))

			r.Get("/sequences", listSequencesHandler(uc.Sequence))
			r.Post("/sequences", createSequenceHandler(uc.Sequence))
		})
	}
}

func campaignID(r *http.Request) model.CampaignID {
	return model.CampaignID(chi.URLParam(r, "id"))
}

// campaignHandler runs fn against the campaign named in the path and writes the result
func campaignHandler(fn func(r *http.Request, id model.CampaignID) (*model.Campaign, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		campaign, err := fn(r, campaignID(r))
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toCampaignResponse(campaign))
	}
}

func listCampaignsHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := queryInt(r, "limit")
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		offset, err := queryInt(r, "offset")
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		filter := usecase.CampaignFilter{Limit: limit, Offset: offset}
		if s := queryString(r, "status"); s != nil {
			status := types.CampaignStatus(*s)
			filter.Status = &status
		}
		if s := queryString(r, "type"); s != nil {
			typ := types.CampaignType(*s)
			filter.Type = &typ
		}

		campaigns, err := uc.List(ctx, filter)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toList(campaigns, toCampaignResponse))
	}
}

func createCampaignHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req campaignRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		campaign, err := uc.Create(ctx, userIDFrom(ctx), &model.Campaign{
			Name:        req.Name,
			Description: req.Description,
			Type:        req.Type,
			Status:      req.Status,
			Leads:       req.Leads,
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toCampaignResponse(campaign))
	}
}

func getCampaignHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return campaignHandler(func(r *http.Request, id model.CampaignID) (*model.Campaign, error) {
		return uc.Get(r.Context(), id)
	})
}

func updateCampaignHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return campaignHandler(func(r *http.Request, id model.CampaignID) (*model.Campaign, error) {
		var patch campaignPatch
		if err := decodeJSON(r, &patch); err != nil {
			return nil, err
		}
		return uc.Update(r.Context(), id, &usecase.CampaignUpdate{
			Name:        patch.Name,
			Description: patch.Description,
			Type:        patch.Type,
			Status:      patch.Status,
		})
	})
}

func deleteCampaignHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := uc.Delete(ctx, campaignID(r)); err != nil {
			handleError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addCampaignLeadsHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return campaignHandler(func(r *http.Request, id model.CampaignID) (*model.Campaign, error) {
		var req campaignLeadsRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return uc.AddLeads(r.Context(), id, req.LeadIDs)
	})
}

// removeCampaignLeadsHandler removes every lead listed in the body
func removeCampaignLeadsHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return campaignHandler(func(r *http.Request, id model.CampaignID) (*model.Campaign, error) {
		var req campaignLeadsRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		if len(req.LeadIDs) == 0 {
			return nil, model.NewValidationError("request", "leadIds", "is required")
		}

		var campaign *model.Campaign
		for _, leadID := range req.LeadIDs {
			updated, err := uc.RemoveLead(r.Context(), id, leadID)
			if err != nil {
				return nil, err
			}
			campaign = updated
		}
		return campaign, nil
	})
}

func removeCampaignLeadHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return campaignHandler(func(r *http.Request, id model.CampaignID) (*model.Campaign, error) {
		return uc.RemoveLead(r.Context(), id, model.LeadID(chi.URLParam(r, "leadID")))
	})
}

func addTeamMemberHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return campaignHandler(func(r *http.Request, id model.CampaignID) (*model.Campaign, error) {
		var req teamMemberRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return uc.AddTeamMember(r.Context(), id, req.UserID)
	})
}

// removeTeamMemberHandler takes the member from the path, or from the body when the path has none
func removeTeamMemberHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return campaignHandler(func(r *http.Request, id model.CampaignID) (*model.Campaign, error) {
		member := model.UserID(chi.URLParam(r, "userID"))
		if member == "" {
			var req teamMemberRequest
			if err := decodeJSON(r, &req); err != nil {
				return nil, err
			}
			member = req.UserID
		}
		return uc.RemoveTeamMember(r.Context(), id, member)
	})
}

func updateCampaignStatusHandler(uc *usecase.CampaignUseCase) http.HandlerFunc {
	return campaignHandler(func(r *http.Request, id model.CampaignID) (*model.Campaign, error) {
		var req campaignStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return uc.UpdateStatus(r.Context(), id, req.Status)
	})
}
