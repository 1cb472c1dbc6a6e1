package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/usecase"
)

func outreachRoutes(uc *usecase.OutreachUseCase) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/email", sendEmailHandler(uc))
		r.Post("/personal-email", sendPersonalEmailHandler(uc))
		r.Post("/call", scheduleCallHandler(uc))
		r.Post("/linkedin/connection", linkedInHandler(uc.SendLinkedInConnection))
		r.Post("/linkedin/message", linkedInHandler(uc.SendLinkedInMessage))

		r.Get("/{id}", getOutreachHandler(uc))
		r.Post("/{id}/sync", syncOutreachHandler(uc))
		r.Post("/{id}/follow-up", followUpHandler(uc))
	}
}

func outreachID(r *http.Request) model.OutreachID {
	return model.OutreachID(chi.URLParam(r, "id"))
}

// outreachAction decodes a request of type T, resolves the acting user and runs fn
func outreachAction[T any](status int, fn func(ctx context.Context, userID model.UserID, req *T) (*model.Outreach, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requireUserID(ctx)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		var req T
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		outreach, err := fn(ctx, userID, &req)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, status, toOutreachResponse(outreach))
	}
}

func sendEmailHandler(uc *usecase.OutreachUseCase) http.HandlerFunc {
	return outreachAction(http.StatusCreated, func(ctx context.Context, userID model.UserID, req *emailOutreachRequest) (*model.Outreach, error) {
		return uc.SendEmail(ctx, userID, req.CampaignID, req.LeadID, req.input())
	})
}

func sendPersonalEmailHandler(uc *usecase.OutreachUseCase) http.HandlerFunc {
	return outreachAction(http.StatusCreated, func(ctx context.Context, userID model.UserID, req *emailOutreachRequest) (*model.Outreach, error) {
		return uc.SendPersonalEmail(ctx, userID, req.LeadID, req.input())
	})
}

func scheduleCallHandler(uc *usecase.OutreachUseCase) http.HandlerFunc {
	return outreachAction(http.StatusCreated, func(ctx context.Context, userID model.UserID, req *callOutreachRequest) (*model.Outreach, error) {
		return uc.ScheduleCall(ctx, userID, req.CampaignID, req.LeadID, usecase.CallInput{
			ScheduledAt: req.ScheduledAt,
			Notes:       req.Notes,
			SequenceID:  req.SequenceID,
		})
	})
}

func linkedInHandler(send func(ctx context.Context, userID model.UserID, leadID model.LeadID, input usecase.LinkedInInput) (*model.Outreach, error)) http.HandlerFunc {
	return outreachAction(http.StatusCreated, func(ctx context.Context, userID model.UserID, req *linkedInOutreachRequest) (*model.Outreach, error) {
		return send(ctx, userID, req.LeadID, usecase.LinkedInInput{
			Message:    req.Message,
			CampaignID: req.CampaignID,
			SequenceID: req.SequenceID,
		})
	})
}

func followUpHandler(uc *usecase.OutreachUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := outreachID(r)
		outreachAction(http.StatusCreated, func(ctx context.Context, userID model.UserID, req *followUpRequest) (*model.Outreach, error) {
			return uc.CreateFollowUp(ctx, userID, id, usecase.FollowUpInput{
				Subject:     req.Subject,
				Body:        req.Body,
				Message:     req.Message,
				Notes:       req.Notes,
				ScheduledAt: req.ScheduledAt,
			})
		})(w, r)
	}
}

func getOutreachHandler(uc *usecase.OutreachUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		outreach, err := uc.GetOutreach(ctx, outreachID(r))
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toOutreachResponse(outreach))
	}
}

func syncOutreachHandler(uc *usecase.OutreachUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		outreach, err := uc.SyncOutreachStatus(ctx, outreachID(r))
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toOutreachResponse(outreach))
	}
}
