package http

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/service/leadsource"
	"github.com/secmon-lab/reachout/pkg/usecase"
)

func leadRoutes(uc *usecase.UseCases) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", listLeadsHandler(uc.Lead))
		r.Post("/", createLeadHandler(uc.Lead))
		r.Post("/import", importLeadsHandler(uc.Lead))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", getLeadHandler(uc.Lead))
			r.Put("/", updateLeadHandler(uc.Lead))
			r.Delete("/", deleteLeadHandler(uc.Lead))
			r.Get("/outreach", leadOutreachHandler(uc.Outreach))
		})
	}
}

func leadID(r *http.Request) model.LeadID {
	return model.LeadID(chi.URLParam(r, "id"))
}

func listLeadsHandler(uc *usecase.LeadUseCase) http.HandlerFunc {
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

		filter := usecase.LeadFilter{
			Tag:    queryString(r, "tag"),
			Limit:  limit,
			Offset: offset,
		}
		if s := queryString(r, "status"); s != nil {
			status := types.LeadStatus(*s)
			filter.Status = &status
		}
		if s := queryString(r, "source"); s != nil {
			source := types.LeadSource(*s)
			filter.Source = &source
		}
		if s := queryString(r, "assignedTo"); s != nil {
			assignee := model.UserID(*s)
			filter.AssignedTo = &assignee
		}

		list, err := uc.List(ctx, filter)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		resp := toList(list.Items, toLeadResponse)
		resp.Total = list.Total
		writeJSON(ctx, w, http.StatusOK, resp)
	}
}

func createLeadHandler(uc *usecase.LeadUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req leadRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		lead, err := uc.Create(ctx, userIDFrom(ctx), req.toModel())
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toLeadResponse(lead))
	}
}

func getLeadHandler(uc *usecase.LeadUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		lead, err := uc.Get(ctx, leadID(r))
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toLeadResponse(lead))
	}
}

func updateLeadHandler(uc *usecase.LeadUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var patch leadPatch
		if err := decodeJSON(r, &patch); err != nil {
			handleError(ctx, w, err)
			return
		}

		lead, err := uc.Update(ctx, leadID(r), patch.toUpdate())
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toLeadResponse(lead))
	}
}

func deleteLeadHandler(uc *usecase.LeadUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := uc.Delete(ctx, leadID(r)); err != nil {
			handleError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// importLeadsHandler accepts either a CSV body (text/csv) or a JSON array of leads
func importLeadsHandler(uc *usecase.LeadUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var leads []*model.Lead
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "text/csv" {
			parsed, err := leadsource.ParseCSV(http.MaxBytesReader(w, r.Body, maxBodySize))
			if err != nil {
				handleError(ctx, w, goerr.Wrap(model.NewValidationError("request", "body", err.Error()), "failed to parse CSV"))
				return
			}
			leads = parsed
		} else {
			var reqs []leadRequest
			if err := decodeJSON(r, &reqs); err != nil {
				handleError(ctx, w, err)
				return
			}
			for i := range reqs {
				leads = append(leads, reqs[i].toModel())
			}
		}

		result, err := uc.Import(ctx, userIDFrom(ctx), leads)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, result)
	}
}

func leadOutreachHandler(uc *usecase.OutreachUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := queryInt(r, "limit")
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		history, err := uc.GetLeadOutreachHistory(ctx, leadID(r), limit)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toList(history, toOutreachResponse))
	}
}
