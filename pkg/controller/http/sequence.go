package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/usecase"
)

func sequenceRoutes(uc *usecase.UseCases) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/{id}", getSequenceHandler(uc.Sequence))
		r.Put("/{id}", updateSequenceHandler(uc.Sequence))
		r.Delete("/{id}", deleteSequenceHandler(uc.Sequence))
	}
}

func sequenceID(r *http.Request) model.SequenceID {
	return model.SequenceID(chi.URLParam(r, "id"))
}

func listSequencesHandler(uc *usecase.SequenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sequences, err := uc.ListByCampaign(ctx, campaignID(r))
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toList(sequences, toSequenceResponse))
	}
}

func createSequenceHandler(uc *usecase.SequenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req sequenceRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		sequence, err := uc.Create(ctx, userIDFrom(ctx), campaignID(r), &model.Sequence{
			Name:        req.Name,
			Description: req.Description,
			Active:      req.Active,
			Steps:       toSteps(req.Steps),
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toSequenceResponse(sequence))
	}
}

func getSequenceHandler(uc *usecase.SequenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sequence, err := uc.Get(ctx, sequenceID(r))
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toSequenceResponse(sequence))
	}
}

func updateSequenceHandler(uc *usecase.SequenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var patch sequencePatch
		if err := decodeJSON(r, &patch); err != nil {
			handleError(ctx, w, err)
			return
		}

		sequence, err := uc.Update(ctx, sequenceID(r), patch.toUpdate())
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toSequenceResponse(sequence))
	}
}

func deleteSequenceHandler(uc *usecase.SequenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := uc.Delete(ctx, sequenceID(r)); err != nil {
			handleError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
