package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/usecase"
)

func userRoutes(uc *usecase.UseCases) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", listUsersHandler(uc.User))
		r.Post("/", createUserHandler(uc.User))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", getUserHandler(uc.User))
			r.Put("/", updateUserHandler(uc.User))
			r.Delete("/", deleteUserHandler(uc.User))

			r.Get("/integrations/health", integrationHealthHandler(uc.Outreach))
			r.Put("/integrations/{channel}", setIntegrationHandler(uc.User))
			r.Delete("/integrations/{channel}", disableIntegrationHandler(uc.User))
		})
	}
}

func userID(r *http.Request) model.UserID {
	return model.UserID(chi.URLParam(r, "id"))
}

func channelParam(r *http.Request) (types.Channel, error) {
	channel, err := types.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		return "", model.NewValidationError("request", "channel", err.Error())
	}
	return channel, nil
}

func listUsersHandler(uc *usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		users, err := uc.List(ctx)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toList(users, toUserResponse))
	}
}

func createUserHandler(uc *usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req userRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		user, err := uc.Create(ctx, &model.User{Email: req.Email, Name: req.Name, Role: req.Role})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toUserResponse(user))
	}
}

func getUserHandler(uc *usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user, err := uc.Get(ctx, userID(r))
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toUserResponse(user))
	}
}

func updateUserHandler(uc *usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var patch userPatch
		if err := decodeJSON(r, &patch); err != nil {
			handleError(ctx, w, err)
			return
		}

		user, err := uc.Update(ctx, userID(r), &usecase.UserUpdate{
			Email: patch.Email,
			Name:  patch.Name,
			Role:  patch.Role,
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toUserResponse(user))
	}
}

func deleteUserHandler(uc *usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := uc.Delete(ctx, userID(r)); err != nil {
			handleError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func setIntegrationHandler(uc *usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		channel, err := channelParam(r)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		var req integrationRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		user, err := uc.SetIntegration(ctx, userID(r), channel, usecase.IntegrationInput{
			APIKey:            req.APIKey,
			APIVersion:        req.APIVersion,
			ConnectionAgentID: req.ConnectionAgentID,
			MessageAgentID:    req.MessageAgentID,
			SessionCookie:     req.SessionCookie,
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toUserResponse(user))
	}
}

func disableIntegrationHandler(uc *usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		channel, err := channelParam(r)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		user, err := uc.DisableIntegration(ctx, userID(r), channel)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toUserResponse(user))
	}
}

func integrationHealthHandler(uc *usecase.OutreachUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		health, err := uc.CheckIntegrations(ctx, userID(r))
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, map[string]any{"integrations": health})
	}
}
