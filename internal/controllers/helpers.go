package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/identity"
	"github.com/marcobasurco/Plumbtix-sub001/internal/middleware"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

var validate = validator.New()

// decodeAndValidate unmarshals the body into dst and runs struct validation.
// On failure it writes the error envelope and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			utils.RespondError(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Request body is empty")
			return false
		}
		utils.RespondError(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed JSON body", err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error())
		return false
	}
	return true
}

// pathID parses the {id} path variable.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed id in path")
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional ?name=<uuid> query parameter.
func queryUUID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed "+name+" query parameter")
		return nil, false
	}
	return &id, true
}

// resolveCaller turns the authenticated subject into a scoped CallerContext.
// It answers 401 when the middleware context is missing or the account is
// gone.
func resolveCaller(w http.ResponseWriter, r *http.Request, resolver *identity.Resolver) (authz.CallerContext, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, utils.ErrCodeUnauthenticated, "No userID in context")
		return authz.CallerContext{}, false
	}
	caller, err := resolver.Resolve(r.Context(), userID)
	if err != nil {
		utils.HandleAppError(w, err)
		return authz.CallerContext{}, false
	}
	return caller, true
}
