package adaptor

import (
	"encoding/json"
	"net/http"

	"expert-marketplace/internal/apperr"
	"expert-marketplace/internal/usecase"
	"expert-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Expert  *ExpertHandler
	Booking *BookingHandler
	Review  *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Expert:  NewExpertHandler(service.Expert, log),
		Booking: NewBookingHandler(service.Booking, log),
		Review:  NewReviewHandler(service.Review, log),
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and reports false when the request is
// rejected.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}

	return true
}

func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return userID, ok
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+label+" ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}

// errorStatus is the response status per business error kind. Kinds not
// listed are client input errors and answer 400.
var errorStatus = map[apperr.Kind]int{
	apperr.KindNotFound:     http.StatusNotFound,
	apperr.KindForbidden:    http.StatusForbidden,
	apperr.KindUnauthorized: http.StatusUnauthorized,
	apperr.KindConflict:     http.StatusConflict,
	apperr.KindInternal:     http.StatusInternalServerError,
}

func statusOf(kind apperr.Kind) int {
	if code, ok := errorStatus[kind]; ok {
		return code
	}
	return http.StatusBadRequest
}

// handleServiceError maps a service error to its response status. Client
// errors are logged at Warn, everything else at Error.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	kind := apperr.KindOf(err)
	code := statusOf(kind)

	if code >= http.StatusInternalServerError {
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
	} else {
		log.Warn(operation+" rejected",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("kind", string(kind)))
	}

	utils.ResponseError(w, code, apperr.Message(err))
}
