package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kabadi/intake-service/internal/dtos"
	"github.com/kabadi/intake-service/internal/metrics"
	"github.com/kabadi/intake-service/internal/models"
	"github.com/kabadi/intake-service/internal/services"
	"github.com/kabadi/intake-service/internal/utils"
)

const maxJSONBodyBytes = 1 << 20

// NotificationDispatcher queues a notification without waiting for delivery.
type NotificationDispatcher interface {
	Dispatch(n services.Notification) error
}

// submission describes one form endpoint to the shared pipeline.
type submission[In dtos.Submission, Out any] struct {
	kind       models.Kind
	failureMsg string
	decode     func(w http.ResponseWriter, r *http.Request) (In, error)
	persist    func(ctx context.Context, in In) (Out, error)
	notify     func(out Out) services.Notification
}

// errInvalidPayload marks a body that could not be decoded at all.
var errInvalidPayload = errors.New("invalid payload")

// handleSubmission runs decode, validate, persist, then notify unless the
// honeypot was filled. Notification never delays or fails the response.
func handleSubmission[In dtos.Submission, Out any](
	w http.ResponseWriter,
	r *http.Request,
	dispatcher NotificationDispatcher,
	s submission[In, Out],
) {
	in, err := s.decode(w, r)
	if err == nil {
		in.Normalize()
		err = dtos.Validate(in)
	}
	if err != nil {
		respondInputError(w, s.kind, err)
		return
	}

	out, err := s.persist(r.Context(), in)
	if err != nil {
		metrics.RecordSubmission(string(s.kind), "failed")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, s.failureMsg, nil, err)
		return
	}

	if in.Honeypot() != "" {
		utils.Logger.WithField("kind", s.kind).Info("Honeypot field filled; skipping notification")
		metrics.RecordSubmission(string(s.kind), "honeypot")
		utils.RespondWithJSON(w, http.StatusCreated, out)
		return
	}

	if err := dispatcher.Dispatch(s.notify(out)); err != nil {
		utils.Logger.WithError(err).WithField("kind", s.kind).Warn("[mailer] Notification not queued")
	}
	metrics.RecordSubmission(string(s.kind), "created")
	utils.RespondWithJSON(w, http.StatusCreated, out)
}

func respondInputError(w http.ResponseWriter, kind models.Kind, err error) {
	metrics.RecordSubmission(string(kind), "rejected")

	var ve *dtos.ValidationError
	if errors.As(err, &ve) {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid request data", ve.Fields, err)
		return
	}
	utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
}

func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (*T, error) {
	var v T
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)).Decode(&v); err != nil {
		return nil, errors.Join(errInvalidPayload, err)
	}
	return &v, nil
}

// handleList writes the records as a JSON array, never null.
func handleList[T any](
	w http.ResponseWriter,
	r *http.Request,
	failureMsg string,
	list func(ctx context.Context) ([]T, error),
) {
	items, err := list(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, failureMsg, nil, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}
