package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"carpool-route-service/internal/api/dto"
	"carpool-route-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && log != nil {
		log.Warn("encode failed",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func writeData(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, msg string, data any) {
	writeJSON(w, r, log, status, dto.Envelope{Message: msg, Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, msg string, details ...dto.ErrorDetail) {
	writeJSON(w, r, log, status, dto.Envelope{Error: true, Message: msg, Details: details})
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var dff *domain.DataFetchFailure
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, r, log, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrSessionClosed):
		writeError(w, r, log, http.StatusGone, "session is closed")
	case errors.Is(err, domain.ErrUnknownPassenger):
		writeError(w, r, log, http.StatusUnprocessableEntity, "passenger is not selectable in this session")
	case errors.As(err, &dff):
		log.Warn("passenger fetch failed", zap.Error(err))
		writeError(w, r, log, http.StatusBadGateway, "could not load passengers")
	default:
		log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, r, log, http.StatusInternalServerError, "internal server error")
	}
}

// readJSON decodes exactly one JSON object and validates it. An empty body
// is accepted when allowEmpty is set and leaves dst untouched.
func readJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxBytesErr *http.MaxBytesError

		switch {
		case errors.Is(err, io.EOF):
			if !allowEmpty {
				return errors.New("request body is empty")
			}
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("malformed JSON")
		case errors.As(err, &typeErr):
			return fmt.Errorf("invalid type for field %q", typeErr.Field)
		case errors.As(err, &maxBytesErr):
			return errors.New("request body too large")
		default:
			return err
		}
	} else if dec.More() {
		return errors.New("body must contain only one JSON object")
	}

	return validate.Struct(dst)
}

func validationDetails(err error) []dto.ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]dto.ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, dto.ErrorDetail{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q validation", fe.Tag()),
			Code:    fe.Tag(),
		})
	}
	return out
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	if details := validationDetails(err); details != nil {
		writeError(w, r, log, http.StatusBadRequest, "validation failed", details...)
		return
	}
	writeError(w, r, log, http.StatusBadRequest, err.Error())
}
