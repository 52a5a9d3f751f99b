package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kabadi/intake-service/internal/utils"
)

// Recovery turns a panic into a JSON error response. The status comes from
// a panicked *utils.AppError when there is one, otherwise 500.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			utils.Logger.WithError(err).
				WithField("path", r.URL.Path).
				WithField("stack", string(debug.Stack())).
				Error("Recovered from panic")

			var appErr *utils.AppError
			if errors.As(err, &appErr) {
				utils.HandleAppError(w, appErr)
				return
			}
			utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
				"An unexpected error occurred", nil, err)
		}()
		next.ServeHTTP(w, r)
	})
}
