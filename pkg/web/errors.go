package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"
)

var statusByKind = map[domain.ErrorKind]int{
	domain.KindAccountNotFound:      http.StatusNotFound,
	domain.KindClientNotFound:       http.StatusNotFound,
	domain.KindDuplicateAccount:     http.StatusConflict,
	domain.KindDuplicateMovement:    http.StatusConflict,
	domain.KindInvalidAccountType:   http.StatusBadRequest,
	domain.KindInsufficientFunds:    http.StatusBadRequest,
	domain.KindInvalidAmount:        http.StatusBadRequest,
	domain.KindInvalidDateRange:     http.StatusBadRequest,
	domain.KindValidation:           http.StatusBadRequest,
	domain.KindDirectoryUnavailable: http.StatusBadGateway,
	domain.KindPersistenceFailure:   http.StatusInternalServerError,
}

// StatusOf returns the HTTP status code for the given failure kind.
func StatusOf(kind domain.ErrorKind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// RespondError writes err as a JSON error response with the status of its kind.
// The body carries the kind's sentinel message only. Infrastructure failures are
// reported as errorspkg.ErrInternal.
func RespondError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())
	kind := domain.ErrorKindOf(err)
	status := StatusOf(kind)

	if status >= http.StatusInternalServerError && kind != domain.KindDirectoryUnavailable {
		l.Error().Err(err).Send()
		gctx.JSON(status, Error(string(kind), errorspkg.ErrInternal))

		return
	}

	l.Info().Err(err).Str("kind", string(kind)).Send()

	// Wrapped context may carry directory paths or national ids, clients get the sentinel only.
	if sentinel := domain.SentinelOf(kind); sentinel != nil {
		err = sentinel
	}

	gctx.JSON(status, Error(string(kind), err))
}

// RespondBindingError writes a 400 response describing the first invalid field.
func RespondBindingError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())

	errMsg := err.Error()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		errMsg = field.Field() + GetErrorMsg(field)
	}

	l.Info().Err(err).Send()
	gctx.JSON(http.StatusBadRequest, Error(string(domain.KindValidation), errors.New(errMsg)))
}
