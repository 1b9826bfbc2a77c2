// Package movementdelivery manages delivery layer of movements.
package movementdelivery

import (
	"context"
	"iter"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/web"
)

// Service provides service layer interface needed by movement delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package movementdelivery
type Service interface {
	Record(ctx context.Context, arg domain.RecordMovementParams) (domain.Movement, error)
	ListByAccount(ctx context.Context, number int64) iter.Seq2[domain.Movement, error]
	Report(ctx context.Context, number int64, start, end domain.Date) ([]domain.ReportRow, error)
}

// Handler facilitates movement delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns movement handler.
func NewHandler(ms Service) *Handler {
	return &Handler{
		service: ms,
	}
}

type request struct {
	AccountNumber string `json:"account_number" binding:"required,accountnumber"`
	Date          string `json:"date" binding:"required,isodate"`
	Value         string `json:"value" binding:"required,money"`
}

type data struct {
	Movement domain.Movement `json:"movement"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Create handles http request to record a deposit or withdrawal.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		web.RespondBindingError(gctx, err)
		return
	}

	// All three were checked by the binding validators.
	number, _ := strconv.ParseInt(req.AccountNumber, 10, 64)
	date, _ := domain.ParseDate(req.Date)
	value, _ := decimal.NewFromString(req.Value)

	arg := domain.RecordMovementParams{
		AccountNumber: number,
		Date:          date,
		Value:         value,
	}

	movement, err := h.service.Record(ctx, arg)
	if err != nil {
		web.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{movement}})
}

type listRequest struct {
	Number string `uri:"number" binding:"required,accountnumber"`
}

type dataMovements struct {
	Movements []domain.Movement `json:"movements"`
}

type responseMovements struct {
	Data dataMovements `json:"data,omitempty"`
}

// List handles http request to list the movements of an account.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req listRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		web.RespondBindingError(gctx, err)
		return
	}

	number, _ := strconv.ParseInt(req.Number, 10, 64)

	movements := []domain.Movement{}

	for m, err := range h.service.ListByAccount(ctx, number) {
		if err != nil {
			web.RespondError(gctx, err)
			return
		}

		movements = append(movements, m)
	}

	gctx.JSON(http.StatusOK, responseMovements{Data: dataMovements{movements}})
}

type reportRequest struct {
	AccountNumber string `form:"account_number" binding:"required,accountnumber"`
	StartDate     string `form:"start_date" binding:"required,isodate"`
	EndDate       string `form:"end_date" binding:"required,isodate"`
}

type dataReport struct {
	Report []domain.ReportRow `json:"report"`
}

type responseReport struct {
	Data dataReport `json:"data,omitempty"`
}

// Report handles http request to build the movement report of an account.
func (h *Handler) Report(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req reportRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		web.RespondBindingError(gctx, err)
		return
	}

	number, _ := strconv.ParseInt(req.AccountNumber, 10, 64)
	start, _ := domain.ParseDate(req.StartDate)
	end, _ := domain.ParseDate(req.EndDate)

	rows, err := h.service.Report(ctx, number, start, end)
	if err != nil {
		web.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, responseReport{Data: dataReport{rows}})
}
