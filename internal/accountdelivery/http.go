// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, number int64) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Update(ctx context.Context, number int64, arg domain.UpdateAccountParams) (domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account domain.Account `json:"account"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

// Type is checked by the service, after the duplicate check, so it is only required here.
type createRequest struct {
	Number         string `json:"number" binding:"required,accountnumber"`
	Type           string `json:"type" binding:"required"`
	InitialBalance string `json:"initial_balance" binding:"required,money,nonnegative"`
	Active         *bool  `json:"active" binding:"required"`
	NationalID     string `json:"national_id" binding:"required,nationalid"`
}

// Create handles http request to create account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		web.RespondBindingError(gctx, err)
		return
	}

	// Both were checked by the binding validators.
	number, _ := strconv.ParseInt(req.Number, 10, 64)
	balance, _ := decimal.NewFromString(req.InitialBalance)

	account, err := h.service.Create(ctx, domain.CreateAccountParams{
		Number:         number,
		Type:           domain.AccountType(req.Type),
		InitialBalance: balance,
		Active:         *req.Active,
		NationalID:     req.NationalID,
	})
	if err != nil {
		web.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{account}})
}

type numberURI struct {
	Number string `uri:"number" binding:"required,accountnumber"`
}

func (u numberURI) value() int64 {
	n, _ := strconv.ParseInt(u.Number, 10, 64)
	return n
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri numberURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		web.RespondBindingError(gctx, err)
		return
	}

	account, err := h.service.Get(ctx, uri.value())
	if err != nil {
		web.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{account}})
}

type dataAccounts struct {
	Accounts []domain.Account `json:"accounts"`
}
type responseAccounts struct {
	Data dataAccounts `json:"data,omitempty"`
}

// List handles http request to list accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	accounts, err := h.service.List(ctx)
	if err != nil {
		web.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, responseAccounts{Data: dataAccounts{accounts}})
}

type updateRequest struct {
	Type   *string `json:"type"`
	Active *bool   `json:"active"`
}

// Update handles http request to change account type or status.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri numberURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		web.RespondBindingError(gctx, err)
		return
	}

	var req updateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		web.RespondBindingError(gctx, err)
		return
	}

	var arg domain.UpdateAccountParams

	if req.Type != nil {
		t := domain.AccountType(*req.Type)
		arg.Type = &t
	}

	arg.Active = req.Active

	account, err := h.service.Update(ctx, uri.value(), arg)
	if err != nil {
		web.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{account}})
}
