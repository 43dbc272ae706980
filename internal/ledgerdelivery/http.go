// Package ledgerdelivery manages the delivery layer of the ledger.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/andreycr/sinpe-ledger/internal/domain"
	"github.com/andreycr/sinpe-ledger/pkg/errorspkg"
	"github.com/andreycr/sinpe-ledger/pkg/web"
)

// Service provides the service layer interface needed by the ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	CreateAccount(ctx context.Context, accountID, opening string) (domain.Balance, error)
	GetBalance(ctx context.Context, accountID string) (domain.Balance, error)
	Debit(ctx context.Context, accountID, amount string) (domain.Balance, error)
	RecordTransaction(ctx context.Context, accountID string, arg domain.RecordTransactionParams) (domain.Transaction, error)
	History(ctx context.Context, accountID string, limit int32) ([]domain.Transaction, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

type balanceData struct {
	Balance domain.Balance `json:"balance"`
}

type transactionData struct {
	Transaction domain.Transaction `json:"transaction"`
}

type transactionsData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type accountURI struct {
	ID string `uri:"id" binding:"required"`
}

type createAccountRequest struct {
	AccountID      string `json:"account_id" binding:"required"`
	OpeningBalance string `json:"opening_balance" binding:"required"`
}

// CreateAccount handles http requests to provision an account.
func (h *Handler) CreateAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createAccountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	b, err := h.service.CreateAccount(ctx, req.AccountID, req.OpeningBalance)
	if err != nil {
		status, jsonErr := mapError(err)
		gctx.JSON(status, web.Response{Error: &jsonErr})

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: balanceData{b}})
}

// GetBalance handles http requests to read an account's balance.
func (h *Handler) GetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	b, err := h.service.GetBalance(ctx, uri.ID)
	if err != nil {
		status, jsonErr := mapError(err)
		gctx.JSON(status, web.Response{Error: &jsonErr})

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: balanceData{b}})
}

type debitRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// Debit handles http requests to debit an account.
func (h *Handler) Debit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	var req debitRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	b, err := h.service.Debit(ctx, uri.ID, req.Amount)
	if err != nil {
		status, jsonErr := mapError(err)
		gctx.JSON(status, web.Response{Error: &jsonErr})

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: balanceData{b}})
}

type recordTransactionRequest struct {
	Amount        string `json:"amount" binding:"required"`
	Counterparty  string `json:"counterparty" binding:"required"`
	Detail        string `json:"detail" binding:"required"`
	TransactionID int64  `json:"transaction_id"`
}

// RecordTransaction handles http requests to append a transaction.
func (h *Handler) RecordTransaction(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	var req recordTransactionRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	arg := domain.RecordTransactionParams{
		Amount:           req.Amount,
		Counterparty:     req.Counterparty,
		Detail:           req.Detail,
		ClientSequenceID: req.TransactionID,
	}

	tx, err := h.service.RecordTransaction(ctx, uri.ID, arg)
	if err != nil {
		status, jsonErr := mapError(err)
		gctx.JSON(status, web.Response{Error: &jsonErr})

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: transactionData{tx}})
}

type historyRequest struct {
	Limit int32 `form:"limit" binding:"omitempty,min=1,max=100"`
}

// History handles http requests to list an account's transactions newest first.
// An account with no transactions yields an empty list with status 200.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	items, err := h.service.History(ctx, uri.ID, req.Limit)
	if err != nil {
		status, jsonErr := mapError(err)
		gctx.JSON(status, web.Response{Error: &jsonErr})

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: transactionsData{items}})
}

func bindingError(err error) *web.JSONError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return &web.JSONError{
			Code:    web.CodeInvalidArgument,
			Message: field.Field() + web.GetErrorMsg(field),
		}
	}

	return &web.JSONError{Code: web.CodeInvalidArgument, Message: err.Error()}
}

// mapError translates domain failures into a status and a stable error code.
func mapError(err error) (int, web.JSONError) {
	var insErr *domain.InsufficientFundsError
	if errors.As(err, &insErr) {
		return http.StatusUnprocessableEntity, web.JSONError{
			Code:    web.CodeInsufficientFunds,
			Message: insErr.Error(),
			Details: map[string]string{
				"available": insErr.Available.String(),
				"requested": insErr.Requested.String(),
			},
		}
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, web.Error(web.CodeNotFound, err)
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return http.StatusConflict, web.Error(web.CodeAlreadyExists, err)
	case errors.Is(err, domain.ErrSequenceConflict):
		return http.StatusConflict, web.Error(web.CodeConflict, err)
	case errors.Is(err, domain.ErrAccountIDRequired),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrNegativeOpeningBalance),
		errors.Is(err, domain.ErrCounterpartyRequired),
		errors.Is(err, domain.ErrDetailRequired):
		return http.StatusBadRequest, web.Error(web.CodeInvalidArgument, err)
	case errors.Is(err, errorspkg.ErrUnavailable):
		return http.StatusServiceUnavailable, web.Error(web.CodeUnavailable, err)
	default:
		return http.StatusInternalServerError, web.Error(web.CodeInternal, errorspkg.ErrInternal)
	}
}
