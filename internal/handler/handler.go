package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"economy/internal/model"
	"economy/internal/service"
	"economy/pkg/money"
	"economy/pkg/response"
)

// Handler serves the admin API over a ledger.
type Handler struct {
	ledger *service.Ledger
}

func NewHandler(ledger *service.Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// fail writes the business code matching err.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMainAccountExists):
		response.BusinessError(c, response.CodeMainAccountExists, service.ErrMainAccountExists.Error())
		return
	case errors.Is(err, service.ErrLinkExists):
		response.BusinessError(c, response.CodeLinkExists, service.ErrLinkExists.Error())
		return
	case errors.Is(err, service.ErrPlayerNotFound):
		response.BusinessError(c, response.CodePlayerNotFound, err.Error())
		return
	}

	switch service.KindOf(err) {
	case service.KindAccountNotFound:
		response.BusinessError(c, response.CodeAccountNotFound, err.Error())
	case service.KindPlayerHasNoAccount:
		response.BusinessError(c, response.CodePlayerHasNoAccount, err.Error())
	case service.KindInvalidAmount:
		response.BusinessError(c, response.CodeInvalidAmount, err.Error())
	case service.KindInsufficientBalance:
		response.BusinessError(c, response.CodeBalanceNotEnough, err.Error())
	default:
		response.BusinessError(c, response.CodeStoreError, service.ErrStore.Error())
	}
}

func accountParam(c *gin.Context) (model.AccountID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid account id")
		return 0, false
	}
	return id, true
}

func playerParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		response.ParamError(c, "invalid player id")
		return uuid.Nil, false
	}
	return id, true
}

// balanceView is how an amount is rendered in responses.
type balanceView struct {
	Minor   int64  `json:"minor"`
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

func viewOf(a money.Amount) balanceView {
	return balanceView{Minor: int64(a), Amount: a.String(), Display: money.Format(a)}
}

// ============================================================
// Accounts
// ============================================================

// CreateAccount
// POST /api/v1/accounts
func (h *Handler) CreateAccount(c *gin.Context) {
	id, err := h.ledger.CreateAccount(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"account_id": id})
}

// DeleteAccount
// DELETE /api/v1/accounts/:id
func (h *Handler) DeleteAccount(c *gin.Context) {
	id, ok := accountParam(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteAccount(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"account_id": id})
}

// GetBalance
// GET /api/v1/accounts/:id/balance
func (h *Handler) GetBalance(c *gin.Context) {
	id, ok := accountParam(c)
	if !ok {
		return
	}
	bal, err := h.ledger.GetBalance(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"account_id": id, "balance": viewOf(bal)})
}

// AmountRequest carries a decimal amount such as "12.50".
type AmountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func bindAmount(c *gin.Context) (money.Amount, bool) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return 0, false
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		response.ParamError(c, "invalid amount")
		return 0, false
	}
	return amount, true
}

// applyAmount runs op with the bound amount and replies with the new balance.
func (h *Handler) applyAmount(c *gin.Context, op func(context.Context, model.AccountID, money.Amount) error) {
	id, ok := accountParam(c)
	if !ok {
		return
	}
	amount, ok := bindAmount(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := op(ctx, id, amount); err != nil {
		fail(c, err)
		return
	}
	bal, err := h.ledger.GetBalance(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"account_id": id, "balance": viewOf(bal)})
}

// SetBalance
// PUT /api/v1/accounts/:id/balance
func (h *Handler) SetBalance(c *gin.Context) {
	h.applyAmount(c, h.ledger.SetBalance)
}

// Deposit
// POST /api/v1/accounts/:id/deposit
func (h *Handler) Deposit(c *gin.Context) {
	h.applyAmount(c, h.ledger.AddBalance)
}

// Withdraw
// POST /api/v1/accounts/:id/withdraw
func (h *Handler) Withdraw(c *gin.Context) {
	h.applyAmount(c, h.ledger.RemoveBalance)
}

// ListAccountPlayers
// GET /api/v1/accounts/:id/players
func (h *Handler) ListAccountPlayers(c *gin.Context) {
	id, ok := accountParam(c)
	if !ok {
		return
	}
	players, err := h.ledger.GetPlayers(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"account_id": id, "players": players})
}

// ============================================================
// Transfers
// ============================================================

type TransferRequest struct {
	From   model.AccountID `json:"from" binding:"required"`
	To     model.AccountID `json:"to" binding:"required"`
	Amount string          `json:"amount" binding:"required"`
}

// Transfer moves funds between two accounts.
// POST /api/v1/transfers
func (h *Handler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		response.ParamError(c, "invalid amount")
		return
	}
	if err := h.ledger.Transfer(c.Request.Context(), req.From, req.To, amount); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"from": req.From, "to": req.To, "amount": viewOf(amount)})
}

type PlayerTransferRequest struct {
	From   uuid.UUID `json:"from" binding:"required"`
	To     uuid.UUID `json:"to" binding:"required"`
	Amount string    `json:"amount" binding:"required"`
}

// TransferByPlayer moves funds between two players' main accounts.
// POST /api/v1/transfers/players
func (h *Handler) TransferByPlayer(c *gin.Context) {
	var req PlayerTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		response.ParamError(c, "invalid amount")
		return
	}
	if err := h.ledger.TransferByPlayer(c.Request.Context(), req.From, req.To, amount); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"from": req.From, "to": req.To, "amount": viewOf(amount)})
}

// ============================================================
// Players
// ============================================================

type PutPlayerRequest struct {
	Name string `json:"name" binding:"required"`
}

// PutPlayer records a player or refreshes its display name.
// PUT /api/v1/players/:uuid
func (h *Handler) PutPlayer(c *gin.Context) {
	id, ok := playerParam(c)
	if !ok {
		return
	}
	var req PutPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}
	if err := h.ledger.AddPlayer(c.Request.Context(), id, req.Name); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"player_id": id, "name": req.Name})
}

// ListPlayerAccounts
// GET /api/v1/players/:uuid/accounts
func (h *Handler) ListPlayerAccounts(c *gin.Context) {
	id, ok := playerParam(c)
	if !ok {
		return
	}
	accounts, err := h.ledger.GetAccounts(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"player_id": id, "accounts": accounts})
}

// GetMainAccount
// GET /api/v1/players/:uuid/main
func (h *Handler) GetMainAccount(c *gin.Context) {
	id, ok := playerParam(c)
	if !ok {
		return
	}
	accountID, err := h.ledger.GetMainAccount(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"player_id": id, "account_id": accountID})
}

type LinkRequest struct {
	Main bool `json:"main"`
}

// LinkAccount
// POST /api/v1/players/:uuid/accounts/:id
func (h *Handler) LinkAccount(c *gin.Context) {
	playerID, ok := playerParam(c)
	if !ok {
		return
	}
	accountID, ok := accountParam(c)
	if !ok {
		return
	}
	var req LinkRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ParamError(c, "invalid request: "+err.Error())
			return
		}
	}
	if err := h.ledger.CreatePlayerAccountRelation(c.Request.Context(), playerID, accountID, req.Main); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"player_id": playerID, "account_id": accountID, "main": req.Main})
}

// UnlinkAccount removes the link; an account left without players is
// deleted.
// DELETE /api/v1/players/:uuid/accounts/:id
func (h *Handler) UnlinkAccount(c *gin.Context) {
	playerID, ok := playerParam(c)
	if !ok {
		return
	}
	accountID, ok := accountParam(c)
	if !ok {
		return
	}
	if err := h.ledger.DeletePlayerAccountRelation(c.Request.Context(), playerID, accountID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"player_id": playerID, "account_id": accountID})
}

// ============================================================
// Leaderboard
// ============================================================

// Top
// GET /api/v1/top?limit=10&offset=0
func (h *Handler) Top(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		response.ParamError(c, "invalid limit")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.ParamError(c, "invalid offset")
		return
	}

	entries, err := h.ledger.GetTopAccounts(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}

	list := make([]gin.H, len(entries))
	for i, e := range entries {
		list[i] = gin.H{
			"player_id":    e.PlayerID,
			"display_name": e.DisplayName,
			"balance":      viewOf(e.Balance),
		}
	}
	response.Success(c, gin.H{"list": list, "limit": limit, "offset": offset})
}
