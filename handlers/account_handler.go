package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asaikali/money-mate/middleware"
	"github.com/asaikali/money-mate/obp"
	"github.com/asaikali/money-mate/services"
	"github.com/asaikali/money-mate/utils"
	"go.uber.org/zap"
)

// AccountResponse is one account in GET /accounts.
type AccountResponse struct {
	ID       string `json:"id"`
	Type     string `json:"type,omitempty"`
	BankID   string `json:"bank_id"`
	BankName string `json:"bank_name"`
	IBAN     string `json:"iban,omitempty"`
	Currency string `json:"currency,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Links    Links  `json:"_links,omitempty"`
}

// AccountCollectionResponse is the body of GET /accounts.
type AccountCollectionResponse struct {
	Count    int               `json:"count"`
	Accounts []AccountResponse `json:"accounts"`
	Links    Links             `json:"_links,omitempty"`
}

// BalanceResponse is the body of GET /accounts/{accountID}/balance.
type BalanceResponse struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	Links    Links  `json:"_links,omitempty"`
}

// AccountHandler serves the authenticated user's accounts.
type AccountHandler struct {
	gateway *obp.Client
	logger  *zap.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(gateway *obp.Client, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// HandleList handles GET /accounts. Balance enrichment is best-effort:
// a failed details call logs a warning and leaves the balance fields
// empty rather than failing the whole listing.
func (h *AccountHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipalFromContext(ctx)

	obpAccounts, err := h.gateway.Accounts(ctx, principal.ObpToken)
	if err != nil {
		HandleServiceError(w, services.FromGateway(err), h.logger)
		return
	}

	banks, err := h.gateway.Banks(ctx, principal.ObpToken)
	if err != nil {
		HandleServiceError(w, services.FromGateway(err), h.logger)
		return
	}

	bankNames := make(map[string]string, len(banks))
	for _, bank := range banks {
		bankNames[bank.ID] = bank.ShortName
	}

	accounts := make([]AccountResponse, 0, len(obpAccounts))
	for _, obpAccount := range obpAccounts {
		bankName, ok := bankNames[obpAccount.BankID]
		if !ok {
			bankName = obpAccount.BankID
		}

		account := AccountResponse{
			ID:       obpAccount.ID,
			Type:     obpAccount.AccountType,
			BankID:   obpAccount.BankID,
			BankName: bankName,
			IBAN:     obpAccount.IBAN(),
		}

		details, err := h.gateway.AccountDetails(ctx, principal.ObpToken, obpAccount.BankID, obpAccount.ID)
		if err != nil {
			h.logger.Warn("failed to fetch balance for account",
				zap.String("bank_id", obpAccount.BankID),
				zap.String("account_id", obpAccount.ID),
				zap.Error(err))
		} else if details.Balance != nil {
			account.Currency = details.Balance.Currency
			account.Amount = details.Balance.Amount
		}

		account.Links = Links{
			"self":         {Href: "/accounts/" + obpAccount.ID, Title: "Account details"},
			"bank":         {Href: "/banks/" + obpAccount.BankID, Title: bankName},
			"transactions": {Href: "/accounts/" + obpAccount.ID + "/transactions", Title: "Transactions"},
			"balance":      {Href: "/accounts/" + obpAccount.ID + "/balance", Title: "Balance"},
		}

		accounts = append(accounts, account)
	}

	response := AccountCollectionResponse{
		Count:    len(accounts),
		Accounts: accounts,
		Links: Links{
			"self": {Href: "/accounts"},
			"root": rootLink(),
			"me":   {Href: "/users/me", Title: "My profile"},
		},
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write accounts response", zap.Error(err))
	}
}

// HandleBalance handles GET /accounts/{accountID}/balance. An account
// outside the caller's own list is 404, not an upstream error.
func (h *AccountHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipalFromContext(ctx)
	accountID := chi.URLParam(r, "accountID")

	account, err := h.findOwnAccount(ctx, principal.ObpToken, accountID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	details, err := h.gateway.AccountDetails(ctx, principal.ObpToken, account.BankID, account.ID)
	if err != nil {
		HandleServiceError(w, services.FromGateway(err), h.logger)
		return
	}

	response := BalanceResponse{
		Links: Links{
			"self":    {Href: "/accounts/" + account.ID + "/balance"},
			"account": {Href: "/accounts/" + account.ID, Title: "Account"},
			"root":    rootLink(),
		},
	}
	if details.Balance != nil {
		response.Currency = details.Balance.Currency
		response.Amount = details.Balance.Amount
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write balance response", zap.Error(err))
	}
}

// findOwnAccount scans the caller's account list for accountID. An
// account that is not in the list yields ErrAccountNotFound.
func (h *AccountHandler) findOwnAccount(ctx context.Context, credential, accountID string) (*obp.Account, error) {
	accounts, err := h.gateway.Accounts(ctx, credential)
	if err != nil {
		return nil, services.FromGateway(err)
	}
	for i := range accounts {
		if accounts[i].ID == accountID {
			return &accounts[i], nil
		}
	}
	h.logger.Warn("account not found in caller's account list",
		zap.String("account_id", accountID))
	return nil, services.ErrAccountNotFound
}
