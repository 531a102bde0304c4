package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asaikali/money-mate/middleware"
	"github.com/asaikali/money-mate/obp"
	"github.com/asaikali/money-mate/services"
	"github.com/asaikali/money-mate/utils"
	"go.uber.org/zap"
)

// TransactionResponse is one transaction in the account's list.
type TransactionResponse struct {
	Posted      string `json:"posted"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	NewBalance  string `json:"new_balance"`
	Links       Links  `json:"_links,omitempty"`
}

// TransactionCollectionResponse is the body of
// GET /accounts/{accountID}/transactions.
type TransactionCollectionResponse struct {
	Count        int                   `json:"count"`
	Transactions []TransactionResponse `json:"transactions"`
	Links        Links                 `json:"_links,omitempty"`
}

// TransactionHandler serves an account's transactions.
type TransactionHandler struct {
	gateway *obp.Client
	logger  *zap.Logger
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(gateway *obp.Client, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// HandleList handles GET /accounts/{accountID}/transactions. The bank
// is resolved from the caller's own account list; an account outside
// that list is 404.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipalFromContext(ctx)
	accountID := chi.URLParam(r, "accountID")

	accounts, err := h.gateway.Accounts(ctx, principal.ObpToken)
	if err != nil {
		HandleServiceError(w, services.FromGateway(err), h.logger)
		return
	}

	var account *obp.Account
	for i := range accounts {
		if accounts[i].ID == accountID {
			account = &accounts[i]
			break
		}
	}
	if account == nil {
		h.logger.Warn("account not found for user",
			zap.String("account_id", accountID),
			zap.String("subject", principal.Subject))
		HandleServiceError(w, services.ErrAccountNotFound, h.logger)
		return
	}

	obpTransactions, err := h.gateway.Transactions(ctx, principal.ObpToken, account.BankID, accountID)
	if err != nil {
		HandleServiceError(w, services.FromGateway(err), h.logger)
		return
	}

	transactions := make([]TransactionResponse, 0, len(obpTransactions))
	for _, obpTxn := range obpTransactions {
		txn := TransactionResponse{
			Posted:      obpTxn.Details.Posted,
			Description: obpTxn.Details.Description,
		}
		if obpTxn.Details.Value != nil {
			txn.Amount = obpTxn.Details.Value.Amount
			txn.Currency = obpTxn.Details.Value.Currency
		}
		if obpTxn.Details.NewBalance != nil {
			txn.NewBalance = obpTxn.Details.NewBalance.Amount
		}

		// Transaction IDs appear only in link targets, not as fields.
		txn.Links = Links{
			"self":    {Href: "/accounts/" + accountID + "/transactions/" + obpTxn.ID, Title: "Transaction details"},
			"account": {Href: "/accounts/" + accountID, Title: "Account"},
		}

		transactions = append(transactions, txn)
	}

	response := TransactionCollectionResponse{
		Count:        len(transactions),
		Transactions: transactions,
		Links: Links{
			"self":    {Href: "/accounts/" + accountID + "/transactions", Title: "Account transactions"},
			"account": {Href: "/accounts/" + accountID, Title: "Back to account"},
			"root":    rootLink(),
		},
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write transactions response", zap.Error(err))
	}
}
