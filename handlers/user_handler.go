package handlers

import (
	"net/http"

	"github.com/asaikali/money-mate/middleware"
	"github.com/asaikali/money-mate/obp"
	"github.com/asaikali/money-mate/services"
	"github.com/asaikali/money-mate/utils"
	"go.uber.org/zap"
)

// UserResponse is the body of GET /users/me.
type UserResponse struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	AccountCount int    `json:"account_count"`
	BankCount    int    `json:"bank_count"`
	Links        Links  `json:"_links,omitempty"`
}

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	gateway *obp.Client
	logger  *zap.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(gateway *obp.Client, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// HandleMe handles GET /users/me.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipalFromContext(ctx)

	user, err := h.gateway.CurrentUser(ctx, principal.ObpToken)
	if err != nil {
		HandleServiceError(w, services.FromGateway(err), h.logger)
		return
	}

	accounts, err := h.gateway.Accounts(ctx, principal.ObpToken)
	if err != nil {
		HandleServiceError(w, services.FromGateway(err), h.logger)
		return
	}

	banks := make(map[string]struct{})
	for _, account := range accounts {
		banks[account.BankID] = struct{}{}
	}

	response := UserResponse{
		Username:     user.Username,
		Email:        user.Email,
		AccountCount: len(accounts),
		BankCount:    len(banks),
		Links: Links{
			"self":     {Href: "/users/me"},
			"root":     rootLink(),
			"accounts": {Href: "/accounts", Title: "All my accounts"},
			"banks":    {Href: "/banks", Title: "Banks I bank with"},
		},
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write user response", zap.Error(err))
	}
}
