package handlers

import (
	"net/http"

	"github.com/asaikali/money-mate/middleware"
	"github.com/asaikali/money-mate/obp"
	"github.com/asaikali/money-mate/services"
	"github.com/asaikali/money-mate/utils"
	"go.uber.org/zap"
)

// BankResponse is one bank in GET /banks.
type BankResponse struct {
	ID        string `json:"id"`
	ShortName string `json:"short_name"`
	FullName  string `json:"full_name"`
	Website   string `json:"website,omitempty"`
	Links     Links  `json:"_links,omitempty"`
}

// BankCollectionResponse is the body of GET /banks.
type BankCollectionResponse struct {
	Count int            `json:"count"`
	Banks []BankResponse `json:"banks"`
	Links Links          `json:"_links,omitempty"`
}

// BankHandler serves the upstream bank directory.
type BankHandler struct {
	gateway *obp.Client
	logger  *zap.Logger
}

// NewBankHandler creates a BankHandler.
func NewBankHandler(gateway *obp.Client, logger *zap.Logger) *BankHandler {
	return &BankHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// HandleList handles GET /banks.
func (h *BankHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipalFromContext(ctx)

	obpBanks, err := h.gateway.Banks(ctx, principal.ObpToken)
	if err != nil {
		HandleServiceError(w, services.FromGateway(err), h.logger)
		return
	}

	banks := make([]BankResponse, 0, len(obpBanks))
	for _, obpBank := range obpBanks {
		banks = append(banks, BankResponse{
			ID:        obpBank.ID,
			ShortName: obpBank.ShortName,
			FullName:  obpBank.FullName,
			Website:   obpBank.Website,
			Links: Links{
				"self": {Href: "/banks/" + obpBank.ID, Title: obpBank.ShortName},
			},
		})
	}

	response := BankCollectionResponse{
		Count: len(banks),
		Banks: banks,
		Links: Links{
			"self":     {Href: "/banks"},
			"root":     rootLink(),
			"accounts": {Href: "/accounts", Title: "All my accounts"},
		},
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write banks response", zap.Error(err))
	}
}
