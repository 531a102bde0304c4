package obp

import "strings"

// Wire types for the OBP API responses this service consumes. Field
// names follow the upstream JSON exactly.

// DirectLoginResponse is the body of POST /my/logins/direct.
type DirectLoginResponse struct {
	Token string `json:"token"`
}

// UserDetails is the body of GET /obp/{version}/users/current.
type UserDetails struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	ProviderID string `json:"provider_id"`
	Provider   string `json:"provider"`
}

// AccountsResponse is the body of GET /obp/{version}/my/accounts.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// Account is a single entry in the caller's account list.
type Account struct {
	ID              string           `json:"id"`
	Label           string           `json:"label"`
	BankID          string           `json:"bank_id"`
	AccountType     string           `json:"account_type"`
	AccountRoutings []AccountRouting `json:"account_routings"`
}

// AccountRouting identifies an account in an external scheme (e.g. IBAN).
type AccountRouting struct {
	Scheme  string `json:"scheme"`
	Address string `json:"address"`
}

// IBAN returns the account's IBAN routing address, or "" when none is
// present.
func (a Account) IBAN() string {
	for _, routing := range a.AccountRoutings {
		if strings.EqualFold(routing.Scheme, "IBAN") {
			return routing.Address
		}
	}
	return ""
}

// BanksResponse is the body of GET /obp/{version}/banks.
type BanksResponse struct {
	Banks []Bank `json:"banks"`
}

// Bank describes one bank known to the upstream.
type Bank struct {
	ID        string `json:"id"`
	ShortName string `json:"short_name"`
	FullName  string `json:"full_name"`
	Logo      string `json:"logo"`
	Website   string `json:"website"`
}

// AccountDetails is the body of
// GET /obp/{version}/banks/{bank}/accounts/{account}/owner/account.
type AccountDetails struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Number      string   `json:"number"`
	ProductCode string   `json:"product_code"`
	Balance     *Balance `json:"balance"`
	BankID      string   `json:"bank_id"`
}

// Balance is a monetary amount with its currency. OBP transports
// amounts as strings.
type Balance struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// TransactionsResponse is the body of
// GET /obp/{version}/banks/{bank}/accounts/{account}/owner/transactions.
type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// Transaction is one entry in an account's transaction list.
type Transaction struct {
	ID      string             `json:"id"`
	Details TransactionDetails `json:"details"`
}

// TransactionDetails carries the transaction's booking data.
type TransactionDetails struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Posted      string   `json:"posted"`
	Completed   string   `json:"completed"`
	NewBalance  *Balance `json:"new_balance"`
	Value       *Balance `json:"value"`
}
