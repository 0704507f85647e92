package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noverif/noverif/internal/server/models"
)

// Response shapes. Models never cross the wire directly; these control
// exactly which fields each surface exposes.

type userResponse struct {
	ID                     string              `json:"id"`
	Email                  string              `json:"email"`
	Name                   string              `json:"name,omitempty"`
	Phone                  string              `json:"phone,omitempty"`
	Address                string              `json:"address,omitempty"`
	Role                   models.Role         `json:"role"`
	Suspended              bool                `json:"suspended"`
	VirtualBankStatus      string              `json:"virtualBankStatus,omitempty"`
	VirtualBankCreatedAt   *time.Time          `json:"virtualBankCreatedAt,omitempty"`
	VirtualBankCompletedAt *time.Time          `json:"virtualBankCompletedAt,omitempty"`
	BankDetails            *models.BankDetails `json:"bankDetails,omitempty"`
	CreatedAt              time.Time           `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:                     u.ID,
		Email:                  u.Email,
		Name:                   u.Name,
		Phone:                  u.Phone,
		Address:                u.Address,
		Role:                   u.Role,
		Suspended:              u.Suspended,
		VirtualBankStatus:      string(u.VirtualBankStatus),
		VirtualBankCreatedAt:   u.VirtualBankCreatedAt,
		VirtualBankCompletedAt: u.VirtualBankCompletedAt,
		BankDetails:            u.BankDetails,
		CreatedAt:              u.CreatedAt,
	}
}

func toUserResponses(users []*models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type authResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type sessionResponse struct {
	State       string `json:"state"`
	RemainingMs int64  `json:"remainingMs"`
}

type applicationResponse struct {
	ID           string                   `json:"id"`
	UserID       string                   `json:"userId"`
	BusinessName string                   `json:"businessName,omitempty"`
	Purpose      string                   `json:"purpose"`
	Status       models.ApplicationStatus `json:"status"`
	AdminNotes   string                   `json:"adminNotes,omitempty"`
	BankDetails  *models.BankDetails      `json:"bankDetails,omitempty"`
	CreatedAt    time.Time                `json:"createdAt"`
	ApprovedAt   *time.Time               `json:"approvedAt,omitempty"`
	CompletedAt  *time.Time               `json:"completedAt,omitempty"`
	RejectedAt   *time.Time               `json:"rejectedAt,omitempty"`
}

func toApplicationResponse(a *models.ACHApplication) applicationResponse {
	return applicationResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		BusinessName: a.BusinessName,
		Purpose:      a.Purpose,
		Status:       a.Status,
		AdminNotes:   a.AdminNotes,
		BankDetails:  a.BankDetails,
		CreatedAt:    a.CreatedAt,
		ApprovedAt:   a.ApprovedAt,
		CompletedAt:  a.CompletedAt,
		RejectedAt:   a.RejectedAt,
	}
}

func toApplicationResponses(apps []*models.ACHApplication) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResponse(a))
	}
	return out
}

type walletResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Address     string    `json:"address"`
	Name        string    `json:"name,omitempty"`
	ConnectedAt time.Time `json:"connectedAt"`
}

func toWalletResponse(w *models.Wallet) walletResponse {
	return walletResponse{
		ID:          w.ID,
		UserID:      w.UserID,
		Type:        w.Type,
		Address:     w.Address,
		Name:        w.Name,
		ConnectedAt: w.ConnectedAt,
	}
}

func toWalletResponses(wallets []*models.Wallet) []walletResponse {
	out := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, toWalletResponse(w))
	}
	return out
}

type transactionResponse struct {
	ID              string                   `json:"id"`
	UserID          string                   `json:"userId"`
	Date            time.Time                `json:"date"`
	Amount          decimal.Decimal          `json:"amount"`
	FromSource      string                   `json:"from"`
	ToDestination   string                   `json:"to"`
	Purpose         string                   `json:"purpose,omitempty"`
	Status          models.TransactionStatus `json:"status"`
	Type            models.TransactionType   `json:"type"`
	CryptoType      string                   `json:"cryptoType,omitempty"`
	TransactionHash string                   `json:"transactionHash,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
}

func toTransactionResponse(t *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		UserID:          t.UserID,
		Date:            t.Date,
		Amount:          t.Amount,
		FromSource:      t.FromSource,
		ToDestination:   t.ToDestination,
		Purpose:         t.Purpose,
		Status:          t.Status,
		Type:            t.Type,
		CryptoType:      t.CryptoType,
		TransactionHash: t.TransactionHash,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
	}
}

func toTransactionResponses(txns []*models.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

type lineItemPayload struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type lineItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
}

type invoiceResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"userId"`
	InvoiceNumber string               `json:"invoiceNumber"`
	ClientName    string               `json:"clientName"`
	ClientEmail   string               `json:"clientEmail,omitempty"`
	ClientAddress string               `json:"clientAddress,omitempty"`
	IssueDate     time.Time            `json:"issueDate"`
	DueDate       time.Time            `json:"dueDate"`
	Items         []lineItemResponse   `json:"items"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Tax           decimal.Decimal      `json:"tax"`
	Total         decimal.Decimal      `json:"total"`
	Status        models.InvoiceStatus `json:"status"`
	Recurrence    models.Recurrence    `json:"recurrence,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	StorageKey    string               `json:"storageKey,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func toInvoiceResponse(inv *models.Invoice) invoiceResponse {
	items := make([]lineItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, lineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Amount:      item.Amount(),
		})
	}
	return invoiceResponse{
		ID:            inv.ID,
		UserID:        inv.UserID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientAddress: inv.ClientAddress,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Items:         items,
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		Status:        inv.Status,
		Recurrence:    inv.Recurrence,
		Notes:         inv.Notes,
		StorageKey:    inv.StorageKey,
		CreatedAt:     inv.CreatedAt,
	}
}

func toInvoiceResponses(invoices []*models.Invoice) []invoiceResponse {
	out := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv))
	}
	return out
}

type notificationResponse struct {
	ID        string                  `json:"id"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	Read      bool                    `json:"read"`
	RelatedID string                  `json:"relatedId,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

func toNotificationResponses(list []*models.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, notificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Type:      n.Type,
			Read:      n.Read,
			RelatedID: n.RelatedID,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}
