package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/noverif/noverif/internal/httputil"
	"github.com/noverif/noverif/internal/server/models"
)

type invoicePayload struct {
	InvoiceNumber string            `json:"invoiceNumber"`
	ClientName    string            `json:"clientName"`
	ClientEmail   string            `json:"clientEmail"`
	ClientAddress string            `json:"clientAddress"`
	IssueDate     time.Time         `json:"issueDate"`
	DueDate       time.Time         `json:"dueDate"`
	Items         []lineItemPayload `json:"items"`
	Tax           decimal.Decimal   `json:"tax"`
	Status        string            `json:"status"`
	Recurrence    string            `json:"recurrence"`
	Notes         string            `json:"notes"`
}

func (p *invoicePayload) toModel(userID string) *models.Invoice {
	items := make([]models.LineItem, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, models.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return &models.Invoice{
		UserID:        userID,
		InvoiceNumber: p.InvoiceNumber,
		ClientName:    p.ClientName,
		ClientEmail:   p.ClientEmail,
		ClientAddress: p.ClientAddress,
		IssueDate:     p.IssueDate,
		DueDate:       p.DueDate,
		Items:         items,
		Tax:           p.Tax,
		Status:        models.InvoiceStatus(p.Status),
		Recurrence:    models.Recurrence(p.Recurrence),
		Notes:         p.Notes,
	}
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoicePayload
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	inv, err := s.invoices.Create(ctx, req.toModel(userIDFrom(ctx)))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := s.invoices.ListByUser(ctx, userIDFrom(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toInvoiceResponses(list))
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inv, err := s.invoices.GetForUser(ctx, mux.Vars(r)["id"], userIDFrom(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoicePayload
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	inv := req.toModel(userIDFrom(ctx))
	inv.ID = mux.Vars(r)["id"]
	if err := s.invoices.Update(ctx, inv); err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.invoices.Delete(ctx, mux.Vars(r)["id"], userIDFrom(ctx)); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleInvoicePDF streams the rendered PDF.
func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	data, err := s.invoices.RenderPDF(ctx, id, userIDFrom(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice-"+id+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type archiveResponse struct {
	URL string `json:"url"`
}

// handleArchiveInvoice uploads the rendered PDF to object storage and
// returns a short-lived download URL.
func (s *Server) handleArchiveInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	url, err := s.invoices.Archive(ctx, mux.Vars(r)["id"], userIDFrom(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, archiveResponse{URL: url})
}
