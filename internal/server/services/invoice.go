package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/dbx"
	sc "github.com/noverif/noverif/internal/server/config"
	"github.com/noverif/noverif/internal/server/invoicepdf"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
)

// AWS wrappers are package vars so tests can stub the SDK.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// InvoiceService manages user invoices: CRUD with server-computed totals,
// PDF rendering, S3 archiving, and the recurrence/overdue sweeps run by the
// scheduler.
type InvoiceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewInvoiceService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *InvoiceService {
	return &InvoiceService{db: db, repomanager: m, config: cfg}
}

func (s *InvoiceService) validate(inv *models.Invoice) error {
	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		return fmt.Errorf("%w: invoice number required", common.ErrorValidation)
	}
	if strings.TrimSpace(inv.ClientName) == "" {
		return fmt.Errorf("%w: client name required", common.ErrorValidation)
	}
	if inv.Status == "" {
		inv.Status = models.InvoiceDraft
	}
	if !inv.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrorValidation, inv.Status)
	}
	if !inv.Recurrence.Valid() {
		return fmt.Errorf("%w: unknown recurrence %q", common.ErrorValidation, inv.Recurrence)
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("%w: at least one line item required", common.ErrorValidation)
	}
	for _, item := range inv.Items {
		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("%w: line item description required", common.ErrorValidation)
		}
		if item.Quantity.IsNegative() || item.Quantity.IsZero() {
			return fmt.Errorf("%w: line item quantity must be positive", common.ErrorValidation)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: line item price cannot be negative", common.ErrorValidation)
		}
	}
	if inv.Tax.IsNegative() {
		return fmt.Errorf("%w: tax cannot be negative", common.ErrorValidation)
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return fmt.Errorf("%w: due date before issue date", common.ErrorValidation)
	}
	return nil
}

// Create stores a new invoice. Totals are always recomputed server-side,
// never trusted from the request.
func (s *InvoiceService) Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	if err := s.validate(inv); err != nil {
		return nil, err
	}
	inv.ComputeTotals()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		inv, txErr = s.repomanager.Invoices(tx).Create(ctx, inv)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetForUser returns the invoice only if it belongs to userID.
func (s *InvoiceService) GetForUser(ctx context.Context, id, userID string) (*models.Invoice, error) {
	inv, err := s.repomanager.Invoices(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return inv, nil
}

func (s *InvoiceService) ListByUser(ctx context.Context, userID string) ([]*models.Invoice, error) {
	return s.repomanager.Invoices(s.db).ListByUser(ctx, userID)
}

// ListAll is the admin overview.
func (s *InvoiceService) ListAll(ctx context.Context) ([]*models.Invoice, error) {
	return s.repomanager.Invoices(s.db).ListAll(ctx)
}

// Update replaces the invoice and its line items, recomputing totals.
func (s *InvoiceService) Update(ctx context.Context, inv *models.Invoice) error {
	if err := s.validate(inv); err != nil {
		return err
	}
	inv.ComputeTotals()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Invoices(tx).Update(ctx, inv)
	})
}

func (s *InvoiceService) Delete(ctx context.Context, id, userID string) error {
	return s.repomanager.Invoices(s.db).Delete(ctx, id, userID)
}

// RenderPDF renders the user's invoice. When the owner has a completed
// virtual bank account, the PDF carries an ACH remittance block with the
// account number masked.
func (s *InvoiceService) RenderPDF(ctx context.Context, id, userID string) ([]byte, error) {
	inv, err := s.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	var bank *models.BankDetails
	owner, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err == nil && owner.VirtualBankStatus == models.VirtualBankCompleted {
		bank = owner.BankDetails
	}

	return invoicepdf.Render(inv, bank)
}

func (s *InvoiceService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Archive renders the invoice, uploads the PDF to object storage, records
// the storage key, and returns a presigned GET URL valid for 15 minutes.
func (s *InvoiceService) Archive(ctx context.Context, id, userID string) (string, error) {
	data, err := s.RenderPDF(ctx, id, userID)
	if err != nil {
		return "", err
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return "", fmt.Errorf("error building s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := fmt.Sprintf("invoices/%s/%s.pdf", userID, id)
	contentType := "application/pdf"

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	}); err != nil {
		return "", fmt.Errorf("error uploading invoice pdf: %w", err)
	}

	if err := s.repomanager.Invoices(s.db).SetStorageKey(ctx, id, key); err != nil {
		return "", err
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("error presigning invoice url: %w", err)
	}

	return req.URL, nil
}

// GenerateRecurring clones every due recurring invoice with its issue/due
// dates advanced by one period. Recurrence moves to the clone so the chain
// continues from the newest invoice. Returns how many clones were created.
func (s *InvoiceService) GenerateRecurring(ctx context.Context, asOf time.Time) (int, error) {
	due, err := s.repomanager.Invoices(s.db).ListRecurringDue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, inv := range due {
		nextIssue := inv.Recurrence.NextIssueDate(inv.IssueDate)
		clone := &models.Invoice{
			UserID:        inv.UserID,
			InvoiceNumber: fmt.Sprintf("%s-%s", inv.InvoiceNumber, nextIssue.Format("2006-01")),
			ClientName:    inv.ClientName,
			ClientEmail:   inv.ClientEmail,
			ClientAddress: inv.ClientAddress,
			IssueDate:     nextIssue,
			DueDate:       inv.DueDate.Add(nextIssue.Sub(inv.IssueDate)),
			Items:         cloneItems(inv.Items),
			Tax:           inv.Tax,
			Status:        models.InvoiceDraft,
			Recurrence:    inv.Recurrence,
			Notes:         inv.Notes,
		}
		clone.ComputeTotals()

		err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.repomanager.Invoices(tx)
			if _, err := repo.Create(ctx, clone); err != nil {
				return err
			}
			inv.Recurrence = models.RecurrenceNone
			return repo.Update(ctx, inv)
		})
		if err != nil {
			// A clone that already exists means a previous sweep got here;
			// stop the chain on the source so it is not picked up again.
			if errors.Is(err, common.ErrorAlreadyExists) {
				inv.Recurrence = models.RecurrenceNone
				if uerr := s.repomanager.Invoices(s.db).Update(ctx, inv); uerr != nil {
					return created, uerr
				}
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

// MarkOverdue flips sent invoices past their due date to overdue.
func (s *InvoiceService) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	return s.repomanager.Invoices(s.db).MarkOverdue(ctx, asOf)
}

func cloneItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	for i, item := range items {
		out[i] = models.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}
	return out
}
