package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/pkg/apperror"
	"github.com/BassamAA/mawad-api/pkg/printer"
)

const receiptCharWidth = 32

// BusinessHeader is the identity block printed on top of every document
type BusinessHeader struct {
	Name    string
	Address string
	Phone   string
}

// PrinterService renders receipts and invoice bundles to the thermal
// printer. Printing never mutates ledger state; a print failure is the
// operator's problem, not the transaction's.
type PrinterService struct {
	printer     printer.Printer
	uow         repository.UnitOfWork
	header      BusinessHeader
	printerType string
}

// NewPrinterService creates a new printer service
func NewPrinterService(p printer.Printer, uow repository.UnitOfWork, header BusinessHeader, printerType string) *PrinterService {
	return &PrinterService{
		printer:     p,
		uow:         uow,
		header:      header,
		printerType: printerType,
	}
}

// PrinterStatus returns the current printer status information
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// PrintReceipt renders a stored receipt and sends it to the printer
func (s *PrinterService) PrintReceipt(ctx context.Context, id uuid.UUID) error {
	receipt, err := s.uow.Store().Receipts.GetWithItems(ctx, id)
	if err != nil {
		return err
	}
	if receipt == nil {
		return apperror.NewNotFoundError("Receipt")
	}

	doc := printer.NewDocument(receiptCharWidth)
	s.printHeader(doc)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		TextF("RECEIPT %s", receipt.ReceiptNo).
		SetBold(false)
	if receipt.Type == enum.ReceiptTypeTVA {
		doc.Text("TVA")
	}
	doc.SetAlign(printer.AlignLeft).
		TextF("Date: %s", receipt.CreatedAt.Format("2006-01-02 15:04"))

	if receipt.Customer != nil {
		doc.TextF("Customer: %s", receipt.Customer.Name)
	} else if receipt.WalkInName != nil {
		doc.TextF("Customer: %s", *receipt.WalkInName)
	}
	if receipt.JobSite != nil {
		doc.TextF("Site: %s", receipt.JobSite.Name)
	}

	doc.Separator('-')
	for i := range receipt.Items {
		item := &receipt.Items[i]
		name := "?"
		unit := ""
		if item.Product != nil {
			name = item.Product.Name
			unit = item.Product.Unit
		}
		qty := item.Quantity
		if item.DisplayQuantity != nil {
			qty = *item.DisplayQuantity
			if item.DisplayUnit != nil {
				unit = *item.DisplayUnit
			}
		}
		total := ""
		if item.Subtotal != nil {
			total = fmt.Sprintf("%.2f", *item.Subtotal)
		}
		doc.QtyLine(qty, unit, name, total)
	}
	doc.Separator('-')

	doc.KeyValue("Total", fmt.Sprintf("%.2f", receipt.Total))
	doc.KeyValue("Paid", fmt.Sprintf("%.2f", receipt.AmountPaid))
	if !receipt.IsPaid {
		doc.KeyValue("Due", fmt.Sprintf("%.2f", receipt.Outstanding()))
	}

	doc.FeedLines(3).PartialCut()
	return s.printer.Print(doc.Bytes())
}

// PrintInvoice renders an invoice bundle projection and sends it to the
// printer. The projection is computed by the invoice service; nothing here
// is persisted.
func (s *PrinterService) PrintInvoice(ctx context.Context, customerName string, preview *InvoicePreview) error {
	doc := printer.NewDocument(receiptCharWidth)
	s.printHeader(doc)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("INVOICE").
		SetBold(false)
	if preview.Type == enum.ReceiptTypeTVA {
		doc.Text("TVA")
	}
	doc.SetAlign(printer.AlignLeft).
		TextF("Customer: %s", customerName)

	doc.Separator('-')
	for i := range preview.Receipts {
		receipt := &preview.Receipts[i]
		doc.KeyValue(receipt.ReceiptNo, fmt.Sprintf("%.2f", receipt.Total))
	}
	doc.Separator('-')

	doc.KeyValue("Subtotal", fmt.Sprintf("%.2f", preview.Subtotal))
	if preview.VATAmount > 0 {
		doc.KeyValue(fmt.Sprintf("VAT %.0f%%", preview.VATRate*100), fmt.Sprintf("%.2f", preview.VATAmount))
	}
	doc.SetBold(true).
		KeyValue("Total", fmt.Sprintf("%.2f", preview.GrandTotal)).
		SetBold(false)
	doc.KeyValue("Paid", fmt.Sprintf("%.2f", preview.AmountPaid))
	doc.KeyValue("Due", fmt.Sprintf("%.2f", preview.Outstanding))
	if preview.OldBalance > 0 {
		doc.KeyValue("Old balance", fmt.Sprintf("%.2f", preview.OldBalance))
	}

	doc.FeedLines(3).PartialCut()
	return s.printer.Print(doc.Bytes())
}

func (s *PrinterService) printHeader(doc *printer.Document) {
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(s.header.Name).
		SetBold(false)
	if s.header.Address != "" {
		doc.Text(s.header.Address)
	}
	if s.header.Phone != "" {
		doc.Text(s.header.Phone)
	}
	doc.Separator('=')
}
