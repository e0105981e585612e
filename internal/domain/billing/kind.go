package billing

// DocumentKind identifies the financial document variant a line item belongs to.
// The kind decides how line amounts are computed (see ComputeLine).
type DocumentKind string

const (
	KindEstimate      DocumentKind = "ESTIMATE"
	KindInvoice       DocumentKind = "INVOICE"
	KindBill          DocumentKind = "BILL"
	KindExpense       DocumentKind = "EXPENSE"
	KindPurchaseOrder DocumentKind = "PURCHASE_ORDER"
)

// IsValid checks if the kind is a valid DocumentKind
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindEstimate, KindInvoice, KindBill, KindExpense, KindPurchaseOrder:
		return true
	}
	return false
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// Taxed returns true if lines of this kind carry a tax rate.
// Bills, expenses and purchase orders record gross amounts with no per-line tax.
func (k DocumentKind) Taxed() bool {
	return k == KindEstimate || k == KindInvoice
}

// TaxInLineTotal returns true if the line total folds the tax amount in.
//
// Estimates fold tax into each line total while invoices track tax separately
// and add it once at the document level. The asymmetry is inherited behavior,
// kept as an explicit per-kind policy rather than silently unified.
func (k DocumentKind) TaxInLineTotal() bool {
	return k == KindEstimate
}
