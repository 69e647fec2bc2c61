package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentType classifies a generic money-movement record. Only the receipt
// and customer-payment kinds participate in receipt reconciliation.
type PaymentType int

const (
	PaymentTypeReceipt         PaymentType = 0
	PaymentTypeCustomerPayment PaymentType = 1
	PaymentTypeSupplierPayment PaymentType = 2
	PaymentTypeExpense         PaymentType = 3
)

func (t PaymentType) String() string {
	names := [...]string{"RECEIPT", "CUSTOMER_PAYMENT", "SUPPLIER_PAYMENT", "EXPENSE"}
	if int(t) < 0 || int(t) >= len(names) {
		return "RECEIPT"
	}
	return names[t]
}

// CountsTowardReceipt reports whether payments of this type are counted
// when reconciling a receipt's paid amount
func (t PaymentType) CountsTowardReceipt() bool {
	return t == PaymentTypeReceipt || t == PaymentTypeCustomerPayment
}

func (t PaymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = PaymentType(i)
		return nil
	}
	switch str {
	case "RECEIPT":
		*t = PaymentTypeReceipt
	case "CUSTOMER_PAYMENT":
		*t = PaymentTypeCustomerPayment
	case "SUPPLIER_PAYMENT":
		*t = PaymentTypeSupplierPayment
	case "EXPENSE":
		*t = PaymentTypeExpense
	}
	return nil
}

// ParsePaymentType converts a wire string into a PaymentType
func ParsePaymentType(s string) (PaymentType, bool) {
	switch s {
	case "RECEIPT", "receipt":
		return PaymentTypeReceipt, true
	case "CUSTOMER_PAYMENT", "customer_payment":
		return PaymentTypeCustomerPayment, true
	case "SUPPLIER_PAYMENT", "supplier_payment":
		return PaymentTypeSupplierPayment, true
	case "EXPENSE", "expense":
		return PaymentTypeExpense, true
	}
	return PaymentTypeReceipt, false
}

func (t PaymentType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *PaymentType) Scan(value interface{}) error {
	if value == nil {
		*t = PaymentTypeReceipt
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = PaymentType(v)
	case int:
		*t = PaymentType(v)
	}
	return nil
}
