package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReceiptType represents the fiscal type of a receipt. A customer is locked
// to one type for its whole lifetime.
type ReceiptType int

const (
	ReceiptTypeNormal ReceiptType = 0
	ReceiptTypeTVA    ReceiptType = 1
)

func (t ReceiptType) String() string {
	names := [...]string{"NORMAL", "TVA"}
	if int(t) < 0 || int(t) >= len(names) {
		return "NORMAL"
	}
	return names[t]
}

func (t ReceiptType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ReceiptType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ReceiptType(i)
		return nil
	}
	switch str {
	case "NORMAL":
		*t = ReceiptTypeNormal
	case "TVA":
		*t = ReceiptTypeTVA
	}
	return nil
}

func (t ReceiptType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ReceiptType) Scan(value interface{}) error {
	if value == nil {
		*t = ReceiptTypeNormal
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ReceiptType(v)
	case int:
		*t = ReceiptType(v)
	}
	return nil
}

// ParseReceiptType parses a string into a ReceiptType
func ParseReceiptType(s string) (ReceiptType, bool) {
	switch s {
	case "NORMAL", "normal":
		return ReceiptTypeNormal, true
	case "TVA", "tva":
		return ReceiptTypeTVA, true
	}
	return ReceiptTypeNormal, false
}
