package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// MovementKind represents the direction class of a stock movement
type MovementKind int

const (
	MovementKindSale     MovementKind = 0
	MovementKindPurchase MovementKind = 1
)

func (k MovementKind) String() string {
	names := [...]string{"SALE", "PURCHASE"}
	if int(k) < 0 || int(k) >= len(names) {
		return "SALE"
	}
	return names[k]
}

func (k MovementKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *MovementKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = MovementKind(i)
		return nil
	}
	switch str {
	case "SALE":
		*k = MovementKindSale
	case "PURCHASE":
		*k = MovementKindPurchase
	}
	return nil
}

func (k MovementKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *MovementKind) Scan(value interface{}) error {
	if value == nil {
		*k = MovementKindSale
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = MovementKind(v)
	case int:
		*k = MovementKind(v)
	}
	return nil
}
