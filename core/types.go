package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// ZeroAddress sentinel for an unprovided address parameter
	ZeroAddress = "0x0000000000000000000000000000000000000000"
	// UnprovidedName sentinel for an unprovided name parameter
	UnprovidedName = "NOT_PROVIDED"

	// SecondsPerDay seconds per day bucket
	SecondsPerDay int64 = 86400
	// SecondsPerHour seconds per hour bucket
	SecondsPerHour int64 = 3600
)

// NormalizeAddress lowercases a hex address for use as an entity key
func NormalizeAddress(addr string) string {
	return strings.ToLower(addr)
}

// SnapshotID composite snapshot key: "{marketID}-{bucket}"
func SnapshotID(marketID string, bucket int64) string {
	return fmt.Sprintf("%s-%d", marketID, bucket)
}

// Strings string slice stored as a json column
type Strings []string

// Value implement driver.Valuer
func (s Strings) Value() (driver.Value, error) {
	if s == nil {
		s = Strings{}
	}
	return json.Marshal(s)
}

// Scan implement sql.Scanner
func (s *Strings) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// Contains report whether v is present
func (s Strings) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// Decimals decimal slice stored as a json column
type Decimals []decimal.Decimal

// Value implement driver.Valuer
func (d Decimals) Value() (driver.Value, error) {
	if d == nil {
		d = Decimals{}
	}
	return json.Marshal(d)
}

// Scan implement sql.Scanner
func (d *Decimals) Scan(src interface{}) error {
	return scanJSON(src, d)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	case nil:
		return nil
	default:
		return fmt.Errorf("core: cannot scan %T into json column", src)
	}
}
