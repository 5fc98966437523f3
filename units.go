package capital

import (
	"fmt"
	"strings"
)

// Units names the base unit of account and the stable asset tracked at par against it.
type Units struct {
	Base   string // Base is the ISO 4217 unit every value is expressed in.
	Stable string // Stable is the symbol of the stable asset, valued 1:1 in Base.
}

// DefaultUnits is the unit pair used when none is configured.
var DefaultUnits = Units{Base: "EUR", Stable: "USDT"}

// Validate checks that the base unit is a known currency and that the stable asset is named.
func (u Units) Validate() error {
	if err := ValidateCurrency(u.Base); err != nil {
		return fmt.Errorf("base unit: %w", err)
	}
	if u.Stable == "" {
		return fmt.Errorf("stable asset symbol is missing")
	}
	if strings.EqualFold(u.Stable, u.Base) {
		return fmt.Errorf("stable asset %q cannot be the base unit", u.Stable)
	}
	return nil
}

// Recognized reports whether unit is the base unit or the stable asset.
func (u Units) Recognized(unit string) bool {
	return strings.EqualFold(unit, u.Base) || strings.EqualFold(unit, u.Stable)
}

// FeeValue converts a fee into the base unit. Recognized units convert 1:1,
// anything else is worth nothing.
func (u Units) FeeValue(f Fee) Money {
	if f.IsZero() || !u.Recognized(f.Unit) {
		return M(0, u.Base)
	}
	return M(f.Amount, u.Base)
}

// Zero returns zero in the base unit.
func (u Units) Zero() Money { return M(0, u.Base) }
