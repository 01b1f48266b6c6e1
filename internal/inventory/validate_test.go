package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Category:       "Monitor",
		Type:           "New",
		Specifications: "27 inch, 4K",
		Availability:   "Yes",
		Price:          "350",
		Provider:       "Dell",
		Model:          "U2723QE",
		DateOfPurchase: "2024-01-15",
		ProductID:      "AB12-CD34",
	}
}

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	assert.NoError(t, validDraft().Validate())
}

func TestValidateNonOSRAMCategorySkipsOSAndRAM(t *testing.T) {
	// Monitor is not OS/RAM-bearing: leaving both empty must pass.
	d := validDraft()
	d.OS = ""
	d.RAM = ""

	assert.NoError(t, d.Validate())
}

func TestValidateOSRAMCategoryRequiresOSAndRAM(t *testing.T) {
	d := validDraft()
	d.Category = "Laptop"
	d.OS = ""
	d.RAM = ""

	err := d.Validate()
	require.Error(t, err)

	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Fields, "OS")
	assert.Contains(t, missing.Fields, "RAM")
}

func TestValidateOSRAMAllowListIsCaseInsensitiveAndPlural(t *testing.T) {
	for _, category := range []string{"desktop", "DESKTOPS", "Laptop", "laptops", "Mobile", "Tablets"} {
		assert.True(t, IsOSRAMBearing(category), "category %q", category)
	}
	for _, category := range []string{"Monitor", "Accessories", "printer", ""} {
		assert.False(t, IsOSRAMBearing(category), "category %q", category)
	}
}

func TestValidateAccessoriesRequireSubType(t *testing.T) {
	d := validDraft()
	d.Category = "Accessories"
	d.AccessoryType = ""

	err := d.Validate()
	require.Error(t, err)

	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Fields, "Accessory Type")

	d.AccessoryType = "Keyboard"
	assert.NoError(t, d.Validate())
}

func TestValidateAggregatesAllMissingFields(t *testing.T) {
	d := Draft{Category: "Monitor"}

	err := d.Validate()
	require.Error(t, err)

	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, missing.Fields, []string{
		"Type", "Specifications", "Availability", "Price", "Provider",
		"Model", "Date of Purchase", "Product ID",
	})
	assert.Contains(t, err.Error(), "please fill the following fields:")
}

func TestValidateProductIDFormat(t *testing.T) {
	tests := []struct {
		productID string
		ok        bool
	}{
		{"AB12-CD34", true}, // 9 chars, alphanumeric + hyphen
		{"short", false},    // 5 chars
		{"has a space 1234", false},
		{"abcdefgh", true},             // exactly 8
		{"a1234567890123456789", true}, // exactly 20
		{"a12345678901234567890", false},
		{"AB12_CD34", false}, // underscore not allowed
	}

	for _, tt := range tests {
		d := validDraft()
		d.ProductID = tt.productID
		err := d.Validate()
		if tt.ok {
			assert.NoError(t, err, "product id %q", tt.productID)
		} else {
			assert.ErrorIs(t, err, ErrInvalidProductID, "product id %q", tt.productID)
		}
	}
}

func TestValidatePresenceRunsBeforeFormat(t *testing.T) {
	// Missing fields take precedence over the product id format error.
	d := validDraft()
	d.Provider = ""
	d.ProductID = "bad"

	err := d.Validate()
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Provider"}, missing.Fields)
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("350.50")
	require.NoError(t, err)
	assert.Equal(t, 350.50, p)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := ParsePrice(bad)
		assert.True(t, errors.Is(err, ErrPriceNotPositive), "price %q", bad)
	}
}
