// Package inventory models device records and the client-side rules applied
// to them before they are sent to the backend.
package inventory

import (
	"strconv"
	"strings"
)

// Device is a persisted inventory record as returned by the backend. Once
// listed it is immutable on the client; edits go through a ChangeSet.
type Device struct {
	ID             string  `json:"id"`
	Category       string  `json:"device"`
	Type           string  `json:"type"`
	Specifications string  `json:"specifications"`
	Availability   string  `json:"availability"`
	Price          float64 `json:"price"`
	Provider       string  `json:"provider"`
	Model          string  `json:"model"`
	OS             string  `json:"os,omitempty"`
	RAM            string  `json:"ram,omitempty"`
	DateOfPurchase string  `json:"dateOfPurchase"`
	ProductID      string  `json:"productId"`
	AccessoryType  string  `json:"accessoryType,omitempty"`
	Comments       string  `json:"comments,omitempty"`
}

// Wire field names shared by the create form and the sparse update payload.
const (
	FieldCategory       = "device"
	FieldType           = "type"
	FieldSpecifications = "specifications"
	FieldAvailability   = "availability"
	FieldPrice          = "price"
	FieldProvider       = "provider"
	FieldModel          = "model"
	FieldOS             = "os"
	FieldRAM            = "ram"
	FieldDateOfPurchase = "dateOfPurchase"
	FieldProductID      = "productId"
	FieldAccessoryType  = "accessoryType"
	FieldComments       = "comments"
)

// osRAMCategories are the device categories for which OS and RAM are
// mandatory. Matching is case-insensitive and accepts plural forms.
var osRAMCategories = []string{
	"desktop", "desktops",
	"laptop", "laptops",
	"mobile", "mobiles",
	"tablet", "tablets",
}

// IsOSRAMBearing reports whether OS and RAM are required for the category.
func IsOSRAMBearing(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	for _, v := range osRAMCategories {
		if c == v {
			return true
		}
	}
	return false
}

// IsAccessory reports whether the category requires an accessory sub-type.
func IsAccessory(category string) bool {
	return strings.EqualFold(strings.TrimSpace(category), "accessories")
}

// Draft holds the form values for a device record before submission. All
// fields are kept as entered; Validate and Normalized run on submit.
type Draft struct {
	Category       string `validate:"required" display:"Device"`
	Type           string `validate:"required" display:"Type"`
	Specifications string `validate:"required" display:"Specifications"`
	Availability   string `validate:"required" display:"Availability"`
	Price          string `validate:"required" display:"Price"`
	Provider       string `validate:"required" display:"Provider"`
	Model          string `validate:"required" display:"Model"`
	OS             string `display:"OS"`
	RAM            string `display:"RAM"`
	DateOfPurchase string `validate:"required" display:"Date of Purchase"`
	ProductID      string `validate:"required,productid" display:"Product ID"`
	AccessoryType  string `display:"Accessory Type"`
	Comments       string `display:"Comments"`
}

// DraftFromDevice pre-fills a draft with an existing record's values for the
// edit form.
func DraftFromDevice(d Device) Draft {
	return Draft{
		Category:       d.Category,
		Type:           d.Type,
		Specifications: d.Specifications,
		Availability:   d.Availability,
		Price:          strconv.FormatFloat(d.Price, 'f', -1, 64),
		Provider:       d.Provider,
		Model:          d.Model,
		OS:             d.OS,
		RAM:            d.RAM,
		DateOfPurchase: d.DateOfPurchase,
		ProductID:      d.ProductID,
		AccessoryType:  d.AccessoryType,
		Comments:       d.Comments,
	}
}

// SetCategory switches the draft's category and drops values that are
// meaningless for the new one: OS/RAM outside the OS/RAM-bearing list and
// the accessory sub-type outside Accessories. Stale values must never reach
// the backend.
func (d *Draft) SetCategory(category string) {
	d.Category = category
	if !IsOSRAMBearing(category) {
		d.OS = ""
		d.RAM = ""
	}
	if !IsAccessory(category) {
		d.AccessoryType = ""
	}
}

// Normalized returns a copy with device/type/availability/accessoryType
// upper-cased, the form the backend expects.
func (d Draft) Normalized() Draft {
	out := d
	out.Category = strings.ToUpper(d.Category)
	out.Type = strings.ToUpper(d.Type)
	out.Availability = strings.ToUpper(d.Availability)
	out.AccessoryType = strings.ToUpper(d.AccessoryType)
	return out
}

// FormFields returns the multipart form fields for the create call, keyed by
// wire name. AccessoryType is included only when set.
func (d Draft) FormFields() map[string]string {
	fields := map[string]string{
		FieldCategory:       d.Category,
		FieldType:           d.Type,
		FieldSpecifications: d.Specifications,
		FieldAvailability:   d.Availability,
		FieldPrice:          d.Price,
		FieldProvider:       d.Provider,
		FieldModel:          d.Model,
		FieldOS:             d.OS,
		FieldRAM:            d.RAM,
		FieldDateOfPurchase: d.DateOfPurchase,
		FieldProductID:      d.ProductID,
		FieldComments:       d.Comments,
	}
	if d.AccessoryType != "" {
		fields[FieldAccessoryType] = d.AccessoryType
	}
	return fields
}
