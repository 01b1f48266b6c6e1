package inventory

import "strconv"

// ChangeSet tracks which fields of a device record were modified in the edit
// form. Only changed fields are sent in the update payload; a field edited
// back to its original value drops out of the set again.
type ChangeSet struct {
	fields map[string]string
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{fields: make(map[string]string)}
}

// Set records a pending value for the wire field name. When the value equals
// the original the field is treated as unchanged.
func (c *ChangeSet) Set(field, original, value string) {
	if value == original {
		delete(c.fields, field)
		return
	}
	c.fields[field] = value
}

func (c *ChangeSet) Empty() bool {
	return len(c.fields) == 0
}

// Changed reports whether the field currently carries a pending value.
func (c *ChangeSet) Changed(field string) bool {
	_, ok := c.fields[field]
	return ok
}

// Apply merges the pending values over the original record. Validation of an
// edit runs against this merged draft, so a required field cleared during
// editing is caught before the request is sent.
func (c *ChangeSet) Apply(original Device) Draft {
	d := DraftFromDevice(original)
	for field, value := range c.fields {
		switch field {
		case FieldCategory:
			d.Category = value
		case FieldType:
			d.Type = value
		case FieldSpecifications:
			d.Specifications = value
		case FieldAvailability:
			d.Availability = value
		case FieldPrice:
			d.Price = value
		case FieldProvider:
			d.Provider = value
		case FieldModel:
			d.Model = value
		case FieldOS:
			d.OS = value
		case FieldRAM:
			d.RAM = value
		case FieldDateOfPurchase:
			d.DateOfPurchase = value
		case FieldProductID:
			d.ProductID = value
		case FieldAccessoryType:
			d.AccessoryType = value
		case FieldComments:
			d.Comments = value
		}
	}
	return d
}

// Payload builds the sparse update body. The price is sent as a number,
// everything else as entered.
func (c *ChangeSet) Payload() map[string]any {
	out := make(map[string]any, len(c.fields))
	for field, value := range c.fields {
		if field == FieldPrice {
			if p, err := strconv.ParseFloat(value, 64); err == nil {
				out[field] = p
				continue
			}
		}
		out[field] = value
	}
	return out
}
