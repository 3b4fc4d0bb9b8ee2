// Package schema publishes JSON Schemas for the rows the tool emits.
package schema

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/rezonia/efactura-reconciler/internal/model"
)

const decimalPattern = `^-?[0-9]+(\.[0-9]+)?$`

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
)

// decimals are serialised as JSON strings
func mapType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case decimalType:
		return &jsonschema.Schema{Type: "string", Pattern: decimalPattern}
	case nullDecimalType:
		return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
			{Type: "string", Pattern: decimalPattern},
			{Type: "null"},
		}}
	}
	return nil
}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
		Mapper:                    mapType,
	}
}

// Schemas maps each output row name to its schema
func Schemas() map[string]*jsonschema.Schema {
	r := reflector()
	return map[string]*jsonschema.Schema{
		"product_summary_row": r.Reflect(&model.ProductSummaryRow{}),
		"summary_row":         r.Reflect(&model.SummaryRow{}),
	}
}

// JSON renders Schemas as indented JSON
func JSON() ([]byte, error) {
	return json.MarshalIndent(Schemas(), "", "  ")
}
