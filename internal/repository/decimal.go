package repository

import (
	"strconv"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is stored as Decimal128. Older rows may hold doubles, integers or strings, so
// reads go through bson.RawValue.

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func toNullDecimal128(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return toDecimal128(d.Decimal)
}

// decimalFromRaw reads a numeric BSON value. Absent, null and unparsable values are
// reported as not valid.
func decimalFromRaw(raw bson.RawValue) decimal.NullDecimal {
	switch raw.Type {
	case bson.TypeDecimal128:
		d, err := decimal.NewFromString(raw.Decimal128().String())
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	case bson.TypeDouble:
		return decimal.NewNullDecimal(decimal.NewFromFloat(raw.Double()))
	case bson.TypeInt32:
		return decimal.NewNullDecimal(decimal.NewFromInt32(raw.Int32()))
	case bson.TypeInt64:
		return decimal.NewNullDecimal(decimal.NewFromInt(raw.Int64()))
	case bson.TypeString:
		d, err := decimal.NewFromString(raw.StringValue())
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	default:
		return decimal.NullDecimal{}
	}
}

// decimalOrZero reads a numeric BSON value, defaulting to zero.
func decimalOrZero(raw bson.RawValue) decimal.Decimal {
	if d := decimalFromRaw(raw); d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

// intFromRaw reads an integer BSON value, truncating doubles and parsing strings.
// The boolean is false when the value is absent or not numeric.
func intFromRaw(raw bson.RawValue) (int, bool) {
	switch raw.Type {
	case bson.TypeInt32:
		return int(raw.Int32()), true
	case bson.TypeInt64:
		return int(raw.Int64()), true
	case bson.TypeDouble:
		return int(raw.Double()), true
	case bson.TypeString:
		n, err := strconv.Atoi(raw.StringValue())
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
