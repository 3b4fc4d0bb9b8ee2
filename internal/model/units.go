package model

// UnitCodes maps UN/ECE Recommendation 20 codes seen on e-invoices to a description
var UnitCodes = map[string]string{
	"H87": "Piece",
	"C62": "One",
	"EA":  "Each",
	"XPP": "Piece",
	"NAR": "Number of articles",
	"SET": "Set",
	"PR":  "Pair",
	"KGM": "Kilogram",
	"GRM": "Gram",
	"TNE": "Tonne",
	"LTR": "Litre",
	"MLT": "Millilitre",
	"MTQ": "Cubic metre",
	"MTK": "Square metre",
	"MTR": "Metre",
	"CMT": "Centimetre",
	"KMT": "Kilometre",
	"KWH": "Kilowatt hour",
	"MIN": "Minute",
	"HUR": "Hour",
	"DAY": "Day",
	"WEE": "Week",
	"MON": "Month",
	"ANN": "Year",
	"E48": "Service unit",
	"XBX": "Box",
	"XPK": "Package",
	"XBG": "Bag",
	"XBO": "Bottle",
	"XRO": "Roll",
	"ZZ":  "Mutually defined",
}

// UnitLabel renders a unit code as "CODE (Description)".
// Unknown codes are returned as-is and an empty code renders as "-".
func UnitLabel(code string) string {
	if code == "" {
		return "-"
	}
	desc, ok := UnitCodes[code]
	if !ok {
		return code
	}
	return code + " (" + desc + ")"
}
