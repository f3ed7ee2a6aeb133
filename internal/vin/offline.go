package vin

import "strings"

// Offline decode tables. These cover the fleet makes the business actually
// services (van, cutaway and pickup chassis-cab manufacturers); anything
// outside them decodes to a generic record rather than failing.

// yearCodes maps the 10th VIN character to a model year. VIN year codes
// cycle every 30 years; only the modern cycle is resolved here, which is a
// known limitation.
var yearCodes = map[byte]string{
	'A': "2010", 'B': "2011", 'C': "2012", 'D': "2013", 'E': "2014",
	'F': "2015", 'G': "2016", 'H': "2017", 'J': "2018", 'K': "2019",
	'L': "2020", 'M': "2021", 'N': "2022", 'P': "2023", 'R': "2024",
	'S': "2025", 'T': "2026", 'V': "2027", 'W': "2028", 'X': "2029",
	'Y': "2030",
	'1': "2001", '2': "2002", '3': "2003", '4': "2004", '5': "2005",
	'6': "2006", '7': "2007", '8': "2008", '9': "2009",
}

// wmiMakes maps full 3-character World Manufacturer Identifiers.
var wmiMakes = map[string]string{
	"1FT": "Ford", "2FT": "Ford", "3FT": "Ford", "1FA": "Ford", "1FM": "Ford",
	"3FA": "Ford", "1FD": "Ford", "1FB": "Ford", "1FC": "Ford",
	"NM0": "Ford", "MAJ": "Ford",
	"1GC": "Chevrolet", "1G1": "Chevrolet", "2G1": "Chevrolet",
	"1GT": "GMC", "1GD": "GMC",
	"1C4": "Jeep", "1C6": "RAM", "3C6": "RAM", "2D7": "RAM",
	"2C3": "Dodge",
	"WDB": "Mercedes-Benz", "WDD": "Mercedes-Benz", "WDF": "Mercedes-Benz",
	"WD3": "Mercedes-Benz", "WD4": "Mercedes-Benz",
	"5J6": "Honda", "1HG": "Honda",
	"JTD": "Toyota", "4T1": "Toyota",
	"5NM": "Hyundai", "5XY": "Kia",
	"1N4": "Nissan", "1N6": "Nissan",
	"WBA": "BMW",
}

// prefixMakes is the coarser 2-character fallback when the full WMI is
// unknown.
var prefixMakes = map[string]string{
	"1F": "Ford", "2F": "Ford", "3F": "Ford",
	"1G": "GM", "2G": "GM",
	"1C": "Chrysler", "2C": "Dodge", "3C": "RAM",
	"WD": "Mercedes-Benz",
	"JT": "Toyota",
	"1N": "Nissan",
	"WB": "BMW",
}

// offlineDecode derives best-effort attributes from the VIN alone. It is the
// fallback when the remote lookup errors, times out, or returns no usable
// manufacturer. Deterministic and side-effect free.
func offlineDecode(raw string) Attributes {
	v := strings.ToUpper(raw)

	var year string
	if len(v) > 9 {
		year = yearCodes[v[9]]
	}

	make_ := ""
	if len(v) >= 3 {
		make_ = wmiMakes[v[:3]]
	}
	if make_ == "" && len(v) >= 2 {
		make_ = prefixMakes[v[:2]]
	}
	if make_ == "" {
		make_ = "Unknown"
	}

	model, bodyClass := modelForMake(make_, v)

	return Attributes{
		Year:      year,
		Make:      make_,
		Model:     model,
		BodyClass: bodyClass,
	}
}

// modelForMake applies manufacturer-specific sub-prefix rules for the fleet
// vehicle lines. When no rule matches, the model stays a generic placeholder
// and the body class is left blank.
func modelForMake(make_, v string) (model, bodyClass string) {
	model = "Vehicle"
	switch {
	case strings.Contains(make_, "Ford"):
		switch {
		case strings.HasPrefix(v, "1FTBW"), strings.HasPrefix(v, "1FTNW"):
			return "Transit", "Van"
		case strings.HasPrefix(v, "1FTBR"):
			return "Transit", "Wagon"
		case strings.HasPrefix(v, "1FTFW"), strings.HasPrefix(v, "1FTEW"):
			return "F-150", "Pickup"
		case strings.HasPrefix(v, "1FT7W"), strings.HasPrefix(v, "1FT8W"):
			return "F-250/F-350", "Pickup"
		case strings.HasPrefix(v, "3FTTW"):
			return "Transit", "Cargo Van"
		case strings.HasPrefix(v, "MAJ"):
			return "Transit Connect", "Van"
		case strings.HasPrefix(v, "NM0"):
			return "Transit", "Van"
		}
	case strings.Contains(make_, "RAM"), strings.Contains(make_, "Dodge"):
		if len(v) > 3 && v[3] == '6' {
			return "ProMaster", "Van"
		}
		return "RAM", "Pickup/Van"
	case strings.Contains(make_, "Mercedes"):
		return "Sprinter", "Van"
	}
	return model, ""
}
