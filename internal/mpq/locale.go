package mpq

// languages is the fixed locale id table of the format. Several ids name the
// same language.
var languages = map[uint16]string{
	0x000: "English",
	0x404: "Chinese (Taiwan)",
	0x405: "Czech",
	0x407: "German",
	0x409: "English",
	0x40A: "Spanish",
	0x40C: "French",
	0x410: "Italian",
	0x411: "Japanese",
	0x412: "Korean",
	0x415: "Polish",
	0x416: "Portuguese",
	0x419: "Russian",
	0x809: "English (UK)",
}

// Language returns the name for a locale id, or "Unknown" for ids outside
// the table.
func Language(locale uint16) string {
	if name, ok := languages[locale]; ok {
		return name
	}
	return "Unknown"
}
