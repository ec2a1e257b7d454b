package zstring

// DefaultUnicodeTranslationTable maps ZSCII output codes 155-251 to their
// Latin-1/extended display rune, per the Z-machine standard's default
// unicode translation table.
var DefaultUnicodeTranslationTable = map[uint8]rune{
	155: 'ä', 156: 'ö', 157: 'ü', 158: 'Ä', 159: 'Ö', 160: 'Ü', 161: 'ß',
	162: '»', 163: '«', 164: 'ë', 165: 'ï', 166: 'ÿ', 167: 'Ë', 168: 'Ï',
	169: 'á', 170: 'é', 171: 'í', 172: 'ó', 173: 'ú', 174: 'ý', 175: 'Á',
	176: 'É', 177: 'Í', 178: 'Ó', 179: 'Ú', 180: 'Ý', 181: 'à', 182: 'è',
	183: 'ì', 184: 'ò', 185: 'ù', 186: 'À', 187: 'È', 188: 'Ì', 189: 'Ò',
	190: 'Ù', 191: 'â', 192: 'ê', 193: 'î', 194: 'ô', 195: 'û', 196: 'Â',
	197: 'Ê', 198: 'Î', 199: 'Ô', 200: 'Û', 201: 'å', 202: 'Å', 203: 'ø',
	204: 'Ø', 205: 'ã', 206: 'ñ', 207: 'õ', 208: 'Ã', 209: 'Ñ', 210: 'Õ',
	211: 'æ', 212: 'Æ', 213: 'ç', 214: 'Ç', 215: 'þ', 216: 'ð', 217: 'Þ',
	218: 'Ð', 219: '£', 220: 'œ', 221: 'Œ', 222: '¡', 223: '¿',
}

var runeToZSCII map[rune]uint8

func init() {
	runeToZSCII = make(map[rune]uint8, len(DefaultUnicodeTranslationTable))
	for code, r := range DefaultUnicodeTranslationTable {
		runeToZSCII[r] = code
	}
}

// ZSCIIFromRune maps a display rune back to its ZSCII output code, used by
// the input side to mirror keystrokes (and by encode for non-ASCII text).
func ZSCIIFromRune(r rune) (uint8, bool) {
	if r >= 32 && r <= 126 {
		return uint8(r), true
	}
	code, ok := runeToZSCII[r]
	return code, ok
}

// Input-side ZSCII codes for non-printable keys.
const (
	ZSCIIDelete    uint8 = 8
	ZSCIITab       uint8 = 9
	ZSCIINewline   uint8 = 13
	ZSCIIEscape    uint8 = 27
	ZSCIICursorUp    uint8 = 129
	ZSCIICursorDown  uint8 = 130
	ZSCIICursorLeft  uint8 = 131
	ZSCIICursorRight uint8 = 132
	ZSCIIFunction1   uint8 = 133 // F1..F12 are 133..144
	ZSCIIKeypad0     uint8 = 145 // Keypad 0..9 are 145..154
	ZSCIIMenuClick   uint8 = 252
	ZSCIIDoubleClick uint8 = 253
	ZSCIISingleClick uint8 = 254
)
