package cbor

import "unicode/utf8"

// isUTF8Valid is swappable so a faster validator can be dropped in.
var isUTF8Valid = utf8.Valid

// checkText reports ErrInvalidUTF8 for a text string payload that is not
// valid UTF-8. Other major types and disabled validation pass.
func checkText(major uint8, b []byte) error {
	if major != majorTypeText || !ValidateUTF8OnDecode || isUTF8Valid(b) {
		return nil
	}
	return ErrInvalidUTF8
}
