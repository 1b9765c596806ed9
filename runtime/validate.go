package cbor

// ValidateWellFormedBytes validates that the next CBOR data item in b is
// well-formed per RFC 8949 and returns the remaining bytes after that item.
//
// Items are checked as encoded (DecodeWellFormed), so map labels of any
// type, tagged labels, tags on unexpected content and negative integers
// below math.MinInt64 are all accepted.
//
// Besides well-formedness it enforces the decoder's own limits: nesting
// deeper than MaxNesting and containers declaring more than
// MaxItemsInContainer items are rejected, text must be valid UTF-8 when
// ValidateUTF8OnDecode is set, and each item may carry at most
// MaxTagsPerItem tags.
func ValidateWellFormedBytes(b []byte) (rest []byte, err error) {
	d := NewDecoder(b, DecodeWellFormed)
	d.SetAllocator(HeapAllocator{}, false)
	for {
		it, err := d.GetNext()
		if err != nil {
			return b, err
		}
		if it.NextNestLevel == 0 {
			return b[d.Tell():], nil
		}
	}
}

// ValidateDocument validates that all items in b are well-formed until
// input is exhausted, with the same rules as ValidateWellFormedBytes.
func ValidateDocument(b []byte) error {
	d := NewDecoder(b, DecodeWellFormed)
	d.SetAllocator(HeapAllocator{}, false)
	for {
		if _, err := d.GetNext(); err != nil {
			if err == ErrNoMoreItems {
				return d.Finish()
			}
			return WrapError(err, "offset", d.Tell())
		}
	}
}
