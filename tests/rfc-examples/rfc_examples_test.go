package tests

import (
	"encoding/hex"
	"testing"

	cbor "github.com/synadia-labs/qcbor.go/runtime"
)

type rfcExample struct {
	name string
	diag string
	hex  string
}

// Examples from RFC 8949 Appendix A.
var rfcExamples = []rfcExample{
	{name: "zero", diag: "0", hex: "00"},
	{name: "ten", diag: "10", hex: "0a"},
	{name: "twenty-four", diag: "24", hex: "1818"},
	{name: "one-million", diag: "1000000", hex: "1a000f4240"},
	{name: "max-uint64", diag: "18446744073709551615", hex: "1bffffffffffffffff"},
	{name: "bignum-2-pow-64", diag: "2(h'010000000000000000')", hex: "c249010000000000000000"},
	{name: "min-negint", diag: "-18446744073709551616", hex: "3bffffffffffffffff"},
	{name: "bignum-minus-2-pow-64-minus-1", diag: "3(h'010000000000000000')", hex: "c349010000000000000000"},
	{name: "minus-one", diag: "-1", hex: "20"},
	{name: "minus-thousand", diag: "-1000", hex: "3903e7"},
	{name: "half-one-point-five", diag: "1.5", hex: "f93e00"},
	{name: "single-100000", diag: "100000", hex: "fa47c35000"},
	{name: "double-1.1", diag: "1.1", hex: "fb3ff199999999999a"},
	{name: "half-infinity", diag: "Infinity", hex: "f97c00"},
	{name: "half-nan", diag: "NaN", hex: "f97e00"},
	{name: "false", diag: "false", hex: "f4"},
	{name: "null", diag: "null", hex: "f6"},
	{name: "undefined", diag: "undefined", hex: "f7"},
	{name: "simple-16", diag: "simple(16)", hex: "f0"},
	{name: "simple-255", diag: "simple(255)", hex: "f8ff"},
	{name: "tag-datetime", diag: "0(\"2013-03-21T20:04:00Z\")", hex: "c074323031332d30332d32315432303a30343a30305a"},
	{name: "tag-epoch-datetime", diag: "1(1363896240)", hex: "c11a514b67b0"},
	{name: "tag-epoch-float", diag: "1(1363896240.5)", hex: "c1fb41d452d9ec200000"},
	{name: "tag-cbor", diag: "24(h'6449455446')", hex: "d818456449455446"},
	{name: "tag-uri", diag: "32(\"http://www.example.com\")", hex: "d82076687474703a2f2f7777772e6578616d706c652e636f6d"},
	{name: "empty-bytes", diag: "h''", hex: "40"},
	{name: "bytes-01020304", diag: "h'01020304'", hex: "4401020304"},
	{name: "empty-text", diag: "\"\"", hex: "60"},
	{name: "text-a", diag: "\"a\"", hex: "6161"},
	{name: "text-unicode", diag: "\"ü\"", hex: "62c3bc"},
	{name: "empty-array", diag: "[]", hex: "80"},
	{name: "array-1-2-3", diag: "[1, 2, 3]", hex: "83010203"},
	{name: "nested-array", diag: "[1, [2, 3], [4, 5]]", hex: "8301820203820405"},
	{name: "empty-map", diag: "{}", hex: "a0"},
	{name: "map-int-keys", diag: "{1: 2, 3: 4}", hex: "a201020304"},
	{name: "map-a1-b2", diag: "{\"a\": 1, \"b\": [2, 3]}", hex: "a26161016162820203"},
	{name: "array-with-map", diag: "[\"a\", {\"b\": \"c\"}]", hex: "826161a161626163"},
	{name: "indef-bytes", diag: "h'0102030405'", hex: "5f42010243030405ff"},
	{name: "indef-text", diag: "\"streaming\"", hex: "7f657374726561646d696e67ff"},
	{name: "indef-empty-array", diag: "[_ ]", hex: "9fff"},
	{name: "indef-array-1-2", diag: "[_ 1, 2]", hex: "9f0102ff"},
	{name: "indef-mixed", diag: "[_ 1, [2, 3], [_ 4, 5]]", hex: "9f018202039f0405ffff"},
	{name: "definite-with-indef", diag: "[1, [2, 3], [_ 4, 5]]", hex: "83018202039f0405ff"},
	{name: "indef-map", diag: "{_ \"a\": 1, \"b\": [_ 2, 3]}", hex: "bf61610161629f0203ffff"},
	{name: "indef-map-in-array", diag: "[\"a\", {_ \"b\": \"c\"}]", hex: "826161bf61626163ff"},
}

func TestRFCExamplesDiagAndWellFormed(t *testing.T) {
	for _, ex := range rfcExamples {
		t.Run(ex.name, func(t *testing.T) {
			msg, err := hex.DecodeString(ex.hex)
			if err != nil {
				t.Fatalf("bad hex %q: %v", ex.hex, err)
			}

			got, rest, err := cbor.DiagBytes(msg)
			if err != nil {
				t.Fatalf("DiagBytes error: %v", err)
			}
			if len(rest) != 0 {
				t.Fatalf("DiagBytes leftover: %d", len(rest))
			}
			if got != ex.diag {
				t.Fatalf("diag mismatch: got %q want %q (hex %s)", got, ex.diag, ex.hex)
			}

			rest2, err := cbor.ValidateWellFormedBytes(msg)
			if err != nil {
				t.Fatalf("ValidateWellFormedBytes error: %v", err)
			}
			if len(rest2) != 0 {
				t.Fatalf("ValidateWellFormedBytes leftover: %d", len(rest2))
			}
		})
	}
}

func TestRFCExamplesAsSequence(t *testing.T) {
	var seq []byte
	var want string
	for _, ex := range rfcExamples {
		msg, err := hex.DecodeString(ex.hex)
		if err != nil {
			t.Fatalf("bad hex %q: %v", ex.hex, err)
		}
		seq = append(seq, msg...)
		want += ex.diag + "\n"
	}
	if err := cbor.ValidateDocument(seq); err != nil {
		t.Fatalf("ValidateDocument: %v", err)
	}
	got, err := cbor.DiagDocument(seq)
	if err != nil {
		t.Fatalf("DiagDocument: %v", err)
	}
	if got != want {
		t.Fatalf("sequence diag mismatch:\n got: %q\nwant: %q", got, want)
	}
}
