package benchmarks

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	msgp "github.com/tinylib/msgp/msgp"

	cbor "github.com/synadia-labs/qcbor.go/runtime"
)

// TestData is a small record with the usual mix of scalars, a string
// array and a string-keyed map, encoded as a single top-level map.
type TestData struct {
	Name    string
	Age     int64
	Email   string
	Active  bool
	Balance float64
	Tags    []string
	Scores  map[string]int64
}

func sampleTestData() TestData {
	return TestData{
		Name:    "Alice Johnson",
		Age:     30,
		Email:   "alice@example.com",
		Active:  true,
		Balance: 12345.67,
		Tags:    []string{"premium", "verified", "active"},
		Scores:  map[string]int64{"math": 95, "science": 88, "history": 92},
	}
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func encodeMsgpTestData(buf []byte, data TestData) []byte {
	buf = msgp.AppendMapHeader(buf, 7)
	buf = msgp.AppendString(buf, "name")
	buf = msgp.AppendString(buf, data.Name)
	buf = msgp.AppendString(buf, "age")
	buf = msgp.AppendInt64(buf, data.Age)
	buf = msgp.AppendString(buf, "email")
	buf = msgp.AppendString(buf, data.Email)
	buf = msgp.AppendString(buf, "active")
	buf = msgp.AppendBool(buf, data.Active)
	buf = msgp.AppendString(buf, "balance")
	buf = msgp.AppendFloat64(buf, data.Balance)

	buf = msgp.AppendString(buf, "tags")
	buf = msgp.AppendArrayHeader(buf, uint32(len(data.Tags)))
	for _, tag := range data.Tags {
		buf = msgp.AppendString(buf, tag)
	}

	buf = msgp.AppendString(buf, "scores")
	buf = msgp.AppendMapHeader(buf, uint32(len(data.Scores)))
	for _, k := range sortedKeys(data.Scores) {
		buf = msgp.AppendString(buf, k)
		buf = msgp.AppendInt64(buf, data.Scores[k])
	}
	return buf
}

// encodeCBORTestData never states a count up front: the Encoder works
// the headers out when each container closes.
func encodeCBORTestData(e *cbor.Encoder, data TestData) ([]byte, error) {
	e.OpenMap()
	e.AddString("name")
	e.AddString(data.Name)
	e.AddString("age")
	e.AddInt64(data.Age)
	e.AddString("email")
	e.AddString(data.Email)
	e.AddString("active")
	e.AddBool(data.Active)
	e.AddString("balance")
	e.AddFloat64(data.Balance)

	e.AddString("tags")
	e.OpenArray()
	for _, tag := range data.Tags {
		e.AddString(tag)
	}
	e.CloseArray()

	e.AddString("scores")
	e.OpenMap()
	for _, k := range sortedKeys(data.Scores) {
		e.AddString(k)
		e.AddInt64(data.Scores[k])
	}
	e.CloseMap()
	e.CloseMap()
	return e.Finish()
}

func decodeMsgpTestData(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		var err error
		b, err = msgp.Skip(b)
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// decodeCBORTestData walks every item and returns the count seen.
func decodeCBORTestData(d *cbor.Decoder, b []byte) (int, error) {
	d.Init(b, cbor.DecodeMapStringsOnly)
	n := 0
	for {
		_, err := d.GetNext()
		if errors.Is(err, cbor.ErrNoMoreItems) {
			return n, d.Finish()
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

func TestTestDataRoundTrip(t *testing.T) {
	data := sampleTestData()

	b, err := encodeCBORTestData(cbor.NewEncoder(nil), data)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var d cbor.Decoder
	n, err := decodeCBORTestData(&d, b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// outer map, 5 scalars, tags array with 3 entries, scores map with 3 pairs
	if n != 1+5+1+len(data.Tags)+1+len(data.Scores) {
		t.Fatalf("got %d items", n)
	}

	m := encodeMsgpTestData(nil, data)
	if k, err := decodeMsgpTestData(m); err != nil || k != 1 {
		t.Fatalf("msgp skip: %d %v", k, err)
	}
}

func TestTestDataFixedBuffer(t *testing.T) {
	data := sampleTestData()
	full, err := encodeCBORTestData(cbor.NewEncoder(nil), data)
	if err != nil {
		t.Fatal(err)
	}
	for _, size := range []int{0, 1, len(full) / 2, len(full) - 1} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			_, err := encodeCBORTestData(cbor.NewEncoder(make([]byte, 0, size)), data)
			if !errors.Is(err, cbor.ErrBufferTooSmall) {
				t.Fatalf("got %v", err)
			}
		})
	}
}

func BenchmarkCBOR_EncodeTestData(b *testing.B) {
	data := sampleTestData()
	buf := make([]byte, 0, 256)
	var e cbor.Encoder
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Init(buf)
		if _, err := encodeCBORTestData(&e, data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMsgp_EncodeTestData(b *testing.B) {
	data := sampleTestData()
	buf := make([]byte, 0, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = encodeMsgpTestData(buf[:0], data)
	}
}

func BenchmarkCBOR_DecodeTestData(b *testing.B) {
	enc, err := encodeCBORTestData(cbor.NewEncoder(nil), sampleTestData())
	if err != nil {
		b.Fatal(err)
	}
	var d cbor.Decoder
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := decodeCBORTestData(&d, enc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMsgp_SkipTestData(b *testing.B) {
	enc := encodeMsgpTestData(nil, sampleTestData())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := decodeMsgpTestData(enc); err != nil {
			b.Fatal(err)
		}
	}
}
