package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	fxcbor "github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"

	cbor "github.com/synadia-labs/qcbor.go/runtime"
)

// Globals are the flags shared by every command.
type Globals struct {
	Verbose bool `short:"v" env:"QCBOR_VERBOSE" help:"Log decoder and encoder errors at debug level"`

	stdin  io.Reader `kong:"-"`
	stdout io.Writer `kong:"-"`
}

// CLI defines the qcbor command-line interface.
type CLI struct {
	Globals

	Diag     DiagCmd     `cmd:"" help:"Print diagnostic notation, one line per top-level item"`
	Check    CheckCmd    `cmd:"" help:"Decode every item and report the first error"`
	FromJSON FromJSONCmd `cmd:"" name:"from-json" help:"Convert JSON values to CBOR on stdout"`
}

// DiagCmd prints RFC 8949 diagnostic notation.
type DiagCmd struct {
	File      string `arg:"" optional:"" help:"Input file (stdin when omitted or -)"`
	Reference bool   `help:"Also print the fxamacker/cbor rendering of each item"`
}

// CheckCmd runs the structural decoder over the input.
type CheckCmd struct {
	File         string   `arg:"" optional:"" help:"Input file (stdin when omitted or -)"`
	PoolSize     int      `env:"QCBOR_POOL_SIZE" help:"Assemble strings in a fixed memory pool of this many bytes (0 uses the heap)"`
	StringsOnly  bool     `help:"Reject map labels that are not text strings"`
	NoIndefinite bool     `help:"Reject indefinite-length strings, arrays and maps"`
	Tag          []uint64 `help:"Caller tag to recognize (may be repeated)"`
}

// FromJSONCmd converts JSON to CBOR.
type FromJSONCmd struct {
	File    string `arg:"" optional:"" help:"Input file (stdin when omitted or -)"`
	MaxSize int    `help:"Fail when the output would exceed this many bytes (0 is unlimited)"`
}

func main() {
	cli := CLI{Globals: Globals{stdin: os.Stdin, stdout: os.Stdout}}
	ctx := kong.Parse(&cli,
		kong.Name("qcbor"),
		kong.Description("Inspect, validate and produce CBOR with the qcbor runtime."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(run(ctx, &cli.Globals))
}

func run(ctx *kong.Context, g *Globals) error {
	if g.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer func() { _ = l.Sync() }()
		cbor.SetLogger(l)
		defer cbor.SetLogger(nil)
	}
	return ctx.Run(g)
}

func (g *Globals) readInput(file string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if file == "" || file == "-" {
		data, err = io.ReadAll(g.stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func (c *DiagCmd) Run(g *Globals) error {
	data, err := g.readInput(c.File)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("empty input: expected CBOR data")
	}

	remaining := data
	for len(remaining) > 0 {
		offset := len(data) - len(remaining)
		notation, rest, err := cbor.DiagBytes(remaining)
		if err != nil {
			return fmt.Errorf("diagnose CBOR at byte %d: %w", offset, err)
		}
		if _, err := fmt.Fprintln(g.stdout, notation); err != nil {
			return err
		}
		if c.Reference {
			ref, _, err := fxcbor.DiagnoseFirst(remaining)
			if err != nil {
				ref = "error: " + err.Error()
			}
			if _, err := fmt.Fprintf(g.stdout, "# reference: %s\n", ref); err != nil {
				return err
			}
		}
		remaining = rest
	}
	return nil
}

func (c *CheckCmd) decoder(data []byte) (*cbor.Decoder, error) {
	mode := cbor.DecodeNormal
	if c.StringsOnly {
		mode |= cbor.DecodeMapStringsOnly
	}
	if c.NoIndefinite {
		mode |= cbor.DecodeNoIndefinite
	}
	d := cbor.NewDecoder(data, mode)
	if c.PoolSize > 0 {
		if err := d.SetMemPool(make([]byte, c.PoolSize), false); err != nil {
			return nil, fmt.Errorf("memory pool: %w", err)
		}
	} else {
		d.SetAllocator(cbor.HeapAllocator{}, false)
	}
	if len(c.Tag) > 0 {
		tags, err := cbor.NewTagList(c.Tag...)
		if err != nil {
			return nil, fmt.Errorf("tag list: %w", err)
		}
		d.SetCallerConfiguredTagList(tags)
	}
	return d, nil
}

func (c *CheckCmd) Run(g *Globals) error {
	data, err := g.readInput(c.File)
	if err != nil {
		return err
	}
	d, err := c.decoder(data)
	if err != nil {
		return err
	}

	items, top, maxDepth := 0, 0, 0
	for {
		it, err := d.GetNext()
		if errors.Is(err, cbor.ErrNoMoreItems) {
			break
		}
		if err != nil {
			return cbor.WrapError(err, "item", items, "offset", d.Tell())
		}
		items++
		if it.NestingLevel == 0 {
			top++
		}
		if depth := d.Depth(); depth > maxDepth {
			maxDepth = depth
		}
	}
	if err := d.Finish(); err != nil {
		return cbor.WrapError(err, "offset", d.Tell())
	}

	cbor.Logger().Debug("check complete",
		zap.Int("bytes", len(data)),
		zap.Int("items", items),
		zap.Int("pool_used", d.PoolUsed()),
	)
	_, err = fmt.Fprintf(g.stdout, "ok: %d top-level, %d items, max depth %d\n", top, items, maxDepth)
	return err
}

func (c *FromJSONCmd) Run(g *Globals) error {
	data, err := g.readInput(c.File)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return errors.New("empty input: expected JSON")
	}

	var e *cbor.Encoder
	if c.MaxSize > 0 {
		e = cbor.NewEncoder(make([]byte, 0, c.MaxSize))
	} else {
		e = cbor.NewEncoder(nil)
	}
	if err := cbor.FromJSON(bytes.NewReader(data), e); err != nil {
		return fmt.Errorf("convert JSON: %w", err)
	}
	out, err := e.Finish()
	if err != nil {
		return err
	}
	_, err = g.stdout.Write(out)
	return err
}
