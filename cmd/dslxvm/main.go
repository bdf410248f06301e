// Command dslxvm is a minimal demo driver for the bytecode interpreter
// core: it runs one of a handful of hand-built sample programs and
// prints the resulting InterpValue. Parsing real DSLx source into
// bytecode is an external emitter's job (out of scope here, spec §1);
// this binary exists only to exercise the interpreter end to end.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bits"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/cache"
	"github.com/dslx-project/bcvm/config"
	"github.com/dslx-project/bcvm/interp"
	"github.com/dslx-project/bcvm/value"
)

var samples = map[string]func() *bytecode.Function{
	"add":    sampleAdd,
	"concat": sampleConcat,
	"shr":    sampleShr,
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-sample name] [-manifest-dir dir]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "available samples:\n")
	for name := range samples {
		fmt.Fprintf(os.Stderr, "  %s\n", name)
	}
}

func main() {
	flag.Usage = usage
	sampleName := flag.String("sample", "add", "sample program to run")
	manifestDir := flag.String("manifest-dir", ".", "directory to search for dslxvm.toml")
	flag.Parse()

	build, ok := samples[*sampleName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown sample %q\n", *sampleName)
		usage()
		os.Exit(2)
	}

	manifest, err := config.FindAndLoad(*manifestDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dslxvm: %v\n", err)
		os.Exit(1)
	}

	logger := interp.NewStdLogger()
	if !manifest.Trace.Verbose {
		logger = interp.Logger(discardLogger{})
	}

	vm := interp.New(noImportData{}, cache.New(), nil, logger)
	result, err := vm.Interpret(build(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dslxvm: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(result.String())
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}

type noImportData struct{}

func (noImportData) RootTypeInfo(astiface.Module) (astiface.TypeInfo, bool) { return nil, false }

func sampleAdd() *bytecode.Function {
	span := astiface.Span{File: "sample:add"}
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, Span: span, LiteralValue: value.UBitsValue{Bits: bits.FromUint64(32, 3)}},
		{Op: bytecode.OpLiteral, Span: span, LiteralValue: value.UBitsValue{Bits: bits.FromUint64(32, 4)}},
		{Op: bytecode.OpAdd, Span: span},
	}
	return bytecode.Create(nil, nil, nil, 0, 0, code)
}

func sampleConcat() *bytecode.Function {
	span := astiface.Span{File: "sample:concat"}
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, Span: span, LiteralValue: value.UBitsValue{Bits: bits.FromUint64(4, 0b1010)}},
		{Op: bytecode.OpLiteral, Span: span, LiteralValue: value.UBitsValue{Bits: bits.FromUint64(4, 0b0011)}},
		{Op: bytecode.OpConcat, Span: span},
	}
	return bytecode.Create(nil, nil, nil, 0, 0, code)
}

func sampleShr() *bytecode.Function {
	span := astiface.Span{File: "sample:shr"}
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, Span: span, LiteralValue: value.SBitsValue{Bits: bits.FromInt64(8, -1)}},
		{Op: bytecode.OpLiteral, Span: span, LiteralValue: value.UBitsValue{Bits: bits.FromUint64(8, 7)}},
		{Op: bytecode.OpShr, Span: span},
	}
	return bytecode.Create(nil, nil, nil, 0, 0, code)
}
