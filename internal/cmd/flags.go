package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// repeatableStrings is a pflag.Value that collects every occurrence of a
// repeatable flag (e.g. `--host A --host B`) in the order given, for flags
// that need custom aggregation beyond what pflag's built-ins provide.
type repeatableStrings struct {
	values *[]string
}

func newRepeatableStrings(dst *[]string) *repeatableStrings {
	return &repeatableStrings{values: dst}
}

func (f *repeatableStrings) String() string {
	if f.values == nil {
		return ""
	}
	return strings.Join(*f.values, ",")
}

func (f *repeatableStrings) Set(s string) error {
	*f.values = append(*f.values, s)
	return nil
}

func (f *repeatableStrings) Type() string { return "string" }

// printFormat is a pflag.Value restricted to the closed set of `ls --print`
// formats.
type printFormat struct {
	value *string
}

const (
	printGrouped = "grouped"
	printRef     = "ref"
	printCommit  = "commit"
)

func newPrintFormat(dst *string) *printFormat {
	*dst = printGrouped
	return &printFormat{value: dst}
}

func (f *printFormat) String() string {
	if f.value == nil {
		return printGrouped
	}
	return *f.value
}

func (f *printFormat) Set(s string) error {
	switch s {
	case printGrouped, printRef, printCommit:
		*f.value = s
		return nil
	default:
		return fmt.Errorf("invalid --print value %q, must be one of: ref, commit, grouped", s)
	}
}

func (f *printFormat) Type() string { return "ref|commit|grouped" }

var _ pflag.Value = (*repeatableStrings)(nil)
var _ pflag.Value = (*printFormat)(nil)
