package cmd

import "strings"

// pairsFlag represents a flag of Key=Val pairs, e.g. HTTP headers.
// Any repeats will not override. They will append. Values are kept
// as given and parsed once the configuration is resolved.
//
// format: a=1,b=2
type pairsFlag struct {
	vals []string
}

func (f *pairsFlag) String() string { return strings.Join(f.vals, ",") }

func (*pairsFlag) Type() string { return "pairs" }

func (f *pairsFlag) Set(val string) error {
	if val = strings.Trim(val, `"`); val != "" {
		f.vals = append(f.vals, val)
	}
	return nil
}

