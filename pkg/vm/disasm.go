package vm

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Disassemble decodes all the instructions of the script. Decoding stops at
// the first malformed instruction returning the ones decoded before it.
func Disassemble(code []byte) ([]Instruction, error) {
	var res []Instruction
	for pos := 0; pos < len(code); {
		ins, err := decodeInstruction(code, pos, len(code))
		if err != nil {
			return res, fmt.Errorf("at %d: %w", pos, err)
		}
		res = append(res, ins)
		pos = ins.Next
	}
	return res, nil
}

// PrintOps writes the script listing to w, one instruction per line. The
// instruction at current (if any) is marked.
func PrintOps(w io.Writer, code []byte, current int) error {
	ins, decErr := Disassemble(code)
	tw := tabwriter.NewWriter(w, 0, 0, 4, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tOPCODE\tPARAMETER\t")
	for _, i := range ins {
		var mark string
		if i.Pos == current {
			mark = "<<"
		}
		param := i.String()[len(i.Op.String()):]
		if len(param) > 0 {
			param = param[1:]
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i.Pos, i.Op, param, mark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return decErr
}
