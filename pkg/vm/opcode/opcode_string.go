package opcode

import "fmt"

var opcodeNames = [256]string{
	PUSH0:                "PUSH0",
	PUSHBYTES1:           "PUSHBYTES1",
	PUSHBYTES75:          "PUSHBYTES75",
	PUSHDATA1:            "PUSHDATA1",
	PUSHDATA2:            "PUSHDATA2",
	PUSHDATA4:            "PUSHDATA4",
	PUSHM1:               "PUSHM1",
	PUSHNULL:             "PUSHNULL",
	PUSH1:                "PUSH1",
	PUSH2:                "PUSH2",
	PUSH3:                "PUSH3",
	PUSH4:                "PUSH4",
	PUSH5:                "PUSH5",
	PUSH6:                "PUSH6",
	PUSH7:                "PUSH7",
	PUSH8:                "PUSH8",
	PUSH9:                "PUSH9",
	PUSH10:               "PUSH10",
	PUSH11:               "PUSH11",
	PUSH12:               "PUSH12",
	PUSH13:               "PUSH13",
	PUSH14:               "PUSH14",
	PUSH15:               "PUSH15",
	PUSH16:               "PUSH16",
	NOP:                  "NOP",
	JMP:                  "JMP",
	JMPIF:                "JMPIF",
	JMPIFNOT:             "JMPIFNOT",
	CALL:                 "CALL",
	RET:                  "RET",
	APPCALL:              "APPCALL",
	SYSCALL:              "SYSCALL",
	TAILCALL:             "TAILCALL",
	DUPFROMALTSTACK:      "DUPFROMALTSTACK",
	TOALTSTACK:           "TOALTSTACK",
	FROMALTSTACK:         "FROMALTSTACK",
	XDROP:                "XDROP",
	DUPFROMALTSTACKBOTTOM:"DUPFROMALTSTACKBOTTOM",
	ISNULL:               "ISNULL",
	XSWAP:                "XSWAP",
	XTUCK:                "XTUCK",
	DEPTH:                "DEPTH",
	DROP:                 "DROP",
	DUP:                  "DUP",
	NIP:                  "NIP",
	OVER:                 "OVER",
	PICK:                 "PICK",
	ROLL:                 "ROLL",
	ROT:                  "ROT",
	SWAP:                 "SWAP",
	TUCK:                 "TUCK",
	CAT:                  "CAT",
	SUBSTR:               "SUBSTR",
	LEFT:                 "LEFT",
	RIGHT:                "RIGHT",
	SIZE:                 "SIZE",
	INVERT:               "INVERT",
	AND:                  "AND",
	OR:                   "OR",
	XOR:                  "XOR",
	EQUAL:                "EQUAL",
	INC:                  "INC",
	DEC:                  "DEC",
	SIGN:                 "SIGN",
	NEGATE:               "NEGATE",
	ABS:                  "ABS",
	NOT:                  "NOT",
	NZ:                   "NZ",
	ADD:                  "ADD",
	SUB:                  "SUB",
	MUL:                  "MUL",
	DIV:                  "DIV",
	MOD:                  "MOD",
	SHL:                  "SHL",
	SHR:                  "SHR",
	BOOLAND:              "BOOLAND",
	BOOLOR:               "BOOLOR",
	NUMEQUAL:             "NUMEQUAL",
	NUMNOTEQUAL:          "NUMNOTEQUAL",
	LT:                   "LT",
	GT:                   "GT",
	LTE:                  "LTE",
	GTE:                  "GTE",
	MIN:                  "MIN",
	MAX:                  "MAX",
	WITHIN:               "WITHIN",
	SHA1:                 "SHA1",
	SHA256:               "SHA256",
	HASH160:              "HASH160",
	HASH256:              "HASH256",
	ARRAYSIZE:            "ARRAYSIZE",
	PACK:                 "PACK",
	UNPACK:               "UNPACK",
	PICKITEM:             "PICKITEM",
	SETITEM:              "SETITEM",
	NEWARRAY:             "NEWARRAY",
	NEWSTRUCT:            "NEWSTRUCT",
	NEWMAP:               "NEWMAP",
	APPEND:               "APPEND",
	REVERSE:              "REVERSE",
	REMOVE:               "REMOVE",
	HASKEY:               "HASKEY",
	KEYS:                 "KEYS",
	VALUES:               "VALUES",
	THROW:                "THROW",
	THROWIFNOT:           "THROWIFNOT",
}

var stringToOpcode = make(map[string]Opcode, 256)

func init() {
	for i := PUSHBYTES1 + 1; i < PUSHBYTES75; i++ {
		opcodeNames[i] = fmt.Sprintf("PUSHBYTES%d", i)
	}
	for i, s := range opcodeNames {
		if s != "" {
			stringToOpcode[s] = Opcode(i)
		}
	}
}

func errUnknownName(s string) error {
	return fmt.Errorf("unknown opcode name: %s", s)
}

// String implements the fmt.Stringer interface.
func (i Opcode) String() string {
	if s := opcodeNames[i]; s != "" {
		return s
	}
	return fmt.Sprintf("Opcode(%d)", byte(i))
}
