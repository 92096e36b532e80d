package opcode

// Opcode represents a single operation code for the NEO virtual machine.
type Opcode byte

// Viable list of supported instruction constants.
const (
	// Constants
	PUSH0       Opcode = 0x00 // An empty array of bytes is pushed onto the stack.
	PUSHF       Opcode = PUSH0
	PUSHBYTES1  Opcode = 0x01 // 0x01-0x4B The next opcode bytes is data to be pushed onto the stack
	PUSHBYTES2  Opcode = 0x02
	PUSHBYTES3  Opcode = 0x03
	PUSHBYTES4  Opcode = 0x04
	PUSHBYTES5  Opcode = 0x05
	PUSHBYTES6  Opcode = 0x06
	PUSHBYTES7  Opcode = 0x07
	PUSHBYTES8  Opcode = 0x08
	PUSHBYTES9  Opcode = 0x09
	PUSHBYTES10 Opcode = 0x0A
	PUSHBYTES11 Opcode = 0x0B
	PUSHBYTES12 Opcode = 0x0C
	PUSHBYTES13 Opcode = 0x0D
	PUSHBYTES14 Opcode = 0x0E
	PUSHBYTES15 Opcode = 0x0F
	PUSHBYTES16 Opcode = 0x10
	PUSHBYTES17 Opcode = 0x11
	PUSHBYTES18 Opcode = 0x12
	PUSHBYTES19 Opcode = 0x13
	PUSHBYTES20 Opcode = 0x14
	PUSHBYTES21 Opcode = 0x15
	PUSHBYTES22 Opcode = 0x16
	PUSHBYTES23 Opcode = 0x17
	PUSHBYTES24 Opcode = 0x18
	PUSHBYTES25 Opcode = 0x19
	PUSHBYTES26 Opcode = 0x1A
	PUSHBYTES27 Opcode = 0x1B
	PUSHBYTES28 Opcode = 0x1C
	PUSHBYTES29 Opcode = 0x1D
	PUSHBYTES30 Opcode = 0x1E
	PUSHBYTES31 Opcode = 0x1F
	PUSHBYTES32 Opcode = 0x20
	PUSHBYTES33 Opcode = 0x21
	PUSHBYTES34 Opcode = 0x22
	PUSHBYTES35 Opcode = 0x23
	PUSHBYTES36 Opcode = 0x24
	PUSHBYTES37 Opcode = 0x25
	PUSHBYTES38 Opcode = 0x26
	PUSHBYTES39 Opcode = 0x27
	PUSHBYTES40 Opcode = 0x28
	PUSHBYTES41 Opcode = 0x29
	PUSHBYTES42 Opcode = 0x2A
	PUSHBYTES43 Opcode = 0x2B
	PUSHBYTES44 Opcode = 0x2C
	PUSHBYTES45 Opcode = 0x2D
	PUSHBYTES46 Opcode = 0x2E
	PUSHBYTES47 Opcode = 0x2F
	PUSHBYTES48 Opcode = 0x30
	PUSHBYTES49 Opcode = 0x31
	PUSHBYTES50 Opcode = 0x32
	PUSHBYTES51 Opcode = 0x33
	PUSHBYTES52 Opcode = 0x34
	PUSHBYTES53 Opcode = 0x35
	PUSHBYTES54 Opcode = 0x36
	PUSHBYTES55 Opcode = 0x37
	PUSHBYTES56 Opcode = 0x38
	PUSHBYTES57 Opcode = 0x39
	PUSHBYTES58 Opcode = 0x3A
	PUSHBYTES59 Opcode = 0x3B
	PUSHBYTES60 Opcode = 0x3C
	PUSHBYTES61 Opcode = 0x3D
	PUSHBYTES62 Opcode = 0x3E
	PUSHBYTES63 Opcode = 0x3F
	PUSHBYTES64 Opcode = 0x40
	PUSHBYTES65 Opcode = 0x41
	PUSHBYTES66 Opcode = 0x42
	PUSHBYTES67 Opcode = 0x43
	PUSHBYTES68 Opcode = 0x44
	PUSHBYTES69 Opcode = 0x45
	PUSHBYTES70 Opcode = 0x46
	PUSHBYTES71 Opcode = 0x47
	PUSHBYTES72 Opcode = 0x48
	PUSHBYTES73 Opcode = 0x49
	PUSHBYTES74 Opcode = 0x4A
	PUSHBYTES75 Opcode = 0x4B
	PUSHDATA1   Opcode = 0x4C // The next byte contains the number of bytes to be pushed onto the stack.
	PUSHDATA2   Opcode = 0x4D // The next two bytes contain the number of bytes to be pushed onto the stack.
	PUSHDATA4   Opcode = 0x4E // The next four bytes contain the number of bytes to be pushed onto the stack.
	PUSHM1      Opcode = 0x4F // The number -1 is pushed onto the stack.
	PUSHNULL    Opcode = 0x50 // Null is pushed onto the stack.
	PUSH1       Opcode = 0x51
	PUSHT       Opcode = PUSH1
	PUSH2       Opcode = 0x52
	PUSH3       Opcode = 0x53
	PUSH4       Opcode = 0x54
	PUSH5       Opcode = 0x55
	PUSH6       Opcode = 0x56
	PUSH7       Opcode = 0x57
	PUSH8       Opcode = 0x58
	PUSH9       Opcode = 0x59
	PUSH10      Opcode = 0x5A
	PUSH11      Opcode = 0x5B
	PUSH12      Opcode = 0x5C
	PUSH13      Opcode = 0x5D
	PUSH14      Opcode = 0x5E
	PUSH15      Opcode = 0x5F
	PUSH16      Opcode = 0x60

	// Flow control
	NOP      Opcode = 0x61
	JMP      Opcode = 0x62
	JMPIF    Opcode = 0x63
	JMPIFNOT Opcode = 0x64
	CALL     Opcode = 0x65
	RET      Opcode = 0x66
	APPCALL  Opcode = 0x67
	SYSCALL  Opcode = 0x68
	TAILCALL Opcode = 0x69

	// Stack
	DUPFROMALTSTACK       Opcode = 0x6A
	TOALTSTACK            Opcode = 0x6B // Puts the input onto the top of the alt stack. Removes it from the main stack.
	FROMALTSTACK          Opcode = 0x6C // Puts the input onto the top of the main stack. Removes it from the alt stack.
	XDROP                 Opcode = 0x6D
	DUPFROMALTSTACKBOTTOM Opcode = 0x6E
	ISNULL                Opcode = 0x70
	XSWAP                 Opcode = 0x72
	XTUCK                 Opcode = 0x73
	DEPTH                 Opcode = 0x74 // Puts the number of stack items onto the stack.
	DROP                  Opcode = 0x75 // Removes the top stack item.
	DUP                   Opcode = 0x76 // Duplicates the top stack item.
	NIP                   Opcode = 0x77 // Removes the second-to-top stack item.
	OVER                  Opcode = 0x78 // Copies the second-to-top stack item to the top.
	PICK                  Opcode = 0x79 // The item n back in the stack is copied to the top.
	ROLL                  Opcode = 0x7A // The item n back in the stack is moved to the top.
	ROT                   Opcode = 0x7B // The top three items on the stack are rotated to the left.
	SWAP                  Opcode = 0x7C // The top two items on the stack are swapped.
	TUCK                  Opcode = 0x7D // The item at the top of the stack is copied and inserted before the second-to-top item.

	// Splice
	CAT    Opcode = 0x7E // Concatenates two strings.
	SUBSTR Opcode = 0x7F // Returns a section of a string.
	LEFT   Opcode = 0x80 // Keeps only characters left of the specified point in a string.
	RIGHT  Opcode = 0x81 // Keeps only characters right of the specified point in a string.
	SIZE   Opcode = 0x82 // Returns the length of the input string.

	// Bitwise logic
	INVERT Opcode = 0x83 // Flips all of the bits in the input.
	AND    Opcode = 0x84 // Boolean and between each bit in the inputs.
	OR     Opcode = 0x85 // Boolean or between each bit in the inputs.
	XOR    Opcode = 0x86 // Boolean exclusive or between each bit in the inputs.
	EQUAL  Opcode = 0x87 // Returns 1 if the inputs are exactly equal, 0 otherwise.

	// Arithmetic
	INC         Opcode = 0x8B // 1 is added to the input.
	DEC         Opcode = 0x8C // 1 is subtracted from the input.
	SIGN        Opcode = 0x8D
	NEGATE      Opcode = 0x8F // The sign of the input is flipped.
	ABS         Opcode = 0x90 // The input is made positive.
	NOT         Opcode = 0x91 // If the input is 0 or 1, it is flipped. Otherwise the output will be 0.
	NZ          Opcode = 0x92 // Returns 0 if the input is 0. 1 otherwise.
	ADD         Opcode = 0x93 // a is added to b.
	SUB         Opcode = 0x94 // b is subtracted from a.
	MUL         Opcode = 0x95 // a is multiplied by b.
	DIV         Opcode = 0x96 // a is divided by b.
	MOD         Opcode = 0x97 // Returns the remainder after dividing a by b.
	SHL         Opcode = 0x98 // Shifts a left b bits, preserving sign.
	SHR         Opcode = 0x99 // Shifts a right b bits, preserving sign.
	BOOLAND     Opcode = 0x9A // If both a and b are not 0, the output is 1. Otherwise 0.
	BOOLOR      Opcode = 0x9B // If a or b is not 0, the output is 1. Otherwise 0.
	NUMEQUAL    Opcode = 0x9C // Returns 1 if the numbers are equal, 0 otherwise.
	NUMNOTEQUAL Opcode = 0x9E // Returns 1 if the numbers are not equal, 0 otherwise.
	LT          Opcode = 0x9F // Returns 1 if a is less than b, 0 otherwise.
	GT          Opcode = 0xA0 // Returns 1 if a is greater than b, 0 otherwise.
	LTE         Opcode = 0xA1 // Returns 1 if a is less than or equal to b, 0 otherwise.
	GTE         Opcode = 0xA2 // Returns 1 if a is greater than or equal to b, 0 otherwise.
	MIN         Opcode = 0xA3 // Returns the smaller of a and b.
	MAX         Opcode = 0xA4 // Returns the larger of a and b.
	WITHIN      Opcode = 0xA5 // Returns 1 if x is within the specified range (left-inclusive), 0 otherwise.

	// Crypto
	SHA1    Opcode = 0xA7 // The input is hashed using SHA-1.
	SHA256  Opcode = 0xA8 // The input is hashed using SHA-256.
	HASH160 Opcode = 0xA9
	HASH256 Opcode = 0xAA

	// Array
	ARRAYSIZE Opcode = 0xC0
	PACK      Opcode = 0xC1
	UNPACK    Opcode = 0xC2
	PICKITEM  Opcode = 0xC3
	SETITEM   Opcode = 0xC4
	NEWARRAY  Opcode = 0xC5 // Pops size from the stack and creates a new array with that length.
	NEWSTRUCT Opcode = 0xC6
	NEWMAP    Opcode = 0xC7
	APPEND    Opcode = 0xC8
	REVERSE   Opcode = 0xC9
	REMOVE    Opcode = 0xCA
	HASKEY    Opcode = 0xCB
	KEYS      Opcode = 0xCC
	VALUES    Opcode = 0xCD

	// Exceptions
	THROW      Opcode = 0xF0
	THROWIFNOT Opcode = 0xF1
)

// FromString converts a string representation to an Opcode.
func FromString(s string) (Opcode, error) {
	if op, ok := stringToOpcode[s]; ok {
		return op, nil
	}
	return 0, errUnknownName(s)
}

// IsValid returns true if the opcode passed is valid (defined in the VM).
func IsValid(op Opcode) bool {
	return opcodeNames[op] != ""
}

// IsPush returns true for opcodes that only push data onto the stack, these
// are the only ones allowed in push-only (invocation) scripts.
func IsPush(op Opcode) bool {
	return op <= PUSH16
}
