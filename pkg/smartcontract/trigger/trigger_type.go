package trigger

import "fmt"

// Type represents trigger type used in C# reference node: https://github.com/neo-project/neo/blob/master-2.x/neo/SmartContract/TriggerType.cs
type Type byte

// Viable list of supported trigger type constants.
const (
	// The verification trigger indicates that the contract is being invoked as a verification function.
	// The verification function can accept multiple parameters, and should return a boolean value that indicates the validity of the transaction or block.
	// The entry point of the contract will be invoked if the contract is triggered by Verification:
	//     main(...);
	// The entry point of the contract must be able to handle this type of invocation.
	Verification Type = 0x00

	// VerificationR is a verification trigger invoked when the contract
	// receives assets.
	VerificationR Type = 0x01

	// The application trigger indicates that the contract is being invoked as an application function.
	// The application function can accept multiple parameters, change the states of the blockchain, and return any type of value.
	// The contract can have any form of entry point, but we recommend that all contracts should have the following entry point:
	//     public byte[] main(string operation, params object[] args)
	// The functions can be invoked by creating an InvocationTransaction.
	Application Type = 0x10

	// ApplicationR is an application trigger invoked when the contract
	// receives assets.
	ApplicationR Type = 0x11
)

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	switch t {
	case Verification:
		return "Verification"
	case VerificationR:
		return "VerificationR"
	case Application:
		return "Application"
	case ApplicationR:
		return "ApplicationR"
	default:
		return fmt.Sprintf("Type(%d)", byte(t))
	}
}

// FromString converts string to trigger Type.
func FromString(str string) (Type, error) {
	triggers := []Type{Verification, VerificationR, Application, ApplicationR}
	for _, t := range triggers {
		if t.String() == str {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown trigger type: %s", str)
}
