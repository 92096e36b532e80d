/*
Package smartcontract contains the contract parameter types used at the VM
boundary. Final execution stacks are exported as Parameters, contract states
describe their arguments with ParamTypes and the CLI parses invocation
arguments into Parameters to emit them into scripts.
*/
package smartcontract
