package cpu

// opcodeFn executes one decoded instruction and returns its cost in
// m-cycles. Table-driven dispatch: an array of function pointers indexed
// by opcode byte, populated by the init() functions in opcodes.go and
// opcodes_cb.go.
type opcodeFn func(c *CPU) int

var primaryOpcodes [256]opcodeFn
var cbOpcodes [256]opcodeFn

var primaryMnemonics [256]string
var cbMnemonics [256]string
