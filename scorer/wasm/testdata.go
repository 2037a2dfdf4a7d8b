package wasm

// Minimal scoring policy used by tests. Exports memory and
// (func $score (param i32 i32) (result f64)) returning the constant 42.
var constScoreModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // WASM_BINARY_MAGIC
	0x01, 0x00, 0x00, 0x00, // WASM_BINARY_VERSION
	// Type section
	0x01, 0x07, // section id, section size (7 bytes)
	0x01,                               // number of types
	0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7c, // (func (param i32 i32) (result f64))
	// Function section
	0x03, 0x02, // section id, section size
	0x01, // number of functions
	0x00, // function 0, type 0
	// Memory section
	0x05, 0x03, // section id, section size
	0x01,       // number of memories
	0x00, 0x01, // memory 0: min=1 page
	// Export section
	0x07, 0x12, // section id, section size (18 bytes)
	0x02,                                                 // number of exports
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00, // export "memory"
	0x05, 0x73, 0x63, 0x6f, 0x72, 0x65, 0x00, 0x00, // export "score"
	// Code section
	0x0a, 0x0d, // section id, section size (13 bytes)
	0x01,                                                       // number of functions
	0x0b,                                                       // function body size (11 bytes)
	0x00,                                                       // number of local declarations
	0x44, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x45, 0x40, // f64.const 42.0
	0x0b, // end
}

// Same shape as constScoreModule but returns NaN, for exercising the
// non-finite fitness rejection path.
var nanScoreModule = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	0x01, 0x07,
	0x01,
	0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7c,
	0x03, 0x02,
	0x01,
	0x00,
	0x05, 0x03,
	0x01,
	0x00, 0x01,
	0x07, 0x12,
	0x02,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x05, 0x73, 0x63, 0x6f, 0x72, 0x65, 0x00, 0x00,
	0x0a, 0x0d,
	0x01,
	0x0b,
	0x00,
	0x44, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf8, 0x7f, // f64.const NaN
	0x0b,
}

// ConstScoreModule returns a policy that scores every state 42.
func ConstScoreModule() []byte {
	return constScoreModule
}

// NaNScoreModule returns a policy that violates the finite-fitness
// contract.
func NaNScoreModule() []byte {
	return nanScoreModule
}
