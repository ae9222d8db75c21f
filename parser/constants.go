package parser

// Address Space Constants
const (
	// PageSize is the size of the zeroth page. Addresses below it are
	// reserved and cannot hold program bytes.
	PageSize = 0x100

	// RomCapacity is the full 16-bit address space.
	RomCapacity = 0x10000

	// ResetVector is the address where Uxn begins execution, and the
	// customary target of the first absolute pad.
	ResetVector = 0x0100
)

// Scanner Constants
const (
	// MaxWordLength is the byte count at which the scanner trims a token.
	MaxWordLength = 64
)

// Relative Addressing Constants
const (
	// MaxRelativeDistance bounds the signed offset of a relative address
	// literal in either direction.
	MaxRelativeDistance = 126
)
