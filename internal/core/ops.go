package core

// ops.go defines the 37 RV32I opcodes and invalid-encoding fallback as a closed set of operation
// types, plus the decode dispatch that turns a raw instruction word into one of them.
//
// Each concrete type embeds the instruction-format struct that matches its encoding (rType,
// iType, sType, bType, uType, jType) and implements Execute, which is the only phase this ISA
// needs beyond decode: register operands are read, the ALU/branch/jump/memory effect is computed,
// and any register or PC write is applied, all within one call. Step (exec.go) guarantees this
// happens atomically from the caller's perspective.

import "fmt"

// Primary opcode values, bits [6:0] of the instruction word.
const (
	OpcodeR      = 0x33 // register-register ALU
	OpcodeI      = 0x13 // register-immediate ALU and shifts
	OpcodeLoad   = 0x03
	OpcodeStore  = 0x23
	OpcodeBranch = 0x63
	OpcodeJAL    = 0x6f
	OpcodeJALR   = 0x67
	OpcodeAUIPC  = 0x17
	OpcodeLUI    = 0x37
)

// operation is a decoded instruction ready to execute. There is one concrete type per RV32I
// mnemonic (37 of them) plus invalid, for malformed encodings.
type operation interface {
	fmt.Stringer

	// Execute reads its operands from the processor, computes its effect, and writes any
	// register or memory result. It may override p.nextPC for branches and jumps.
	Execute(p *Processor)
}

// rType holds the fields common to register-register ALU operations.
type rType struct {
	rd, rs1, rs2 GPR
}

func decodeR(ir Instruction) rType {
	return rType{rd: ir.RD(), rs1: ir.RS1(), rs2: ir.RS2()}
}

// iType holds the fields common to register-immediate ALU, shift-immediate, load, and JALR
// operations.
type iType struct {
	rd, rs1 GPR
	imm     Word
}

func decodeI(ir Instruction) iType {
	return iType{rd: ir.RD(), rs1: ir.RS1(), imm: ir.ImmI()}
}

// sType holds the fields common to store operations.
type sType struct {
	rs1, rs2 GPR
	imm      Word
}

func decodeS(ir Instruction) sType {
	return sType{rs1: ir.RS1(), rs2: ir.RS2(), imm: ir.ImmS()}
}

// bType holds the fields common to branch operations.
type bType struct {
	rs1, rs2 GPR
	imm      Word
}

func decodeB(ir Instruction) bType {
	return bType{rs1: ir.RS1(), rs2: ir.RS2(), imm: ir.ImmB()}
}

// uType holds the fields common to LUI and AUIPC.
type uType struct {
	rd  GPR
	imm Word
}

func decodeU(ir Instruction) uType {
	return uType{rd: ir.RD(), imm: ir.ImmU()}
}

// jType holds the fields common to JAL.
type jType struct {
	rd  GPR
	imm Word
}

func decodeJ(ir Instruction) jType {
	return jType{rd: ir.RD(), imm: ir.ImmJ()}
}

// invalid is the catch-all for any encoding the decoder does not recognize. Per spec, execution
// is a silent no-op; the caller still advances PC by 4 as usual.
type invalid struct {
	raw Instruction
}

func (op invalid) String() string { return fmt.Sprintf("invalid %s", Word(op.raw)) }
func (invalid) Execute(*Processor) {}

// Disassemble returns the mnemonic form of ir, e.g. "addi x1, x0, 5", the same text an operation's
// String method produces. It is a thin wrapper over Decode for callers that only want text, such
// as the step CLI command, without holding onto the decoded operation itself.
func Disassemble(ir Instruction) string {
	return Decode(ir).String()
}

// Decode dispatches a raw instruction word to its operation. Undefined opcode/funct3/funct7
// combinations decode to invalid.
func Decode(ir Instruction) operation {
	switch ir.Opcode() {
	case OpcodeR:
		return decodeRType(ir)
	case OpcodeI:
		return decodeIType(ir)
	case OpcodeLoad:
		return decodeLoad(ir)
	case OpcodeStore:
		return decodeStore(ir)
	case OpcodeBranch:
		return decodeBranch(ir)
	case OpcodeJAL:
		return &jal{decodeJ(ir)}
	case OpcodeJALR:
		if ir.Funct3() != 0 {
			return invalid{ir}
		}

		return &jalr{decodeI(ir)}
	case OpcodeLUI:
		return &lui{decodeU(ir)}
	case OpcodeAUIPC:
		return &auipc{decodeU(ir)}
	default:
		return invalid{ir}
	}
}
