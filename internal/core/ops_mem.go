package core

// ops_mem.go covers the 5 load and 3 store opcodes (§4.4.3/§4.4.4). Both compute an effective
// address of rs1 + sign-extended immediate and route the access through the processor's memory
// map; width and sign behavior differ by mnemonic.

import "fmt"

func decodeLoad(ir Instruction) operation {
	switch ir.Funct3() {
	case 0x0:
		return &lb{decodeI(ir)}
	case 0x1:
		return &lh{decodeI(ir)}
	case 0x2:
		return &lw{decodeI(ir)}
	case 0x4:
		return &lbu{decodeI(ir)}
	case 0x5:
		return &lhu{decodeI(ir)}
	default:
		return invalid{ir}
	}
}

func decodeStore(ir Instruction) operation {
	switch ir.Funct3() {
	case 0x0:
		return &sb{decodeS(ir)}
	case 0x1:
		return &sh{decodeS(ir)}
	case 0x2:
		return &sw{decodeS(ir)}
	default:
		return invalid{ir}
	}
}

type lb struct{ iType }

func (op *lb) String() string { return fmt.Sprintf("lb %s, %s(%s)", op.rd, op.imm, op.rs1) }
func (op *lb) Execute(p *Processor) {
	addr := p.GPR.Get(op.rs1) + op.imm
	raw := p.Mem.Load(addr, 1)
	p.GPR.Set(op.rd, Word(SignExtend(uint32(raw), 8)))
}

type lh struct{ iType }

func (op *lh) String() string { return fmt.Sprintf("lh %s, %s(%s)", op.rd, op.imm, op.rs1) }
func (op *lh) Execute(p *Processor) {
	addr := p.GPR.Get(op.rs1) + op.imm
	raw := p.Mem.Load(addr, 2)
	p.GPR.Set(op.rd, Word(SignExtend(uint32(raw), 16)))
}

type lw struct{ iType }

func (op *lw) String() string { return fmt.Sprintf("lw %s, %s(%s)", op.rd, op.imm, op.rs1) }
func (op *lw) Execute(p *Processor) {
	addr := p.GPR.Get(op.rs1) + op.imm
	p.GPR.Set(op.rd, p.Mem.Load(addr, 4))
}

type lbu struct{ iType }

func (op *lbu) String() string { return fmt.Sprintf("lbu %s, %s(%s)", op.rd, op.imm, op.rs1) }
func (op *lbu) Execute(p *Processor) {
	addr := p.GPR.Get(op.rs1) + op.imm
	p.GPR.Set(op.rd, p.Mem.Load(addr, 1))
}

type lhu struct{ iType }

func (op *lhu) String() string { return fmt.Sprintf("lhu %s, %s(%s)", op.rd, op.imm, op.rs1) }
func (op *lhu) Execute(p *Processor) {
	addr := p.GPR.Get(op.rs1) + op.imm
	p.GPR.Set(op.rd, p.Mem.Load(addr, 2))
}

type sb struct{ sType }

func (op *sb) String() string { return fmt.Sprintf("sb %s, %s(%s)", op.rs2, op.imm, op.rs1) }
func (op *sb) Execute(p *Processor) {
	addr := p.GPR.Get(op.rs1) + op.imm
	p.Mem.Store(addr, 1, p.GPR.Get(op.rs2))
}

type sh struct{ sType }

func (op *sh) String() string { return fmt.Sprintf("sh %s, %s(%s)", op.rs2, op.imm, op.rs1) }
func (op *sh) Execute(p *Processor) {
	addr := p.GPR.Get(op.rs1) + op.imm
	p.Mem.Store(addr, 2, p.GPR.Get(op.rs2))
}

type sw struct{ sType }

func (op *sw) String() string { return fmt.Sprintf("sw %s, %s(%s)", op.rs2, op.imm, op.rs1) }
func (op *sw) Execute(p *Processor) {
	addr := p.GPR.Get(op.rs1) + op.imm
	p.Mem.Store(addr, 4, p.GPR.Get(op.rs2))
}
