package core

// ops_jump.go covers JAL, JALR, LUI, and AUIPC (§4.4.6/§4.4.7). All four write a result register;
// JAL and JALR also redirect control flow.

import "fmt"

type jal struct{ jType }

func (op *jal) String() string { return fmt.Sprintf("jal %s, %s", op.rd, op.imm) }
func (op *jal) Execute(p *Processor) {
	p.GPR.Set(op.rd, Word(p.PC+4))
	p.nextPC = uint32(p.PC) + uint32(op.imm)
}

type jalr struct{ iType }

func (op *jalr) String() string { return fmt.Sprintf("jalr %s, %s(%s)", op.rd, op.imm, op.rs1) }
func (op *jalr) Execute(p *Processor) {
	target := (uint32(p.GPR.Get(op.rs1)) + uint32(op.imm)) &^ 1
	p.GPR.Set(op.rd, Word(p.PC+4))
	p.nextPC = target
}

type lui struct{ uType }

func (op *lui) String() string { return fmt.Sprintf("lui %s, %s", op.rd, op.imm) }
func (op *lui) Execute(p *Processor) {
	p.GPR.Set(op.rd, op.imm)
}

type auipc struct{ uType }

func (op *auipc) String() string { return fmt.Sprintf("auipc %s, %s", op.rd, op.imm) }
func (op *auipc) Execute(p *Processor) {
	p.GPR.Set(op.rd, Word(p.PC)+op.imm)
}
