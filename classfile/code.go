package classfile

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/jvm-classgen/classfile/internal/binary"
	"github.com/wippyai/jvm-classgen/errors"
)

// maxCodeLength is the largest code_length the JVM accepts.
const maxCodeLength = math.MaxUint16

// RefWidth is the number of operand bytes used for a constant pool index.
type RefWidth int

const (
	RefNarrow RefWidth = 1 // ldc, and other single-byte index operands
	RefWide   RefWidth = 2
)

// Code is a method's Code attribute: its instruction stream, labels,
// exception table and nested attributes.
//
// Code starts in the building state. Finalize assigns every instruction a
// byte position; any later emission or handler addition returns it to the
// building state. Encode always finalizes before writing.
type Code struct {
	method       *Method
	name         *ConstantUtf8
	instructions []*Instruction
	labels       []*Label
	handlers     []*ExceptionHandler
	attributes   attributeList
	length       int
	finalized    bool

	// MaxStack is the max_stack value written for the method.
	MaxStack uint16
	// MaxLocals is the max_locals value written for the method.
	MaxLocals uint16
}

func newCode(m *Method) *Code {
	return &Code{
		method: m,
		name:   m.owner.InternUtf8("Code"),
	}
}

func (c *Code) Name() *ConstantUtf8 { return c.name }
func (c *Code) Owner() *Class { return c.method.owner }
func (c *Code) attribute() {}

// Method returns the method the code belongs to.
func (c *Code) Method() *Method {
	return c.method
}

// Finalized reports whether positions are assigned and current.
func (c *Code) Finalized() bool {
	return c.finalized
}

// Instructions returns the instruction stream in emission order.
func (c *Code) Instructions() []*Instruction {
	return append([]*Instruction(nil), c.instructions...)
}

// Handlers returns the exception table in insertion order.
func (c *Code) Handlers() []*ExceptionHandler {
	return append([]*ExceptionHandler(nil), c.handlers...)
}

// Emit appends an instruction without operands.
func (c *Code) Emit(op Opcode) *Instruction {
	return c.append(&Instruction{op: op})
}

// EmitBytes appends an instruction followed by immediate operand bytes,
// such as a local variable index or a bipush value.
func (c *Code) EmitBytes(op Opcode, operands ...byte) *Instruction {
	return c.append(&Instruction{op: op, operands: append([]byte(nil), operands...)})
}

// EmitConstant appends an instruction referencing a pool entry with an
// operand of the given width. Extra bytes are written after the index, as
// invokeinterface and multianewarray require.
func (c *Code) EmitConstant(op Opcode, k Constant, width RefWidth, extra ...byte) (*Instruction, error) {
	if err := c.Owner().checkOwned(k, op.String()+" operand"); err != nil {
		return nil, err
	}
	if width != RefNarrow && width != RefWide {
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			Path(c.path()...).
			Detail("invalid reference width %d", width).
			Build()
	}
	return c.append(&Instruction{
		op:       op,
		constant: k,
		width:    width,
		operands: append([]byte(nil), extra...),
	}), nil
}

// EmitLdc loads a constant, choosing ldc2_w for Long and Double entries,
// ldc when the index fits a byte and ldc_w otherwise.
func (c *Code) EmitLdc(k Constant) (*Instruction, error) {
	if err := c.Owner().checkOwned(k, "ldc operand"); err != nil {
		return nil, err
	}
	switch k.(type) {
	case *ConstantLong, *ConstantDouble:
		return c.EmitConstant(OpLdc2W, k, RefWide)
	case *ConstantInteger, *ConstantFloat, *ConstantString, *ConstantClass:
		if k.Index() <= math.MaxUint8 {
			return c.EmitConstant(OpLdc, k, RefNarrow)
		}
		return c.EmitConstant(OpLdcW, k, RefWide)
	}
	return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
		Path(c.path()...).
		Detail("%s cannot be loaded with ldc", describe(k)).
		Build()
}

// EmitJump appends a branch to target. goto_w and jsr_w take a four-byte
// offset; every other branch takes two.
func (c *Code) EmitJump(op Opcode, target *Label) (*Instruction, error) {
	if !op.IsBranch() && op != OpGotoW && op != OpJsrW {
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			Path(c.path()...).
			Detail("%s is not a branch instruction", op).
			Build()
	}
	if err := c.checkLabel(target); err != nil {
		return nil, err
	}
	return c.append(&Instruction{op: op, target: target}), nil
}

func (c *Code) append(instr *Instruction) *Instruction {
	instr.code = c
	instr.pos = -1
	c.instructions = append(c.instructions, instr)
	c.finalized = false
	return instr
}

// NewLabel creates an unbound label.
func (c *Code) NewLabel() *Label {
	l := &Label{code: c, id: len(c.labels)}
	c.labels = append(c.labels, l)
	return l
}

// Bind attaches label to instr. A label can be bound once, and only to an
// instruction of the same code attribute.
func (c *Code) Bind(label *Label, instr *Instruction) error {
	if err := c.checkLabel(label); err != nil {
		return err
	}
	if instr == nil || instr.code != c {
		return errors.ForeignInstruction(c.path())
	}
	if label.instr != nil {
		return errors.LabelAlreadyBound(c.path(), label.String())
	}
	label.instr = instr
	return nil
}

func (c *Code) checkLabel(l *Label) error {
	if l == nil {
		return errors.InvalidInput(errors.PhaseBuild, "label is nil")
	}
	if l.code != c {
		return errors.ForeignLabel(c.path(), l.String())
	}
	return nil
}

// AddExceptionHandler appends an exception table entry covering [start, end)
// and jumping to handler. A nil catchType catches everything. Entries are
// written in insertion order.
func (c *Code) AddExceptionHandler(start, end, handler *Label, catchType *ConstantClass) (*ExceptionHandler, error) {
	for _, l := range []*Label{start, end, handler} {
		if err := c.checkLabel(l); err != nil {
			return nil, err
		}
	}
	if catchType != nil {
		if err := c.Owner().checkOwned(catchType, "catch type"); err != nil {
			return nil, err
		}
	}
	h := &ExceptionHandler{start: start, end: end, handler: handler, catchType: catchType}
	c.handlers = append(c.handlers, h)
	c.finalized = false
	return h, nil
}

// AddAttribute attaches a nested attribute, such as a raw LineNumberTable.
func (c *Code) AddAttribute(a Attribute) error {
	if err := c.Owner().checkAttribute(a); err != nil {
		return err
	}
	if _, ok := a.(*Code); ok {
		return errors.InvalidInput(errors.PhaseBuild, "Code attribute cannot be nested")
	}
	c.attributes.add(a)
	return nil
}

// RemoveAttribute detaches a nested attribute.
func (c *Code) RemoveAttribute(a Attribute) bool {
	return c.attributes.remove(a)
}

// Attributes returns the nested attributes in insertion order.
func (c *Code) Attributes() []Attribute {
	return c.attributes.list()
}

// Finalize assigns each instruction its byte offset. Calling it again
// without intervening changes is a no-op.
func (c *Code) Finalize() error {
	if c.finalized {
		return nil
	}
	pos := 0
	for _, instr := range c.instructions {
		instr.pos = pos
		pos += instr.Size()
	}
	if pos > maxCodeLength {
		for _, instr := range c.instructions {
			instr.pos = -1
		}
		return errors.Overflow(errors.PhaseFinalize, c.path(), pos, "code_length")
	}
	c.length = pos
	c.finalized = true

	Logger().Debug("code finalized",
		zap.String("class", c.Owner().Name()),
		zap.String("method", c.method.name.value+c.method.descriptor.value),
		zap.Int("length", pos),
		zap.Int("instructions", len(c.instructions)))
	return nil
}

// CodeLength returns the size of the instruction stream in bytes.
func (c *Code) CodeLength() int {
	if c.finalized {
		return c.length
	}
	n := 0
	for _, instr := range c.instructions {
		n += instr.Size()
	}
	return n
}

// Length returns the attribute_length of the Code attribute.
func (c *Code) Length() int {
	return 2 + 2 + 4 + c.CodeLength() + 2 + 8*len(c.handlers) + c.attributes.size()
}

func (c *Code) path() []string {
	return append(c.method.path(), "Code")
}

func (c *Code) write(w *binary.Writer) error {
	if !c.finalized {
		if err := c.Finalize(); err != nil {
			return err
		}
	}
	path := c.path()

	w.WriteU16(c.MaxStack)
	w.WriteU16(c.MaxLocals)
	w.WriteU32(uint32(c.length))
	for _, instr := range c.instructions {
		if err := instr.write(w, path); err != nil {
			return err
		}
	}

	if err := writeCount(w, len(c.handlers), path, "exception_table_length"); err != nil {
		return err
	}
	for _, h := range c.handlers {
		if err := h.write(w, path); err != nil {
			return err
		}
	}
	return writeAttributes(w, &c.attributes, path)
}

// Instruction is one opcode with its operands.
type Instruction struct {
	code     *Code
	target   *Label
	constant Constant
	operands []byte
	pos      int
	op       Opcode
	width    RefWidth
}

// Opcode returns the instruction's opcode.
func (i *Instruction) Opcode() Opcode { return i.op }

// Constant returns the referenced pool entry, or nil.
func (i *Instruction) Constant() Constant { return i.constant }

// Target returns the branch target, or nil.
func (i *Instruction) Target() *Label { return i.target }

// Operands returns the immediate bytes written after the opcode and any
// pool index.
func (i *Instruction) Operands() []byte { return append([]byte(nil), i.operands...) }

// Position returns the byte offset assigned by Finalize. The second result
// is false while the code is not finalized.
func (i *Instruction) Position() (int, bool) {
	if i.pos < 0 || !i.code.finalized {
		return 0, false
	}
	return i.pos, true
}

// Size returns the encoded size in bytes.
func (i *Instruction) Size() int {
	n := 1 + len(i.operands)
	if i.constant != nil {
		n += int(i.width)
	}
	if i.target != nil {
		n += i.offsetSize()
	}
	return n
}

func (i *Instruction) offsetSize() int {
	if i.op == OpGotoW || i.op == OpJsrW {
		return 4
	}
	return 2
}

func (i *Instruction) String() string {
	switch {
	case i.target != nil:
		return fmt.Sprintf("%s %s", i.op, i.target)
	case i.constant != nil:
		return fmt.Sprintf("%s #%d", i.op, i.constant.Index())
	case len(i.operands) > 0:
		return fmt.Sprintf("%s %v", i.op, i.operands)
	}
	return i.op.String()
}

func (i *Instruction) write(w *binary.Writer, path []string) error {
	w.Byte(byte(i.op))

	if i.constant != nil {
		index := i.constant.Index()
		if i.width == RefNarrow {
			if index > math.MaxUint8 {
				return errors.ReferenceTooNarrow(append(path, i.op.String()), index, int(i.width))
			}
			w.Byte(byte(index))
		} else {
			w.WriteU16(index)
		}
	}

	if i.target != nil {
		target, ok := i.target.position()
		if !ok {
			return errors.UnresolvedLabel(append(path, i.op.String()), "jump")
		}
		offset := target - i.pos
		if i.offsetSize() == 4 {
			w.WriteU32(uint32(int32(offset)))
		} else {
			if offset < math.MinInt16 || offset > math.MaxInt16 {
				return errors.Overflow(errors.PhaseEncode, append(path, i.op.String()), offset, "branch offset")
			}
			w.WriteI16(int16(offset))
		}
	}

	w.WriteBytes(i.operands)
	return nil
}

// Label marks an instruction so branches and exception handlers can refer
// to it before positions are known.
type Label struct {
	code  *Code
	instr *Instruction
	id    int
}

// Bind attaches the label to instr. See Code.Bind.
func (l *Label) Bind(instr *Instruction) error {
	return l.code.Bind(l, instr)
}

// Bound reports whether the label has an instruction.
func (l *Label) Bound() bool {
	return l.instr != nil
}

// Instruction returns the bound instruction, or nil.
func (l *Label) Instruction() *Instruction {
	return l.instr
}

func (l *Label) String() string {
	return fmt.Sprintf("L%d", l.id)
}

func (l *Label) position() (int, bool) {
	if l.instr == nil {
		return 0, false
	}
	return l.instr.Position()
}

// ExceptionHandler is one exception_table entry.
type ExceptionHandler struct {
	start     *Label
	end       *Label
	handler   *Label
	catchType *ConstantClass
}

func (h *ExceptionHandler) Start() *Label { return h.start }
func (h *ExceptionHandler) End() *Label { return h.end }
func (h *ExceptionHandler) Handler() *Label { return h.handler }

// CatchType returns the caught class, or nil for a catch-all handler.
func (h *ExceptionHandler) CatchType() *ConstantClass { return h.catchType }

func (h *ExceptionHandler) write(w *binary.Writer, path []string) error {
	labels := [...]struct {
		label *Label
		role  string
	}{
		{h.start, "start"},
		{h.end, "end"},
		{h.handler, "handler"},
	}
	for _, l := range labels {
		pos, ok := l.label.position()
		if !ok {
			return errors.UnresolvedLabel(append(path, "exception_table"), l.role)
		}
		w.WriteU16(uint16(pos))
	}
	if h.catchType != nil {
		w.WriteU16(h.catchType.Index())
	} else {
		w.WriteU16(0)
	}
	return nil
}
