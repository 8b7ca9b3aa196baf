package main

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/wippyai/jvm-classgen/classfile"
	"github.com/wippyai/jvm-classgen/descriptor"
)

const (
	printStream = "java/io/PrintStream"
	systemClass = "java/lang/System"
)

type helloConfig struct {
	className string
	super     string
	message   string
	source    string
	major     classfile.MajorVersion
	count     int
}

// buildHello creates a class with a default constructor and a main method
// that prints the message, counts from zero to count and parses a number
// inside a try/catch region.
func buildHello(cfg helloConfig) (*classfile.Class, error) {
	if cfg.count < 0 || cfg.count > 127 {
		return nil, fmt.Errorf("count %d does not fit bipush", cfg.count)
	}

	opts := classfile.DefaultOptions()
	opts.MajorVersion = cfg.major
	c := classfile.NewWithOptions(cfg.className, cfg.super, opts)

	if cfg.source != "" {
		if err := c.AddAttribute(c.NewSourceFile(cfg.source)); err != nil {
			return nil, err
		}
	}

	if err := emitConstructor(c); err != nil {
		return nil, fmt.Errorf("constructor: %w", err)
	}
	if err := emitMain(c, cfg); err != nil {
		return nil, fmt.Errorf("main: %w", err)
	}
	return c, nil
}

func emitConstructor(c *classfile.Class) error {
	m := c.Method("<init>", "()V")
	m.AddFlag(classfile.AccPublic)

	code := m.Code()
	code.MaxStack, code.MaxLocals = 1, 1
	code.Emit(classfile.OpAload0)
	super := c.InternMethodref(c.Super().Name().Value(), "<init>", "()V")
	if _, err := code.EmitConstant(classfile.OpInvokespecial, super, classfile.RefWide); err != nil {
		return err
	}
	code.Emit(classfile.OpReturn)
	return nil
}

func emitMain(c *classfile.Class, cfg helloConfig) error {
	stringArray := descriptor.MustField(descriptor.ObjectArray("java/lang/String", 1))
	mainDesc := descriptor.MustMethod(descriptor.NewMethod([]descriptor.Field{stringArray}, nil))

	m := c.Method("main", mainDesc.String())
	m.AddFlag(classfile.AccPublic | classfile.AccStatic)

	code := m.Code()
	code.MaxStack, code.MaxLocals = 2, 3

	e := &emitter{code: code}
	out := c.InternFieldref(systemClass, "out", "Ljava/io/PrintStream;")
	printString := c.InternMethodref(printStream, "println", "(Ljava/lang/String;)V")
	printInt := c.InternMethodref(printStream, "println", "(I)V")

	// System.out.println(message)
	e.constant(classfile.OpGetstatic, out)
	e.ldc(c.InternString(cfg.message))
	e.constant(classfile.OpInvokevirtual, printString)

	// for (int i = 0; i < count; i++) System.out.println(i)
	loop, done := code.NewLabel(), code.NewLabel()
	code.Emit(classfile.OpIconst0)
	code.Emit(classfile.OpIstore1)
	e.bind(loop, code.Emit(classfile.OpIload1))
	code.EmitBytes(classfile.OpBipush, byte(cfg.count))
	e.jump(classfile.OpIfIcmpge, done)
	e.constant(classfile.OpGetstatic, out)
	code.Emit(classfile.OpIload1)
	e.constant(classfile.OpInvokevirtual, printInt)
	code.EmitBytes(classfile.OpIinc, 1, 1)
	e.jump(classfile.OpGoto, loop)

	// try { Integer.parseInt("42") } catch (NumberFormatException ex) { println("caught") }
	start, end, handler, exit := code.NewLabel(), code.NewLabel(), code.NewLabel(), code.NewLabel()
	first := e.ldc(c.InternString("42"))
	e.bind(done, first)
	e.bind(start, first)
	e.constant(classfile.OpInvokestatic, c.InternMethodref("java/lang/Integer", "parseInt", "(Ljava/lang/String;)I"))
	code.Emit(classfile.OpPop)
	e.bind(end, e.jump(classfile.OpGoto, exit))
	e.bind(handler, code.Emit(classfile.OpAstore2))
	e.constant(classfile.OpGetstatic, out)
	e.ldc(c.InternString("caught"))
	e.constant(classfile.OpInvokevirtual, printString)
	e.bind(exit, code.Emit(classfile.OpReturn))

	if e.err != nil {
		return e.err
	}
	_, err := code.AddExceptionHandler(start, end, handler, c.InternClass("java/lang/NumberFormatException"))
	return err
}

// emitter collects emission errors so straight-line code stays readable.
type emitter struct {
	code *classfile.Code
	err  error
}

func (e *emitter) constant(op classfile.Opcode, k classfile.Constant) *classfile.Instruction {
	instr, err := e.code.EmitConstant(op, k, classfile.RefWide)
	e.keep(err)
	return instr
}

func (e *emitter) ldc(k classfile.Constant) *classfile.Instruction {
	instr, err := e.code.EmitLdc(k)
	e.keep(err)
	return instr
}

func (e *emitter) jump(op classfile.Opcode, l *classfile.Label) *classfile.Instruction {
	instr, err := e.code.EmitJump(op, l)
	e.keep(err)
	return instr
}

func (e *emitter) bind(l *classfile.Label, instr *classfile.Instruction) {
	if instr == nil {
		return
	}
	e.keep(l.Bind(instr))
}

func (e *emitter) keep(err error) {
	e.err = multierr.Append(e.err, err)
}
