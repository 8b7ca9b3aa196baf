package testbed

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	classgen "github.com/wippyai/jvm-classgen"
	"github.com/wippyai/jvm-classgen/classfile"
)

func requireTool(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not found: %v", name, err)
	}
	return path
}

// writeClass encodes c into dir under its internal name.
func writeClass(t *testing.T, dir string, c *classfile.Class) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(c.Name())+".class")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := classgen.WriteFile(path, c); err != nil {
		t.Fatalf("write %s: %v", c.Name(), err)
	}
	return path
}

func runTool(t *testing.T, tool string, args ...string) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(tool, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("%s %s: %v\n%s", filepath.Base(tool), strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String()
}

// printer emits System.out.println calls into a method body.
type printer struct {
	c    *classfile.Class
	code *classfile.Code
	t    *testing.T
}

func (p *printer) constant(op classfile.Opcode, k classfile.Constant) *classfile.Instruction {
	p.t.Helper()
	instr, err := p.code.EmitConstant(op, k, classfile.RefWide)
	if err != nil {
		p.t.Fatalf("emit %s: %v", op, err)
	}
	return instr
}

func (p *printer) ldc(k classfile.Constant) *classfile.Instruction {
	p.t.Helper()
	instr, err := p.code.EmitLdc(k)
	if err != nil {
		p.t.Fatalf("ldc: %v", err)
	}
	return instr
}

func (p *printer) out() *classfile.Instruction {
	return p.constant(classfile.OpGetstatic, p.c.InternFieldref("java/lang/System", "out", "Ljava/io/PrintStream;"))
}

func (p *printer) println(desc string) {
	p.constant(classfile.OpInvokevirtual, p.c.InternMethodref("java/io/PrintStream", "println", desc))
}

func newMain(t *testing.T, name string, opts classfile.Options) (*classfile.Class, *printer) {
	c := classfile.NewWithOptions(name, "java/lang/Object", opts)
	m := c.Method("main", "([Ljava/lang/String;)V")
	m.AddFlag(classfile.AccPublic | classfile.AccStatic)
	return c, &printer{c: c, code: m.Code(), t: t}
}

func TestJavapReadsClass(t *testing.T) {
	javap := requireTool(t, "javap")

	c, p := newMain(t, "Main", classfile.DefaultOptions())
	p.code.Emit(classfile.OpReturn)
	c.AddInterface("java/lang/Cloneable")
	c.AddField("value", "J").AddFlag(classfile.AccPrivate)

	dir := t.TempDir()
	path := writeClass(t, dir, c)
	out := runTool(t, javap, "-v", "-p", path)

	for _, want := range []string{
		"major version: 60",
		"public class Main implements java.lang.Cloneable",
		"private long value;",
		"public static void main(java.lang.String[]);",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("javap output missing %q:\n%s", want, out)
		}
	}
}

func TestJavaRunsConstants(t *testing.T) {
	java := requireTool(t, "java")

	c, p := newMain(t, "Constants", classfile.DefaultOptions())
	p.code.MaxStack, p.code.MaxLocals = 3, 1

	p.out()
	p.ldc(c.InternString("hello\x00world"))
	p.println("(Ljava/lang/String;)V")
	p.out()
	p.ldc(c.InternLong(-1 << 40))
	p.println("(J)V")
	p.out()
	p.ldc(c.InternDouble(0.5))
	p.println("(D)V")
	p.out()
	p.ldc(c.InternInteger(123456))
	p.println("(I)V")
	p.out()
	p.ldc(c.InternFloat(2.25))
	p.println("(F)V")
	p.code.Emit(classfile.OpReturn)

	dir := t.TempDir()
	writeClass(t, dir, c)
	got := runTool(t, java, "-cp", dir, "Constants")

	want := "hello\x00world\n-1099511627776\n0.5\n123456\n2.25\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestJavaRunsLoopAndHandler(t *testing.T) {
	java := requireTool(t, "java")

	// Pre-50 class files are checked by the type-inferencing verifier, so
	// branches need no StackMapTable.
	opts := classfile.DefaultOptions()
	opts.MajorVersion = classfile.Java5
	c, p := newMain(t, "Loop", opts)
	code := p.code
	code.MaxStack, code.MaxLocals = 2, 3

	// for (int i = 0; i < 3; i++) System.out.println(i);
	loop, done := code.NewLabel(), code.NewLabel()
	code.Emit(classfile.OpIconst0)
	code.Emit(classfile.OpIstore1)
	if err := loop.Bind(code.Emit(classfile.OpIload1)); err != nil {
		t.Fatal(err)
	}
	code.Emit(classfile.OpIconst3)
	if _, err := code.EmitJump(classfile.OpIfIcmpge, done); err != nil {
		t.Fatal(err)
	}
	p.out()
	code.Emit(classfile.OpIload1)
	p.println("(I)V")
	code.EmitBytes(classfile.OpIinc, 1, 1)
	if _, err := code.EmitJump(classfile.OpGoto, loop); err != nil {
		t.Fatal(err)
	}

	// try { Integer.parseInt("x"); } catch (NumberFormatException e) { System.out.println("caught"); }
	start, end, handler, exit := code.NewLabel(), code.NewLabel(), code.NewLabel(), code.NewLabel()
	first := p.ldc(c.InternString("x"))
	for _, l := range []*classfile.Label{done, start} {
		if err := l.Bind(first); err != nil {
			t.Fatal(err)
		}
	}
	p.constant(classfile.OpInvokestatic, c.InternMethodref("java/lang/Integer", "parseInt", "(Ljava/lang/String;)I"))
	code.Emit(classfile.OpPop)
	skip, err := code.EmitJump(classfile.OpGoto, exit)
	if err != nil {
		t.Fatal(err)
	}
	if err := end.Bind(skip); err != nil {
		t.Fatal(err)
	}
	if err := handler.Bind(code.Emit(classfile.OpAstore2)); err != nil {
		t.Fatal(err)
	}
	p.out()
	p.ldc(c.InternString("caught"))
	p.println("(Ljava/lang/String;)V")
	if err := exit.Bind(code.Emit(classfile.OpReturn)); err != nil {
		t.Fatal(err)
	}
	if _, err := code.AddExceptionHandler(start, end, handler, c.InternClass("java/lang/NumberFormatException")); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	writeClass(t, dir, c)
	got := runTool(t, java, "-cp", dir, "Loop")

	if want := "0\n1\n2\ncaught\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
