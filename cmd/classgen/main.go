package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	classgen "github.com/wippyai/jvm-classgen"
	"github.com/wippyai/jvm-classgen/classfile"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

func main() {
	var (
		className   = flag.String("class", "Hello", "Internal name of the generated class")
		super       = flag.String("super", "java/lang/Object", "Internal name of the superclass")
		message     = flag.String("message", "Hello, World!", "Message printed by main")
		count       = flag.Int("count", 3, "Loop iterations printed by main (0-127)")
		out         = flag.String("out", "", "Output path (default <class>.class)")
		major       = flag.Uint("major", uint(classfile.Java5), "Class file major version (45-60)")
		config      = flag.String("config", "", "TOML recipe with class, super, message, count, major, source, out")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Browse the constant pool in a TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		classfile.SetLogger(logger)
	}

	majorVersion, err := parseMajor(*major)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := helloConfig{
		className: *className,
		super:     *super,
		message:   *message,
		major:     majorVersion,
		count:     *count,
	}
	path := ""

	if *config != "" {
		r, err := loadRecipe(*config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		path = r.apply(&cfg)

		// flags given on the command line win over the recipe
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "class":
				cfg.className = *className
			case "super":
				cfg.super = *super
			case "message":
				cfg.message = *message
			case "count":
				cfg.count = *count
			case "major":
				cfg.major = majorVersion
			}
		})
	}

	if *out != "" {
		path = *out
	}
	if path == "" {
		path = filepath.Base(cfg.className) + ".class"
	}
	if cfg.source == "" {
		cfg.source = filepath.Base(cfg.className) + ".java"
	}

	c, err := run(cfg, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(c, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(summary(c, path, term.IsTerminal(int(os.Stdout.Fd()))))
}

// parseMajor converts the -major flag without truncating it to 16 bits.
func parseMajor(v uint) (classfile.MajorVersion, error) {
	if v > math.MaxUint16 {
		return 0, fmt.Errorf("major version %d does not fit u2", v)
	}
	return classfile.MajorVersion(v), nil
}

func run(cfg helloConfig, path string) (*classfile.Class, error) {
	c, err := buildHello(cfg)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if err := classgen.WriteFile(path, c); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return c, nil
}

func summary(c *classfile.Class, path string, styled bool) string {
	opts := c.Options()
	rows := [][2]string{
		{"class", c.Name()},
		{"file", path},
		{"version", fmt.Sprintf("%d.%d", opts.MajorVersion, opts.MinorVersion)},
		{"bytes", fmt.Sprint(c.Size())},
		{"constants", fmt.Sprint(len(c.Constants()))},
		{"pool count", fmt.Sprint(c.PoolCount())},
		{"methods", fmt.Sprint(len(c.Methods()))},
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		if styled {
			b.WriteString(labelStyle.Render(fmt.Sprintf("%-11s", r[0])))
			b.WriteString(valueStyle.Render(r[1]))
		} else {
			fmt.Fprintf(&b, "%-11s%s", r[0], r[1])
		}
	}
	if styled {
		return boxStyle.Render(b.String())
	}
	return b.String()
}
