package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/phylostack/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operations that close a statement; the printer breaks the line after them.
var statementEnds = map[string]bool{
	"~":         true,
	"=":         true,
	"observe":   true,
	"constrain": true,
}

type CodePrinter struct {
	buf       bytes.Buffer
	indent    int
	lineWidth int // max line width (0 = unlimited)
	column    int // current column position
	// kind of the last unit written, for blank lines around definitions
	last unitKind
}

type unitKind int

const (
	unitNone unitKind = iota
	unitStatement
	unitFunction
)

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{lineWidth: 100}
}

func NewCodePrinterWithWidth(width int) *CodePrinter {
	return &CodePrinter{lineWidth: width}
}

func (p *CodePrinter) SetLineWidth(width int) {
	p.lineWidth = width
}

// Format prints program with the default line width. Comments are not
// part of the operation sequence and are therefore dropped.
func Format(program *ast.Program) string {
	p := NewCodePrinter()
	p.PrintProgram(program)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
	p.column = p.indent * 4
}

func (p *CodePrinter) write(s string) {
	if p.column == 0 && p.indent > 0 {
		p.writeIndent()
	}
	p.buf.WriteString(s)
	p.column += len(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteByte('\n')
	p.column = 0
}

// PrintProgram writes one statement per line. Function definitions are
// separated from surrounding code by a blank line.
func (p *CodePrinter) PrintProgram(program *ast.Program) {
	if program == nil {
		return
	}
	ops := program.Ops
	var stmt []ast.Op
	for i := 0; i < len(ops); i++ {
		op := ops[i]
		if op.Kind == ast.FunctionStart {
			p.printStatement(stmt)
			stmt = nil
			end := i + 1
			for end < len(ops) && ops[end].Kind != ast.FunctionEnd {
				end++
			}
			if end == len(ops) {
				end--
			}
			p.printFunction(ops[i : end+1])
			i = end
			continue
		}
		stmt = append(stmt, op)
		if endsStatement(op) {
			p.printStatement(stmt)
			stmt = nil
		}
	}
	p.printStatement(stmt)
}

func endsStatement(op ast.Op) bool {
	return op.Kind == ast.Named && statementEnds[op.Name]
}

func word(op ast.Op) string {
	if op.Token.Lexeme != "" {
		return op.Token.Lexeme
	}
	return op.Name
}

func (p *CodePrinter) separate(kind unitKind) {
	if p.last != unitNone && (p.last == unitFunction || kind == unitFunction) {
		p.writeln()
	}
	p.last = kind
}

// printStatement writes the words of one statement, wrapping onto an
// extra-indented continuation line when the line width is exceeded.
func (p *CodePrinter) printStatement(ops []ast.Op) {
	if len(ops) == 0 {
		return
	}
	if p.indent == 0 {
		p.separate(unitStatement)
	}
	start := p.indent
	for i, op := range ops {
		w := word(op)
		if i > 0 {
			if p.lineWidth > 0 && p.column+1+len(w) > p.lineWidth {
				p.writeln()
				p.indent = start + 1
			} else {
				p.write(" ")
			}
		}
		p.write(w)
	}
	p.indent = start
	p.writeln()
}

// printFunction writes ': name ( effect ) body ;'. Short definitions stay
// on one line; longer ones put each body statement on its own line.
func (p *CodePrinter) printFunction(ops []ast.Op) {
	p.separate(unitFunction)

	header := ": "
	body := ops[1:]
	if len(body) > 0 && body[0].Kind == ast.FunctionName {
		header += body[0].Name
		body = body[1:]
	}
	if len(body) > 0 && body[0].Kind == ast.StackEffect {
		effect, _ := body[0].Value.(string)
		if effect == "" {
			header += " ( )"
		} else {
			header += " ( " + effect + " )"
		}
		body = body[1:]
	}
	if len(body) > 0 && body[len(body)-1].Kind == ast.FunctionEnd {
		body = body[:len(body)-1]
	}

	var statements [][]ast.Op
	var cur []ast.Op
	for _, op := range body {
		cur = append(cur, op)
		if endsStatement(op) {
			statements = append(statements, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		statements = append(statements, cur)
	}

	words := []string{header}
	for _, op := range body {
		words = append(words, word(op))
	}
	words = append(words, ";")
	line := strings.Join(words, " ")
	if len(statements) <= 1 && (p.lineWidth <= 0 || len(line) <= p.lineWidth) {
		p.write(line)
		p.writeln()
		return
	}

	p.write(header)
	p.writeln()
	p.indent++
	for _, stmt := range statements {
		p.printStatement(stmt)
	}
	p.indent--
	p.write(";")
	p.writeln()
}
