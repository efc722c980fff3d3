package token

import "strings"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	IDENT   TokenType = "IDENT"
	KEYWORD TokenType = "KEYWORD"

	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	COMMA     TokenType = ","
	COLON     TokenType = ":"
	SEMICOLON TokenType = ";"

	TILDE    TokenType = "~"
	ASSIGN   TokenType = "="
	ASTERISK TokenType = "*"
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	SLASH    TokenType = "/"
)

// Token is a single lexeme with its source position.
// Literal holds the decoded value: int64 or float64 for NUMBER,
// the unquoted text for STRING, the diagnostic message for ILLEGAL.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

// End returns the column just past the token on its line.
func (t Token) End() int {
	return t.Column + len(t.Lexeme)
}

// IsOperator reports whether the token is one of the symbolic operations.
func (t Token) IsOperator() bool {
	switch t.Type {
	case TILDE, ASSIGN, ASTERISK, PLUS, MINUS, SLASH, RBRACKET:
		return true
	}
	return false
}

// keywords is the case-sensitive set of built-in operation names.
var keywords = map[string]struct{}{}

func init() {
	for _, kw := range []string{
		// stack
		"dup", "drop", "swap", "over", "rot", "nip", "tuck", "pick", "depth", "clear",
		// arithmetic
		"negate", "abs", "sqrt", "exp", "log", "pow", "pi",
		// arrays
		"length", "sum",
		// binding
		"var", "observe",
		// distributions
		"Normal", "LogNormal", "Exponential", "Gamma", "Beta", "Uniform", "Dirichlet",
		// tree priors and processes
		"Yule", "BirthDeath", "Coalescent", "PhyloCTMC",
		// substitution models
		"HKY", "GTR", "F81", "K80", "JC69", "WAG", "LG", "JTT",
		// rate heterogeneity
		"DiscreteGamma", "categoryRates", "InvariantSites",
		// tree queries
		"mrca", "nodeAge", "treeHeight", "treeLength", "taxa",
		// data
		"sequence", "alignment", "taxonNames",
		// constraints
		"lessThan", "greaterThan", "bounded", "constrain",
	} {
		keywords[kw] = struct{}{}
	}
}

// LookupIdent classifies an identifier as KEYWORD or IDENT.
func LookupIdent(ident string) TokenType {
	if _, ok := keywords[ident]; ok {
		return KEYWORD
	}
	return IDENT
}

// IsKeyword reports whether name matches a keyword ignoring case.
func IsKeyword(name string) bool {
	if _, ok := keywords[name]; ok {
		return true
	}
	for kw := range keywords {
		if strings.EqualFold(kw, name) {
			return true
		}
	}
	return false
}

// Keywords returns the keyword set.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for kw := range keywords {
		out = append(out, kw)
	}
	return out
}
