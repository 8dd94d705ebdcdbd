// Package token defines the lexical tokens of the NexLang language.
package token

// Kind classifies a lexical token.
type Kind int

const (
	// EndOfFile terminates every token stream exactly once.
	EndOfFile Kind = iota

	// Unknown marks an unrecognized character or an unterminated string
	// literal. Unknown tokens are recoverable: they stay in the stream and
	// only surface as errors if a later stage chokes on them.
	Unknown

	// Identifier is a user-defined name.
	Identifier

	// Keyword is a member of the closed keyword set.
	Keyword

	// Number is an unsigned integer digit run. Float parsing of literals
	// happens later by attempted numeric parse of the lexeme.
	Number

	// String is a double-quoted string literal, stored without the quotes.
	String

	// Symbol is a single-character punctuation token.
	Symbol

	// Operator is a member of the fixed operator list.
	Operator

	// Comment is a // line comment, retained so downstream passes skip it
	// explicitly.
	Comment
)

// String returns the token kind name.
func (k Kind) String() string {
	switch k {
	case EndOfFile:
		return "EndOfFile"
	case Unknown:
		return "Unknown"
	case Identifier:
		return "Identifier"
	case Keyword:
		return "Keyword"
	case Number:
		return "Number"
	case String:
		return "String"
	case Symbol:
		return "Symbol"
	case Operator:
		return "Operator"
	case Comment:
		return "Comment"
	default:
		return "Kind(" + itoa(int(k)) + ")"
	}
}

// itoa avoids importing strconv for the unreachable default case.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte

	i := len(buf)
	neg := n < 0

	if neg {
		n = -n
	}

	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

// Token is a single lexical token with its source position.
// Tokens are immutable once produced.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

// Is reports whether the token has the given kind and, when lexeme is
// non-empty, the given lexeme.
func (t Token) Is(kind Kind, lexeme string) bool {
	if t.Kind != kind {
		return false
	}

	return lexeme == "" || t.Lexeme == lexeme
}

// keywords is the closed keyword set. A lexeme in this set always wins over a
// plain identifier.
var keywords = map[string]struct{}{
	"#START_BLOCK":   {},
	"#END_BLOCK":     {},
	"#EXECUTE_BLOCK": {},

	"DATA":        {},
	"OPERATION":   {},
	"FUNCTION":    {},
	"SYSTEM_CALL": {},

	"Let":   {},
	"NOW":   {},
	"DO":    {},
	"Until": {},
	"Run":   {},
	"If":    {},
	"Else":  {},
	"While": {},
	"Say":   {},
	"open":  {},
	"Read":  {},
	"Write": {},

	"in_file":     {},
	"at_Location": {},

	"Create_operation": {},
	"create_function":  {},
}

// IsKeyword reports whether s is a member of the closed keyword set.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

// Keywords returns the keyword set in unspecified order.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for k := range keywords {
		names = append(names, k)
	}

	return names
}

// Operators is the fixed operator list, ordered so that longest-prefix
// matching never splits a multi-character operator.
var Operators = []string{
	"=>",
	"==",
	"++",
	"--",
	"=",
	"+",
	"-",
	"*",
	"/",
	"%",
}

// symbols is the single-character symbol set.
const symbols = "(){}[];,*@./"

// IsSymbol reports whether c is a single-character symbol token.
func IsSymbol(c byte) bool {
	for i := 0; i < len(symbols); i++ {
		if symbols[i] == c {
			return true
		}
	}

	return false
}
