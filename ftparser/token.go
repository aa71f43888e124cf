package ftparser

// TokenKind identifies the type of a lexical token.
type TokenKind int

const (
	TokenEOF              TokenKind = iota
	TokenIdentifier                 // letters, digits, _ (Unicode aware)
	TokenQuotedIdentifier           // `...`
	TokenString                     // "..." or '...' with escape processing
	TokenInteger                    // [+-]? (0x|0o|0b|0d)? digits
	TokenFloat                      // [+-]? digits . digits* exponent?
	TokenTrue                       // true
	TokenFalse                      // false
	TokenLBrace                     // {
	TokenRBrace                     // }
	TokenLBracket                   // [
	TokenRBracket                   // ]
	TokenColon                      // :
	TokenComma                      // ,
	TokenBang                       // !
)

var tokenNames = map[TokenKind]string{
	TokenEOF:              "EOF",
	TokenIdentifier:       "identifier",
	TokenQuotedIdentifier: "quoted identifier",
	TokenString:           "string",
	TokenInteger:          "integer",
	TokenFloat:            "float",
	TokenTrue:             "'true'",
	TokenFalse:            "'false'",
	TokenLBrace:           "'{'",
	TokenRBrace:           "'}'",
	TokenLBracket:         "'['",
	TokenRBracket:         "']'",
	TokenColon:            "':'",
	TokenComma:            "','",
	TokenBang:             "'!'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind    TokenKind
	Literal string // decoded for strings and quoted identifiers, raw for numbers
	Base    int    // 2, 8, 10 or 16 for integers
	Pos     Position
}

// Position tracks a source location for error messages.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column, counted in code points
	Offset int // 0-based byte offset into source
}

// keywords maps keyword strings to their token kinds.
var keywords = map[string]TokenKind{
	"true":  TokenTrue,
	"false": TokenFalse,
}
