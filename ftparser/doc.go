// Package ftparser implements a parser for the Figtree configuration format.
//
// A Figtree document is a tree of named nodes. Each node holds string-keyed
// attributes and further nodes. Attribute values are strings, integers,
// floats, booleans, identifiers, lists and dicts. Both // line and nesting
// /* block */ comments are allowed anywhere whitespace is.
//
//	server {
//	    "host": "example.org",
//	    "ports": [80, 443,],
//	    "mode": !production,
//	    tls { "ciphers": { "modern": true } }
//	}
//
// The parser is a hand-rolled recursive-descent parser with three layers:
//
//   - Lexer: pulls tokens one at a time from the source, stripping comments
//     and whitespace.
//   - Parser: consumes tokens according to the grammar and builds the tree.
//   - Tree types: Document, Node and Value, with the mutation operations
//     used both by the parser and by callers.
//
// The key grammar distinction is between sections and dict values. An
// identifier followed by a brace block is a child node; a string key
// followed by a colon is an attribute, even when its value is a brace
// delimited dict.
//
// Lookups such as Node return nil when the name is absent, so check each
// step before descending further.
//
// Usage:
//
//	doc, err := ftparser.Parse(src)
//	if err != nil {
//	    log.Fatal(ftparser.FormatError(src, err))
//	}
//	if server := doc.Node("server"); server != nil {
//	    host, _ := server.Attr("host")
//	    fmt.Println(host)
//	}
package ftparser
