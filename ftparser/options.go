package ftparser

import "fmt"

// DefaultMaxDepth is the nesting limit used when WithMaxDepth is not given.
const DefaultMaxDepth = 256

// DuplicateNodePolicy decides what the parser does when a body contains two
// sibling nodes with the same name.
type DuplicateNodePolicy int

const (
	// DuplicateNodeError rejects the second node with a ParseError.
	DuplicateNodeError DuplicateNodePolicy = iota
	// DuplicateNodeMerge parses the second body into the first node.
	DuplicateNodeMerge
	// DuplicateNodeReplace discards the first node and keeps the second.
	DuplicateNodeReplace
)

func (p DuplicateNodePolicy) String() string {
	switch p {
	case DuplicateNodeError:
		return "error"
	case DuplicateNodeMerge:
		return "merge"
	case DuplicateNodeReplace:
		return "replace"
	default:
		return fmt.Sprintf("DuplicateNodePolicy(%d)", int(p))
	}
}

type config struct {
	maxDepth   int
	duplicates DuplicateNodePolicy
}

func defaultConfig() config {
	return config{maxDepth: DefaultMaxDepth, duplicates: DuplicateNodeError}
}

// Option configures a call to Parse.
type Option func(*config)

// WithMaxDepth limits how deeply nodes, lists and dicts may nest. Values
// below one fall back to DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}
		c.maxDepth = depth
	}
}

// WithDuplicateNodes sets how repeated sibling node names are handled.
func WithDuplicateNodes(policy DuplicateNodePolicy) Option {
	return func(c *config) {
		c.duplicates = policy
	}
}
