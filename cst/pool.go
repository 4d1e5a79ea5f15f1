package cst

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// parserPools holds one sync.Pool of *sitter.Parser per language, so a busy
// caller doing many small edits in sequence doesn't pay sitter.NewParser's
// setup cost on every call. This generalizes the teacher's
// providers/base.Provider, which holds one long-lived *sitter.Parser per
// provider instance and reuses it across every Query/Transform call; a pool
// gives the same reuse without pinning one parser to one goroutine, since
// engine.ProcessBatch may run several files through the same process.
var parserPools sync.Map // Language -> *sync.Pool

func poolFor(lang Language, grammar *sitter.Language) *sync.Pool {
	if p, ok := parserPools.Load(lang); ok {
		return p.(*sync.Pool)
	}
	pool := &sync.Pool{
		New: func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(grammar)
			return parser
		},
	}
	actual, _ := parserPools.LoadOrStore(lang, pool)
	return actual.(*sync.Pool)
}

func borrowParser(lang Language, grammar *sitter.Language) *sitter.Parser {
	pool := poolFor(lang, grammar)
	parser := pool.Get().(*sitter.Parser)
	Stats.Borrowed.Add(1)
	return parser
}

func releaseParser(lang Language, grammar *sitter.Language, parser *sitter.Parser) {
	pool := poolFor(lang, grammar)
	pool.Put(parser)
	Stats.Returned.Add(1)
}
