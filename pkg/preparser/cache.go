package preparser

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Statement is everything PreParse produces for one statement.
type Statement struct {
	Result
	ParamInfo     ParamInfo
	UserIndex     []int
	CacheOnServer bool
	Cached        bool // served from the cache
}

type cacheEntry struct {
	stmt   Statement
	params []*Parameter
}

// Cache is a concurrency-safe pre-parser that remembers the rewrite of
// recently seen statements. Only statements pre-parsed with an empty
// parameter list are cached; a hit replays copies of the recorded
// parameters into the caller's list.
type Cache struct {
	opts    Options
	parsers sync.Pool
	entries *lru.Cache[string, *cacheEntry]
}

// NewCache creates a Cache holding at most size statements.
func NewCache(opts Options, size int) (*Cache, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	entries, err := lru.New[string, *cacheEntry](size)
	if err != nil {
		return nil, err
	}
	c := &Cache{opts: opts, entries: entries}
	c.parsers.New = func() any { return New(opts) }
	return c, nil
}

// Len returns the number of cached statements.
func (c *Cache) Len() int { return c.entries.Len() }

// Purge drops every cached statement.
func (c *Cache) Purge() { c.entries.Purge() }

// PreParse behaves like PreParser.PreParse.
func (c *Cache) PreParse(query string, params *ParameterList) (Statement, error) {
	if params == nil {
		params = NewParameterList()
	}
	fresh := params.Len() == 0
	if fresh {
		if e, ok := c.entries.Get(query); ok {
			for _, p := range cloneParams(e.params) {
				params.Append(p)
			}
			stmt := e.stmt
			stmt.ParamInfo = ParamInfo{Params: append([]ParamDescriptor(nil), e.stmt.ParamInfo.Params...)}
			stmt.UserIndex = append([]int(nil), e.stmt.UserIndex...)
			stmt.Cached = true
			return stmt, nil
		}
	}

	pp := c.parsers.Get().(*PreParser)
	defer c.parsers.Put(pp)
	res, err := pp.PreParse(query, params)
	if err != nil {
		return Statement{}, err
	}
	stmt := Statement{
		Result:        res,
		ParamInfo:     pp.ParamInfo(),
		UserIndex:     append([]int(nil), pp.UserIndex()...),
		CacheOnServer: pp.CacheOnServer(),
	}
	if fresh {
		c.entries.Add(query, &cacheEntry{stmt: stmt, params: cloneParams(params.Params())})
	}
	return stmt, nil
}
