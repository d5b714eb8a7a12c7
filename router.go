package topper

import "strings"

// node is a single trie vertex: a mapping from literal path segment to
// child, at most one dedicated variable child, and an optional terminal
// resource. Adapted from monday0rsunday-go-relax's trieNode (literal
// children keyed by segment string, descent one segment per edge); the
// PSE-typed regexp matching that teacher performs per node is replaced
// outright with the single `{name}` variable grammar and multi-candidate
// search of spec.md section 4.4 -- typed extraction moves to the
// dispatcher (dispatch.go), not the matcher.
type node struct {
	resource *boundResource
	children map[string]*node
	varChild *node
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// Router holds the registration trie. It is built up before Start and read
// only afterwards, so no locking guards it (see spec.md section 5).
type Router struct {
	root *node
}

// NewRouter returns an empty matcher.
func NewRouter() *Router {
	return &Router{root: newNode()}
}

// isVariableSegment reports whether a template segment is a `{name}`
// capture.
func isVariableSegment(seg string) bool {
	return len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}

// Register attaches res at the trie position described by template's
// segments, creating intermediate nodes as needed. It fails with
// ErrTemplateCollision if a resource is already bound at that exact
// position -- spec.md section 4.4, "Registration".
func (r *Router) Register(template string, res *boundResource) error {
	cur := r.root
	for _, seg := range DecomposePath(template) {
		if isVariableSegment(seg) {
			if cur.varChild == nil {
				cur.varChild = newNode()
			}
			cur = cur.varChild
			continue
		}
		child, ok := cur.children[seg]
		if !ok {
			child = newNode()
			cur.children[seg] = child
		}
		cur = child
	}
	if cur.resource != nil {
		return newError(ErrTemplateCollision, "path template already registered: "+template)
	}
	cur.resource = res
	return nil
}

// searchState is one live branch of the multi-candidate search described in
// spec.md section 4.4.
type searchState struct {
	cur         *node
	captures    []string
	tentative   *boundResource
	literalPath strings.Builder
}

// fork returns a copy of s suitable for descending into the variable
// child, leaving s itself free to continue down the literal branch.
func (s *searchState) fork() *searchState {
	forked := &searchState{
		cur:       s.cur,
		captures:  append([]string(nil), s.captures...),
		tentative: s.tentative,
	}
	forked.literalPath.WriteString(s.literalPath.String())
	return forked
}

// Match runs the multi-candidate search over segments and returns the
// single best candidate's bound resource and captured path variables, or
// ok=false if no candidate survives (the caller produces a 404).
func (r *Router) Match(segments []string) (res *boundResource, captures []string, ok bool) {
	states := []*searchState{{cur: r.root, tentative: r.root.resource}}

	for _, seg := range segments {
		var next []*searchState
		for _, s := range states {
			if s.cur.varChild != nil {
				forked := s.fork()
				forked.cur = s.cur.varChild
				forked.captures = append(forked.captures, seg)
				forked.literalPath.WriteByte('.')
				if forked.cur.resource != nil {
					forked.tentative = forked.cur.resource
				}
				next = append(next, forked)
			}
			if child, found := s.cur.children[seg]; found {
				s.cur = child
				s.literalPath.WriteString(seg)
				if child.resource != nil {
					s.tentative = child.resource
				}
				next = append(next, s)
			}
			// else: s has no literal child for seg and is dropped by omission.
		}
		states = next
	}

	var best *searchState
	for _, s := range states {
		if s.tentative == nil {
			continue
		}
		if best == nil || candidateLess(best, s) {
			best = s
		}
	}
	if best == nil {
		return nil, nil, false
	}
	return best.tentative, best.captures, true
}

// candidateLess reports whether a is strictly worse than b under the
// three-key total order of spec.md section 4.4's tie-break rules: more
// variable captures wins, then a longer literal-path record, then a
// lexicographically greater literal-path record. This replaces the
// original `compare` predicate's two independent greater-than branches
// (flagged in spec.md section 9 as not a strict weak ordering) with one
// short-circuiting comparison over the three keys in priority order.
func candidateLess(a, b *searchState) bool {
	if len(a.captures) != len(b.captures) {
		return len(a.captures) < len(b.captures)
	}
	al, bl := a.literalPath.String(), b.literalPath.String()
	if len(al) != len(bl) {
		return len(al) < len(bl)
	}
	return al < bl
}
