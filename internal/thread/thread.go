// Package thread models a post's comment reply forest. Comments live in a
// flat arena keyed by id with a derived parent-to-children index; tree views
// are built by id lookup, never by embedded pointers, so reference cycles are
// impossible by construction.
package thread

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/pkg/errors"
)

// DefaultDisclosureLimit is the number of replies a node exposes before an
// explicit RevealAll.
const DefaultDisclosureLimit = 3

type Opts struct {
	PostID string

	// DisclosureLimit bounds the initially visible replies per node.
	// Zero means DefaultDisclosureLimit.
	DisclosureLimit int

	// MentionPrefix prepends "@<parentAuthorUsername> " to reply content at
	// creation time. This mutates stored content, so round-tripping content
	// is lossy; the behavior mirrors the product's reply convention and is
	// kept isolated behind this toggle.
	MentionPrefix bool

	// Now defaults to time.Now; tests inject a fixed clock.
	Now func() time.Time
}

// Store is the authoritative flat collection for one post, shared read-mostly
// state. All mutation goes through AddComment/AddReply/Load under an
// exclusive lock; readers always observe a fully committed collection.
type Store struct {
	mu sync.RWMutex

	postID        string
	limit         int
	mentionPrefix bool
	now           func() time.Time

	comments map[string]domain.Comment
	roots    []string
	children map[string][]string

	// revealed holds ids whose reply list is fully disclosed. Disclosure is
	// view state, not a data-model property: the full child list is always
	// held.
	revealed map[string]struct{}
}

func NewStore(opts Opts) *Store {
	if opts.DisclosureLimit <= 0 {
		opts.DisclosureLimit = DefaultDisclosureLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		postID:        opts.PostID,
		limit:         opts.DisclosureLimit,
		mentionPrefix: opts.MentionPrefix,
		now:           opts.Now,
		comments:      make(map[string]domain.Comment),
		children:      make(map[string][]string),
		revealed:      make(map[string]struct{}),
	}
}

// Load replaces the collection with a flat comment list fetched by the data
// layer, grouping children by parent id in input order. A comment whose
// parent id is absent from the list indicates a data desync and fails loudly.
func (s *Store) Load(flat []domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := make(map[string]domain.Comment, len(flat))
	for _, c := range flat {
		comments[c.ID] = c
	}

	roots := make([]string, 0, len(flat))
	children := make(map[string][]string)
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c.ID)
			continue
		}
		if _, ok := comments[*c.ParentID]; !ok {
			return errors.WrapWithCode(errors.ErrUnknownParent, "UNKNOWN_PARENT", "comment "+c.ID+" references missing parent "+*c.ParentID)
		}
		children[*c.ParentID] = append(children[*c.ParentID], c.ID)
	}

	s.comments = comments
	s.roots = roots
	s.children = children
	s.revealed = make(map[string]struct{})
	return nil
}

// AddComment appends a new top-level comment and returns it.
func (s *Store) AddComment(authorID, authorUsername, content string) domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.newComment(authorID, authorUsername, content, nil)
	s.comments[c.ID] = c
	s.roots = append(s.roots, c.ID)
	return c
}

// AddReply appends a reply under parentID and returns it. The reply is
// incremental: only the parent's child index grows, no rebuild happens. An
// unknown parent id is a programming error and is rejected loudly; the
// collection is left unchanged.
func (s *Store) AddReply(parentID, authorID, authorUsername, content string) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.comments[parentID]
	if !ok {
		return domain.Comment{}, errors.ErrUnknownParent
	}

	if s.mentionPrefix {
		content = "@" + parent.AuthorUsername + " " + content
	}

	c := s.newComment(authorID, authorUsername, content, &parentID)
	s.comments[c.ID] = c
	s.children[parentID] = append(s.children[parentID], c.ID)
	return c, nil
}

// Get returns the comment with the given id.
func (s *Store) Get(id string) (domain.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	return c, ok
}

// Len returns the total number of comments held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.comments)
}

// Roots returns the top-level comments in insertion order.
func (s *Store) Roots() []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.roots)
}

// Replies returns the full child list of a node in insertion order,
// regardless of disclosure state.
func (s *Store) Replies(id string) []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.children[id])
}

// VisibleReplies returns the disclosed child list of a node: the first
// DisclosureLimit replies until RevealAll, then all of them.
func (s *Store) VisibleReplies(id string) []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.children[id]
	if _, ok := s.revealed[id]; !ok && len(ids) > s.limit {
		ids = ids[:s.limit]
	}
	return s.resolve(ids)
}

// HiddenReplyCount returns how many replies of a node are currently
// undisclosed, for a "N more" indicator.
func (s *Store) HiddenReplyCount(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.revealed[id]; ok {
		return 0
	}
	if n := len(s.children[id]) - s.limit; n > 0 {
		return n
	}
	return 0
}

// RevealAll discloses every reply of a node.
func (s *Store) RevealAll(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revealed[id] = struct{}{}
}

// Node is one element of a built tree view.
type Node struct {
	Comment  domain.Comment
	Children []*Node
}

// Forest builds the full reply tree, roots in insertion order, children in
// insertion order, nesting unbounded.
func (s *Store) Forest() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.build(s.roots)
}

// Flatten returns all comments in pre-order: each root followed by its
// subtree, siblings in insertion order. Flattening a built forest reproduces
// the flat collection.
func (s *Store) Flatten() []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Comment, 0, len(s.comments))
	var walk func(ids []string)
	walk = func(ids []string) {
		for _, id := range ids {
			out = append(out, s.comments[id])
			walk(s.children[id])
		}
	}
	walk(s.roots)
	return out
}

func (s *Store) build(ids []string) []*Node {
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, &Node{
			Comment:  s.comments[id],
			Children: s.build(s.children[id]),
		})
	}
	return nodes
}

func (s *Store) resolve(ids []string) []domain.Comment {
	out := make([]domain.Comment, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.comments[id])
	}
	return out
}

func (s *Store) newComment(authorID, authorUsername, content string, parentID *string) domain.Comment {
	return domain.Comment{
		ID:             uuid.NewString(),
		PostID:         s.postID,
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		Content:        content,
		ParentID:       parentID,
		CreatedAt:      s.now(),
	}
}
