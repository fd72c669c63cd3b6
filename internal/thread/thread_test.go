package thread

import (
	"fmt"
	"testing"
	"time"

	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/pkg/errors"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func flatFixture() []domain.Comment {
	now := time.Now()
	return []domain.Comment{
		{ID: "c1", PostID: "p1", AuthorID: "u1", AuthorUsername: "alice", Content: "first", CreatedAt: now},
		{ID: "c2", PostID: "p1", AuthorID: "u2", AuthorUsername: "bob", Content: "second", CreatedAt: now},
		{ID: "c3", PostID: "p1", AuthorID: "u3", AuthorUsername: "carol", Content: "reply to first", ParentID: ptr("c1"), CreatedAt: now},
		{ID: "c4", PostID: "p1", AuthorID: "u1", AuthorUsername: "alice", Content: "nested reply", ParentID: ptr("c3"), CreatedAt: now},
		{ID: "c5", PostID: "p1", AuthorID: "u2", AuthorUsername: "bob", Content: "another reply to first", ParentID: ptr("c1"), CreatedAt: now},
	}
}

func newLoadedStore(t *testing.T, opts Opts) *Store {
	t.Helper()
	s := NewStore(opts)
	require.NoError(t, s.Load(flatFixture()))
	return s
}

func TestLoadGroupsByParent(t *testing.T) {
	s := newLoadedStore(t, Opts{PostID: "p1"})

	roots := s.Roots()
	require.Len(t, roots, 2)
	require.Equal(t, "c1", roots[0].ID)
	require.Equal(t, "c2", roots[1].ID)

	replies := s.Replies("c1")
	require.Len(t, replies, 2)
	require.Equal(t, "c3", replies[0].ID)
	require.Equal(t, "c5", replies[1].ID)

	require.Len(t, s.Replies("c3"), 1)
	require.Empty(t, s.Replies("c4"))
}

func TestLoadRejectsDanglingParent(t *testing.T) {
	s := NewStore(Opts{PostID: "p1"})
	err := s.Load([]domain.Comment{
		{ID: "c1", PostID: "p1", AuthorUsername: "alice", Content: "hello", ParentID: ptr("missing")},
	})
	require.ErrorIs(t, err, errors.ErrUnknownParent)
}

func TestFlattenRoundTrip(t *testing.T) {
	s := newLoadedStore(t, Opts{PostID: "p1"})

	flat := s.Flatten()
	require.Len(t, flat, 5)

	// Same set of (id, parent) pairs as the input, regardless of order.
	got := make(map[string]string, len(flat))
	for _, c := range flat {
		parent := ""
		if c.ParentID != nil {
			parent = *c.ParentID
		}
		got[c.ID] = parent
	}
	require.Equal(t, map[string]string{
		"c1": "", "c2": "", "c3": "c1", "c4": "c3", "c5": "c1",
	}, got)

	// Pre-order: every parent precedes its children, siblings keep
	// insertion order.
	pos := make(map[string]int, len(flat))
	for i, c := range flat {
		pos[c.ID] = i
	}
	require.Less(t, pos["c1"], pos["c3"])
	require.Less(t, pos["c3"], pos["c4"])
	require.Less(t, pos["c3"], pos["c5"])
	require.Less(t, pos["c4"], pos["c5"])
}

func TestForestMirrorsFlatCollection(t *testing.T) {
	s := newLoadedStore(t, Opts{PostID: "p1"})

	forest := s.Forest()
	require.Len(t, forest, 2)
	require.Equal(t, "c1", forest[0].Comment.ID)
	require.Len(t, forest[0].Children, 2)
	require.Equal(t, "c3", forest[0].Children[0].Comment.ID)
	require.Len(t, forest[0].Children[0].Children, 1)
	require.Equal(t, "c4", forest[0].Children[0].Children[0].Comment.ID)
	require.Empty(t, forest[1].Children)
}

func TestAddReplyMentionPrefix(t *testing.T) {
	s := newLoadedStore(t, Opts{PostID: "p1", MentionPrefix: true})

	reply, err := s.AddReply("c1", "u9", "dave", "nice")
	require.NoError(t, err)
	require.Equal(t, "@alice nice", reply.Content)
	require.Equal(t, "c1", *reply.ParentID)

	stored, ok := s.Get(reply.ID)
	require.True(t, ok)
	require.Equal(t, "@alice nice", stored.Content)
}

func TestAddReplyWithoutMentionPrefix(t *testing.T) {
	s := newLoadedStore(t, Opts{PostID: "p1"})

	reply, err := s.AddReply("c1", "u9", "dave", "nice")
	require.NoError(t, err)
	require.Equal(t, "nice", reply.Content)
}

func TestAddReplyUnknownParentFailsLoudly(t *testing.T) {
	s := newLoadedStore(t, Opts{PostID: "p1"})
	before := s.Len()

	_, err := s.AddReply("nonexistent", "u9", "dave", "hello")
	require.ErrorIs(t, err, errors.ErrUnknownParent)
	require.Equal(t, before, s.Len())
}

func TestAddReplyIsIncremental(t *testing.T) {
	s := newLoadedStore(t, Opts{PostID: "p1"})

	reply, err := s.AddReply("c2", "u9", "dave", "late reply")
	require.NoError(t, err)

	// The new node is reachable without any rebuild, appended after its
	// siblings.
	replies := s.Replies("c2")
	require.Len(t, replies, 1)
	require.Equal(t, reply.ID, replies[0].ID)

	forest := s.Forest()
	require.Equal(t, reply.ID, forest[1].Children[0].Comment.ID)
}

func TestAddCommentAppendsRoot(t *testing.T) {
	s := newLoadedStore(t, Opts{PostID: "p1"})

	c := s.AddComment("u9", "dave", "a new thread")
	require.Nil(t, c.ParentID)
	require.Equal(t, "p1", c.PostID)

	roots := s.Roots()
	require.Equal(t, c.ID, roots[len(roots)-1].ID)
}

func TestDisclosureDefaultLimit(t *testing.T) {
	s := NewStore(Opts{PostID: "p1"})
	require.NoError(t, s.Load(nil))

	parent := s.AddComment("u1", "alice", "root")
	for i := 0; i < 7; i++ {
		_, err := s.AddReply(parent.ID, "u2", "bob", fmt.Sprintf("reply %d", i))
		require.NoError(t, err)
	}

	require.Len(t, s.VisibleReplies(parent.ID), 3)
	require.Equal(t, 4, s.HiddenReplyCount(parent.ID))

	s.RevealAll(parent.ID)
	require.Len(t, s.VisibleReplies(parent.ID), 7)
	require.Equal(t, 0, s.HiddenReplyCount(parent.ID))
}

func TestDisclosureUnderLimitShowsEverything(t *testing.T) {
	s := newLoadedStore(t, Opts{PostID: "p1"})

	require.Len(t, s.VisibleReplies("c1"), 2)
	require.Equal(t, 0, s.HiddenReplyCount("c1"))
}

func TestDisclosureCustomLimit(t *testing.T) {
	s := NewStore(Opts{PostID: "p1", DisclosureLimit: 1})
	require.NoError(t, s.Load(flatFixture()))

	require.Len(t, s.VisibleReplies("c1"), 1)
	require.Equal(t, 1, s.HiddenReplyCount("c1"))
}

func TestDeepNesting(t *testing.T) {
	s := NewStore(Opts{PostID: "p1"})
	require.NoError(t, s.Load(nil))

	parent := s.AddComment("u1", "alice", "level 0")
	id := parent.ID
	for i := 1; i <= 50; i++ {
		reply, err := s.AddReply(id, "u2", "bob", fmt.Sprintf("level %d", i))
		require.NoError(t, err)
		id = reply.ID
	}

	require.Equal(t, 51, s.Len())

	depth := 0
	node := s.Forest()[0]
	for len(node.Children) > 0 {
		node = node.Children[0]
		depth++
	}
	require.Equal(t, 50, depth)
}
