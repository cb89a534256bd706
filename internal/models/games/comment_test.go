package models

import (
	"testing"

	"github.com/google/uuid"
)

func makeComment(game uuid.UUID, parent *uuid.UUID, content string) Comment {
	return Comment{ID: uuid.New(), GameID: game, ParentID: parent, Content: content}
}

func TestValidateParent(t *testing.T) {
	game := uuid.New()
	top := makeComment(game, nil, "top")

	if err := ValidateParent(&top, game); err != nil {
		t.Errorf("ValidateParent(top-level, same game) = %v, want nil", err)
	}
	if err := ValidateParent(&top, uuid.New()); err == nil {
		t.Error("ValidateParent should reject a parent on a different game")
	}

	// Replies cannot themselves be reply targets; deleting a comment with
	// its direct replies must remove the whole subtree.
	reply := makeComment(game, &top.ID, "reply")
	if err := ValidateParent(&reply, game); err == nil {
		t.Error("ValidateParent should reject a non-top-level parent")
	}
}

func TestAssembleThreadCapsReplies(t *testing.T) {
	game := uuid.New()
	top := makeComment(game, nil, "top")

	var replies []Comment
	for i := 0; i < 10; i++ {
		replies = append(replies, makeComment(game, &top.ID, "reply"))
	}

	thread := AssembleThread([]Comment{top}, replies, RepliesPageSize)
	if got := len(thread.Replies[top.ID]); got != RepliesPageSize {
		t.Errorf("reply count = %d, want %d", got, RepliesPageSize)
	}
	// The first replies in input order survive the cap.
	for i := 0; i < RepliesPageSize; i++ {
		if thread.Replies[top.ID][i].ID != replies[i].ID {
			t.Errorf("reply %d out of order", i)
		}
	}
}

func TestAssembleThreadEmptyReplyLists(t *testing.T) {
	game := uuid.New()
	a := makeComment(game, nil, "a")
	b := makeComment(game, nil, "b")

	thread := AssembleThread([]Comment{a, b}, nil, RepliesPageSize)
	if len(thread.Comments) != 2 {
		t.Fatalf("comment count = %d, want 2", len(thread.Comments))
	}
	for _, c := range []Comment{a, b} {
		bucket, ok := thread.Replies[c.ID]
		if !ok {
			t.Errorf("missing reply bucket for %s", c.ID)
		}
		if len(bucket) != 0 {
			t.Errorf("expected empty reply list, got %d", len(bucket))
		}
	}
}

func TestAssembleThreadIgnoresStrayReplies(t *testing.T) {
	game := uuid.New()
	top := makeComment(game, nil, "top")
	offPage := uuid.New()

	replies := []Comment{
		makeComment(game, &top.ID, "mine"),
		makeComment(game, &offPage, "belongs to a comment on another page"),
	}

	thread := AssembleThread([]Comment{top}, replies, RepliesPageSize)
	if got := len(thread.Replies[top.ID]); got != 1 {
		t.Errorf("reply count = %d, want 1", got)
	}
	if _, ok := thread.Replies[offPage]; ok {
		t.Error("stray reply created a bucket for a comment outside the page")
	}
}
