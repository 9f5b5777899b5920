package service

import (
	"context"
	"strings"
	"testing"

	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_PostComment(t *testing.T) {
	f := setupDealServiceTest(t)
	ctx := context.Background()
	deal := f.postDeal(t, nil)

	comment, err := f.comments.PostComment(ctx, deal.ID, f.user.ID, "  Thanks :)  ")
	require.NoError(t, err)

	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, deal.ID, comment.DealID)
	assert.Equal(t, f.user.ID, comment.PostedBy)
	assert.Equal(t, "Thanks :)", comment.Message)
}

func TestCommentService_PostComment_InvalidMessage(t *testing.T) {
	f := setupDealServiceTest(t)
	ctx := context.Background()
	deal := f.postDeal(t, nil)

	tests := []struct {
		name    string
		message string
	}{
		{name: "empty", message: ""},
		{name: "only whitespace", message: "   "},
		{name: "too long", message: strings.Repeat("x", model.MaxCommentLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.comments.PostComment(ctx, deal.ID, f.user.ID, tt.message)

			assert.ErrorIs(t, err, ErrInvalidMessage)
		})
	}
}

func TestCommentService_PostComment_UnknownDeal(t *testing.T) {
	f := setupDealServiceTest(t)

	_, err := f.comments.PostComment(context.Background(), "no-such-deal", f.user.ID, "hi")
	assert.ErrorIs(t, err, ErrDealNotFound)
}

func TestCommentService_PostComment_RemovedDeal(t *testing.T) {
	f := setupDealServiceTest(t)
	ctx := context.Background()
	deal := f.postDeal(t, nil)

	_, err := f.deals.SetStatus(ctx, deal.ID, model.DealStatusRemoved, model.RoleModerator)
	require.NoError(t, err)

	_, err = f.comments.PostComment(ctx, deal.ID, f.user.ID, "too late")
	assert.ErrorIs(t, err, ErrDealNotFound)
}

func TestCommentService_PostComment_UnknownUser(t *testing.T) {
	f := setupDealServiceTest(t)
	deal := f.postDeal(t, nil)

	_, err := f.comments.PostComment(context.Background(), deal.ID, "no-such-user", "hi")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCommentService_ListComments(t *testing.T) {
	f := setupDealServiceTest(t)
	ctx := context.Background()
	deal := f.postDeal(t, nil)
	other := f.postDeal(t, nil)
	commenter := f.newUser(t, "fb-uid-commenter")

	for _, msg := range []string{"first", "second", "third"} {
		_, err := f.comments.PostComment(ctx, deal.ID, commenter.ID, msg)
		require.NoError(t, err)
	}
	_, err := f.comments.PostComment(ctx, other.ID, f.user.ID, "elsewhere")
	require.NoError(t, err)

	comments, err := f.comments.ListComments(ctx, deal.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	// Oldest first.
	assert.Equal(t, "first", comments[0].Message)
	assert.Equal(t, "second", comments[1].Message)
	assert.Equal(t, "third", comments[2].Message)
}

func TestCommentService_ListComments_UnknownDeal(t *testing.T) {
	f := setupDealServiceTest(t)

	_, err := f.comments.ListComments(context.Background(), "no-such-deal")
	assert.ErrorIs(t, err, ErrDealNotFound)
}

func TestCommentService_Counts(t *testing.T) {
	f := setupDealServiceTest(t)
	ctx := context.Background()
	deal := f.postDeal(t, nil)
	commenter := f.newUser(t, "fb-uid-commenter")

	_, err := f.comments.PostComment(ctx, deal.ID, f.user.ID, "one")
	require.NoError(t, err)
	_, err = f.comments.PostComment(ctx, deal.ID, commenter.ID, "two")
	require.NoError(t, err)

	byDeal, err := f.comments.CountByDeal(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byDeal)

	byUser, err := f.comments.CountByPostedBy(ctx, commenter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byUser)
}
