package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

func TestUserList_SortedAndNonNil(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), newStubListingRepo(), newStubMessageRepo(), &stubReleaser{}, nil, discardLogger)

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", users)
	}

	svc = NewUserService(newStubUserRepo("u2", "u1"), newStubListingRepo(), newStubMessageRepo(), &stubReleaser{}, nil, discardLogger)
	users, _ = svc.List(context.Background())
	if len(users) != 2 || users[0].Username != "u1" {
		t.Errorf("unexpected order: %+v", users)
	}
}

func TestUserGet_NotFound(t *testing.T) {
	svc := NewUserService(newStubUserRepo("u1"), newStubListingRepo(), newStubMessageRepo(), &stubReleaser{}, nil, discardLogger)

	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserUpdate(t *testing.T) {
	repo := newStubUserRepo("u1")
	svc := NewUserService(repo, newStubListingRepo(), newStubMessageRepo(), &stubReleaser{}, nil, discardLogger)

	u, err := svc.Update(context.Background(), "u1", domain.UserPatch{Email: strPtr("new@email.com")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "new@email.com" || u.FirstName != "U1F" {
		t.Errorf("unexpected user %+v", u)
	}

	same, err := svc.Update(context.Background(), "u1", domain.UserPatch{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if same.Email != "new@email.com" {
		t.Errorf("empty patch changed user: %+v", same)
	}
}

func TestUserDelete_CleansUpMessagesAndPhotos(t *testing.T) {
	url := "https://img.test/photos/3"
	owned := *testListing()
	owned.PhotoURL = &url
	other := *testListing()
	other.ID, other.OwnerUsername = 2, "u2"

	users := newStubUserRepo("u1", "u2")
	listings := newStubListingRepo(owned, other)
	users.onDelete = listings.deleteOwnedBy
	messages := newStubMessageRepo()
	releaser := &stubReleaser{}
	cache := newStubCache()
	ctx := context.Background()

	msgs := NewMessageService(messages, users, discardLogger)
	if _, err := msgs.Send(ctx, "u1", "u2", "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := msgs.Send(ctx, "u2", "u2", "note to self"); err != nil {
		t.Fatalf("send: %v", err)
	}

	svc := NewUserService(users, listings, messages, releaser, cache, discardLogger)
	if err := svc.Delete(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(users.deleted) != 1 || users.deleted[0] != "u1" {
		t.Errorf("user not deleted: %v", users.deleted)
	}
	if len(messages.messages) != 1 {
		t.Errorf("expected only the unrelated message to remain, got %d", len(messages.messages))
	}
	if len(releaser.released) != 1 || releaser.released[0] != url {
		t.Errorf("expected owned photo released, got %v", releaser.released)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != 1 {
		t.Errorf("expected listing 1 invalidated, got %v", cache.invalidated)
	}
}

func TestUserDelete_KeepsPhotoStillUsedByAnotherOwner(t *testing.T) {
	shared := "https://img.test/photos/shared"
	mine := *testListing()
	mine.PhotoURL = &shared
	theirs := *testListing()
	theirs.ID, theirs.OwnerUsername, theirs.PhotoURL = 2, "u2", &shared

	users := newStubUserRepo("u1", "u2")
	listings := newStubListingRepo(mine, theirs)
	users.onDelete = listings.deleteOwnedBy
	releaser := &stubReleaser{}

	svc := NewUserService(users, listings, newStubMessageRepo(), releaser, nil, discardLogger)
	if err := svc.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(releaser.released) != 0 {
		t.Errorf("shared photo released: %v", releaser.released)
	}
}

func TestUserDelete_Missing(t *testing.T) {
	releaser := &stubReleaser{}
	svc := NewUserService(newStubUserRepo(), newStubListingRepo(), newStubMessageRepo(), releaser, nil, discardLogger)

	if err := svc.Delete(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(releaser.released) != 0 {
		t.Error("nothing should be released")
	}
}
