package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	deleted   []string
	createErr error
	// onDelete mirrors the storage cascade into other stubs.
	onDelete func(username string)
}

func newStubUserRepo(usernames ...string) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range usernames {
		r.users[u] = &domain.User{Username: u, FirstName: strings.ToUpper(u) + "F", Email: u + "@email.com"}
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	clone := *user
	r.users[user.Username] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Exists(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) Detail(_ context.Context, username string) (*domain.UserDetail, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &domain.UserDetail{User: *u, Listings: []domain.ListingSummary{}, Bookings: []domain.Booking{}}, nil
}

func (r *stubUserRepo) Update(_ context.Context, username string, patch domain.UserPatch) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := r.users[username]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, username)
	r.deleted = append(r.deleted, username)
	if r.onDelete != nil {
		r.onDelete(username)
	}
	return nil
}

type stubListingRepo struct {
	listings  map[int64]*domain.Listing
	nextID    int64
	createErr error
	countErr  error
	finds     int
}

func newStubListingRepo(listings ...domain.Listing) *stubListingRepo {
	r := &stubListingRepo{listings: make(map[int64]*domain.Listing), nextID: 1}
	for _, l := range listings {
		clone := l
		r.listings[l.ID] = &clone
		if l.ID >= r.nextID {
			r.nextID = l.ID + 1
		}
	}
	return r
}

func (r *stubListingRepo) Create(_ context.Context, l *domain.Listing) (*domain.Listing, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *l
	clone.ID = r.nextID
	r.nextID++
	r.listings[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubListingRepo) FindByID(_ context.Context, id int64) (*domain.Listing, error) {
	r.finds++
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	clone := *l
	return &clone, nil
}

// FindAll applies the same title predicate the real query uses.
func (r *stubListingRepo) FindAll(_ context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range r.listings {
		if f.Title != nil && !strings.Contains(strings.ToLower(l.Title), strings.ToLower(*f.Title)) {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *stubListingRepo) Update(_ context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	updated := patch.Apply(*l)
	r.listings[id] = &updated
	out := updated
	return &out, nil
}

func (r *stubListingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *stubListingRepo) FindByOwner(_ context.Context, username string) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range r.listings {
		if l.OwnerUsername == username {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubListingRepo) CountByPhotoURL(_ context.Context, url string) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	n := 0
	for _, l := range r.listings {
		if l.PhotoURL != nil && *l.PhotoURL == url {
			n++
		}
	}
	return n, nil
}

// deleteOwnedBy drops every listing of username, as the owner FK cascade does.
func (r *stubListingRepo) deleteOwnedBy(username string) {
	for id, l := range r.listings {
		if l.OwnerUsername == username {
			delete(r.listings, id)
		}
	}
}

type stubMessageRepo struct {
	messages map[string]*domain.Message
	nextID   int
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{messages: make(map[string]*domain.Message)}
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.Message) (*domain.Message, error) {
	r.nextID++
	clone := *m
	clone.ID = fmt.Sprintf("m%d", r.nextID)
	r.messages[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubMessageRepo) FindByID(_ context.Context, id string) (*domain.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMessageRepo) list(match func(*domain.Message) bool) []domain.Message {
	var out []domain.Message
	for _, m := range r.messages {
		if match(m) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out
}

func (r *stubMessageRepo) ListByRecipient(_ context.Context, username string) ([]domain.Message, error) {
	return r.list(func(m *domain.Message) bool { return m.Recipient == username }), nil
}

func (r *stubMessageRepo) ListBySender(_ context.Context, username string) ([]domain.Message, error) {
	return r.list(func(m *domain.Message) bool { return m.Sender == username }), nil
}

func (r *stubMessageRepo) DeleteByUser(_ context.Context, username string) (int64, error) {
	var n int64
	for id, m := range r.messages {
		if m.Sender == username || m.Recipient == username {
			delete(r.messages, id)
			n++
		}
	}
	return n, nil
}

type stubBlobStore struct {
	objects map[string]domain.Photo
	deleted []string
	putErr  error
	next    int
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{objects: make(map[string]domain.Photo)}
}

func (b *stubBlobStore) Put(_ context.Context, p domain.Photo) (string, error) {
	if b.putErr != nil {
		return "", b.putErr
	}
	b.next++
	url := fmt.Sprintf("https://img.test/photos/%d", b.next)
	b.objects[url] = p
	return url, nil
}

func (b *stubBlobStore) Delete(_ context.Context, url string) error {
	delete(b.objects, url)
	b.deleted = append(b.deleted, url)
	return nil
}

func (b *stubBlobStore) Open(_ context.Context, id string) (*domain.StoredPhoto, error) {
	return nil, errors.New("not implemented")
}

type stubReleaser struct {
	mu       sync.Mutex
	released []string
}

func (r *stubReleaser) Release(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, url)
}

type stubCache struct {
	items       map[int64]domain.Listing
	invalidated []int64
	getErr      error
}

func newStubCache() *stubCache {
	return &stubCache{items: make(map[int64]domain.Listing)}
}

func (c *stubCache) Get(_ context.Context, id int64) (*domain.Listing, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	l, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (c *stubCache) Set(_ context.Context, l *domain.Listing) error {
	c.items[l.ID] = *l
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, id int64) error {
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

var fixedClock = func() time.Time { return time.Date(2026, 1, 27, 15, 47, 44, 0, time.UTC) }

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
