package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

// memStore backs the listing repository and the booking store with maps.
type memStore struct {
	mu       sync.Mutex
	users    map[string]bool
	listings map[int64]domain.Listing
	bookings map[domain.Booking]bool
	nextID   int64
	finds    int
}

func newMemStore(users ...string) *memStore {
	s := &memStore{
		users:    make(map[string]bool),
		listings: make(map[int64]domain.Listing),
		bookings: make(map[domain.Booking]bool),
		nextID:   1,
	}
	for _, u := range users {
		s.users[u] = true
	}
	return s
}

func (s *memStore) addListing(l domain.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[l.ID] = l
	if l.ID >= s.nextID {
		s.nextID = l.ID + 1
	}
}

func (s *memStore) Create(_ context.Context, l *domain.Listing) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := *l
	out.ID = s.nextID
	s.nextID++
	s.listings[out.ID] = out
	return &out, nil
}

func (s *memStore) FindByID(_ context.Context, id int64) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	l, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &l, nil
}

func (s *memStore) FindAll(_ context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Listing{}
	for _, l := range s.listings {
		if f.Title == nil || strings.Contains(strings.ToLower(l.Title), strings.ToLower(*f.Title)) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *memStore) FindByOwner(_ context.Context, username string) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, l := range s.listings {
		if l.OwnerUsername == username {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	l = patch.Apply(l)
	s.listings[id] = l
	return &l, nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(s.listings, id)
	for b := range s.bookings {
		if b.ListingID == id {
			delete(s.bookings, b)
		}
	}
	return nil
}

func (s *memStore) CountByPhotoURL(_ context.Context, url string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.listings {
		if l.PhotoURL != nil && *l.PhotoURL == url {
			n++
		}
	}
	return n, nil
}

// WithinTx runs fn directly; memStore doubles as the tx.
func (s *memStore) WithinTx(_ context.Context, fn func(tx ports.BookingTx) error) error {
	return fn(s)
}

func (s *memStore) UserExists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[username], nil
}

func (s *memStore) BookingExists(_ context.Context, username string, listingID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[domain.Booking{Username: username, ListingID: listingID}], nil
}

func (s *memStore) Insert(_ context.Context, b domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bookings[b] {
		return nil, domain.ErrAlreadyBooked
	}
	s.bookings[b] = true
	return &b, nil
}

func (s *memStore) DeleteBooking(username string, listingID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := domain.Booking{Username: username, ListingID: listingID}
	if !s.bookings[b] {
		return false
	}
	delete(s.bookings, b)
	return true
}

// bookingStore adapts memStore's Delete name clash with the listing repository.
type bookingStore struct{ *memStore }

func (b bookingStore) Delete(_ context.Context, username string, listingID int64) (bool, error) {
	return b.DeleteBooking(username, listingID), nil
}

type memBlobs struct {
	mu      sync.Mutex
	objects map[string]domain.Photo
	next    int
}

func newMemBlobs() *memBlobs { return &memBlobs{objects: make(map[string]domain.Photo)} }

func (b *memBlobs) Put(_ context.Context, p domain.Photo) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := fmt.Sprintf("p%d", b.next)
	b.objects[id] = p
	return "http://test/photos/" + id, nil
}

func (b *memBlobs) Delete(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, strings.TrimPrefix(url, "http://test/photos/"))
	return nil
}

func (b *memBlobs) Open(_ context.Context, id string) (*domain.StoredPhoto, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.objects[id]
	if !ok {
		return nil, domain.ErrPhotoNotFound
	}
	return &domain.StoredPhoto{ContentType: p.ContentType, Size: int64(len(p.Data)), Body: io.NopCloser(bytes.NewReader(p.Data))}, nil
}

type nopReleaser struct{}

func (nopReleaser) Release(string) {}

type stubAuth struct{}

func (stubAuth) Register(context.Context, ports.RegisterInput) (string, error) {
	return "", errors.New("not used")
}

func (stubAuth) Login(context.Context, string, string) (string, error) {
	return "", domain.ErrInvalidCredentials
}

type stubMessages struct{}

func (stubMessages) Send(_ context.Context, sender, recipient, body string) (*domain.Message, error) {
	return &domain.Message{ID: "m1", Sender: sender, Recipient: recipient, Body: body}, nil
}

func (stubMessages) Get(context.Context, string, string) (*domain.Message, error) {
	return nil, domain.ErrMessageNotFound
}

func (stubMessages) Inbox(context.Context, string) ([]domain.Message, error) {
	return []domain.Message{}, nil
}

func (stubMessages) Sent(context.Context, string) ([]domain.Message, error) {
	return []domain.Message{}, nil
}

type stubUsers struct{}

func (stubUsers) List(context.Context) ([]domain.User, error) { return []domain.User{}, nil }

func (stubUsers) Get(_ context.Context, username string) (*domain.UserDetail, error) {
	return nil, domain.ErrUserNotFound
}

func (stubUsers) Update(_ context.Context, username string, _ domain.UserPatch) (*domain.User, error) {
	return &domain.User{Username: username}, nil
}

func (stubUsers) Delete(context.Context, string) error { return nil }
