package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/itemshare/service-sharing/internal/domain"
	bookingDomain "github.com/itemshare/service-sharing/internal/domain/booking"
	itemDomain "github.com/itemshare/service-sharing/internal/domain/item"
	userDomain "github.com/itemshare/service-sharing/internal/domain/user"
	"github.com/itemshare/service-sharing/internal/kafka"
)

// In-memory repository fakes backing the service tests. They mirror the
// SQL repositories' contracts: assigned ids, not-found errors, descending
// start order and offset pagination for booking listings.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*userDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*userDomain.User)}
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email() == u.Email() {
			return domain.NewConflictError("user with email " + u.Email() + " already exists")
		}
	}
	u.SetID(r.nextID)
	r.nextID++
	r.users[u.ID()] = userDomain.Reconstruct(u.ID(), u.Name(), u.Email())
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID()]; !ok {
		return domain.NewNotFoundError("user", u.ID())
	}
	r.users[u.ID()] = userDomain.Reconstruct(u.ID(), u.Name(), u.Email())
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}
	return userDomain.Reconstruct(u.ID(), u.Name(), u.Email()), nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*userDomain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, userDomain.Reconstruct(u.ID(), u.Name(), u.Email()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakeItemRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*itemDomain.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{nextID: 1, items: make(map[int64]*itemDomain.Item)}
}

func copyItem(i *itemDomain.Item) *itemDomain.Item {
	return itemDomain.Reconstruct(i.ID(), i.OwnerID(), i.Name(), i.Description(), i.Available())
}

func (r *fakeItemRepo) Save(_ context.Context, i *itemDomain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i.SetID(r.nextID)
	r.nextID++
	r.items[i.ID()] = copyItem(i)
	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, i *itemDomain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[i.ID()]; !ok {
		return domain.NewNotFoundError("item", i.ID())
	}
	r.items[i.ID()] = copyItem(i)
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id int64) (*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("item", id)
	}
	return copyItem(i), nil
}

func (r *fakeItemRepo) FindByOwner(_ context.Context, ownerID int64, page domain.PageRequest) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*itemDomain.Item
	for _, i := range r.items {
		if i.OwnerID() == ownerID {
			matched = append(matched, copyItem(i))
		}
	}
	sort.Slice(matched, func(a, b int) bool { return matched[a].ID() < matched[b].ID() })
	return paginateItems(matched, page), nil
}

func (r *fakeItemRepo) Search(_ context.Context, text string, page domain.PageRequest) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*itemDomain.Item
	for _, i := range r.items {
		if i.Available() && (containsFold(i.Name(), text) || containsFold(i.Description(), text)) {
			matched = append(matched, copyItem(i))
		}
	}
	sort.Slice(matched, func(a, b int) bool { return matched[a].ID() < matched[b].ID() })
	return paginateItems(matched, page), nil
}

func paginateItems(items []*itemDomain.Item, page domain.PageRequest) []*itemDomain.Item {
	start := page.Offset()
	if start >= len(items) {
		return []*itemDomain.Item{}
	}
	end := start + page.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int64
	comments []*itemDomain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (r *fakeCommentRepo) Save(_ context.Context, c *itemDomain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.SetID(r.nextID)
	r.nextID++
	r.comments = append(r.comments, itemDomain.ReconstructComment(c.ID(), c.ItemID(), c.Author(), c.Text(), c.Created()))
	return nil
}

func (r *fakeCommentRepo) FindByItem(_ context.Context, itemID int64) ([]*itemDomain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*itemDomain.Comment{}
	for _, c := range r.comments {
		if c.ItemID() == itemID {
			out = append(out, itemDomain.ReconstructComment(c.ID(), c.ItemID(), c.Author(), c.Text(), c.Created()))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created().Before(out[j].Created()) })
	return out, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1, bookings: make(map[int64]*bookingDomain.Booking)}
}

func copyBooking(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(b.ID(), b.Start(), b.End(), b.Status(), b.Item(), b.Booker())
}

func (r *fakeBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.SetID(r.nextID)
	r.nextID++
	r.bookings[b.ID()] = copyBooking(b)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id)
	}
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) FindByBooker(_ context.Context, bookerID int64, cond bookingDomain.RangeCondition, page domain.PageRequest) ([]*bookingDomain.Booking, error) {
	return r.findPage(func(b *bookingDomain.Booking) bool { return b.Booker().ID() == bookerID }, cond, page)
}

func (r *fakeBookingRepo) FindByOwner(_ context.Context, ownerID int64, cond bookingDomain.RangeCondition, page domain.PageRequest) ([]*bookingDomain.Booking, error) {
	return r.findPage(func(b *bookingDomain.Booking) bool { return b.OwnerID() == ownerID }, cond, page)
}

func (r *fakeBookingRepo) findPage(belongs func(*bookingDomain.Booking) bool, cond bookingDomain.RangeCondition, page domain.PageRequest) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*bookingDomain.Booking
	for _, b := range r.bookings {
		if belongs(b) && cond.Matches(b) {
			matched = append(matched, copyBooking(b))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Start().After(matched[j].Start()) })
	start := page.Offset()
	if start >= len(matched) {
		return []*bookingDomain.Booking{}, nil
	}
	end := start + page.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, from, to bookingDomain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status() != from {
		return domain.NewConflictError("booking status changed concurrently")
	}
	r.bookings[id] = bookingDomain.Reconstruct(b.ID(), b.Start(), b.End(), to, b.Item(), b.Booker())
	return nil
}

func (r *fakeBookingRepo) FindActiveByItem(_ context.Context, itemID int64) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.Item().ID() != itemID {
			continue
		}
		if b.Status() == bookingDomain.StatusRejected || b.Status() == bookingDomain.StatusCanceled {
			continue
		}
		matched = append(matched, copyBooking(b))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Start().Before(matched[j].Start()) })
	return matched, nil
}

func (r *fakeBookingRepo) HasFinishedBooking(_ context.Context, itemID, bookerID int64, before time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.Item().ID() == itemID && b.Booker().ID() == bookerID &&
			b.Status() == bookingDomain.StatusApproved && b.End().Before(before) {
			return true, nil
		}
	}
	return false, nil
}

type publishedEvent struct {
	topic string
	key   string
	event kafka.CloudEvent
}

type fakePublisher struct {
	mu        sync.Mutex
	published []publishedEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

func (p *fakePublisher) events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.published))
	copy(out, p.published)
	return out
}
