package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sakif/bulletin-board/internal/apperror"
	"github.com/sakif/bulletin-board/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeStore is an in-memory implementation of every repository interface.
// Set the *Err fields to simulate database failures.
type fakeStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*model.User
	posts    map[string]*model.Post
	comments map[string]*model.Comment
	likes    map[model.Like]bool

	createUserErr error
	getUserErr    error
	listErr       error
	toggleErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*model.User),
		posts:    make(map[string]*model.Post),
		comments: make(map[string]*model.Comment),
		likes:    make(map[model.Like]bool),
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

// stamp keeps creation times strictly increasing so ordering is stable.
func (f *fakeStore) stamp() time.Time {
	return time.Unix(1700000000, 0).Add(time.Duration(f.seq) * time.Second).UTC()
}

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	for _, existing := range f.users {
		if existing.Nickname == u.Nickname {
			return apperror.Conflict("user", u.Nickname)
		}
	}
	u.ID = f.nextID("user")
	u.CreatedAt = f.stamp()
	u.UpdatedAt = u.CreatedAt
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) GetUserByNickname(_ context.Context, nickname string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	for _, u := range f.users {
		if u.Nickname == nickname {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", nickname)
}

func (f *fakeStore) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) CreatePost(_ context.Context, p *model.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextID("post")
	p.CreatedAt = f.stamp()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	f.posts[p.ID] = &copied
	return nil
}

func (f *fakeStore) withLikes(p model.Post) model.Post {
	p.Likes = 0
	for l := range f.likes {
		if l.PostID == p.ID {
			p.Likes++
		}
	}
	return p
}

func (f *fakeStore) GetPost(_ context.Context, id string) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	out := f.withLikes(*p)
	return &out, nil
}

func (f *fakeStore) sortedPosts(keep func(*model.Post) bool) []model.Post {
	out := []model.Post{}
	for _, p := range f.posts {
		if keep(p) {
			out = append(out, f.withLikes(*p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) ListPosts(_ context.Context) ([]model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sortedPosts(func(*model.Post) bool { return true }), nil
}

func (f *fakeStore) UpdatePost(_ context.Context, id string, mutate func(*model.Post) error) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	draft := *p
	if err := mutate(&draft); err != nil {
		return nil, err
	}
	draft.UpdatedAt = time.Now().UTC()
	*p = draft
	out := f.withLikes(draft)
	return &out, nil
}

func (f *fakeStore) DeletePost(_ context.Context, id string, authorize func(*model.Post) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return apperror.NotFound("post", id)
	}
	if err := authorize(p); err != nil {
		return err
	}
	delete(f.posts, id)
	for cid, c := range f.comments {
		if c.PostID == id {
			delete(f.comments, cid)
		}
	}
	for l := range f.likes {
		if l.PostID == id {
			delete(f.likes, l)
		}
	}
	return nil
}

func (f *fakeStore) CreateComment(_ context.Context, c *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[c.PostID]; !ok {
		return apperror.NotFound("post", c.PostID)
	}
	c.ID = f.nextID("comment")
	c.CreatedAt = f.stamp()
	c.UpdatedAt = c.CreatedAt
	copied := *c
	f.comments[c.ID] = &copied
	return nil
}

func (f *fakeStore) ListComments(_ context.Context, postID string) ([]model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Comment{}
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) findComment(postID, id string) (*model.Comment, error) {
	c, ok := f.comments[id]
	if !ok || c.PostID != postID {
		return nil, apperror.NotFound("comment", id)
	}
	return c, nil
}

func (f *fakeStore) UpdateComment(_ context.Context, postID, id string, mutate func(*model.Comment) error) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, err := f.findComment(postID, id)
	if err != nil {
		return nil, err
	}
	draft := *c
	if err := mutate(&draft); err != nil {
		return nil, err
	}
	*c = draft
	out := draft
	return &out, nil
}

func (f *fakeStore) DeleteComment(_ context.Context, postID, id string, authorize func(*model.Comment) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, err := f.findComment(postID, id)
	if err != nil {
		return err
	}
	if err := authorize(c); err != nil {
		return err
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeStore) ToggleLike(_ context.Context, l model.Like) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	if _, ok := f.posts[l.PostID]; !ok {
		return false, apperror.NotFound("post", l.PostID)
	}
	if f.likes[l] {
		delete(f.likes, l)
		return false, nil
	}
	f.likes[l] = true
	return true, nil
}

func (f *fakeStore) ListLikedPosts(_ context.Context, userID string) ([]model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sortedPosts(func(p *model.Post) bool {
		return f.likes[model.Like{PostID: p.ID, UserID: userID}]
	}), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
