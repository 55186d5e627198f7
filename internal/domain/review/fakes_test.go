package review

import (
	"context"
	"sync"
)

// memoryStore 内存版评价/投票仓储，按唯一索引语义返回冲突错误
type memoryStore struct {
	mu      sync.Mutex
	reviews map[uint]*Review
	votes   map[uint]*Vote
	nextID  uint

	// afterFind 在投票读取之后、写入之前调用，用于构造竞态
	afterFind func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{reviews: map[uint]*Review{}, votes: map[uint]*Vote{}}
}

func (m *memoryStore) id() uint {
	m.nextID++
	return m.nextID
}

// ---- Repository ----

type reviewRepo struct{ *memoryStore }

func (r reviewRepo) Create(_ context.Context, review *Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID == review.UserID && existing.CourseTextbookID == review.CourseTextbookID {
			return ErrDuplicateReview
		}
	}
	review.ID = r.id()
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r reviewRepo) FindByID(_ context.Context, id uint) (*Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rv, ok := r.reviews[id]; ok {
		cp := *rv
		return &cp, nil
	}
	return nil, ErrReviewNotFound
}

func (r reviewRepo) Update(_ context.Context, review *Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[review.ID]; !ok {
		return ErrReviewNotFound
	}
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r reviewRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reviews, id)
	return nil
}

func (r reviewRepo) ListByCourseTextbook(_ context.Context, ctid uint) ([]*Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Review
	for _, rv := range r.reviews {
		if rv.CourseTextbookID == ctid {
			cp := *rv
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- VoteRepository ----

type voteRepo struct{ *memoryStore }

func (v voteRepo) Find(_ context.Context, reviewID, userID uint) (*Vote, error) {
	v.mu.Lock()
	var found *Vote
	for _, vote := range v.votes {
		if vote.ReviewID == reviewID && vote.UserID == userID {
			cp := *vote
			found = &cp
		}
	}
	hook := v.afterFind
	v.mu.Unlock()

	if hook != nil {
		hook()
	}
	return found, nil
}

func (v voteRepo) Create(_ context.Context, vote *Vote) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, existing := range v.votes {
		if existing.ReviewID == vote.ReviewID && existing.UserID == vote.UserID {
			return ErrDuplicateVote
		}
	}
	vote.ID = v.id()
	cp := *vote
	v.votes[vote.ID] = &cp
	return nil
}

func (v voteRepo) Delete(_ context.Context, id uint) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.votes, id)
	return nil
}

func (v voteRepo) UpdateDirection(_ context.Context, id uint, isUpvote bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if vote, ok := v.votes[id]; ok {
		vote.IsUpvote = isUpvote
	}
	return nil
}

func (v voteRepo) DeleteByReview(_ context.Context, reviewID uint) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, vote := range v.votes {
		if vote.ReviewID == reviewID {
			delete(v.votes, id)
		}
	}
	return nil
}

func (v voteRepo) Count(_ context.Context, reviewID uint) (Tally, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var t Tally
	for _, vote := range v.votes {
		if vote.ReviewID != reviewID {
			continue
		}
		if vote.IsUpvote {
			t.Upvotes++
		} else {
			t.Downvotes++
		}
	}
	return t, nil
}

func (v voteRepo) ListByReviews(_ context.Context, ids []uint) ([]*Vote, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	want := map[uint]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*Vote
	for _, vote := range v.votes {
		if want[vote.ReviewID] {
			cp := *vote
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (v voteRepo) rows(reviewID uint) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, vote := range v.votes {
		if vote.ReviewID == reviewID {
			n++
		}
	}
	return n
}

// ---- Transactor ----

type directTx struct{}

func (directTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (Service, *memoryStore) {
	store := newMemoryStore()
	return NewService(reviewRepo{store}, voteRepo{store}, directTx{}), store
}
