package textbook

import (
	"context"
	"errors"

	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

// Outcome 新增教材请求的处理结果
type Outcome int

const (
	LinkedByISBN   Outcome = iota // ISBN命中已有教材
	LinkedExisting                // (title, author, edition) 命中已有教材
	Created                       // 新建教材
)

// Result 新增/关联结果
type Result struct {
	Outcome  Outcome
	Textbook *Textbook
	Link     *CourseTextbook
}

// Service 教材领域服务
type Service interface {
	// AddToCourse 查找或创建教材，并确保与课程关联
	// 处理顺序：
	// 1. 校验草稿（ISBN、图片扩展名）
	// 2. 已有教材（先ISBN，后title+author+edition）→ 只补关联，不新建、不上传图片
	// 3. 新建教材 → 存储封面并记录key → 创建关联
	//
	// 各步骤不在同一事务内：封面存储失败、远程图片下载失败（ErrImageFetchFailed）
	// 或远程图片格式不符时，教材记录都会保留（没有封面，也没有关联），
	// 由调用方重新提交同一本书时走"已有教材"分支补齐关联
	AddToCourse(ctx context.Context, courseID uint, draft Draft) (*Result, error)

	// GetByIDs 批量查询教材
	GetByIDs(ctx context.Context, ids []uint) ([]*Textbook, error)

	// GetLink 查询课程-教材关联
	GetLink(ctx context.Context, courseTextbookID uint) (*CourseTextbook, error)
}

type service struct {
	repo    Repository
	store   ImageStore
	fetcher ImageFetcher
}

// NewService 创建教材领域服务
func NewService(repo Repository, store ImageStore, fetcher ImageFetcher) Service {
	return &service{repo: repo, store: store, fetcher: fetcher}
}

func (s *service) AddToCourse(ctx context.Context, courseID uint, draft Draft) (*Result, error) {
	// 1. 参数校验（幂等，调用方可能已经校验过）
	d, err := draft.Normalize()
	if err != nil {
		return nil, err
	}

	// 2. ISBN命中
	if d.ISBN != "" {
		existing, err := s.repo.FindByISBN(ctx, d.ISBN)
		switch {
		case err == nil:
			return s.linkExisting(ctx, courseID, existing, LinkedByISBN)
		case !errors.Is(err, ErrTextbookNotFound):
			return nil, err
		}
	}

	// 3. (title, author, edition) 命中
	tb := NewTextbook(d)
	existing, err := s.repo.FindByIdentity(ctx, tb.Title, tb.Author, tb.Edition)
	switch {
	case err == nil:
		return s.linkExisting(ctx, courseID, existing, LinkedExisting)
	case !errors.Is(err, ErrTextbookNotFound):
		return nil, err
	}

	// 4. 新建教材
	if err := s.repo.Create(ctx, tb); err != nil {
		if !errors.Is(err, ErrISBNTaken) {
			return nil, err
		}
		// 查询与插入之间ISBN被并发占用
		existing, findErr := s.repo.FindByISBN(ctx, d.ISBN)
		if findErr != nil {
			return nil, findErr
		}
		return s.linkExisting(ctx, courseID, existing, LinkedByISBN)
	}

	// 5. 封面
	if d.HasImage() {
		if err := s.attachImage(ctx, tb, d); err != nil {
			return nil, err
		}
	}

	// 6. 关联
	link, err := s.ensureLink(ctx, courseID, tb.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: Created, Textbook: tb, Link: link}, nil
}

func (s *service) GetByIDs(ctx context.Context, ids []uint) ([]*Textbook, error) {
	if len(ids) == 0 {
		return []*Textbook{}, nil
	}
	return s.repo.FindByIDs(ctx, ids)
}

func (s *service) GetLink(ctx context.Context, courseTextbookID uint) (*CourseTextbook, error) {
	return s.repo.FindLinkByID(ctx, courseTextbookID)
}

func (s *service) linkExisting(ctx context.Context, courseID uint, tb *Textbook, outcome Outcome) (*Result, error) {
	link, err := s.ensureLink(ctx, courseID, tb.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: outcome, Textbook: tb, Link: link}, nil
}

// ensureLink 先查后插；插入时唯一索引冲突说明被并发创建，重新读取即可
func (s *service) ensureLink(ctx context.Context, courseID, textbookID uint) (*CourseTextbook, error) {
	link, err := s.repo.FindLink(ctx, courseID, textbookID)
	if err != nil {
		return nil, err
	}
	if link != nil {
		return link, nil
	}

	link = &CourseTextbook{CourseID: courseID, TextbookID: textbookID}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		if !errors.Is(err, ErrLinkExists) {
			return nil, err
		}
		return s.repo.FindLink(ctx, courseID, textbookID)
	}
	return link, nil
}

// attachImage 取得图片 → 校验扩展名 → 以 {id}.{ext} 覆盖写入 → 记录key
func (s *service) attachImage(ctx context.Context, tb *Textbook, d Draft) error {
	img := d.Image
	if img == nil {
		fetched, err := s.fetcher.Fetch(ctx, d.ImageURL)
		if err != nil {
			return err
		}
		img = fetched
	}

	ext, err := img.Ext()
	if err != nil {
		return err
	}

	key := ImageKey(tb.ID, ext)
	if err := s.store.Put(ctx, key, img.ContentType, img.Data); err != nil {
		return apperrors.ErrStorageWriteFailed.WithCause(err)
	}

	if err := s.repo.UpdateImagePath(ctx, tb.ID, key); err != nil {
		return err
	}
	tb.ImagePath = &key
	return nil
}
