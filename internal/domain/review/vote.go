package review

import "time"

// Vote 评价的有用/无用投票
// 同一用户对同一评价最多一条（数据库唯一索引保证）
type Vote struct {
	ID        uint
	ReviewID  uint
	UserID    uint
	IsUpvote  bool
	CreatedAt time.Time
}

// VoteState (review, user) 上的投票状态
type VoteState int

const (
	NoVote VoteState = iota
	Upvoted
	Downvoted
)

// VoteAction 一次投票对应的唯一一次写操作
type VoteAction int

const (
	VoteInsert VoteAction = iota // 无 → 有
	VoteDelete                   // 同方向再投一次：取消
	VoteFlip                     // 反方向：更新原记录的方向
)

func (a VoteAction) String() string {
	switch a {
	case VoteInsert:
		return "insert"
	case VoteDelete:
		return "delete"
	case VoteFlip:
		return "flip"
	default:
		return "unknown"
	}
}

// StateOf 由现有投票记录推出状态，nil表示未投票
func StateOf(v *Vote) VoteState {
	switch {
	case v == nil:
		return NoVote
	case v.IsUpvote:
		return Upvoted
	default:
		return Downvoted
	}
}

// Transition 投票状态机
//
//	NoVote    --cast(v)-->  Voted(v)    insert
//	Voted(v)  --cast(v)-->  NoVote      delete
//	Voted(v)  --cast(!v)--> Voted(!v)   flip
func Transition(existing *Vote, isUpvote bool) (VoteAction, VoteState) {
	target := Downvoted
	if isUpvote {
		target = Upvoted
	}

	switch current := StateOf(existing); {
	case current == NoVote:
		return VoteInsert, target
	case current == target:
		return VoteDelete, NoVote
	default:
		return VoteFlip, target
	}
}

// UserVote 状态 → 接口返回的user_vote（null/true/false）
func (s VoteState) UserVote() *bool {
	switch s {
	case Upvoted:
		v := true
		return &v
	case Downvoted:
		v := false
		return &v
	default:
		return nil
	}
}

// Tally 单条评价的投票统计
type Tally struct {
	Upvotes   int64
	Downvotes int64
}

// Score 有用票减无用票
func (t Tally) Score() int64 {
	return t.Upvotes - t.Downvotes
}

// VoteResult 投票后的统计与当前用户状态
type VoteResult struct {
	Tally
	UserVote *bool
	Action   VoteAction
}
